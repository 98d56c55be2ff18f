package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/BrentRieck/Pharm-Tracking/pkg/errors"
)

type lotPayload struct {
	LotNumber string `json:"lot_number" validate:"max=64"`
	Qty       int    `json:"qty" validate:"gte=0"`
	ExpDate   string `json:"exp_date" validate:"required"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"lot_number":"A1","qty":10,"exp_date":"2027-01-01"}`))
	var dest lotPayload
	if err := DecodeJSONBody(req, &dest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Qty != 10 || dest.LotNumber != "A1" {
		t.Fatalf("unexpected payload %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"exp_date":"2027-01-01","bogus":true}`))
	var dest lotPayload
	err := DecodeJSONBody(req, &dest)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"qty":-1,"exp_date":""}`))
	var dest lotPayload
	err := DecodeJSONBody(req, &dest)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if _, ok := details["exp_date"]; !ok {
		t.Fatalf("expected exp_date in details: %v", details)
	}
	if _, ok := details["qty"]; !ok {
		t.Fatalf("expected qty in details: %v", details)
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest("GET", "/?days=45", nil)
	got, err := ParseQueryInt(req, "days", 60, 1, 365)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 45 {
		t.Fatalf("expected 45 got %d", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(req, "days", 60, 1, 365)
	if err != nil || got != 60 {
		t.Fatalf("expected default 60 got %d err %v", got, err)
	}

	req = httptest.NewRequest("GET", "/?days=9000", nil)
	if _, err := ParseQueryInt(req, "days", 60, 1, 365); err == nil {
		t.Fatal("expected out of range error")
	}

	req = httptest.NewRequest("GET", "/?days=abc", nil)
	if _, err := ParseQueryInt(req, "days", 60, 1, 365); err == nil {
		t.Fatal("expected numeric error")
	}
}
