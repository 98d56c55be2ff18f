package enums

import "fmt"

// LotStatus captures the stocking lifecycle of a medication lot. It is a
// separate dimension from the soft-delete flag: a discarded or used-up lot
// can remain active for audit history.
type LotStatus string

const (
	LotStatusActive    LotStatus = "active"
	LotStatusDiscarded LotStatus = "discarded"
	LotStatusUsedUp    LotStatus = "used_up"
)

var validLotStatuses = []LotStatus{
	LotStatusActive,
	LotStatusDiscarded,
	LotStatusUsedUp,
}

// String implements fmt.Stringer.
func (s LotStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known LotStatus.
func (s LotStatus) IsValid() bool {
	for _, candidate := range validLotStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLotStatus converts raw input into a LotStatus.
func ParseLotStatus(value string) (LotStatus, error) {
	for _, candidate := range validLotStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lot status %q", value)
}
