package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Snapshot is a point-in-time entity dump persisted as JSONB on audit rows.
type Snapshot map[string]any

// Value marshals the map into JSON for Postgres.
func (s Snapshot) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (s *Snapshot) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("snapshot: unsupported scan type %T", value)
	}

	result := make(Snapshot)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*s = result
	return nil
}
