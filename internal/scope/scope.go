package scope

import "github.com/google/uuid"

// Scope describes the set of offices an actor may see. It is either
// unrestricted (admins see every active office) or an explicit, possibly
// empty, list of office IDs. An empty restricted scope means every query
// built from it returns no rows; it is never an error.
type Scope struct {
	unrestricted bool
	officeIDs    []uuid.UUID
}

// Unrestricted returns the admin scope covering all active offices.
func Unrestricted() Scope {
	return Scope{unrestricted: true}
}

// ForOffices returns a scope limited to the given offices.
func ForOffices(ids []uuid.UUID) Scope {
	return Scope{officeIDs: append([]uuid.UUID(nil), ids...)}
}

// IsUnrestricted reports whether the scope covers every active office.
func (s Scope) IsUnrestricted() bool {
	return s.unrestricted
}

// IsEmpty reports whether a restricted scope contains no offices.
func (s Scope) IsEmpty() bool {
	return !s.unrestricted && len(s.officeIDs) == 0
}

// OfficeIDs returns the explicit office list. Nil for unrestricted scopes.
func (s Scope) OfficeIDs() []uuid.UUID {
	if s.unrestricted {
		return nil
	}
	return append([]uuid.UUID(nil), s.officeIDs...)
}

// Allows reports whether the scope covers the given office. Unrestricted
// scopes allow every office; active-office filtering happens in queries.
func (s Scope) Allows(officeID uuid.UUID) bool {
	if s.unrestricted {
		return true
	}
	for _, id := range s.officeIDs {
		if id == officeID {
			return true
		}
	}
	return false
}

// Narrow intersects the scope with a single requested office. The result is
// restricted to that office when allowed, empty otherwise.
func (s Scope) Narrow(officeID uuid.UUID) Scope {
	if officeID == uuid.Nil {
		return s
	}
	if s.Allows(officeID) {
		return ForOffices([]uuid.UUID{officeID})
	}
	return ForOffices(nil)
}
