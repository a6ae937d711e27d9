package domain

// Scope selects which document sources a query searches.
type Scope string

// Available scopes.
const (
	ScopeRemote Scope = "remote"
	ScopeLocal  Scope = "local"
	ScopeBoth   Scope = "both"
)

// IsValid returns true if the scope is recognised.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeRemote, ScopeLocal, ScopeBoth:
		return true
	default:
		return false
	}
}

// Includes reports whether chunks from src are searched under this scope.
func (s Scope) Includes(src DocSource) bool {
	switch s {
	case ScopeBoth:
		return true
	case ScopeRemote:
		return src == DocSourceRemote
	case ScopeLocal:
		return src == DocSourceLocal
	default:
		return false
	}
}

// String returns the string representation.
func (s Scope) String() string {
	return string(s)
}

// Description returns a human-readable description of the scope.
func (s Scope) Description() string {
	switch s {
	case ScopeRemote:
		return "remote folder"
	case ScopeLocal:
		return "local library"
	case ScopeBoth:
		return "remote folder and local library"
	default:
		return "Unknown"
	}
}

// ParseScope converts user input to a Scope. Empty input means ScopeBoth.
func ParseScope(s string) (Scope, error) {
	if s == "" {
		return ScopeBoth, nil
	}
	sc := Scope(s)
	if !sc.IsValid() {
		return "", ErrInvalidInput
	}
	return sc, nil
}

// RetrieveOptions configures a query.
type RetrieveOptions struct {
	// Scope selects the sources searched. Empty means ScopeBoth.
	Scope Scope

	// TopK caps the number of results. Zero means the configured default.
	TopK int

	// RootID selects the remote root. Empty means the configured root.
	RootID string
}
