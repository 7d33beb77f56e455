package domain

import "strings"

// Principal is an already-authenticated caller identity supplied by the
// authentication layer. The core compares it to aggregate owners and never
// inspects tokens.
type Principal struct {
	id string
}

// NewPrincipal wraps a verified identifier.
func NewPrincipal(id string) (Principal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Principal{}, ErrEmptyPrincipal
	}
	return Principal{id: id}, nil
}

// ID returns the opaque identifier.
func (p Principal) ID() string { return p.id }

// Is reports whether the principal is the given identity.
func (p Principal) Is(id string) bool {
	return p.id != "" && p.id == id
}
