package model

import (
	"strings"

	"github.com/google/uuid"
)

// Identity names one control instance on the hub. It is an opaque,
// comparable token suitable for use as a map key; two identities are equal
// when their normalized tokens are equal.
//
// The hub issues a UUID per configured object and may extend it with a
// slash-separated sub-object suffix (e.g. "0f86…/AI1"), so Identity accepts
// arbitrary tokens; IsCanonical reports whether the leading component is a
// well-formed UUID.
//
// An identity is created once per server-side entity on first sight and is
// never recreated for the same entity across updates. That continuity is
// what lets the tree synchronizer update controls in place and keep their
// state listeners valid.
type Identity string

// NewIdentity normalizes a raw hub token into an Identity.
// Tokens are case-insensitive on the hub; normalization lower-cases them.
func NewIdentity(raw string) Identity {
	return Identity(strings.ToLower(strings.TrimSpace(raw)))
}

// String returns the normalized token.
func (i Identity) String() string {
	return string(i)
}

// IsZero reports whether the identity is empty.
func (i Identity) IsZero() bool {
	return i == ""
}

// IsCanonical reports whether the identity's leading component parses as a
// UUID. Hub-issued identities are canonical; identities of synthesized or
// test objects need not be.
func (i Identity) IsCanonical() bool {
	token := string(i)
	if idx := strings.IndexByte(token, '/'); idx >= 0 {
		token = token[:idx]
	}
	_, err := uuid.Parse(token)
	return err == nil
}
