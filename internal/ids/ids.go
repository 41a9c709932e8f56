// Package ids generates time-sortable, globally unique identifiers for
// internal records (realms, user identities) using UUIDv7: the leading
// 48 bits are a Unix millisecond
// timestamp, making IDs sort in creation order without a separate sequence
// or a database round trip.
package ids

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidID is returned when parsing a string that is not a valid ID.
var ErrInvalidID = errors.New("ids: invalid identifier")

// ID is a time-sortable 128-bit identifier.
type ID uuid.UUID

// Nil is the zero value of ID.
var Nil ID

// New generates a fresh, time-ordered ID.
func New() ID {
	return ID(uuid.Must(uuid.NewV7()))
}

// Parse decodes s into an ID, returning ErrInvalidID on malformed input.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, errors.Join(ErrInvalidID, err)
	}
	return ID(u), nil
}

// String renders the canonical hyphenated hex form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero value.
func (id ID) IsNil() bool {
	return id == Nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return errors.Join(ErrInvalidID, err)
	}
	*id = ID(u)
	return nil
}
