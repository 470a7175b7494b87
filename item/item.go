// contains data structures that describe where items live and how they interact
package item

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	// ErrInvalidID an item id that is empty or contains characters other than [A-Za-z0-9_]
	ErrInvalidID = errors.New("invalid item id")
)

// ID unique identifier of an item within a flow
type ID string

// NewID validates the given string and returns it as an ID
func NewID(s string) (ID, error) {
	if !isValidID(s) {
		return "", errors.Wrapf(ErrInvalidID, "%q", s)
	}
	return ID(s), nil
}

// MustID is NewID for literals, it panics on invalid ids
func MustID(s string) ID {
	id, err := NewID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string {
	return string(id)
}

func (id ID) MarshalText() ([]byte, error) {
	if !isValidID(string(id)) {
		return nil, errors.Wrapf(ErrInvalidID, "%q", string(id))
	}
	return []byte(id), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	v, err := NewID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// isValidID first character a letter or underscore, the rest letters, digits or underscores
func isValidID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
