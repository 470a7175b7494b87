package item

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// LocationType kind of place a Location describes
type LocationType string

const (
	// LocationTypeGroup a logical grouping of locations, e.g. a cloud account or region
	LocationTypeGroup LocationType = "group"
	// LocationTypeHost a server or the local machine
	LocationTypeHost LocationType = "host"
	// LocationTypePath a file, directory or object path on a host
	LocationTypePath LocationType = "path"
)

const (
	// LocalhostName name of the host location for the local machine
	LocalhostName = "localhost"
	// HostUnknownName name of a host location that cannot be determined
	HostUnknownName = "unknown"
)

// ErrInvalidLocationType location type is not one of group, host, path
var ErrInvalidLocationType = errors.New("invalid location type")

func (t LocationType) String() string {
	return string(t)
}

func (t LocationType) Valid() bool {
	switch t {
	case LocationTypeGroup, LocationTypeHost, LocationTypePath:
		return true
	default:
		return false
	}
}

func (t LocationType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, errors.Wrapf(ErrInvalidLocationType, "%q", string(t))
	}
	return []byte(t), nil
}

func (t *LocationType) UnmarshalText(text []byte) error {
	v := LocationType(text)
	if !v.Valid() {
		return errors.Wrapf(ErrInvalidLocationType, "%q", string(text))
	}
	*t = v
	return nil
}

// Location a place where (part of) an item's resource lives.
//
// Locations are compared by value, a chain of locations ordered outermost
// first describes a nested place, e.g. [host github.com, path /org/repo].
type Location struct {
	Name string       `json:"name"`
	Type LocationType `json:"type"`
}

// NewLocation constructor
func NewLocation(name string, t LocationType) Location {
	return Location{Name: name, Type: t}
}

// NewGroup returns a group location
func NewGroup(name string) Location {
	return NewLocation(name, LocationTypeGroup)
}

// NewHost returns a host location
func NewHost(name string) Location {
	return NewLocation(name, LocationTypeHost)
}

// NewPath returns a path location
func NewPath(name string) Location {
	return NewLocation(name, LocationTypePath)
}

// Localhost returns the host location of the local machine
func Localhost() Location {
	return NewHost(LocalhostName)
}

// HostUnknown returns a host location for hosts that cannot be determined
func HostUnknown() Location {
	return NewHost(HostUnknownName)
}

// HostFromURL returns the host of the given url, urls without a host such as
// file:///tmp/a are on the local machine
func HostFromURL(u *url.URL) Location {
	if u == nil {
		return HostUnknown()
	}
	if host := u.Hostname(); host != "" {
		return NewHost(host)
	}
	return Localhost()
}

// LocationsFromURL returns the host and path locations of the given url
func LocationsFromURL(u *url.URL) []Location {
	locations := []Location{HostFromURL(u)}
	if u != nil && u.Path != "" && u.Path != "/" {
		locations = append(locations, NewPath(u.Path))
	}
	return locations
}

func (l Location) String() string {
	return fmt.Sprintf("%s: %s", l.Type, l.Name)
}

// Validate checks the location has a name and a known type
func (l Location) Validate() error {
	if !l.Type.Valid() {
		return errors.Wrapf(ErrInvalidLocationType, "%q", string(l.Type))
	}
	if l.Name == "" {
		return errors.Errorf("%s location must have a name", l.Type)
	}
	return nil
}
