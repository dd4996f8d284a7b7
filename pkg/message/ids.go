package message

import (
	"fmt"
	"strings"
)

type (
	CharacterID  uint64
	WorldID      uint64
	ExperienceID uint64
	// Timestamp is seconds since the Unix epoch.
	Timestamp uint64
)

func (id CharacterID) String() string  { return formatUint(id) }
func (id WorldID) String() string      { return formatUint(id) }
func (id ExperienceID) String() string { return formatUint(id) }
func (t Timestamp) String() string     { return formatUint(t) }

func ParseCharacterID(s string) (CharacterID, error)   { return parseUint[CharacterID](s) }
func ParseWorldID(s string) (WorldID, error)           { return parseUint[WorldID](s) }
func ParseExperienceID(s string) (ExperienceID, error) { return parseUint[ExperienceID](s) }
func ParseTimestamp(s string) (Timestamp, error)       { return parseUint[Timestamp](s) }

// Service selects the sub-service a request is addressed to.
type Service string

const (
	ServiceEvent Service = "event"
	ServicePush  Service = "push"
)

func (s Service) String() string { return string(s) }

// Known worlds. Any other WorldID is still valid on the wire.
const (
	Connery WorldID = 1
	Miller  WorldID = 10
	Cobalt  WorldID = 13
	Emerald WorldID = 17
	Jaeger  WorldID = 19
	Briggs  WorldID = 25
)

var Worlds = map[string]WorldID{
	"Connery": Connery,
	"Miller":  Miller,
	"Cobalt":  Cobalt,
	"Emerald": Emerald,
	"Jaeger":  Jaeger,
	"Briggs":  Briggs,
}

// WorldByName looks a world up by name, ignoring case.
func WorldByName(name string) (WorldID, bool) {
	for k, id := range Worlds {
		if strings.EqualFold(k, name) {
			return id, true
		}
	}
	return 0, false
}

// ServiceID identifies the caller to the push service, e.g. "s:example".
type ServiceID string

const serviceIDPrefix = "s:"

func ParseServiceID(s string) (ServiceID, error) {
	if !strings.HasPrefix(s, serviceIDPrefix) || len(s) == len(serviceIDPrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidServiceID, s)
	}
	return ServiceID(s), nil
}

func (id ServiceID) String() string { return string(id) }
