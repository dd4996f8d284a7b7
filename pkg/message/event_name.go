package message

import "strings"

// EventName is the wire text of a subscribable event.
type EventName string

const (
	AchievementEarned     EventName = "AchievementEarned"
	BattleRankUp          EventName = "BattleRankUp"
	Death                 EventName = "Death"
	ItemAdded             EventName = "ItemAdded"
	SkillAdded            EventName = "SkillAdded"
	VehicleDestroy        EventName = "VehicleDestroy"
	GainExperience        EventName = "GainExperience"
	PlayerFacilityCapture EventName = "PlayerFacilityCapture"
	PlayerFacilityDefend  EventName = "PlayerFacilityDefend"
	ContinentLock         EventName = "ContinentLock"
	ContinentUnlock       EventName = "ContinentUnlock"
	FacilityControl       EventName = "FacilityControl"
	MetagameEvent         EventName = "MetagameEvent"
	PlayerLogin           EventName = "PlayerLogin"
	PlayerLogout          EventName = "PlayerLogout"
)

var eventNames = []EventName{
	AchievementEarned,
	BattleRankUp,
	Death,
	ItemAdded,
	SkillAdded,
	VehicleDestroy,
	GainExperience,
	PlayerFacilityCapture,
	PlayerFacilityDefend,
	ContinentLock,
	ContinentUnlock,
	FacilityControl,
	MetagameEvent,
	PlayerLogin,
	PlayerLogout,
}

const gainExperiencePrefix = "GainExperience_experience_id_"

// GainExperienceID narrows GainExperience to a single experience type.
func GainExperienceID(id ExperienceID) EventName {
	return EventName(gainExperiencePrefix + id.String())
}

// ExperienceID reports the experience type of a GainExperienceID name.
func (n EventName) ExperienceID() (ExperienceID, bool) {
	rest, ok := strings.CutPrefix(string(n), gainExperiencePrefix)
	if !ok {
		return 0, false
	}
	id, err := ParseExperienceID(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (n EventName) String() string { return string(n) }

// ParseEventName recovers a catalog entry from its wire text.
func ParseEventName(s string) (EventName, error) {
	for _, n := range eventNames {
		if string(n) == s {
			return n, nil
		}
	}
	if id, ok := EventName(s).ExperienceID(); ok {
		return GainExperienceID(id), nil
	}
	return "", &UnknownEventNameError{Name: s}
}

// EventNames lists the plain catalog entries.
func EventNames() []EventName {
	return append([]EventName(nil), eventNames...)
}
