package message

import (
	"github.com/tidwall/gjson"
)

// Event is the payload of a ServiceMessage, selected by its event_name.
type Event interface {
	EventName() EventName
}

type PlayerLoginEvent struct {
	CharacterID CharacterID
	Timestamp   Timestamp
	WorldID     WorldID
}

func (e *PlayerLoginEvent) EventName() EventName { return PlayerLogin }

type PlayerLogoutEvent struct {
	CharacterID CharacterID
	Timestamp   Timestamp
	WorldID     WorldID
}

func (e *PlayerLogoutEvent) EventName() EventName { return PlayerLogout }

type eventDecoder func(payload gjson.Result) (Event, error)

var eventDecoders = map[EventName]eventDecoder{
	PlayerLogin: func(payload gjson.Result) (Event, error) {
		e := &PlayerLoginEvent{}
		var err error
		e.CharacterID, e.Timestamp, e.WorldID, err = decodeSession(payload)
		if err != nil {
			return nil, err
		}
		return e, nil
	},
	PlayerLogout: func(payload gjson.Result) (Event, error) {
		e := &PlayerLogoutEvent{}
		var err error
		e.CharacterID, e.Timestamp, e.WorldID, err = decodeSession(payload)
		if err != nil {
			return nil, err
		}
		return e, nil
	},
}

func decodeSession(payload gjson.Result) (CharacterID, Timestamp, WorldID, error) {
	characterID, err := stringUintField[CharacterID](payload, "character_id")
	if err != nil {
		return 0, 0, 0, err
	}
	timestamp, err := stringUintField[Timestamp](payload, "timestamp")
	if err != nil {
		return 0, 0, 0, err
	}
	worldID, err := stringUintField[WorldID](payload, "world_id")
	if err != nil {
		return 0, 0, 0, err
	}
	return characterID, timestamp, worldID, nil
}

func decodeEvent(payload gjson.Result) (Event, error) {
	name, err := stringField(payload, "event_name")
	if err != nil {
		return nil, err
	}
	decode, ok := eventDecoders[EventName(name)]
	if !ok {
		return nil, &UnknownEventNameError{Name: name}
	}
	return decode(payload)
}
