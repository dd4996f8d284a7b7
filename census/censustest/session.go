package censustest

import (
	"encoding/json"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/Lysander66/census-stream/pkg/message"
)

const all = "all"

// set keeps insertion order so replies are stable.
type set struct {
	all   bool
	items []string
}

func (s *set) add(values []gjson.Result) {
	for _, v := range values {
		if v.Str == all {
			s.all = true
			continue
		}
		if !slices.Contains(s.items, v.Str) {
			s.items = append(s.items, v.Str)
		}
	}
}

func (s *set) remove(values []gjson.Result) {
	for _, v := range values {
		if v.Str == all {
			*s = set{}
			return
		}
		s.items = slices.DeleteFunc(s.items, func(item string) bool { return item == v.Str })
	}
}

func (s *set) has(v string) bool {
	return s.all || slices.Contains(s.items, v)
}

func (s *set) empty() bool {
	return !s.all && len(s.items) == 0
}

func (s *set) values() []string {
	if s.all {
		return []string{all}
	}
	return append([]string{}, s.items...)
}

type session struct {
	events     set
	characters set
	worlds     set
	logicalAnd bool
}

func newSession() *session {
	return &session{}
}

func (s *session) subscribe(req gjson.Result) {
	s.events.add(req.Get("eventNames").Array())
	s.characters.add(req.Get("characters").Array())
	s.worlds.add(req.Get("worlds").Array())
	if v := req.Get("logicalAndCharactersWithWorlds"); v.IsBool() {
		s.logicalAnd = v.Bool()
	}
}

func (s *session) clear(req gjson.Result) {
	if req.Get("all").Str == "true" {
		*s = session{}
		return
	}
	s.events.remove(req.Get("eventNames").Array())
	s.characters.remove(req.Get("characters").Array())
	s.worlds.remove(req.Get("worlds").Array())
}

// wants applies the service's filter: the event name must be subscribed,
// then the character and world axes are combined with OR, or with AND when
// logicalAndCharactersWithWorlds is set.
func (s *session) wants(payload gjson.Result) bool {
	if !s.events.has(payload.Get("event_name").Str) {
		return false
	}
	character := !s.characters.empty() && s.characters.has(payload.Get("character_id").Str)
	world := !s.worlds.empty() && s.worlds.has(payload.Get("world_id").Str)
	if s.logicalAnd {
		return character && world
	}
	return character || world
}

func (s *session) reply() []byte {
	count := len(s.characters.items)
	if s.characters.all {
		count = 0
	}
	events, _ := json.Marshal(s.events.values())
	worlds, _ := json.Marshal(s.worlds.values())

	frame := []byte(`{"subscription":{}}`)
	frame, _ = sjson.SetBytes(frame, "subscription.characterCount", count)
	frame, _ = sjson.SetRawBytes(frame, "subscription.eventNames", events)
	frame, _ = sjson.SetBytes(frame, "subscription.logicalAndCharactersWithWorlds", s.logicalAnd)
	frame, _ = sjson.SetRawBytes(frame, "subscription.worlds", worlds)
	return frame
}

// state decodes the reply the server would send now.
func (s *session) state() message.SubscriptionState {
	msg, err := message.Decode(s.reply())
	if err != nil {
		return message.SubscriptionState{}
	}
	return msg.(*message.Subscription).State
}
