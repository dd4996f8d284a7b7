package message

import (
	"github.com/tidwall/gjson"
)

// shape is one candidate in the ordered decode table. match looks only at
// which fields are present and their JSON kinds; once a shape matches, a
// failure in decode is returned as is instead of moving on.
type shape struct {
	match  func(obj gjson.Result) bool
	decode func(obj gjson.Result) (Message, error)
}

// Frames carry no discriminant, so the order here settles ambiguity,
// e.g. a string "online" is a ServiceStateChanged while an object "online"
// is a Heartbeat.
var shapes = []shape{
	{
		match: func(obj gjson.Result) bool {
			return obj.Get("connected").Type == gjson.String
		},
		decode: func(obj gjson.Result) (Message, error) {
			connected, err := stringBoolField(obj, "connected")
			if err != nil {
				return nil, err
			}
			return &ConnectionStateChanged{Connected: connected}, nil
		},
	},
	{
		match: func(obj gjson.Result) bool {
			online := obj.Get("online")
			if !online.IsObject() {
				return false
			}
			ok := true
			online.ForEach(func(_, v gjson.Result) bool {
				ok = v.Type == gjson.String
				return ok
			})
			return ok
		},
		decode: func(obj gjson.Result) (Message, error) {
			online := make(map[string]string)
			obj.Get("online").ForEach(func(k, v gjson.Result) bool {
				online[k.Str] = v.Str
				return true
			})
			return &Heartbeat{Online: online}, nil
		},
	},
	{
		match: func(obj gjson.Result) bool {
			payload := obj.Get("payload")
			return payload.IsObject() && payload.Get("event_name").Type == gjson.String
		},
		decode: func(obj gjson.Result) (Message, error) {
			event, err := decodeEvent(obj.Get("payload"))
			if err != nil {
				return nil, err
			}
			return &ServiceMessage{Payload: event}, nil
		},
	},
	{
		match: func(obj gjson.Result) bool {
			return obj.Get("online").Type == gjson.String && obj.Get("detail").Type == gjson.String
		},
		decode: func(obj gjson.Result) (Message, error) {
			online, err := stringBoolField(obj, "online")
			if err != nil {
				return nil, err
			}
			return &ServiceStateChanged{Online: online, Detail: obj.Get("detail").Str}, nil
		},
	},
	{
		match: func(obj gjson.Result) bool {
			return obj.Get("subscription").IsObject()
		},
		decode: decodeSubscription,
	},
}

func decodeSubscription(obj gjson.Result) (Message, error) {
	sub := obj.Get("subscription")
	var (
		state SubscriptionState
		err   error
	)
	if state.CharacterCount, err = numberField(sub, "characterCount"); err != nil {
		return nil, err
	}
	if state.EventNames, err = stringsField(sub, "eventNames"); err != nil {
		return nil, err
	}
	if state.LogicalAndCharactersWithWorlds, err = boolField(sub, "logicalAndCharactersWithWorlds"); err != nil {
		return nil, err
	}
	if state.Worlds, err = stringsField(sub, "worlds"); err != nil {
		return nil, err
	}
	return &Subscription{State: state}, nil
}

// Decode parses one inbound frame. Unknown extra fields are ignored.
func Decode(data []byte) (Message, error) {
	if !gjson.ValidBytes(data) {
		return nil, &UnrecognizedMessageError{Text: string(data)}
	}
	obj := gjson.ParseBytes(data)
	if !obj.IsObject() {
		return nil, &UnrecognizedMessageError{Text: string(data)}
	}
	for _, s := range shapes {
		if s.match(obj) {
			return s.decode(obj)
		}
	}
	return nil, &UnrecognizedMessageError{Text: string(data)}
}

func DecodeString(text string) (Message, error) {
	return Decode([]byte(text))
}
