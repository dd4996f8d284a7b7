package message

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Action names sent in the "action" field.
const (
	ActionEcho                    = "echo"
	ActionSubscribe               = "subscribe"
	ActionClearSubscribe          = "clearSubscribe"
	ActionRecentCharacterIDs      = "recentCharacterIds"
	ActionRecentCharacterIDsCount = "recentCharacterIdsCount"
)

// Action is an outbound request. Marshal produces one JSON object with keys
// in a fixed order: action, service, then the variant's own fields.
type Action interface {
	Name() string
	Marshal() ([]byte, error)
}

// Encode renders a single request frame.
func Encode(a Action) ([]byte, error) {
	return a.Marshal()
}

// Echo asks the service to send Payload straight back.
type Echo struct {
	Service Service
	Payload json.RawMessage
}

func (m *Echo) Name() string { return ActionEcho }

func (m *Echo) Marshal() ([]byte, error) {
	payload := []byte(m.Payload)
	if len(payload) == 0 {
		payload = []byte("null")
	}
	if !gjson.ValidBytes(payload) {
		return nil, ErrInvalidPayload
	}
	o := newObject(m.Name(), m.Service)
	o.setRaw("payload", payload)
	return o.bytes()
}

type Subscribe struct {
	Service    Service
	EventNames *EventSubscription
	Characters *CharacterSubscription
	Worlds     *WorldSubscription

	// Unlike ClearSubscribe.All this goes out as a native JSON boolean.
	LogicalAndCharactersWithWorlds *bool
}

func (m *Subscribe) Name() string { return ActionSubscribe }

func (m *Subscribe) Marshal() ([]byte, error) {
	o := newObject(m.Name(), m.Service)
	if m.EventNames != nil {
		o.setRaw("eventNames", marshalValues(m.EventNames.Values()))
	}
	if m.Characters != nil {
		o.setRaw("characters", marshalValues(m.Characters.Values()))
	}
	if m.LogicalAndCharactersWithWorlds != nil {
		o.set("logicalAndCharactersWithWorlds", *m.LogicalAndCharactersWithWorlds)
	}
	if m.Worlds != nil {
		o.setRaw("worlds", marshalValues(m.Worlds.Values()))
	}
	return o.bytes()
}

type ClearSubscribe struct {
	Service Service

	// All is sent as the string "true" or "false".
	All        *bool
	EventNames *EventSubscription
	Characters *CharacterSubscription
	Worlds     *WorldSubscription
}

func (m *ClearSubscribe) Name() string { return ActionClearSubscribe }

func (m *ClearSubscribe) Marshal() ([]byte, error) {
	o := newObject(m.Name(), m.Service)
	if m.All != nil {
		o.set("all", FormatBool(*m.All))
	}
	if m.EventNames != nil {
		o.setRaw("eventNames", marshalValues(m.EventNames.Values()))
	}
	if m.Characters != nil {
		o.setRaw("characters", marshalValues(m.Characters.Values()))
	}
	if m.Worlds != nil {
		o.setRaw("worlds", marshalValues(m.Worlds.Values()))
	}
	return o.bytes()
}

type RecentCharacterIDs struct {
	Service Service
}

func (m *RecentCharacterIDs) Name() string { return ActionRecentCharacterIDs }

func (m *RecentCharacterIDs) Marshal() ([]byte, error) {
	return newObject(m.Name(), m.Service).bytes()
}

type RecentCharacterIDsCount struct {
	Service Service
}

func (m *RecentCharacterIDsCount) Name() string { return ActionRecentCharacterIDsCount }

func (m *RecentCharacterIDsCount) Marshal() ([]byte, error) {
	return newObject(m.Name(), m.Service).bytes()
}

// Bool returns a pointer to b, for the optional boolean fields.
func Bool(b bool) *bool { return &b }

type object struct {
	buf []byte
	err error
}

func newObject(action string, service Service) *object {
	o := &object{buf: []byte("{}")}
	o.set("action", action)
	o.set("service", service.String())
	return o
}

func (o *object) set(key string, value any) {
	if o.err != nil {
		return
	}
	o.buf, o.err = sjson.SetBytes(o.buf, key, value)
}

func (o *object) setRaw(key string, raw []byte) {
	if o.err != nil {
		return
	}
	o.buf, o.err = sjson.SetRawBytes(o.buf, key, raw)
}

func (o *object) bytes() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.buf, nil
}
