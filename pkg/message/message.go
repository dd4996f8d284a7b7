package message

import (
	"strings"
)

// Kinds reported by Message.Kind. They match the "type" field the service
// attaches to most frames, though decoding never relies on that field.
const (
	KindConnectionStateChanged = "connectionStateChanged"
	KindHeartbeat              = "heartbeat"
	KindServiceMessage         = "serviceMessage"
	KindServiceStateChanged    = "serviceStateChanged"
	KindSubscription           = "subscription"
)

// Message is an inbound frame.
type Message interface {
	Kind() string
}

type ConnectionStateChanged struct {
	Connected bool
}

func (m *ConnectionStateChanged) Kind() string { return KindConnectionStateChanged }

// Heartbeat maps endpoint names such as "EventServerEndpoint_Cobalt_13" to
// their string-coded online state.
type Heartbeat struct {
	Online map[string]string
}

func (m *Heartbeat) Kind() string { return KindHeartbeat }

// Worlds extracts the per-world online state from endpoint names ending in
// "_<world id>". Entries that do not fit that pattern are skipped.
func (m *Heartbeat) Worlds() map[WorldID]bool {
	out := make(map[WorldID]bool, len(m.Online))
	for endpoint, state := range m.Online {
		i := strings.LastIndexByte(endpoint, '_')
		if i < 0 {
			continue
		}
		id, err := ParseWorldID(endpoint[i+1:])
		if err != nil {
			continue
		}
		online, err := ParseBool(state)
		if err != nil {
			continue
		}
		out[id] = online
	}
	return out
}

type ServiceMessage struct {
	Payload Event
}

func (m *ServiceMessage) Kind() string { return KindServiceMessage }

type ServiceStateChanged struct {
	Online bool
	Detail string
}

func (m *ServiceStateChanged) Kind() string { return KindServiceStateChanged }

// Subscription is the service's view of the caller's subscriptions, sent in
// reply to subscribe and clearSubscribe.
type Subscription struct {
	State SubscriptionState
}

func (m *Subscription) Kind() string { return KindSubscription }

type SubscriptionState struct {
	CharacterCount                 uint64
	EventNames                     []string
	LogicalAndCharactersWithWorlds bool
	Worlds                         []string
}
