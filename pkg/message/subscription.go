package message

import (
	"encoding/json"
	"slices"
)

const subscribeAll = "all"

// CharacterSubscription targets every character or an explicit set.
// All takes precedence over IDs.
type CharacterSubscription struct {
	All bool
	IDs []CharacterID
}

func AllCharacters() *CharacterSubscription { return &CharacterSubscription{All: true} }

func Characters(ids ...CharacterID) *CharacterSubscription {
	return &CharacterSubscription{IDs: ids}
}

func (s *CharacterSubscription) Values() []string {
	if s.All {
		return []string{subscribeAll}
	}
	return idValues(s.IDs)
}

type WorldSubscription struct {
	All bool
	IDs []WorldID
}

func AllWorlds() *WorldSubscription { return &WorldSubscription{All: true} }

func WorldsOf(ids ...WorldID) *WorldSubscription {
	return &WorldSubscription{IDs: ids}
}

func (s *WorldSubscription) Values() []string {
	if s.All {
		return []string{subscribeAll}
	}
	return idValues(s.IDs)
}

type EventSubscription struct {
	All   bool
	Names []EventName
}

func AllEvents() *EventSubscription { return &EventSubscription{All: true} }

func Events(names ...EventName) *EventSubscription {
	return &EventSubscription{Names: names}
}

// Values keeps the caller's order and drops repeats.
func (s *EventSubscription) Values() []string {
	if s.All {
		return []string{subscribeAll}
	}
	out := make([]string, 0, len(s.Names))
	seen := make(map[EventName]struct{}, len(s.Names))
	for _, n := range s.Names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, string(n))
	}
	return out
}

// idValues sorts ascending and collapses duplicates.
func idValues[T ~uint64](ids []T) []string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	out := make([]string, len(sorted))
	for i, id := range sorted {
		out[i] = formatUint(id)
	}
	return out
}

func marshalValues(values []string) []byte {
	// []string always marshals.
	b, _ := json.Marshal(values)
	return b
}
