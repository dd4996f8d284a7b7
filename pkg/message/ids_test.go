package message

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 13, 1513785744, 5428602376718262177, math.MaxInt64, math.MaxInt64 + 1, math.MaxUint64}
	for _, v := range values {
		got, err := ParseCharacterID(CharacterID(v).String())
		require.NoError(t, err)
		assert.Equal(t, CharacterID(v), got)

		ts, err := ParseTimestamp(Timestamp(v).String())
		require.NoError(t, err)
		assert.Equal(t, Timestamp(v), ts)

		w, err := ParseWorldID(WorldID(v).String())
		require.NoError(t, err)
		assert.Equal(t, WorldID(v), w)
	}
}

func TestIDFormat(t *testing.T) {
	assert.Equal(t, "5428010618015189713", CharacterID(5428010618015189713).String())
	assert.Equal(t, "0", WorldID(0).String())
	assert.Equal(t, "18446744073709551615", ExperienceID(math.MaxUint64).String())
}

func TestParseIDInvalid(t *testing.T) {
	tests := []string{"", "-1", "+1", "1.0", "abc", "1_000", " 1", "18446744073709551616"}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := ParseCharacterID(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidID))

			var idErr *InvalidIDError
			require.ErrorAs(t, err, &idErr)
			assert.Equal(t, text, idErr.Text)
		})
	}
}

func TestParseBool(t *testing.T) {
	b, err := ParseBool("true")
	require.NoError(t, err)
	assert.True(t, b)

	b, err = ParseBool("false")
	require.NoError(t, err)
	assert.False(t, b)

	for _, s := range []string{"", "TRUE", "1", "yes", " true"} {
		_, err := ParseBool(s)
		assert.Error(t, err, s)
	}
	assert.Equal(t, "true", FormatBool(true))
	assert.Equal(t, "false", FormatBool(false))
}

func TestEventNames(t *testing.T) {
	assert.Equal(t, "GainExperience_experience_id_4", GainExperienceID(4).String())
	assert.Equal(t, "PlayerFacilityCapture", PlayerFacilityCapture.String())
	assert.Len(t, EventNames(), 15)

	id, ok := GainExperienceID(4).ExperienceID()
	assert.True(t, ok)
	assert.Equal(t, ExperienceID(4), id)

	_, ok = GainExperience.ExperienceID()
	assert.False(t, ok)
}

func TestParseEventName(t *testing.T) {
	for _, n := range EventNames() {
		got, err := ParseEventName(n.String())
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	got, err := ParseEventName("GainExperience_experience_id_1234")
	require.NoError(t, err)
	assert.Equal(t, GainExperienceID(1234), got)

	for _, s := range []string{"SomethingNew", "GainExperience_experience_id_", "GainExperience_experience_id_x", "death"} {
		_, err := ParseEventName(s)
		assert.ErrorIs(t, err, ErrUnknownEventName, s)
	}
}

func TestWorldByName(t *testing.T) {
	id, ok := WorldByName("cobalt")
	assert.True(t, ok)
	assert.Equal(t, Cobalt, id)

	id, ok = WorldByName("Jaeger")
	assert.True(t, ok)
	assert.Equal(t, WorldID(19), id)

	_, ok = WorldByName("Soltech")
	assert.False(t, ok)
	assert.Len(t, Worlds, 6)
}

func TestParseServiceID(t *testing.T) {
	id, err := ParseServiceID("s:example")
	require.NoError(t, err)
	assert.Equal(t, ServiceID("s:example"), id)

	for _, s := range []string{"", "s:", "example", "S:example", "x:example"} {
		_, err := ParseServiceID(s)
		assert.ErrorIs(t, err, ErrInvalidServiceID, s)
	}
}
