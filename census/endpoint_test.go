package census

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint(t *testing.T) {
	got, err := Endpoint(DefaultEndpoint, PC, "s:example")
	require.NoError(t, err)
	assert.Equal(t, "wss://push.planetside2.com/streaming?environment=ps2&service-id=s%3Aexample", got)

	got, err = Endpoint("ws://127.0.0.1:8080/streaming?debug=1", PS4EU, "s:local")
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:8080/streaming?debug=1&environment=ps2ps4eu&service-id=s%3Alocal", got)

	_, err = Endpoint("https://push.planetside2.com/streaming", PC, "s:example")
	assert.Error(t, err)

	_, err = Endpoint("://bad", PC, "s:example")
	assert.Error(t, err)
}

func TestParseEnvironment(t *testing.T) {
	tests := map[string]Environment{
		"ps2":      PC,
		"PC":       PC,
		"ps2ps4us": PS4US,
		"ps4us":    PS4US,
		"PS4EU":    PS4EU,
	}
	for in, want := range tests {
		got, err := ParseEnvironment(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseEnvironment("xbox")
	assert.Error(t, err)
}
