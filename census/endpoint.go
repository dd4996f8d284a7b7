package census

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Lysander66/census-stream/pkg/message"
)

const DefaultEndpoint = "wss://push.planetside2.com/streaming"

// Environment selects the game platform whose events are streamed.
type Environment string

const (
	PC    Environment = "ps2"
	PS4US Environment = "ps2ps4us"
	PS4EU Environment = "ps2ps4eu"
)

func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(s) {
	case "ps2", "pc":
		return PC, nil
	case "ps2ps4us", "ps4us":
		return PS4US, nil
	case "ps2ps4eu", "ps4eu":
		return PS4EU, nil
	}
	return "", fmt.Errorf("unknown environment %q", s)
}

// Endpoint adds the environment and service-id query parameters to base.
func Endpoint(base string, env Environment, id message.ServiceID) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("endpoint scheme must be ws or wss, got %q", u.Scheme)
	}
	q := u.Query()
	q.Set("environment", string(env))
	q.Set("service-id", id.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}
