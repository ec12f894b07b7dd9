package search

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Strategy determines how the keyspace is divided between workers.
type Strategy int

const (
	// RoundRobin gives worker s of P the indexes s, s+P, s+2P, ... with no shared state.
	RoundRobin Strategy = iota
	// SharedCounter has every worker claim the next index from a single shared cursor.
	SharedCounter
)

var ErrUnknownStrategy = errors.New("unknown partition strategy")

func (s Strategy) String() string {
	switch s {
	case RoundRobin:
		return "round-robin"
	case SharedCounter:
		return "shared-counter"
	default:
		return "unknown"
	}
}

// ParseStrategy accepts the names returned by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "round-robin", "roundrobin", "rr":
		return RoundRobin, nil
	case "shared-counter", "sharedcounter", "counter":
		return SharedCounter, nil
	default:
		return 0, errors.Wrapf(ErrUnknownStrategy, "'%s'", name)
	}
}

// Set implements pflag.Value.
func (s *Strategy) Set(name string) error {
	parsed, err := ParseStrategy(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Type implements pflag.Value.
func (s *Strategy) Type() string {
	return "strategy"
}
