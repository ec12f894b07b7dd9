package search

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := map[string]Strategy{
		"round-robin":    RoundRobin,
		"RR":             RoundRobin,
		" roundrobin ":   RoundRobin,
		"shared-counter": SharedCounter,
		"counter":        SharedCounter,
	}
	for name, expected := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := ParseStrategy(name)
			require.NoError(t, err)
			assert.Equal(t, expected, s)
		})
	}

	_, err := ParseStrategy("random")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestStrategy_RoundTrip(t *testing.T) {
	for _, s := range strategies {
		parsed, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	assert.Equal(t, "unknown", Strategy(9).String())
}

func TestStrategy_Flag(t *testing.T) {
	var s Strategy
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.VarP(&s, "partition", "p", "")
	require.NoError(t, flags.Parse([]string{"-p", "shared-counter"}))
	assert.Equal(t, SharedCounter, s)
	assert.Error(t, flags.Parse([]string{"--partition", "nope"}))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "unknown", State(99).String())
}
