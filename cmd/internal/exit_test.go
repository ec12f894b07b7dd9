package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saylorsolutions/zipcrack/pkg/search"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitFound, ExitCode(&search.Result{State: search.Found}))
	assert.Equal(t, ExitExhausted, ExitCode(&search.Result{State: search.Exhausted}))
	assert.Equal(t, ExitCancelled, ExitCode(&search.Result{State: search.Cancelled}))
	assert.Equal(t, ExitError, ExitCode(&search.Result{State: search.Running}))
	assert.Equal(t, ExitError, ExitCode(nil))
}

func TestEcho(t *testing.T) {
	var buf bytes.Buffer
	Echo(&buf, "found %d", 1)
	Echo(&buf, "done\n")
	assert.Equal(t, "found 1\ndone\n", buf.String())
}
