package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainBuildOutput_CleanStream(t *testing.T) {
	stream := `{"stream":"Step 1/7 : FROM python:3.11-slim\n"}
{"stream":" ---> abc123\n"}
{"stream":"Successfully built abc123\n"}
`
	assert.NoError(t, drainBuildOutput(strings.NewReader(stream)))
}

func TestDrainBuildOutput_ReportsStepFailure(t *testing.T) {
	// The daemon answers 200 and embeds the failure in the stream; pip
	// rejecting a pin looks exactly like this.
	stream := `{"stream":"Step 4/7 : RUN pip install --no-cache-dir -r requirements.lock\n"}
{"errorDetail":{"code":1,"message":"The command '/bin/sh -c pip install' returned a non-zero code: 1"},"error":"The command '/bin/sh -c pip install' returned a non-zero code: 1"}
`
	err := drainBuildOutput(strings.NewReader(stream))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-zero code")
}

func TestDrainBuildOutput_TruncatedStream(t *testing.T) {
	err := drainBuildOutput(strings.NewReader(`{"stream":"Step 1`))
	assert.Error(t, err)
}
