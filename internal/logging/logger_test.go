package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := Setup(false, &buf)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	logger = Setup(true, &buf)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	logger.Debug().Str("subreddit", "golang").Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "golang")
}
