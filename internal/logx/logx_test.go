package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG", zerolog.InfoLevel))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning", zerolog.InfoLevel))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus", zerolog.InfoLevel))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("", zerolog.ErrorLevel))
}

func TestJSONOutputCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Component(NewWithWriter(&buf, "info", false), "store")
	l.Debug().Msg("hidden")
	l.Info().Int("added", 3).Msg("insert")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "insert", line["message"])
	assert.EqualValues(t, 3, line["added"])
}
