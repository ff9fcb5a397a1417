package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForWaybill_CamposDeGuia(t *testing.T) {
	var buf bytes.Buffer
	l := (&Logger{zl: zerolog.New(&buf)}).Named("gre")

	wlog := l.ForWaybill("T001", 45)
	wlog.Info().Str("ticket", "abc").Msg("enviada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "gre", line["component"])
	assert.Equal(t, "T001", line["serie"])
	assert.EqualValues(t, 45, line["numero"])
	assert.Equal(t, "abc", line["ticket"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("ruido"))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
}
