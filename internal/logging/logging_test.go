package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestGommonWritesJSONRecords(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("cefr", &buf, "info")
	require.NoError(t, err)

	logger.Log(Analysis, "SCORING", "assessment scored", "band=B2")
	logger.Log(Debug, "NORMALIZE", "hidden at info", "")
	logger.Log(Risk, "ANALYZE", "analyzer failed", "")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	first := gjson.Parse(lines[0])
	assert.Equal(t, "INFO", first.Get("level").String())
	assert.Equal(t, "cefr", first.Get("prefix").String())
	assert.Equal(t, "ANALYSIS", first.Get("kind").String())
	assert.Equal(t, "SCORING", first.Get("stage").String())
	assert.Equal(t, "band=B2", first.Get("detail").String())

	second := gjson.Parse(lines[1])
	assert.Equal(t, "WARN", second.Get("level").String())
	assert.False(t, second.Get("detail").Exists())
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "", "warn", "error", "off"} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)

	_, err = New("cefr", nil, "loud")
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop{}, OrNop(nil))
	OrNop(nil).Log(Info, "X", "y", "z")

	g := &Gommon{}
	assert.Same(t, g, OrNop(g))
}
