package captions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON3(t *testing.T) {
	doc := `{
  "wireMagic": "pb3",
  "events": [
    {"tStartMs": 0, "dDurationMs": 60000, "id": 1, "wpWinPosId": 1},
    {"tStartMs": 160, "dDurationMs": 4080, "segs": [{"utf8": "Hello"}, {"utf8": " world", "tOffsetMs": 400}]},
    {"tStartMs": 4240, "segs": [{"utf8": "\n"}]},
    {"segs": [{"utf8": "untimed"}]}
  ]
}`

	segments, err := ParseJSON3([]byte(doc))
	require.NoError(t, err)
	require.Len(t, segments, 4)

	assert.Equal(t, "", segments[0].Text)
	assert.Equal(t, 60.0, segments[0].Duration)

	assert.Equal(t, "Hello world", segments[1].Text)
	assert.Equal(t, 0.16, segments[1].Start)
	assert.Equal(t, 4.08, segments[1].Duration)

	assert.Equal(t, "\n", segments[2].Text)
	assert.Equal(t, 0.0, segments[2].Duration)

	assert.Equal(t, "untimed", segments[3].Text)
	assert.Equal(t, 0.0, segments[3].Start)
}

func TestParseJSON3_Errors(t *testing.T) {
	_, err := ParseJSON3(nil)
	assert.Error(t, err)

	_, err = ParseJSON3([]byte("  "))
	assert.Error(t, err)

	_, err = ParseJSON3([]byte("<transcript/>"))
	assert.Error(t, err)
}
