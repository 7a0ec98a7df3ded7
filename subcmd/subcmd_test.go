package subcmd_test

import (
	"bytes"
	"flag"
	"testing"

	"github.com/amonks/genremap/subcmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactly(t *testing.T) {
	sc := subcmd.New("distance", "measure two genres")
	sc.SetArg("a", "string", "first genre").SetArg("b", "string", "second genre")
	require.NoError(t, sc.Parse([]string{"rock", "hard rock"}))

	args, err := sc.Exactly()
	require.NoError(t, err)
	assert.Equal(t, []string{"rock", "hard rock"}, args)

	require.NoError(t, sc.Parse([]string{"rock"}))
	_, err = sc.Exactly()
	assert.ErrorContains(t, err, "want <a> <b>, got 1 arguments")
}

func TestJoined(t *testing.T) {
	sc := subcmd.New("genres", "show an artist's genres")
	sc.SetArg("artist", "string", "artist name")
	maxDistance := sc.Float64("max", 0.5, "")
	require.NoError(t, sc.Parse([]string{"-max", "0.3", "Van", "Halen"}))

	artist, err := sc.Joined()
	require.NoError(t, err)
	assert.Equal(t, "Van Halen", artist)
	assert.Equal(t, 0.3, *maxDistance)

	require.NoError(t, sc.Parse(nil))
	_, err = sc.Joined()
	assert.ErrorContains(t, err, "<artist> is required")
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	sc := subcmd.New("match", "check an artist against a genre")
	sc.SetOutput(&out)
	sc.SetArg("artist", "string", "artist name")
	sc.String("genre", "", "target genre")

	err := sc.Parse([]string{"-help"})
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, out.String(), "genremap match [flags] <artist>")
	assert.Contains(t, out.String(), "target genre")
}
