package thumbnail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The guidance table is a closed mapping: every mood must have an entry and
// no entry may point at a mood outside the canonical list.
func TestMoodGuidanceIsComplete(t *testing.T) {
	for _, m := range Moods() {
		g, ok := GuidanceFor(m)
		require.True(t, ok, "mood %q has no guidance entry", m)
		assert.NotEmpty(t, g)
	}

	assert.Len(t, moodGuidance, len(Moods()), "guidance table and mood list must stay in sync")
}

func TestOptionListsMatchCanonicalValues(t *testing.T) {
	moods := MoodOptions()
	require.Len(t, moods, len(Moods()))
	for i, m := range Moods() {
		assert.Equal(t, string(m), moods[i].Key)
	}

	reactions := ReactionOptions()
	require.Len(t, reactions, len(Reactions()))
	for i, r := range Reactions() {
		assert.Equal(t, string(r), reactions[i].Key)
	}

	styles := StyleOptions()
	require.Len(t, styles, len(Styles()))
	for i, s := range Styles() {
		assert.Equal(t, string(s), styles[i].Key)
	}
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, MoodEnergetic.Valid())
	assert.False(t, Mood("Gloomy").Valid())
	assert.True(t, ReactionSurprised.Valid())
	assert.False(t, ImageReaction("Bored").Valid())
	assert.True(t, Style3DRender.Valid())
	assert.False(t, ThumbnailStyle("Oil Painting").Valid())
}
