package studio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thumbstudio-ai/internal/gemini"
	"thumbstudio-ai/internal/thumbnail"
)

func validRequest() thumbnail.Request {
	return thumbnail.Request{
		Image:             thumbnail.Image{Data: []byte("normalized-jpeg"), MimeType: "image/jpeg"},
		Title:             "AI ART MASTERY",
		Concept:           "Learning to paint with neural networks",
		BackgroundConcept: "A glowing digital canvas",
		Mood:              thumbnail.MoodEnergetic,
		ImageReaction:     thumbnail.ReactionExcited,
		ThumbnailStyle:    thumbnail.StyleRealistic,
	}
}

func newStudio(t *testing.T, client *mockClient) *Studio {
	t.Helper()

	s, err := New(Options{Client: client})
	require.NoError(t, err)
	return s
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestGenerateSuccess(t *testing.T) {
	client := &mockClient{imageData: []byte("thumbnail-bytes"), imageMime: "image/png"}
	s := newStudio(t, client)

	res, err := s.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, []byte("thumbnail-bytes"), res.Data)
	assert.Equal(t, "image/png", res.MimeType)

	assert.Equal(t, 1, client.imageCalls)
	assert.Equal(t, []byte("normalized-jpeg"), client.lastRef.Data)
	assert.Equal(t, "image/jpeg", client.lastRef.MimeType)
	assert.Contains(t, client.lastPrompt, "AI ART MASTERY")
	assert.Contains(t, client.lastPrompt, "16:9")
}

func TestGenerateValidationSkipsRemoteCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*thumbnail.Request)
		want   string
	}{
		{"missing image", func(r *thumbnail.Request) { r.Image = thumbnail.Image{} }, "please upload an image first"},
		{"blank title", func(r *thumbnail.Request) { r.Title = "   " }, "title is required"},
		{"blank concept", func(r *thumbnail.Request) { r.Concept = "" }, "core concept is required"},
		{"blank background", func(r *thumbnail.Request) { r.BackgroundConcept = "" }, "background concept is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{imageData: []byte("x"), imageMime: "image/png"}
			s := newStudio(t, client)

			req := validRequest()
			tt.mutate(&req)

			_, err := s.Generate(context.Background(), req)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.want, err.Error())
			assert.Zero(t, client.imageCalls, "validation failures must not reach the network")
		})
	}
}

func TestGenerateUnknownMoodFailsBeforeCall(t *testing.T) {
	client := &mockClient{imageData: []byte("x"), imageMime: "image/png"}
	s := newStudio(t, client)

	req := validRequest()
	req.Mood = "Melancholic"

	_, err := s.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Zero(t, client.imageCalls)
}

func TestGenerateWrapsClientErrors(t *testing.T) {
	client := &mockClient{imageErr: gemini.ErrNoImageData}
	s := newStudio(t, client)

	_, err := s.Generate(context.Background(), validRequest())
	require.ErrorIs(t, err, gemini.ErrNoImageData)
	assert.False(t, IsValidation(err))
	assert.Contains(t, err.Error(), "generate thumbnail")
}

func TestGenerateRefinementPromptGating(t *testing.T) {
	client := &mockClient{imageData: []byte("x"), imageMime: "image/png"}
	s := newStudio(t, client)

	req := validRequest()
	_, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	firstPrompt := client.lastPrompt
	assert.NotContains(t, firstPrompt, "REFINEMENT INSTRUCTIONS")

	req.Refinements = &thumbnail.Refinements{Brightness: thumbnail.BrightnessBrighter}
	_, err = s.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "REFINEMENT INSTRUCTIONS")
	assert.Contains(t, client.lastPrompt, "brighter")
}

const suggestResponse = `[
  {"title": "ROBOT PAINTS LIKE A PRO", "backgroundConcept": "A robot arm over a canvas", "mood": "Energetic", "imageReaction": "Excited", "thumbnailStyle": "Realistic Photography"},
  {"title": "I TAUGHT AI TO DRAW", "backgroundConcept": "A split human/machine sketch", "mood": "Funny", "imageReaction": "Surprised", "thumbnailStyle": "Cartoon / Animated"},
  {"title": "THE FUTURE OF ART", "backgroundConcept": "A gallery of generated paintings", "mood": "Inspirational", "imageReaction": "Thoughtful", "thumbnailStyle": "Digital Drawing/Illustration"}
]`

func TestSuggestSuccess(t *testing.T) {
	client := &mockClient{jsonText: suggestResponse}
	s := newStudio(t, client)

	suggestions, err := s.Suggest(context.Background(), "a video about AI art")
	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	assert.Equal(t, "ROBOT PAINTS LIKE A PRO", suggestions[0].Title)
	assert.Equal(t, thumbnail.MoodFunny, suggestions[1].Mood)

	assert.Equal(t, 1, client.jsonCalls)
	assert.Contains(t, client.lastPrompt, "a video about AI art")
	require.NotNil(t, client.lastSchema)
	assert.Equal(t, gemini.TypeArray, client.lastSchema.Type)
}

func TestSuggestEmptyDescription(t *testing.T) {
	client := &mockClient{jsonText: suggestResponse}
	s := newStudio(t, client)

	_, err := s.Suggest(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, client.jsonCalls)
}

func TestSuggestMalformedModelOutput(t *testing.T) {
	client := &mockClient{jsonText: "I cannot answer in JSON, sorry"}
	s := newStudio(t, client)

	_, err := s.Suggest(context.Background(), "a video")
	require.ErrorIs(t, err, thumbnail.ErrInvalidSuggestionFormat)
}

func TestSuggestWrapsClientErrors(t *testing.T) {
	client := &mockClient{jsonErr: errors.New("boom")}
	s := newStudio(t, client)

	_, err := s.Suggest(context.Background(), "a video")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brainstorm suggestions")
}
