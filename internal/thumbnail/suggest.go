package thumbnail

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"thumbstudio-ai/internal/gemini"
)

// ErrInvalidSuggestionFormat marks a brainstorm response that did not parse
// as the expected JSON array. The wrapped message carries the offending text.
var ErrInvalidSuggestionFormat = errors.New("invalid suggestion format")

// SuggestionCount is how many ideas one brainstorm call asks for.
const SuggestionCount = 3

// SuggestionSchema declares the structured-output constraint sent with the
// brainstorm request: a 3-element array of suggestion objects whose enum
// fields are restricted to the canonical value sets.
func SuggestionSchema() *gemini.Schema {
	return &gemini.Schema{
		Type:     gemini.TypeArray,
		MinItems: SuggestionCount,
		MaxItems: SuggestionCount,
		Items: &gemini.Schema{
			Type: gemini.TypeObject,
			Properties: map[string]*gemini.Schema{
				"title":             {Type: gemini.TypeString},
				"backgroundConcept": {Type: gemini.TypeString},
				"mood":              {Type: gemini.TypeString, Enum: enumStrings(Moods())},
				"imageReaction":     {Type: gemini.TypeString, Enum: enumStrings(Reactions())},
				"thumbnailStyle":    {Type: gemini.TypeString, Enum: enumStrings(Styles())},
			},
			Required: []string{"title", "backgroundConcept", "mood", "imageReaction", "thumbnailStyle"},
		},
	}
}

// ParseSuggestions parses the raw brainstorm response text. The remote
// service is expected, not guaranteed, to honor the schema, so enum
// membership is re-validated here; malformed input is never coerced.
func ParseSuggestions(raw string) ([]Suggestion, error) {
	text := strings.TrimSpace(raw)
	text = stripCodeFence(text)

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSuggestionFormat, raw)
	}

	for i, s := range suggestions {
		switch {
		case s.Title == "" || s.BackgroundConcept == "":
			return nil, fmt.Errorf("%w: suggestion %d is missing required fields: %s", ErrInvalidSuggestionFormat, i, raw)
		case !s.Mood.Valid():
			return nil, fmt.Errorf("%w: suggestion %d has unknown mood %q", ErrInvalidSuggestionFormat, i, s.Mood)
		case !s.ImageReaction.Valid():
			return nil, fmt.Errorf("%w: suggestion %d has unknown reaction %q", ErrInvalidSuggestionFormat, i, s.ImageReaction)
		case !s.ThumbnailStyle.Valid():
			return nil, fmt.Errorf("%w: suggestion %d has unknown style %q", ErrInvalidSuggestionFormat, i, s.ThumbnailStyle)
		}
	}

	return suggestions, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some model
// responses wrap around the JSON body despite the mime-type constraint.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
