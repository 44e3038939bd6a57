package thumbnail

import (
	"fmt"
	"strings"
)

// BuildPrompt renders a generation request into the instruction text sent to
// the image model. It fails on a mood with no guidance entry rather than
// emitting a prompt with a hole in it.
//
// Structural guarantees (covered by tests): the title, concept, and
// background concept appear literally; the mood guidance is included; the
// style and reaction values are inserted verbatim; the 16:9 requirement is
// stated both at the top and in the closing rules, because the model is
// unreliable about geometry when told only once.
func BuildPrompt(req Request) (string, error) {
	guidance, ok := moodGuidance[req.Mood]
	if !ok {
		return "", fmt.Errorf("no style guidance for mood %q", req.Mood)
	}

	var b strings.Builder
	b.Grow(2048)

	b.WriteString("TASK: You are an expert YouTube thumbnail designer, a master of viral aesthetics. ")
	b.WriteString("Create a visually stunning, high-contrast thumbnail that grabs attention instantly.\n\n")

	b.WriteString("CRITICAL REQUIREMENT: the final output image MUST have an exact 16:9 aspect ratio.\n\n")

	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString(fmt.Sprintf("1. Replace the entire background with: %q. ", req.BackgroundConcept))
	b.WriteString("Preserve the original subject from the reference photo perfectly; ")
	b.WriteString("if the subject is a person, their full face must stay visible and uncropped.\n")
	b.WriteString(fmt.Sprintf("2. Render the title %q in bold, modern sans-serif typography (e.g. Bebas Neue, Impact). ", req.Title))
	b.WriteString("High legibility, strong contrast treatment (outline, shadow, or background box). The title text must never be cropped.\n")
	b.WriteString(fmt.Sprintf("3. The overall visual theme represents the concept: %q.\n", req.Concept))
	b.WriteString(fmt.Sprintf("4. Mood: %s. Style guide: %s\n", req.Mood, guidance))
	b.WriteString(fmt.Sprintf("5. Artistic style: %s.\n", req.ThumbnailStyle))
	b.WriteString(fmt.Sprintf("6. Subject's expression: %s.\n", req.ImageReaction))
	b.WriteString("7. Composition must be dynamic, exciting, and professional.\n")

	if req.Refinements != nil && !req.Refinements.IsNoop() {
		ref := req.Refinements
		b.WriteString("\nREFINEMENT INSTRUCTIONS:\n")
		if ref.Brightness != "" && ref.Brightness != BrightnessNormal {
			b.WriteString(fmt.Sprintf("- Adjust brightness: %s.\n", ref.Brightness))
		}
		if ref.Color != "" {
			b.WriteString(fmt.Sprintf("- Use color palette: %s.\n", ref.Color))
		}
		if ref.Layout != "" {
			b.WriteString(fmt.Sprintf("- Layout instruction: %s.\n", ref.Layout))
		}
	}

	b.WriteString("\nFINAL OUTPUT:\n")
	b.WriteString("- Produce exactly one complete image with an exact 16:9 aspect ratio.\n")
	b.WriteString("- No watermarks, no placeholder text, no extraneous text beyond the title.\n")
	b.WriteString("- Ready for YouTube upload.\n")

	return b.String(), nil
}

// BuildSuggestionPrompt renders the brainstorm instruction for a video
// description. Legal enum values are enumerated from the canonical lists so
// the model cannot invent out-of-domain values.
func BuildSuggestionPrompt(videoDescription string) string {
	var b strings.Builder
	b.Grow(1024)

	b.WriteString("You are a YouTube growth strategist. Based on the video description below, ")
	b.WriteString("brainstorm exactly 3 distinct, click-worthy thumbnail ideas.\n\n")
	b.WriteString(fmt.Sprintf("VIDEO DESCRIPTION: %q\n\n", videoDescription))

	b.WriteString("Each idea must be an object with exactly these fields:\n")
	b.WriteString("- title: a short, punchy thumbnail title (a few words, high impact)\n")
	b.WriteString("- backgroundConcept: a vivid description of the background scene\n")
	b.WriteString(fmt.Sprintf("- mood: one of %s\n", joinValues(Moods())))
	b.WriteString(fmt.Sprintf("- imageReaction: one of %s\n", joinValues(Reactions())))
	b.WriteString(fmt.Sprintf("- thumbnailStyle: one of %s\n", joinValues(Styles())))

	b.WriteString("\nRespond with a JSON array of exactly 3 such objects and nothing else.\n")

	return b.String()
}

func joinValues[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", string(v))
	}
	return strings.Join(quoted, ", ")
}
