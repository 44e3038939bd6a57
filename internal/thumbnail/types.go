package thumbnail

// Mood steers the overall emotional treatment of the generated thumbnail.
type Mood string

const (
	MoodEnergetic     Mood = "Energetic"
	MoodDramatic      Mood = "Dramatic"
	MoodProfessional  Mood = "Professional"
	MoodFunny         Mood = "Funny"
	MoodInspirational Mood = "Inspirational"
)

// ImageReaction is the facial expression requested for the subject.
type ImageReaction string

const (
	ReactionSurprised  ImageReaction = "Surprised"
	ReactionExcited    ImageReaction = "Excited"
	ReactionThoughtful ImageReaction = "Thoughtful"
	ReactionHappy      ImageReaction = "Happy"
	ReactionIntense    ImageReaction = "Intense"
)

// ThumbnailStyle is the rendering style of the final artwork.
type ThumbnailStyle string

const (
	StyleRealistic ThumbnailStyle = "Realistic Photography"
	StyleDrawing   ThumbnailStyle = "Digital Drawing/Illustration"
	StyleCartoon   ThumbnailStyle = "Cartoon / Animated"
	Style3DRender  ThumbnailStyle = "3D Render"
	StylePixelArt  ThumbnailStyle = "Pixel Art"
)

// Moods returns the canonical mood list in presentation order.
func Moods() []Mood {
	return []Mood{
		MoodEnergetic,
		MoodDramatic,
		MoodProfessional,
		MoodFunny,
		MoodInspirational,
	}
}

// Reactions returns the canonical reaction list in presentation order.
func Reactions() []ImageReaction {
	return []ImageReaction{
		ReactionSurprised,
		ReactionExcited,
		ReactionThoughtful,
		ReactionHappy,
		ReactionIntense,
	}
}

// Styles returns the canonical style list in presentation order.
func Styles() []ThumbnailStyle {
	return []ThumbnailStyle{
		StyleRealistic,
		StyleDrawing,
		StyleCartoon,
		Style3DRender,
		StylePixelArt,
	}
}

func (m Mood) Valid() bool {
	_, ok := moodGuidance[m]
	return ok
}

func (r ImageReaction) Valid() bool {
	for _, v := range Reactions() {
		if r == v {
			return true
		}
	}
	return false
}

func (s ThumbnailStyle) Valid() bool {
	for _, v := range Styles() {
		if s == v {
			return true
		}
	}
	return false
}

// Brightness is the refinement brightness adjustment.
type Brightness string

const (
	BrightnessNormal   Brightness = "normal"
	BrightnessBrighter Brightness = "brighter"
	BrightnessDarker   Brightness = "darker"
)

// Refinements are the adjustment instructions applied on a refinement pass
// over a prior result. Zero value means "change nothing".
type Refinements struct {
	Brightness Brightness
	Color      string
	Layout     string
}

// IsNoop reports whether no refinement field differs from its default.
// The prompt builder skips the refinement block entirely in that case.
func (r Refinements) IsNoop() bool {
	return (r.Brightness == "" || r.Brightness == BrightnessNormal) &&
		r.Color == "" && r.Layout == ""
}

// Image is a normalized reference image ready for a generation request.
type Image struct {
	Data     []byte
	MimeType string
}

// Request carries everything one generation call needs. Refinements is nil
// on a first pass and set only when the user refines a prior result.
type Request struct {
	Image             Image
	Title             string
	Concept           string
	BackgroundConcept string
	Mood              Mood
	ImageReaction     ImageReaction
	ThumbnailStyle    ThumbnailStyle
	Refinements       *Refinements
}

// Suggestion is one brainstormed thumbnail idea returned by the text model.
type Suggestion struct {
	Title             string         `json:"title"`
	BackgroundConcept string         `json:"backgroundConcept"`
	Mood              Mood           `json:"mood"`
	ImageReaction     ImageReaction  `json:"imageReaction"`
	ThumbnailStyle    ThumbnailStyle `json:"thumbnailStyle"`
}
