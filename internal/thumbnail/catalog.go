package thumbnail

// Initial form values shared by every surface.
const (
	DefaultTitle             = "My Awesome Video"
	DefaultConcept           = "A tutorial on how to use AI"
	DefaultBackgroundConcept = "Abstract tech background with glowing lines"
)

type NamedOption struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// moodGuidance maps every Mood to its hand-authored style direction. The
// prompt builder refuses moods missing from this table, and the catalog test
// keeps it complete against Moods().
var moodGuidance = map[Mood]string{
	MoodEnergetic: "EXTREMELY HIGH ENERGY. Use vibrant, neon, saturated colors like electric blues and hot pinks. " +
		"Add dynamic motion streaks, light bursts, and glowing accents. Everything should feel loud, fast, and impossible to scroll past.",
	MoodDramatic: "CINEMATIC & SERIOUS. Create a high-contrast scene with deep shadows and strong highlights. " +
		"Moody, atmospheric lighting; dark tones punctuated by a single bold accent color. Film-poster gravitas.",
	MoodProfessional: "CLEAN & POLISHED. Design a minimalist and modern layout. " +
		"Muted, corporate-friendly palette, generous negative space, crisp edges, premium studio finish.",
	MoodFunny: "PLAYFUL & COMICAL. Use bright, candy-like colors. " +
		"Exaggerated expressions, cartoonish energy, bold outlines, and sticker-like accents. Nothing should feel serious.",
	MoodInspirational: "UPLIFTING & HOPEFUL. Use soft, warm lighting with bright and optimistic colors. " +
		"Golden-hour glow, gentle gradients, airy and open composition that suggests possibility.",
}

// GuidanceFor returns the fixed style direction for a mood.
func GuidanceFor(m Mood) (string, bool) {
	g, ok := moodGuidance[m]
	return g, ok
}

func MoodOptions() []NamedOption {
	out := make([]NamedOption, 0, len(moodGuidance))
	for _, m := range Moods() {
		out = append(out, NamedOption{Key: string(m), Name: string(m)})
	}
	return out
}

func ReactionOptions() []NamedOption {
	reactions := Reactions()
	out := make([]NamedOption, 0, len(reactions))
	for _, r := range reactions {
		out = append(out, NamedOption{Key: string(r), Name: string(r)})
	}
	return out
}

func StyleOptions() []NamedOption {
	styles := Styles()
	out := make([]NamedOption, 0, len(styles))
	for _, s := range styles {
		out = append(out, NamedOption{Key: string(s), Name: string(s)})
	}
	return out
}

func BrightnessOptions() []NamedOption {
	return []NamedOption{
		{Key: string(BrightnessNormal), Name: "Normal"},
		{Key: string(BrightnessBrighter), Name: "Brighter"},
		{Key: string(BrightnessDarker), Name: "Darker"},
	}
}
