package gemini

// Wire types for the generativelanguage.googleapis.com generateContent REST
// surface. Only the fields this client sends or reads are declared.

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature        float64      `json:"temperature,omitempty"`
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ResponseMimeType   string       `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema      `json:"responseSchema,omitempty"`
	ImageConfig        *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// Schema value types accepted by the structured-output constraint.
const (
	TypeString = "STRING"
	TypeArray  = "ARRAY"
	TypeObject = "OBJECT"
)

// Schema is a structured-output declaration attached to a text request via
// responseSchema. int64 bounds are string-encoded on the wire.
type Schema struct {
	Type       string             `json:"type"`
	Enum       []string           `json:"enum,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	MinItems   int64              `json:"minItems,omitempty,string"`
	MaxItems   int64              `json:"maxItems,omitempty,string"`
}
