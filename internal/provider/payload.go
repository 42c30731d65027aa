package provider

// Payload is the provider-shaped request body produced by normalization.
// Exactly one concrete type exists per provider family; dispatchers switch on
// the concrete type when serializing.
type Payload interface {
	Provider() string
	// Turns reports the number of conversation turns carried, for logging.
	Turns() int
}

// --- Gemini (contents[].parts[]) ---

type GeminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type GeminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GeminiInlineData `json:"inline_data,omitempty"`
}

type GeminiTurn struct {
	Role  string       `json:"role"` // "user" | "model"
	Parts []GeminiPart `json:"parts"`
}

type GeminiPayload struct {
	Contents []GeminiTurn `json:"contents"`
}

func (p *GeminiPayload) Provider() string { return "gemini" }
func (p *GeminiPayload) Turns() int       { return len(p.Contents) }

// --- OpenAI (messages[].content[]) ---

type OpenAIImageURL struct {
	URL string `json:"url"` // data:<mime>;base64,<data>
}

type OpenAIContent struct {
	Type     string          `json:"type"` // "text" | "image_url"
	Text     string          `json:"text,omitempty"`
	ImageURL *OpenAIImageURL `json:"image_url,omitempty"`
}

type OpenAITurn struct {
	Role    string          `json:"role"` // "user" | "assistant"
	Content []OpenAIContent `json:"content"`
}

type OpenAIPayload struct {
	Messages []OpenAITurn `json:"messages"`
}

func (p *OpenAIPayload) Provider() string { return "gpt" }
func (p *OpenAIPayload) Turns() int       { return len(p.Messages) }

// --- Claude (messages[].content blocks) ---

type ClaudeImageSource struct {
	Type      string `json:"type"` // "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type ClaudeBlock struct {
	Type   string             `json:"type"` // "text" | "image"
	Text   string             `json:"text,omitempty"`
	Source *ClaudeImageSource `json:"source,omitempty"`
}

type ClaudeTurn struct {
	Role    string        `json:"role"` // "user" | "assistant"
	Content []ClaudeBlock `json:"content"`
}

type ClaudePayload struct {
	Messages []ClaudeTurn `json:"messages"`
}

func (p *ClaudePayload) Provider() string { return "claude" }
func (p *ClaudePayload) Turns() int       { return len(p.Messages) }
