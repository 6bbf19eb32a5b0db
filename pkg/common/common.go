package common

// VariableType enumerates the input widgets a variable can be rendered as.
type VariableType string

const (
	VariableTypeText     VariableType = "text"
	VariableTypeTextarea VariableType = "textarea"
	VariableTypeSelect   VariableType = "select"
	VariableTypeNumber   VariableType = "number"
)

// Valid reports whether t is one of the known variable types.
func (t VariableType) Valid() bool {
	switch t {
	case VariableTypeText, VariableTypeTextarea, VariableTypeSelect, VariableTypeNumber:
		return true
	}
	return false
}

// Variable is a typed placeholder definition attached to a prompt.
// Options is only meaningful when Type is "select".
type Variable struct {
	Name         string       `json:"name"`
	Type         VariableType `json:"type"`
	DefaultValue string       `json:"default_value"`
	Options      []string     `json:"options,omitempty"`
}

// Prompt is the central entity of the library: a piece of text with
// {{name}} placeholders, organized by category, tags and favorite flag.
//
// The Variables slice holds the stored definitions and may diverge from
// what Content actually references; the template engine reconciles the two.
// Timestamps are RFC 3339 strings to stay compatible with the JSON export
// format of existing libraries.
type Prompt struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Category   string     `json:"category"`
	Tags       []string   `json:"tags"`
	Variables  []Variable `json:"variables"`
	IsFavorite bool       `json:"is_favorite"`
	UseCount   int        `json:"use_count"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`
}
