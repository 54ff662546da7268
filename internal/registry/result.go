package registry

// Content is one element of a tool result. Type is "text" or "json";
// exactly one of Text or Value is populated accordingly.
type Content struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Result is the successful payload of a tool call.
type Result struct {
	Content []Content `json:"content"`
}

// TextResult wraps a plain string outcome.
func TextResult(text string) *Result {
	return &Result{Content: []Content{{Type: "text", Text: text}}}
}

// JSONResult wraps a structured outcome, typically an array of per-path
// records.
func JSONResult(value any) *Result {
	return &Result{Content: []Content{{Type: "json", Value: value}}}
}
