package domain

// Passage is a retrieved chunk labelled for the answer synthesiser.
type Passage struct {
	// SourceLabel is "remote" or "local".
	SourceLabel DocSource

	FileName string
	Text     string
}

// Finding is one grouped fact in a synthesised answer.
type Finding struct {
	// Group categorises the finding, e.g. a regulation family.
	Group string `json:"group"`
	Item  string `json:"item"`
	Limit string `json:"limit"`
	Note  string `json:"note,omitempty"`
}

// AnswerSource cites a document the answer drew on.
type AnswerSource struct {
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	SourceType string `json:"sourceType"`
	Snippet    string `json:"snippet,omitempty"`
}

// Answer is the structured response produced from retrieved passages.
type Answer struct {
	Topic    string         `json:"topic"`
	Category string         `json:"category"`
	Summary  string         `json:"summary"`
	Findings []Finding      `json:"findings"`
	Sources  []AnswerSource `json:"sources"`
}
