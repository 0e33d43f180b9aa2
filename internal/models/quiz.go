package models

// Quiz is the quiz object served by the quiz backend.
type Quiz struct {
	ID          FlexibleID     `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Code        string         `json:"code,omitempty"`
	Duration    OptionalNumber `json:"duration"`
	Questions   []Question     `json:"questions,omitempty"`
}

// Question is a quiz question with its answer options.
type Question struct {
	ID           FlexibleID `json:"id"`
	QuestionText string     `json:"question_text,omitempty"`
	TextCamel    string     `json:"questionText,omitempty"`
	Question     string     `json:"question,omitempty"`
	Responses    []Response `json:"responses,omitempty"`
}

// Response is one answer option of a question.
type Response struct {
	ID           FlexibleID `json:"id"`
	ResponseText string     `json:"response_text,omitempty"`
	TextCamel    string     `json:"responseText,omitempty"`
	IsCorrect    *bool      `json:"isCorrect,omitempty"`
}

// Text returns the first populated question text variant.
func (q Question) Text() string {
	return firstNonEmpty(q.QuestionText, q.TextCamel, q.Question)
}

// Text returns the first populated response text variant.
func (r Response) Text() string {
	return firstNonEmpty(r.ResponseText, r.TextCamel)
}
