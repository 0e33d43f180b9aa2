package analytics

import (
	"fmt"
	"strings"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

const (
	// UntitledQuiz replaces a missing quiz title.
	UntitledQuiz = "Untitled quiz"
	// NoDescription replaces a missing quiz description.
	NoDescription = "No description available."
	// DefaultDurationMinutes is shown when a quiz has no duration.
	DefaultDurationMinutes = 30
)

// QuestionSummary is a display-ready question.
type QuestionSummary struct {
	ID      string
	Text    string
	Options []string
}

// QuizSummary is a quiz with every missing field replaced by a placeholder.
type QuizSummary struct {
	ID              string
	Title           string
	Description     string
	Code            string
	DurationMinutes int
	DurationKnown   bool
	Questions       []QuestionSummary
}

// QuestionCount returns the number of questions.
func (q QuizSummary) QuestionCount() int { return len(q.Questions) }

// CompactDurationLabel renders the duration as "{d}min", using 0 when unknown.
func (q QuizSummary) CompactDurationLabel() string {
	return fmt.Sprintf("%dmin", q.DurationMinutes)
}

// DurationLabel renders the duration as "{d} min", using the default when unknown.
func (q QuizSummary) DurationLabel() string {
	minutes := q.DurationMinutes
	if !q.DurationKnown {
		minutes = DefaultDurationMinutes
	}
	return fmt.Sprintf("%d min", minutes)
}

// SummarizeQuiz normalises a raw quiz. It never fails: absent fields become
// placeholders and a missing id falls back to fallbackID.
func SummarizeQuiz(quiz models.Quiz, fallbackID string) QuizSummary {
	summary := QuizSummary{
		ID:          quiz.ID.String(),
		Title:       strings.TrimSpace(quiz.Title),
		Description: strings.TrimSpace(quiz.Description),
		Code:        strings.TrimSpace(quiz.Code),
		Questions:   make([]QuestionSummary, 0, len(quiz.Questions)),
	}
	if summary.ID == "" {
		summary.ID = fallbackID
	}
	if summary.Title == "" {
		summary.Title = UntitledQuiz
	}
	if summary.Description == "" {
		summary.Description = NoDescription
	}
	if quiz.Duration.Valid && quiz.Duration.Value > 0 {
		summary.DurationMinutes = roundHalfUp(quiz.Duration.Value)
		summary.DurationKnown = true
	}

	for idx, question := range quiz.Questions {
		id := question.ID.String()
		if id == "" {
			id = fmt.Sprintf("%d", idx+1)
		}
		text := strings.TrimSpace(question.Text())
		if text == "" {
			text = "Question " + id
		}
		options := make([]string, 0, len(question.Responses))
		for _, response := range question.Responses {
			if option := strings.TrimSpace(response.Text()); option != "" {
				options = append(options, option)
			}
		}
		summary.Questions = append(summary.Questions, QuestionSummary{ID: id, Text: text, Options: options})
	}

	return summary
}
