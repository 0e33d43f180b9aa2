package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/flashmind-analytics-api/internal/analytics"
	"github.com/noah-isme/flashmind-analytics-api/internal/models"
	"github.com/noah-isme/flashmind-analytics-api/internal/observability"
	"github.com/noah-isme/flashmind-analytics-api/internal/quizsource"
)

// DefaultFetchConcurrency caps in-flight upstream calls per LoadAll.
const DefaultFetchConcurrency = 8

// ErrMissingQuizID marks a listed quiz that carries no id and cannot be fetched.
var ErrMissingQuizID = errors.New("quiz has no id")

// QuizFetch is the outcome of loading one quiz. Err is set when the
// participation list could not be fetched, in which case Participations is
// empty. MetadataErr is set when the quiz itself could not be re-read and
// Summary was built from the listed quiz instead.
type QuizFetch struct {
	Summary        analytics.QuizSummary
	Participations []models.Participation
	Err            error
	MetadataErr    error
}

// Failed reports whether the participation list is missing.
func (f QuizFetch) Failed() bool { return f.Err != nil }

// ParticipationLoader fans out participation and metadata fetches across quizzes.
type ParticipationLoader struct {
	source      quizsource.Source
	concurrency int
	logger      zerolog.Logger
}

// NewParticipationLoader builds a loader. A non-positive concurrency selects
// DefaultFetchConcurrency.
func NewParticipationLoader(source quizsource.Source, concurrency int, logger zerolog.Logger) *ParticipationLoader {
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}
	return &ParticipationLoader{
		source:      source,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "participation_loader").Logger(),
	}
}

// LoadAll fetches every quiz's participations and metadata concurrently. It
// never fails: per-quiz errors are recorded on the matching QuizFetch, which
// keeps the position of its quiz in the input.
func (l *ParticipationLoader) LoadAll(ctx context.Context, quizzes []models.Quiz) []QuizFetch {
	results := make([]QuizFetch, len(quizzes))

	var group errgroup.Group
	group.SetLimit(l.concurrency)

	for idx := range quizzes {
		quiz := quizzes[idx]
		fallbackID := fmt.Sprintf("quiz-%d", idx+1)
		results[idx].Summary = analytics.SummarizeQuiz(quiz, fallbackID)

		quizID := quiz.ID.String()
		if quizID == "" {
			results[idx].Err = ErrMissingQuizID
			results[idx].Participations = []models.Participation{}
			l.logger.Warn().Int("index", idx).Msg("skipping quiz without id")
			continue
		}

		result := &results[idx]
		group.Go(func() error {
			participations, err := l.source.ListParticipations(ctx, quizID)
			if err != nil {
				observability.QuizSourceFailures().WithLabelValues("list_participations").Inc()
				l.logger.Warn().Err(err).Str("quiz_id", quizID).Msg("failed to fetch participations; counting quiz as empty")
				result.Err = err
				participations = []models.Participation{}
			}
			if participations == nil {
				participations = []models.Participation{}
			}
			result.Participations = participations
			return nil
		})

		group.Go(func() error {
			detailed, err := l.source.GetQuiz(ctx, quizID)
			if err != nil {
				observability.QuizSourceFailures().WithLabelValues("get_quiz").Inc()
				l.logger.Warn().Err(err).Str("quiz_id", quizID).Msg("failed to fetch quiz metadata; using listed values")
				result.MetadataErr = err
				return nil
			}
			result.Summary = analytics.SummarizeQuiz(mergeQuiz(quiz, detailed), quizID)
			return nil
		})
	}

	_ = group.Wait()
	return results
}

// mergeQuiz prefers the detailed quiz and falls back to listed fields it lacks.
func mergeQuiz(listed, detailed models.Quiz) models.Quiz {
	if detailed.ID.IsZero() {
		detailed.ID = listed.ID
	}
	if detailed.Title == "" {
		detailed.Title = listed.Title
	}
	if detailed.Description == "" {
		detailed.Description = listed.Description
	}
	if detailed.Code == "" {
		detailed.Code = listed.Code
	}
	if !detailed.Duration.Valid {
		detailed.Duration = listed.Duration
	}
	if len(detailed.Questions) == 0 {
		detailed.Questions = listed.Questions
	}
	return detailed
}

// Batches turns fetch results into aggregator input, failed quizzes included
// as empty lists.
func Batches(fetches []QuizFetch) []analytics.QuizParticipations {
	batches := make([]analytics.QuizParticipations, 0, len(fetches))
	for _, fetch := range fetches {
		batches = append(batches, analytics.QuizParticipations{
			QuizID:         fetch.Summary.ID,
			Participations: fetch.Participations,
		})
	}
	return batches
}
