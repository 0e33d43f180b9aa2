package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/flashmind-analytics-api/internal/analytics"
	"github.com/noah-isme/flashmind-analytics-api/internal/dto"
	"github.com/noah-isme/flashmind-analytics-api/internal/models"
	"github.com/noah-isme/flashmind-analytics-api/internal/observability"
	"github.com/noah-isme/flashmind-analytics-api/internal/quizsource"
)

// QuizAnalyticsService produces the per-quiz report and detail views.
type QuizAnalyticsService interface {
	GetReport(ctx context.Context, quizID string) (dto.QuizReportResponse, error)
	GetDetail(ctx context.Context, quizID string) (dto.QuizDetailResponse, error)
}

type quizAnalyticsService struct {
	source     quizsource.Source
	aggregator *analytics.Aggregator
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewQuizAnalyticsService constructs the per-quiz analytics service.
func NewQuizAnalyticsService(source quizsource.Source, aggregator *analytics.Aggregator, logger zerolog.Logger) QuizAnalyticsService {
	return &quizAnalyticsService{
		source:     source,
		aggregator: aggregator,
		logger:     logger.With().Str("component", "quiz_analytics_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/flashmind-analytics-api/internal/service/quiz_analytics"),
		now:        time.Now,
	}
}

// GetReport fails when either the quiz or its participations cannot be read.
func (s *quizAnalyticsService) GetReport(ctx context.Context, quizID string) (dto.QuizReportResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.quiz_report")
	span.SetAttributes(attribute.String("analytics.quiz_id", quizID))
	defer span.End()
	started := s.now()

	var (
		quiz           models.Quiz
		participations []models.Participation
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		quiz, err = s.source.GetQuiz(groupCtx, quizID)
		if err != nil {
			observability.QuizSourceFailures().WithLabelValues("get_quiz").Inc()
			return fmt.Errorf("get quiz: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		participations, err = s.source.ListParticipations(groupCtx, quizID)
		if err != nil {
			observability.QuizSourceFailures().WithLabelValues("list_participations").Inc()
			return fmt.Errorf("list participations: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "quiz_report_failed")
		return dto.QuizReportResponse{}, err
	}

	summary := analytics.SummarizeQuiz(quiz, quizID)
	report := s.aggregator.Report(analytics.QuizParticipations{QuizID: summary.ID, Participations: participations})

	questions := make([]string, 0, len(summary.Questions))
	for _, question := range summary.Questions {
		questions = append(questions, question.Text)
	}

	observability.ParticipationsAggregated().Add(float64(report.Outcome.Participants))
	observability.AggregationDuration().WithLabelValues("quiz_report").Observe(s.now().Sub(started).Seconds())
	span.SetAttributes(attribute.Int("analytics.participation_count", report.Outcome.Participants))

	return dto.QuizReportResponse{
		QuizID: summary.ID,
		Title:  summary.Title,
		Stats: dto.QuizReportStats{
			QuestionCount:    summary.QuestionCount(),
			ParticipantCount: report.Outcome.Participants,
			SuccessRate:      report.Outcome.SuccessRateLabel(),
			Duration:         summary.DurationLabel(),
		},
		Outcomes: dto.QuizOutcomeCounts{
			Successful: report.Outcome.Successful,
			Failed:     report.Outcome.Failed,
			Incomplete: report.Outcome.Incomplete,
		},
		Histogram:    performanceHistogram(report.Histogram),
		Questions:    questions,
		Participants: participantRows(report.Rows),
	}, nil
}

// GetDetail fails only when the quiz cannot be read; a participation failure
// yields an empty, partial participant list.
func (s *quizAnalyticsService) GetDetail(ctx context.Context, quizID string) (dto.QuizDetailResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.quiz_detail")
	span.SetAttributes(attribute.String("analytics.quiz_id", quizID))
	defer span.End()

	quiz, err := s.source.GetQuiz(ctx, quizID)
	if err != nil {
		observability.QuizSourceFailures().WithLabelValues("get_quiz").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "get_quiz_failed")
		return dto.QuizDetailResponse{}, fmt.Errorf("get quiz: %w", err)
	}

	partial := false
	participations, err := s.source.ListParticipations(ctx, quizID)
	if err != nil {
		observability.QuizSourceFailures().WithLabelValues("list_participations").Inc()
		s.logger.Warn().Err(err).Str("quiz_id", quizID).Msg("failed to fetch participations for quiz detail")
		span.RecordError(err)
		participations = nil
		partial = true
	}

	summary := analytics.SummarizeQuiz(quiz, quizID)
	report := s.aggregator.Report(analytics.QuizParticipations{QuizID: summary.ID, Participations: participations})

	questions := make([]dto.QuestionDetail, 0, len(summary.Questions))
	for _, question := range summary.Questions {
		questions = append(questions, dto.QuestionDetail{ID: question.ID, Text: question.Text, Options: question.Options})
	}

	return dto.QuizDetailResponse{
		ID:                  summary.ID,
		Title:               summary.Title,
		Description:         summary.Description,
		Code:                summary.Code,
		Duration:            summary.DurationLabel(),
		Questions:           questions,
		Participants:        participantRows(report.Rows),
		ParticipantsPartial: partial,
	}, nil
}

func participantRows(rows []analytics.ParticipantRow) []dto.ParticipantRow {
	result := make([]dto.ParticipantRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.ParticipantRow{
			ID:             row.ID,
			Name:           row.Name,
			Email:          row.Email,
			AvatarInitials: row.AvatarInitials,
			ActivityLabel:  row.ActivityLabel,
			ActivityTiming: row.ActivityTiming,
			Score:          row.Score,
			Performance:    row.Bucket.String(),
		})
	}
	return result
}
