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

	"github.com/noah-isme/flashmind-analytics-api/internal/analytics"
	"github.com/noah-isme/flashmind-analytics-api/internal/dto"
	"github.com/noah-isme/flashmind-analytics-api/internal/observability"
	"github.com/noah-isme/flashmind-analytics-api/internal/quizsource"
)

// DashboardService produces the professor dashboard across all owned quizzes.
type DashboardService interface {
	GetDashboard(ctx context.Context, limit int) (dto.DashboardResponse, error)
}

type dashboardService struct {
	source          quizsource.Source
	loader          *ParticipationLoader
	aggregator      *analytics.Aggregator
	publisher       DashboardEventPublisher
	leaderboardSize int
	logger          zerolog.Logger
	tracer          trace.Tracer
	now             func() time.Time
}

// NewDashboardService wires the dashboard aggregation pipeline. publisher may be nil.
func NewDashboardService(source quizsource.Source, loader *ParticipationLoader, aggregator *analytics.Aggregator, publisher DashboardEventPublisher, leaderboardSize int, logger zerolog.Logger) DashboardService {
	if leaderboardSize <= 0 {
		leaderboardSize = analytics.DefaultLeaderboardSize
	}
	return &dashboardService{
		source:          source,
		loader:          loader,
		aggregator:      aggregator,
		publisher:       publisher,
		leaderboardSize: leaderboardSize,
		logger:          logger.With().Str("component", "dashboard_service").Logger(),
		tracer:          otel.Tracer("github.com/noah-isme/flashmind-analytics-api/internal/service/dashboard"),
		now:             time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, limit int) (dto.DashboardResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.dashboard")
	defer span.End()
	started := s.now()

	quizzes, err := s.source.ListQuizzes(ctx)
	if err != nil {
		observability.QuizSourceFailures().WithLabelValues("list_quizzes").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_quizzes_failed")
		return dto.DashboardResponse{}, fmt.Errorf("list quizzes: %w", err)
	}

	fetches := s.loader.LoadAll(ctx, quizzes)
	result := s.aggregator.Aggregate(Batches(fetches))

	if limit <= 0 {
		limit = s.leaderboardSize
	}
	response := dto.DashboardResponse{
		Stats:         dashboardStats(result.Stats),
		Histogram:     performanceHistogram(result.Histogram),
		Leaderboard:   leaderboardEntries(analytics.TopN(result.Rollups, limit)),
		Quizzes:       make([]dto.DashboardQuizSummary, 0, len(fetches)),
		GeneratedAt:   s.now().UTC(),
		FailedQuizzes: []string{},
	}
	for _, fetch := range fetches {
		response.Quizzes = append(response.Quizzes, dto.DashboardQuizSummary{
			ID:               fetch.Summary.ID,
			Title:            fetch.Summary.Title,
			DurationLabel:    fetch.Summary.CompactDurationLabel(),
			QuestionCount:    fetch.Summary.QuestionCount(),
			ParticipantCount: len(fetch.Participations),
			FetchFailed:      fetch.Failed(),
		})
		if fetch.Failed() {
			response.FailedQuizzes = append(response.FailedQuizzes, fetch.Summary.ID)
		}
	}

	observability.ParticipationsAggregated().Add(float64(result.Stats.TotalParticipations))
	observability.AggregationDuration().WithLabelValues("dashboard").Observe(s.now().Sub(started).Seconds())
	span.SetAttributes(
		attribute.Int("analytics.quiz_count", len(quizzes)),
		attribute.Int("analytics.participation_count", result.Stats.TotalParticipations),
		attribute.Int("analytics.failed_quizzes", len(response.FailedQuizzes)),
	)

	if len(response.FailedQuizzes) > 0 {
		s.logger.Warn().Strs("quiz_ids", response.FailedQuizzes).Msg("dashboard computed from partial data")
	}

	s.publish(ctx, response)
	return response, nil
}

func (s *dashboardService) publish(ctx context.Context, response dto.DashboardResponse) {
	if s.publisher == nil {
		return
	}
	event := dto.DashboardComputedEvent{
		Scope:               dashboardScope(ctx),
		TotalQuizzes:        response.Stats.TotalQuizzes,
		TotalParticipations: response.Stats.TotalStudents,
		FailedQuizzes:       response.FailedQuizzes,
		SuccessRate:         response.Stats.SuccessRate,
		GeneratedAt:         response.GeneratedAt,
	}
	if err := s.publisher.PublishDashboardComputed(ctx, event); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish dashboard event")
	}
}

func dashboardScope(ctx context.Context) string {
	if id, ok := quizsource.ProfessorID(ctx); ok {
		return fmt.Sprintf("professor:%d", id)
	}
	return "professor:unknown"
}

func dashboardStats(stats analytics.Stats) dto.DashboardStats {
	return dto.DashboardStats{
		TotalQuizzes:      stats.TotalQuizzes,
		CompletedQuizzes:  stats.CompletedQuizzes,
		TotalStudents:     stats.TotalParticipations,
		CompletedStudents: stats.CompletedParticipations,
		DistinctStudents:  stats.DistinctStudents,
		SuccessRate:       stats.SuccessRate,
		CompletedRate:     stats.CompletedRate,
	}
}

func performanceHistogram(histogram analytics.Histogram) dto.PerformanceHistogram {
	success, borderline, failing := histogram.Percentages()
	return dto.PerformanceHistogram{
		CompletedPct:  success,
		InProgressPct: borderline,
		LatePct:       failing,
		Success:       histogram.Success,
		Borderline:    histogram.Borderline,
		Failing:       histogram.Failing,
		Incomplete:    histogram.Incomplete,
		Total:         histogram.Total,
	}
}

func leaderboardEntries(entries []analytics.LeaderboardEntry) []dto.LeaderboardEntry {
	result := make([]dto.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, dto.LeaderboardEntry{
			Rank:             entry.Rank,
			GroupKey:         entry.GroupKey,
			Name:             entry.Name,
			Email:            entry.Email,
			AvatarInitials:   entry.AvatarInitials,
			QuizCount:        entry.QuizCount,
			BestScore:        entry.BestScore,
			BestScoreDisplay: entry.BestScoreDisplay,
			ActivityLabel:    entry.LatestActivityLabel,
			ActivityTiming:   entry.LatestActivityTiming,
		})
	}
	return result
}
