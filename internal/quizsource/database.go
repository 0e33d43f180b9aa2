package quizsource

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
	"github.com/noah-isme/flashmind-analytics-api/internal/repository"
)

// DatabaseSource reads the quiz backend's tables directly.
type DatabaseSource struct {
	quizzes        repository.QuizRepository
	participations repository.ParticipationRepository
}

// NewDatabaseSource builds a source backed by the given repositories.
func NewDatabaseSource(quizzes repository.QuizRepository, participations repository.ParticipationRepository) *DatabaseSource {
	return &DatabaseSource{quizzes: quizzes, participations: participations}
}

// ListQuizzes returns the quizzes owned by the professor in ctx.
func (s *DatabaseSource) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	professorID, ok := ProfessorID(ctx)
	if !ok {
		return nil, fmt.Errorf("list quizzes: %w", ErrUnauthorized)
	}

	records, err := s.quizzes.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	quizzes := make([]models.Quiz, 0, len(records))
	for _, record := range records {
		quizzes = append(quizzes, record.ToQuiz())
	}
	return quizzes, nil
}

// ListParticipations returns the participations of one quiz.
func (s *DatabaseSource) ListParticipations(ctx context.Context, quizID string) ([]models.Participation, error) {
	id, err := parseRecordID(quizID)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}

	records, err := s.participations.ListByQuiz(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}

	participations := make([]models.Participation, 0, len(records))
	for _, record := range records {
		participations = append(participations, record.ToParticipation())
	}
	return participations, nil
}

// GetQuiz returns one quiz with questions and responses.
func (s *DatabaseSource) GetQuiz(ctx context.Context, quizID string) (models.Quiz, error) {
	id, err := parseRecordID(quizID)
	if err != nil {
		return models.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}

	record, err := s.quizzes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, fmt.Errorf("get quiz %d: %w", id, ErrNotFound)
		}
		return models.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	return record.ToQuiz(), nil
}

func parseRecordID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("quiz id %q: %w", value, ErrNotFound)
	}
	return uint(id), nil
}
