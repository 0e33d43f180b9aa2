package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

// ParticipationRepository reads quiz participations with their participant.
type ParticipationRepository interface {
	ListByQuiz(ctx context.Context, quizID uint) ([]models.ParticipationRecord, error)
}

type participationRepository struct {
	db *gorm.DB
}

// NewParticipationRepository constructs the participation repository.
func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

// ListByQuiz returns participations in insertion order, which is the order
// the analytics fold relies on.
func (r *participationRepository) ListByQuiz(ctx context.Context, quizID uint) ([]models.ParticipationRecord, error) {
	var participations []models.ParticipationRecord
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Preload("User").
		Preload("User.Student").
		Preload("Guest").
		Order("id ASC").
		Find(&participations).Error
	return participations, err
}
