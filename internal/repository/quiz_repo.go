package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

// QuizRepository reads quizzes from the quiz backend's schema.
type QuizRepository interface {
	ListByProfessor(ctx context.Context, professorID uint) ([]models.QuizRecord, error)
	FindByID(ctx context.Context, id uint) (models.QuizRecord, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository constructs the quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) ListByProfessor(ctx context.Context, professorID uint) ([]models.QuizRecord, error) {
	var quizzes []models.QuizRecord
	err := r.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.id ASC") }).
		Order("id ASC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) FindByID(ctx context.Context, id uint) (models.QuizRecord, error) {
	var quiz models.QuizRecord
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.id ASC") }).
		Preload("Questions.Responses", func(db *gorm.DB) *gorm.DB { return db.Order("responses.id ASC") }).
		First(&quiz, id).Error
	return quiz, err
}
