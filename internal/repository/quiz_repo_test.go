package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

func setupQuizTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.QuizRecord{},
		&models.QuestionRecord{},
		&models.ResponseRecord{},
		&models.UserRecord{},
		&models.StudentRecord{},
		&models.GuestRecord{},
		&models.ParticipationRecord{},
	))
	return db
}

func TestQuizRepositoryListByProfessor(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewQuizRepository(db)

	duration := 20
	mine := models.QuizRecord{Title: "Algebra", ProfessorID: 1, Code: "ALG", Duration: &duration, Questions: []models.QuestionRecord{
		{QuestionText: "2+2?"},
		{QuestionText: "3*3?"},
	}}
	other := models.QuizRecord{Title: "History", ProfessorID: 2, Code: "HIS"}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&other).Error)

	quizzes, err := repo.ListByProfessor(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	require.Equal(t, "Algebra", quizzes[0].Title)
	require.Len(t, quizzes[0].Questions, 2)

	quiz := quizzes[0].ToQuiz()
	require.Equal(t, models.NewNumber(20), quiz.Duration)
	require.Equal(t, "2+2?", quiz.Questions[0].Text())
}

func TestQuizRepositoryFindByID(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewQuizRepository(db)

	correct := true
	quiz := models.QuizRecord{Title: "Geography", ProfessorID: 1, Code: "GEO", Questions: []models.QuestionRecord{{
		QuestionText: "Capital of France?",
		Responses: []models.ResponseRecord{
			{ResponseText: "Paris", IsCorrect: &correct},
			{ResponseText: "Lyon"},
		},
	}}}
	require.NoError(t, db.Create(&quiz).Error)

	found, err := repo.FindByID(context.Background(), quiz.ID)
	require.NoError(t, err)
	require.Len(t, found.Questions, 1)
	require.Len(t, found.Questions[0].Responses, 2)
	require.Equal(t, "Paris", found.Questions[0].Responses[0].ResponseText)

	_, err = repo.FindByID(context.Background(), quiz.ID+100)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestParticipationRepositoryListByQuiz(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewParticipationRepository(db)

	user := models.UserRecord{Username: "ada", Email: "ada@example.com", Student: &models.StudentRecord{FirstName: "Ada", LastName: "Lovelace"}}
	guest := models.GuestRecord{Pseudo: "quizzer"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&guest).Error)

	score := 82.5
	rows := []models.ParticipationRecord{
		{QuizID: 1, UserID: &user.ID, Score: &score, StudentResponses: datatypes.JSON(`[{"question_id": 1, "response_id": 2}]`)},
		{QuizID: 1, GuestID: &guest.ID},
		{QuizID: 2, UserID: &user.ID},
	}
	require.NoError(t, db.Create(&rows).Error)

	participations, err := repo.ListByQuiz(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, participations, 2)
	require.NotNil(t, participations[0].User)
	require.NotNil(t, participations[0].User.Student)
	require.NotNil(t, participations[1].Guest)

	registered := participations[0].ToParticipation()
	require.Equal(t, "Ada Lovelace", registered.DisplayUserName())
	require.Equal(t, "ada@example.com", registered.DisplayUserEmail())
	require.Equal(t, 82.5, registered.Score.Value)
	require.NotEmpty(t, registered.Timestamp())

	anonymous := participations[1].ToParticipation()
	require.Equal(t, "quizzer", anonymous.DisplayGuestName())
	require.False(t, anonymous.Score.Valid)
}
