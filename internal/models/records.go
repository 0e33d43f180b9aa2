package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// QuizRecord maps the quiz backend's quizzes table.
type QuizRecord struct {
	ID          uint             `gorm:"primaryKey"`
	Title       string           `gorm:"size:255;not null"`
	Description string           `gorm:"type:text"`
	ProfessorID uint             `gorm:"column:professor_id;not null;index"`
	Code        string           `gorm:"size:32;not null"`
	Duration    *int             `gorm:"column:duration"`
	CreatedAt   time.Time        `gorm:"column:created_at"`
	Questions   []QuestionRecord `gorm:"foreignKey:QuizID"`
}

// TableName implements gorm's tabler interface.
func (QuizRecord) TableName() string { return "quizzes" }

// QuestionRecord maps the questions table.
type QuestionRecord struct {
	ID           uint             `gorm:"primaryKey"`
	QuizID       uint             `gorm:"column:quiz_id;not null;index"`
	QuestionText string           `gorm:"column:question_text;type:text;not null"`
	CreatedAt    time.Time        `gorm:"column:created_at"`
	Responses    []ResponseRecord `gorm:"foreignKey:QuestionID"`
}

// TableName implements gorm's tabler interface.
func (QuestionRecord) TableName() string { return "questions" }

// ResponseRecord maps the responses table.
type ResponseRecord struct {
	ID           uint      `gorm:"primaryKey"`
	QuestionID   uint      `gorm:"column:question_id;index"`
	ResponseText string    `gorm:"column:response_text;type:text"`
	IsCorrect    *bool     `gorm:"column:is_correct"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

// TableName implements gorm's tabler interface.
func (ResponseRecord) TableName() string { return "responses" }

// UserRecord maps the users table. Only identity columns are read.
type UserRecord struct {
	ID        uint           `gorm:"primaryKey"`
	Username  string         `gorm:"size:255"`
	Email     string         `gorm:"size:255"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	Student   *StudentRecord `gorm:"foreignKey:UserID"`
}

// TableName implements gorm's tabler interface.
func (UserRecord) TableName() string { return "users" }

// StudentRecord maps the students profile table.
type StudentRecord struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"column:user_id;index"`
	FirstName string `gorm:"column:first_name;size:255"`
	LastName  string `gorm:"column:last_name;size:255"`
}

// TableName implements gorm's tabler interface.
func (StudentRecord) TableName() string { return "students" }

// GuestRecord maps the guests table.
type GuestRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Pseudo    string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName implements gorm's tabler interface.
func (GuestRecord) TableName() string { return "guests" }

// ParticipationRecord maps the participations table.
type ParticipationRecord struct {
	ID               uint           `gorm:"primaryKey"`
	QuizID           uint           `gorm:"column:quiz_id;not null;index"`
	UserID           *uint          `gorm:"column:user_id"`
	GuestID          *uint          `gorm:"column:guest_id"`
	Score            *float64       `gorm:"type:numeric(5,2)"`
	IsFraud          bool           `gorm:"column:is_fraud;not null;default:false"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	StudentResponses datatypes.JSON `gorm:"column:student_responses;type:text"`
	User             *UserRecord    `gorm:"foreignKey:UserID"`
	Guest            *GuestRecord   `gorm:"foreignKey:GuestID"`
}

// TableName implements gorm's tabler interface.
func (ParticipationRecord) TableName() string { return "participations" }

// ToQuiz converts the record into the wire shape consumed by the analytics core.
func (r QuizRecord) ToQuiz() Quiz {
	quiz := Quiz{
		ID:          FlexibleID(strconv.FormatUint(uint64(r.ID), 10)),
		Title:       r.Title,
		Description: r.Description,
		Code:        r.Code,
	}
	if r.Duration != nil {
		quiz.Duration = NewNumber(float64(*r.Duration))
	}

	quiz.Questions = make([]Question, 0, len(r.Questions))
	for _, question := range r.Questions {
		responses := make([]Response, 0, len(question.Responses))
		for _, response := range question.Responses {
			responses = append(responses, Response{
				ID:           FlexibleID(strconv.FormatUint(uint64(response.ID), 10)),
				ResponseText: response.ResponseText,
				IsCorrect:    response.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, Question{
			ID:           FlexibleID(strconv.FormatUint(uint64(question.ID), 10)),
			QuestionText: question.QuestionText,
			Responses:    responses,
		})
	}

	return quiz
}

// ToParticipation converts the record, with its preloaded user and guest, into
// the wire shape consumed by the analytics core.
func (r ParticipationRecord) ToParticipation() Participation {
	participation := Participation{
		ID:     FlexibleID(strconv.FormatUint(uint64(r.ID), 10)),
		QuizID: FlexibleID(strconv.FormatUint(uint64(r.QuizID), 10)),
	}
	if !r.CreatedAt.IsZero() {
		participation.CreatedAt = FlexibleTime(r.CreatedAt.Format(time.RFC3339Nano))
	}
	if r.Score != nil {
		participation.Score = NewNumber(*r.Score)
	}

	if r.UserID != nil {
		participation.UserID = FlexibleID(strconv.FormatUint(uint64(*r.UserID), 10))
	}
	if r.User != nil {
		participation.UserName = r.User.Username
		participation.UserEmail = r.User.Email
		nested := &ParticipantUser{
			ID:       FlexibleID(strconv.FormatUint(uint64(r.User.ID), 10)),
			Username: r.User.Username,
			Email:    r.User.Email,
		}
		if r.User.Student != nil {
			nested.Student = &ParticipantStudent{FirstName: r.User.Student.FirstName, LastName: r.User.Student.LastName}
			if full := strings.TrimSpace(r.User.Student.FirstName + " " + r.User.Student.LastName); full != "" {
				participation.UserName = full
			}
		}
		participation.User = nested
	}

	if r.GuestID != nil {
		participation.GuestID = FlexibleID(strconv.FormatUint(uint64(*r.GuestID), 10))
	}
	if r.Guest != nil {
		participation.GuestName = r.Guest.Pseudo
		participation.Guest = &ParticipantGuest{
			ID:     FlexibleID(strconv.FormatUint(uint64(r.Guest.ID), 10)),
			Pseudo: r.Guest.Pseudo,
		}
	}

	return participation
}
