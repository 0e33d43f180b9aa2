// Package quizsource fetches quizzes and participations from the quiz backend.
package quizsource

import (
	"context"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

// Source is the read side of the quiz backend used by the analytics services.
// Implementations identify the calling professor from the context.
type Source interface {
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	ListParticipations(ctx context.Context, quizID string) ([]models.Participation, error)
	GetQuiz(ctx context.Context, quizID string) (models.Quiz, error)
}

type contextKey int

const (
	bearerTokenKey contextKey = iota
	professorIDKey
	correlationIDKey
)

// CorrelationHeader carries the request correlation id to the quiz backend.
const CorrelationHeader = "X-Correlation-ID"

// WithBearerToken attaches the caller's bearer token, forwarded upstream by HTTPSource.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey, token)
}

// BearerToken returns the token stored by WithBearerToken.
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey).(string)
	return token
}

// WithProfessorID attaches the caller's user id, used by DatabaseSource to scope quizzes.
func WithProfessorID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, professorIDKey, id)
}

// ProfessorID returns the id stored by WithProfessorID.
func ProfessorID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(professorIDKey).(uint)
	return id, ok
}

// WithCorrelationID attaches the request correlation id, forwarded upstream by HTTPSource.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the id stored by WithCorrelationID.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}
