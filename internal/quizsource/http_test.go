package quizsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestHTTPSource(t *testing.T, handler http.HandlerFunc) *HTTPSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source, err := NewHTTPSource(HTTPConfig{BaseURL: server.URL + "/api/"}, zerolog.Nop())
	require.NoError(t, err)
	return source
}

func TestHTTPSourceForwardsBearerToken(t *testing.T) {
	source := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/quiz/my-quizzes", r.URL.Path)
		require.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		require.Equal(t, "corr-1", r.Header.Get(CorrelationHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "title": "Algebra", "duration": 20, "questions": [{"id": 1}]}, {"title": 5}]`))
	})

	ctx := WithCorrelationID(WithBearerToken(context.Background(), "secret-token"), "corr-1")
	quizzes, err := source.ListQuizzes(ctx)
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	require.Equal(t, "1", quizzes[0].ID.String())
	require.Equal(t, "Algebra", quizzes[0].Title)
	require.Len(t, quizzes[0].Questions, 1)
	require.True(t, quizzes[1].ID.IsZero())
}

func TestHTTPSourceListParticipationsIsLenient(t *testing.T) {
	source := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/quiz/7/participations", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 1, "user_id": 3, "score": 90},
			{"id": 2, "user_name": 42, "guest_id": 9, "score": 55},
			"garbage",
			null
		]`))
	})

	participations, err := source.ListParticipations(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, participations, 4)
	require.Equal(t, "3", participations[0].RegisteredUserID())
	require.Equal(t, "2", participations[1].ID.String())
	require.Empty(t, participations[2].ID.String())
	require.False(t, participations[3].Score.Valid)
}

func TestHTTPSourceNonArrayBodyIsEmpty(t *testing.T) {
	source := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "no participations"}`))
	})

	participations, err := source.ListParticipations(context.Background(), "7")
	require.NoError(t, err)
	require.Empty(t, participations)
}

func TestHTTPSourceMapsStatusCodes(t *testing.T) {
	status := http.StatusNotFound
	source := newTestHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})

	_, err := source.GetQuiz(context.Background(), "1")
	require.ErrorIs(t, err, ErrNotFound)

	status = http.StatusUnauthorized
	_, err = source.ListQuizzes(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	status = http.StatusBadGateway
	_, err = source.ListParticipations(context.Background(), "1")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	require.Equal(t, "list participations", statusErr.Operation)
	require.False(t, errors.Is(err, ErrNotFound))
}

func TestHTTPSourceRejectsOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "score": 90}, {"id": 2, "score": 40}]`))
	}))
	t.Cleanup(server.Close)

	source, err := NewHTTPSource(HTTPConfig{BaseURL: server.URL, MaxResponseBytes: 16}, zerolog.Nop())
	require.NoError(t, err)

	participations, err := source.ListParticipations(context.Background(), "7")
	require.ErrorIs(t, err, ErrResponseTooLarge)
	require.Nil(t, participations)

	source, err = NewHTTPSource(HTTPConfig{BaseURL: server.URL, MaxResponseBytes: 64}, zerolog.Nop())
	require.NoError(t, err)
	participations, err = source.ListParticipations(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, participations, 2)
}

func TestNewHTTPSourceRejectsRelativeURL(t *testing.T) {
	_, err := NewHTTPSource(HTTPConfig{BaseURL: "quiz-backend/api"}, zerolog.Nop())
	require.Error(t, err)
}
