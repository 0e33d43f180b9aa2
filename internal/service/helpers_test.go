package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/flashmind-analytics-api/internal/analytics"
	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func testAggregator() *analytics.Aggregator {
	formatter := analytics.NewActivityFormatter(func() time.Time { return testNow }, time.UTC)
	return analytics.NewAggregator(analytics.NewResolver(), formatter, analytics.RollupPolicySource)
}

type fakeSource struct {
	quizzes          []models.Quiz
	quizzesErr       error
	details          map[string]models.Quiz
	detailErrs       map[string]error
	participations   map[string][]models.Participation
	participationErr map[string]error
	delay            time.Duration

	mu        sync.Mutex
	calls     []string
	inFlight  atomic.Int32
	maxFlight atomic.Int32
}

func (f *fakeSource) track(call string) func() {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	current := f.inFlight.Add(1)
	for {
		seen := f.maxFlight.Load()
		if current <= seen || f.maxFlight.CompareAndSwap(seen, current) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeSource) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	if f.quizzesErr != nil {
		return nil, f.quizzesErr
	}
	return append([]models.Quiz(nil), f.quizzes...), nil
}

func (f *fakeSource) ListParticipations(ctx context.Context, quizID string) ([]models.Participation, error) {
	defer f.track("participations:" + quizID)()
	if err := f.participationErr[quizID]; err != nil {
		return nil, err
	}
	return append([]models.Participation(nil), f.participations[quizID]...), nil
}

func (f *fakeSource) GetQuiz(ctx context.Context, quizID string) (models.Quiz, error) {
	defer f.track("quiz:" + quizID)()
	if err := f.detailErrs[quizID]; err != nil {
		return models.Quiz{}, err
	}
	if quiz, ok := f.details[quizID]; ok {
		return quiz, nil
	}
	return models.Quiz{}, fmt.Errorf("quiz %s: no fixture", quizID)
}

func userParticipation(id, userID string, score float64) models.Participation {
	return models.Participation{
		ID:     models.FlexibleID(id),
		UserID: models.FlexibleID(userID),
		Score:  models.NewNumber(score),
	}
}
