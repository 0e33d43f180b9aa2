package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

func TestDashboardP95LatencyBelow250ms(t *testing.T) {
	if testing.Short() {
		t.Skip("latency check skipped in short mode")
	}

	const (
		quizCount    = 50
		perQuiz      = 200
		studentCount = 300
	)
	source := &fakeSource{
		details:        map[string]models.Quiz{},
		participations: map[string][]models.Participation{},
	}
	for q := 1; q <= quizCount; q++ {
		quizID := fmt.Sprintf("%d", q)
		quiz := models.Quiz{ID: models.FlexibleID(quizID), Title: "Quiz " + quizID}
		source.quizzes = append(source.quizzes, quiz)
		source.details[quizID] = quiz

		batch := make([]models.Participation, 0, perQuiz)
		for p := 0; p < perQuiz; p++ {
			participation := userParticipation(fmt.Sprintf("%d-%d", q, p), fmt.Sprintf("%d", (q*p)%studentCount+1), float64((q+p)%101))
			participation.CreatedAt = models.FlexibleTime(testNow.Add(-time.Duration(p) * time.Hour).Format(time.RFC3339))
			batch = append(batch, participation)
		}
		source.participations[quizID] = batch
	}

	svc := NewDashboardService(source, NewParticipationLoader(source, DefaultFetchConcurrency, testLogger()), testAggregator(), nil, 5, testLogger())

	runs := 20
	durations := make([]time.Duration, 0, runs)
	for i := 0; i < runs; i++ {
		start := time.Now()
		response, err := svc.GetDashboard(context.Background(), 0)
		require.NoError(t, err)
		require.Equal(t, quizCount*perQuiz, response.Stats.TotalStudents)
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	index := int(math.Ceil(0.95*float64(len(durations)))) - 1
	if index < 0 {
		index = 0
	}

	require.LessOrEqual(t, durations[index], 250*time.Millisecond)
}
