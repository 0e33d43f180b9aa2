package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDashboardCommandPrintsJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cli-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/quiz/my-quizzes":
			_, _ = w.Write([]byte(`[{"id": 1, "title": "Algebra"}, {"id": 2, "title": "Geometry"}]`))
		case "/api/quiz/1":
			_, _ = w.Write([]byte(`{"id": 1, "title": "Algebra", "duration": 15}`))
		case "/api/quiz/1/participations":
			_, _ = w.Write([]byte(`[{"id": 1, "user_id": 3, "user_name": "Alice Martin", "score": 80}]`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer upstream.Close()

	t.Setenv("FLASHMIND_QUIZ_API_URL", upstream.URL+"/api")
	t.Setenv("FLASHMIND_JWT_SECRET", "secret")
	t.Setenv("FLASHMIND_LOG_LEVEL", "disabled")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"dashboard", "--token", "cli-token", "--limit", "3"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var result struct {
		Dashboard struct {
			Stats struct {
				TotalQuizzes int `json:"totalQuizzes"`
				SuccessRate  int `json:"successRate"`
			} `json:"stats"`
			Leaderboard []struct {
				Name string `json:"name"`
			} `json:"leaderboard"`
		} `json:"dashboard"`
		FailedQuizzes []string `json:"failedQuizzes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.Equal(t, 2, result.Dashboard.Stats.TotalQuizzes)
	require.Equal(t, 80, result.Dashboard.Stats.SuccessRate)
	require.Len(t, result.Dashboard.Leaderboard, 1)
	require.Equal(t, "Alice Martin", result.Dashboard.Leaderboard[0].Name)
	require.Equal(t, []string{"2"}, result.FailedQuizzes)
}

func TestDashboardCommandRequiresConfiguration(t *testing.T) {
	t.Setenv("FLASHMIND_QUIZ_API_URL", "")
	t.Setenv("FLASHMIND_JWT_SECRET", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"dashboard"})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}
