package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/flashmind-analytics-api/internal/config"
	"github.com/noah-isme/flashmind-analytics-api/internal/dto"
	"github.com/noah-isme/flashmind-analytics-api/internal/quizsource"
)

type dashboardOutput struct {
	Dashboard     dto.DashboardResponse `json:"dashboard"`
	FailedQuizzes []string              `json:"failedQuizzes"`
}

func newDashboardCmd() *cobra.Command {
	var (
		token       string
		professorID uint
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Compute one professor dashboard and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			if token != "" {
				ctx = quizsource.WithBearerToken(ctx, token)
			}
			if professorID != 0 {
				ctx = quizsource.WithProfessorID(ctx, professorID)
			}

			app, err := buildComponents(ctx, cfg, newLogger(cfg, os.Stderr))
			if err != nil {
				return err
			}
			defer app.Close()

			dashboard, err := app.dashboard.GetDashboard(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to compute dashboard: %w", err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(dashboardOutput{Dashboard: dashboard, FailedQuizzes: dashboard.FailedQuizzes})
		},
	}

	cmd.Flags().StringVar(&token, "token", os.Getenv("FLASHMIND_TOKEN"), "bearer token forwarded to the quiz backend")
	cmd.Flags().UintVar(&professorID, "professor-id", 0, "professor whose quizzes are read (database driver)")
	cmd.Flags().IntVar(&limit, "limit", 0, "leaderboard size (defaults to the configured size)")
	return cmd
}
