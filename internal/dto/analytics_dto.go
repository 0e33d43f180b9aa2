package dto

import "time"

// DashboardQuery captures the dashboard query parameters.
type DashboardQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=50"`
}

// QuizIDParam is the validated :id path parameter.
type QuizIDParam struct {
	ID string `validate:"required,number,max=19"`
}

// DashboardStats are the headline figures of the professor dashboard.
type DashboardStats struct {
	TotalQuizzes      int `json:"totalQuizzes"`
	CompletedQuizzes  int `json:"completedQuizzes"`
	TotalStudents     int `json:"totalStudents"`
	CompletedStudents int `json:"completedStudents"`
	DistinctStudents  int `json:"distinctStudents"`
	SuccessRate       int `json:"successRate"`
	CompletedRate     int `json:"completedRate"`
}

// PerformanceHistogram reports the share of participations per performance bucket.
type PerformanceHistogram struct {
	CompletedPct  int `json:"completedPct"`
	InProgressPct int `json:"inProgressPct"`
	LatePct       int `json:"latePct"`
	Success       int `json:"success"`
	Borderline    int `json:"borderline"`
	Failing       int `json:"failing"`
	Incomplete    int `json:"incomplete"`
	Total         int `json:"total"`
}

// LeaderboardEntry is one ranked student.
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	GroupKey         string  `json:"groupKey"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	AvatarInitials   string  `json:"avatarInitials"`
	QuizCount        int     `json:"quizCount"`
	BestScore        float64 `json:"bestScore"`
	BestScoreDisplay string  `json:"bestScoreDisplay"`
	ActivityLabel    string  `json:"activityLabel"`
	ActivityTiming   string  `json:"activityTiming"`
}

// DashboardQuizSummary is one quiz row of the dashboard.
type DashboardQuizSummary struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	DurationLabel    string `json:"durationLabel"`
	QuestionCount    int    `json:"questionCount"`
	ParticipantCount int    `json:"participantCount"`
	FetchFailed      bool   `json:"fetchFailed"`
}

// DashboardResponse is the professor dashboard payload.
type DashboardResponse struct {
	Stats       DashboardStats         `json:"stats"`
	Histogram   PerformanceHistogram   `json:"histogram"`
	Leaderboard []LeaderboardEntry     `json:"leaderboard"`
	Quizzes     []DashboardQuizSummary `json:"quizzes"`
	GeneratedAt time.Time              `json:"generatedAt"`

	// FailedQuizzes lists quizzes whose participations could not be fetched.
	FailedQuizzes []string `json:"-"`
}

// ParticipantRow is one participation of a quiz.
type ParticipantRow struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	AvatarInitials string   `json:"avatarInitials"`
	ActivityLabel  string   `json:"activityLabel"`
	ActivityTiming string   `json:"activityTiming"`
	Score          *float64 `json:"score"`
	Performance    string   `json:"performance"`
}

// QuizReportStats are the headline figures of a quiz report.
type QuizReportStats struct {
	QuestionCount    int    `json:"questionCount"`
	ParticipantCount int    `json:"participantCount"`
	SuccessRate      string `json:"successRate"`
	Duration         string `json:"duration"`
}

// QuizOutcomeCounts splits a quiz's participants by outcome.
type QuizOutcomeCounts struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Incomplete int `json:"incomplete"`
}

// QuizReportResponse is the per-quiz report payload.
type QuizReportResponse struct {
	QuizID       string               `json:"quizId"`
	Title        string               `json:"title"`
	Stats        QuizReportStats      `json:"stats"`
	Outcomes     QuizOutcomeCounts    `json:"outcomes"`
	Histogram    PerformanceHistogram `json:"histogram"`
	Questions    []string             `json:"questions"`
	Participants []ParticipantRow     `json:"participants"`
}

// QuestionDetail is one question with its answer options.
type QuestionDetail struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// QuizDetailResponse is the quiz detail payload.
type QuizDetailResponse struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Code                string           `json:"code"`
	Duration            string           `json:"duration"`
	Questions           []QuestionDetail `json:"questions"`
	Participants        []ParticipantRow `json:"participants"`
	ParticipantsPartial bool             `json:"participantsPartial"`
}

// DashboardComputedEvent is published after a dashboard is aggregated.
type DashboardComputedEvent struct {
	Scope               string    `json:"scope"`
	TotalQuizzes        int       `json:"totalQuizzes"`
	TotalParticipations int       `json:"totalParticipations"`
	FailedQuizzes       []string  `json:"failedQuizzes"`
	SuccessRate         int       `json:"successRate"`
	GeneratedAt         time.Time `json:"generatedAt"`
}
