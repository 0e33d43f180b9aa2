package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

// RollupPolicy decides when a rollup's latest activity is replaced.
type RollupPolicy string

const (
	// RollupPolicySource replaces the activity when the score strictly improves
	// and, independently, whenever the new relative label is informative.
	RollupPolicySource RollupPolicy = "source"
	// RollupPolicyMostRecent keeps the activity of the newest readable timestamp.
	RollupPolicyMostRecent RollupPolicy = "most_recent"
)

// ParseRollupPolicy reads a policy name. An empty name selects RollupPolicySource.
func ParseRollupPolicy(value string) (RollupPolicy, error) {
	switch RollupPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", RollupPolicySource:
		return RollupPolicySource, nil
	case RollupPolicyMostRecent:
		return RollupPolicyMostRecent, nil
	default:
		return "", fmt.Errorf("unknown rollup policy %q", value)
	}
}

// QuizParticipations is the participation list fetched for one quiz.
type QuizParticipations struct {
	QuizID         string
	Participations []models.Participation
}

// StudentRollup aggregates every participation sharing one group key.
type StudentRollup struct {
	GroupKey             string
	Kind                 IdentityKind
	Name                 string
	Email                string
	AvatarInitials       string
	QuizCount            int
	BestScore            float64
	LatestActivityLabel  string
	LatestActivityTiming string
	LatestActivityAt     time.Time
}

// Rollups is an insertion-ordered, read-only collection of student rollups.
type Rollups struct {
	order []string
	byKey map[string]StudentRollup
}

// Len returns the number of distinct group keys.
func (r Rollups) Len() int {
	return len(r.order)
}

// Get returns the rollup for key.
func (r Rollups) Get(key string) (StudentRollup, bool) {
	rollup, ok := r.byKey[key]
	return rollup, ok
}

// Keys returns group keys in order of first appearance.
func (r Rollups) Keys() []string {
	return append([]string(nil), r.order...)
}

// List returns the rollups in order of first appearance.
func (r Rollups) List() []StudentRollup {
	list := make([]StudentRollup, 0, len(r.order))
	for _, key := range r.order {
		list = append(list, r.byKey[key])
	}
	return list
}

// Stats are the global figures of one aggregation pass.
type Stats struct {
	TotalQuizzes            int
	CompletedQuizzes        int
	TotalParticipations     int
	CompletedParticipations int
	ScoredParticipations    int
	DistinctStudents        int
	SuccessRate             int
	CompletedRate           int
}

// Result is the outcome of one aggregation pass.
type Result struct {
	Rollups   Rollups
	Histogram Histogram
	Stats     Stats
}

// Aggregator folds participation lists into rollups, a histogram and stats.
type Aggregator struct {
	resolver  *Resolver
	formatter *ActivityFormatter
	policy    RollupPolicy
}

// NewAggregator wires the aggregator's collaborators.
func NewAggregator(resolver *Resolver, formatter *ActivityFormatter, policy RollupPolicy) *Aggregator {
	if resolver == nil {
		resolver = NewResolver()
	}
	if formatter == nil {
		formatter = NewActivityFormatter(time.Now, nil)
	}
	if policy == "" {
		policy = RollupPolicySource
	}
	return &Aggregator{resolver: resolver, formatter: formatter, policy: policy}
}

// Resolver exposes the identity resolver used by the aggregator.
func (a *Aggregator) Resolver() *Resolver { return a.resolver }

// Formatter exposes the activity formatter used by the aggregator.
func (a *Aggregator) Formatter() *ActivityFormatter { return a.formatter }

// Aggregate processes participations in arrival order, quiz by quiz. The result
// is built from scratch on every call.
func (a *Aggregator) Aggregate(batches []QuizParticipations) Result {
	rollups := Rollups{byKey: make(map[string]StudentRollup)}
	var histogram Histogram
	var scoreSum float64
	scored := 0

	for _, batch := range batches {
		for _, participation := range batch.Participations {
			histogram.Add(participation.Score)
			if participation.Score.Valid {
				scoreSum += participation.Score.Value
				scored++
			}
			a.fold(&rollups, participation)
		}
	}

	stats := Stats{
		TotalQuizzes:            len(batches),
		CompletedQuizzes:        len(batches),
		TotalParticipations:     histogram.Total,
		CompletedParticipations: histogram.Total,
		ScoredParticipations:    scored,
		DistinctStudents:        rollups.Len(),
	}
	if scored > 0 {
		stats.SuccessRate = roundHalfUp(scoreSum / float64(scored))
	}
	if histogram.Total > 0 {
		stats.CompletedRate = roundHalfUp(100 * float64(scored) / float64(histogram.Total))
	}

	return Result{Rollups: rollups, Histogram: histogram, Stats: stats}
}

func (a *Aggregator) fold(rollups *Rollups, participation models.Participation) {
	identity := a.resolver.Resolve(participation)
	activity := a.formatter.Describe(participation.Timestamp())
	score := participation.Score.OrZero()
	key := identity.GroupKey()

	existing, seen := rollups.byKey[key]
	if !seen {
		rollups.order = append(rollups.order, key)
		rollups.byKey[key] = StudentRollup{
			GroupKey:             key,
			Kind:                 identity.Kind,
			Name:                 identity.Name,
			Email:                identity.Email,
			AvatarInitials:       identity.Initials(),
			QuizCount:            1,
			BestScore:            score,
			LatestActivityLabel:  activity.Label,
			LatestActivityTiming: activity.Timing,
			LatestActivityAt:     activity.At,
		}
		return
	}

	existing.QuizCount++
	if existing.Email == "" {
		existing.Email = identity.Email
	}

	switch a.policy {
	case RollupPolicyMostRecent:
		if score > existing.BestScore {
			existing.BestScore = score
		}
		if activity.Known && (existing.LatestActivityAt.IsZero() || activity.At.After(existing.LatestActivityAt)) {
			existing.setActivity(activity)
		}
	default:
		if score > existing.BestScore {
			existing.BestScore = score
			existing.setActivity(activity)
		}
		if !IsDegradedLabel(activity.Label) {
			existing.setActivity(activity)
		}
	}

	rollups.byKey[key] = existing
}

func (r *StudentRollup) setActivity(activity Activity) {
	r.LatestActivityLabel = activity.Label
	r.LatestActivityTiming = activity.Timing
	r.LatestActivityAt = activity.At
}
