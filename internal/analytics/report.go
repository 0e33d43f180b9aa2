package analytics

import "fmt"

// ParticipantRow is one participation rendered for a per-quiz table.
type ParticipantRow struct {
	ID             string
	GroupKey       string
	Name           string
	Email          string
	AvatarInitials string
	ActivityLabel  string
	ActivityTiming string
	Score          *float64
	Bucket         Bucket
}

// QuizOutcome counts one quiz's participations by outcome. Failed holds
// scored attempts below the success threshold; Incomplete holds unscored ones.
type QuizOutcome struct {
	Participants int
	Successful   int
	Failed       int
	Incomplete   int
}

// SuccessRate is the rounded share of successful participations.
func (o QuizOutcome) SuccessRate() int {
	return percentOf(o.Successful, o.Participants)
}

// SuccessRateLabel renders SuccessRate as "N%".
func (o QuizOutcome) SuccessRateLabel() string {
	return fmt.Sprintf("%d%%", o.SuccessRate())
}

// QuizReport is the per-quiz breakdown derived from one participation list.
type QuizReport struct {
	Outcome   QuizOutcome
	Histogram Histogram
	Rows      []ParticipantRow
}

// Report builds per-participation rows and outcome counts for one quiz.
// Unlike Aggregate it does not fold by identity.
func (a *Aggregator) Report(batch QuizParticipations) QuizReport {
	report := QuizReport{Rows: make([]ParticipantRow, 0, len(batch.Participations))}

	for idx, participation := range batch.Participations {
		identity := a.resolver.Resolve(participation)
		activity := a.formatter.Describe(participation.Timestamp())

		id := participation.ID.String()
		if id == "" {
			id = fmt.Sprintf("%s-%d", identity.GroupKey(), idx+1)
		}

		report.Histogram.Add(participation.Score)
		report.Outcome.Participants++
		switch {
		case !participation.Score.Valid:
			report.Outcome.Incomplete++
		case participation.Score.Value >= SuccessThreshold:
			report.Outcome.Successful++
		default:
			report.Outcome.Failed++
		}

		report.Rows = append(report.Rows, ParticipantRow{
			ID:             id,
			GroupKey:       identity.GroupKey(),
			Name:           identity.Name,
			Email:          identity.Email,
			AvatarInitials: identity.Initials(),
			ActivityLabel:  activity.Label,
			ActivityTiming: activity.Timing,
			Score:          participation.Score.Ptr(),
			Bucket:         Classify(participation.Score),
		})
	}

	return report
}
