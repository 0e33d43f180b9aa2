package analytics

import (
	"math"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

// Bucket classifies a single participation's score.
type Bucket int

const (
	// BucketFailing holds scores below 50 as well as attempts without a score.
	BucketFailing Bucket = iota
	// BucketBorderline holds scores in [50, 70).
	BucketBorderline
	// BucketSuccess holds scores of 70 and above.
	BucketSuccess
)

const (
	// SuccessThreshold is the inclusive lower bound of BucketSuccess.
	SuccessThreshold = 70.0
	// BorderlineThreshold is the inclusive lower bound of BucketBorderline.
	BorderlineThreshold = 50.0
)

func (b Bucket) String() string {
	switch b {
	case BucketSuccess:
		return "success"
	case BucketBorderline:
		return "borderline"
	default:
		return "failing"
	}
}

// Classify maps a score onto its bucket. An absent score is failing.
func Classify(score models.OptionalNumber) Bucket {
	if !score.Valid {
		return BucketFailing
	}
	switch {
	case score.Value >= SuccessThreshold:
		return BucketSuccess
	case score.Value >= BorderlineThreshold:
		return BucketBorderline
	default:
		return BucketFailing
	}
}

// Histogram counts participations per bucket. Incomplete is the subset of
// Failing whose score was absent.
type Histogram struct {
	Success    int
	Borderline int
	Failing    int
	Incomplete int
	Total      int
}

// Add records one participation score.
func (h *Histogram) Add(score models.OptionalNumber) {
	h.Total++
	switch Classify(score) {
	case BucketSuccess:
		h.Success++
	case BucketBorderline:
		h.Borderline++
	default:
		h.Failing++
		if !score.Valid {
			h.Incomplete++
		}
	}
}

// Percentages returns each bucket's share of Total, rounded independently, so
// the three values need not sum to exactly 100.
func (h Histogram) Percentages() (success, borderline, failing int) {
	return percentOf(h.Success, h.Total), percentOf(h.Borderline, h.Total), percentOf(h.Failing, h.Total)
}

func percentOf(part, total int) int {
	if total == 0 {
		return 0
	}
	return roundHalfUp(100 * float64(part) / float64(total))
}

// roundHalfUp rounds x to the nearest integer, with halves going up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
