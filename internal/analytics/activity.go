package analytics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

const (
	// LabelRecently is the relative label for a missing or unreadable timestamp.
	LabelRecently = "Recently"
	// LabelLongAgo is the relative label for activity older than thirty days.
	LabelLongAgo = "Long ago"
	// LabelUnavailable is the absolute label for a missing or unreadable timestamp.
	LabelUnavailable = "N/A"

	absoluteLayout = "02/01/2006 15:04"
)

// Clock returns the current time.
type Clock func() time.Time

// datePrefix gates the lenient parser: bare numbers and times of day would
// otherwise be read as today.
var datePrefix = regexp.MustCompile(`^\d{4}[-/]\d{1,2}[-/]\d{1,2}`)

var strictLayouts = []string{
	time.RFC3339Nano,
	models.LocalDateTimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ActivityFormatter renders participation timestamps as recency labels. Relative
// labels depend on the injected clock, so two calls may legitimately differ.
type ActivityFormatter struct {
	now      Clock
	location *time.Location
}

// NewActivityFormatter builds a formatter. Zone-less timestamps are read in
// location, which defaults to time.Local.
func NewActivityFormatter(clock Clock, location *time.Location) *ActivityFormatter {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.Local
	}
	return &ActivityFormatter{now: clock, location: location}
}

// Parse reads an ISO-like timestamp. The second result is false when raw is
// empty or cannot be read.
func (f *ActivityFormatter) Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range strictLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, f.location); err == nil {
			return parsed, true
		}
	}

	if !datePrefix.MatchString(raw) {
		return time.Time{}, false
	}
	parsed, err := now.New(f.now().In(f.location)).Parse(raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Activity is the formatted recency of one participation.
type Activity struct {
	Label  string
	Timing string
	At     time.Time
	Known  bool
}

// Describe parses raw once and renders both labels.
func (f *ActivityFormatter) Describe(raw string) Activity {
	stamp, ok := f.Parse(raw)
	if !ok {
		return Activity{Label: LabelRecently, Timing: LabelUnavailable}
	}
	return Activity{
		Label:  f.relative(stamp),
		Timing: stamp.In(f.location).Format(absoluteLayout),
		At:     stamp,
		Known:  true,
	}
}

// RelativeLabel buckets the time elapsed since raw into a human label.
func (f *ActivityFormatter) RelativeLabel(raw string) string {
	stamp, ok := f.Parse(raw)
	if !ok {
		return LabelRecently
	}
	return f.relative(stamp)
}

// AbsoluteLabel renders raw as DD/MM/YYYY HH:MM in the formatter's location.
func (f *ActivityFormatter) AbsoluteLabel(raw string) string {
	stamp, ok := f.Parse(raw)
	if !ok {
		return LabelUnavailable
	}
	return stamp.In(f.location).Format(absoluteLayout)
}

func (f *ActivityFormatter) relative(stamp time.Time) string {
	elapsed := f.now().Sub(stamp)
	if elapsed < 0 {
		elapsed = 0
	}

	minutes := int(elapsed / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d min ago", minutes)
	}

	hours := int(elapsed / time.Hour)
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days <= 7:
		return fmt.Sprintf("%d days ago", days)
	case days <= 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return LabelLongAgo
	}
}

// IsDegradedLabel reports whether label carries no useful recency information.
func IsDegradedLabel(label string) bool {
	return label == LabelRecently || label == LabelLongAgo
}
