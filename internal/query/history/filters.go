// Package history lists a caller's completed workouts, filtered by date
// range and exercise. Filters come from explicit body fields or from a few
// fixed phrases recognized in the question; either way, the values only ever
// reach SQL as bound parameters.
package history

import (
	"regexp"
	"strings"
	"time"

	"github.com/fitask/fitask/internal/query"
)

// Request is the /workout-history body. All filter fields are optional,
// explicit fields win over phrases recognized in the question.
type Request struct {
	Question     string `json:"question"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	ExerciseID   string `json:"exerciseId"`
	ExerciseName string `json:"exerciseName"`
}

// FilterSet is the normalized filter state. Dates are YYYY-MM-DD. At most
// one of ExerciseID and ExerciseName is applied downstream, id wins.
type FilterSet struct {
	StartDate    string
	EndDate      string
	ExerciseID   string
	ExerciseName string
}

var (
	isoDateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	brDateRe     = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	isoRangeRe   = regexp.MustCompile(`de\s+(\d{4}-\d{2}-\d{2})\s+ate\s+(\d{4}-\d{2}-\d{2})`)
	brRangeRe    = regexp.MustCompile(`de\s+(\d{2}/\d{2}/\d{4})\s+ate\s+(\d{2}/\d{2}/\d{4})`)
	exercisePhRe = regexp.MustCompile(`com\s+([a-z0-9\s]+)`)
)

// ParseFilters builds the FilterSet for a question. now anchors the
// "ultimo mes" phrase, which means today minus one calendar month through
// today.
func ParseFilters(req Request, now time.Time) FilterSet {
	filters := parseDateRange(req, now)

	filters.ExerciseID = strings.TrimSpace(req.ExerciseID)
	filters.ExerciseName = strings.TrimSpace(req.ExerciseName)
	if filters.ExerciseID == "" && filters.ExerciseName == "" {
		filters.ExerciseName = exerciseNameFromQuestion(req.Question)
	}

	return filters
}

func parseDateRange(req Request, now time.Time) FilterSet {
	start := parseDate(req.StartDate)
	end := parseDate(req.EndDate)
	if start != "" && end != "" {
		return FilterSet{StartDate: start, EndDate: end}
	}

	normalized := query.NormalizeText(req.Question)
	if strings.Contains(normalized, "ultimo mes") {
		return FilterSet{
			StartDate: now.AddDate(0, -1, 0).Format("2006-01-02"),
			EndDate:   now.Format("2006-01-02"),
		}
	}

	match := isoRangeRe.FindStringSubmatch(normalized)
	if match == nil {
		match = brRangeRe.FindStringSubmatch(normalized)
	}
	if match != nil {
		start, end = parseDate(match[1]), parseDate(match[2])
		if start != "" && end != "" {
			return FilterSet{StartDate: start, EndDate: end}
		}
	}

	return FilterSet{}
}

// parseDate accepts YYYY-MM-DD and DD/MM/YYYY, anything else is dropped.
func parseDate(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	if isoDateRe.MatchString(input) {
		return input
	}

	if match := brDateRe.FindStringSubmatch(input); match != nil {
		day, month, year := match[1], match[2], match[3]
		return year + "-" + month + "-" + day
	}

	return ""
}

// exerciseNameFromQuestion extracts the phrase after "com", truncated at the
// first " no "/" na "/" de ". Best-effort: compound exercise names containing
// those prepositions are cut short.
func exerciseNameFromQuestion(question string) string {
	normalized := query.NormalizeText(question)
	match := exercisePhRe.FindStringSubmatch(normalized)
	if match == nil {
		return ""
	}

	phrase := match[1]
	for _, stop := range []string{" no ", " na ", " de "} {
		phrase, _, _ = strings.Cut(phrase, stop)
	}
	return strings.TrimSpace(phrase)
}
