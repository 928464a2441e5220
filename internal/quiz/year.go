package quiz

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ErrInvalidYears is returned when a year list has no usable entries.
var ErrInvalidYears = errors.New("no valid year id given")

var yearIDPattern = regexp.MustCompile(`^[0-9]+$`)

// ParseYearIDs flattens comma-separated year lists, drops anything that is
// not a positive integer and removes duplicates, keeping first-seen order.
func ParseYearIDs(raw []string) ([]int, error) {
	parts := lo.FlatMap(raw, func(s string, _ int) []string {
		return strings.Split(s, ",")
	})

	ids := lo.FilterMap(parts, func(s string, _ int) (int, bool) {
		s = strings.TrimSpace(s)
		if !yearIDPattern.MatchString(s) {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	})

	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, ErrInvalidYears
	}
	return ids, nil
}

// FormatYearLabel renders a year id such as 201601 as "2016前期" and 201602
// as "2016後期". Other ids fall back to their first four digits.
func FormatYearLabel(yearID int) string {
	if yearID == 0 {
		return ""
	}
	s := strconv.Itoa(yearID)
	if len(s) < 4 {
		return s
	}
	year := s[:4]
	switch {
	case strings.HasSuffix(s, "01"):
		return year + "前期"
	case strings.HasSuffix(s, "02"):
		return year + "後期"
	default:
		return year
	}
}
