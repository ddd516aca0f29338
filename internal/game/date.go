package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

var dateLayouts = []string{DateLayout, "02/01/2006", "2/1/2006", "02-01-2006"}

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	return w
}()

// ParseDate reads a game date from the setup form. ISO and UK numeric dates
// are tried first, then natural phrases such as "today" or "next tuesday"
// relative to now.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t, nil
		}
	}

	r, err := dateParser.Parse(strings.ToLower(input), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not recognize date %q", input)
	}
	y, m, d := r.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
