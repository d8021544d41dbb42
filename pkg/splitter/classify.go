package splitter

import "regexp"

// Line grammar of the portal's logging subsystem. The two patterns are
// matched independently so a date-only miss, a user-only miss, and a full
// miss stay distinguishable.
var (
	datePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+\d{2}:\d{2}:\d{2}\.\d+`)
	userPattern = regexp.MustCompile(`\[User:\s*([A-Z0-9]+)\]`)
)

// Key identifies one output sink: all lines for a single user on a single
// calendar date.
type Key struct {
	Date string // YYYY-MM-DD
	User string // uppercase alphanumeric token
}

// MatchDate extracts the calendar date from the date+time anchor at the
// start of a line.
func MatchDate(line string) (string, bool) {
	m := datePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchUser extracts the user token from a [User: ...] marker anywhere in
// the line.
func MatchUser(line string) (string, bool) {
	m := userPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Classify assigns a line to a (date, user) key. A line is assigned only
// when both extractions succeed on that same line.
func Classify(line string) (Key, bool) {
	date, ok := MatchDate(line)
	if !ok {
		return Key{}, false
	}
	user, ok := MatchUser(line)
	if !ok {
		return Key{}, false
	}
	return Key{Date: date, User: user}, true
}
