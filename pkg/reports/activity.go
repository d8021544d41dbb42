package reports

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// activityPattern captures the full timestamp, the date, the hour, and the
// user token from a split-file line.
var activityPattern = regexp.MustCompile(`^((\d{4}-\d{2}-\d{2}) (\d{2}):\d{2}:\d{2}\.\d+).*\[User:\s*([A-Z0-9]+)\]`)

type activityEvent struct {
	date      string
	hour      int
	timestamp string
	user      string
}

// ActivityReport builds active-user histograms from the split tree.
type ActivityReport struct {
	events []activityEvent
}

// NewActivityReport creates an empty activity report.
func NewActivityReport() *ActivityReport {
	return &ActivityReport{}
}

// AddFile scans every line of f for a timestamp+user pair.
func (r *ActivityReport) AddFile(f SplitFile) error {
	file, err := os.Open(f.Path) // #nosec G304 -- paths come from the split tree walker
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := activityPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		hour, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		r.events = append(r.events, activityEvent{
			date:      m[2],
			hour:      hour,
			timestamp: m[1],
			user:      m[4],
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return nil
}

// WriteCSV writes the hourly, daily, peak-hour, and per-user activity
// reports to dir.
func (r *ActivityReport) WriteCSV(dir string) error {
	if err := writeCSV(dir+"/hourly_active_users.csv",
		[]string{"date", "hour", "unique_users", "total_activities", "first_activity", "last_activity"},
		r.hourlyRows()); err != nil {
		return err
	}
	if err := writeCSV(dir+"/daily_active_users.csv",
		[]string{"date", "unique_users", "total_activities", "first_hour", "last_hour", "first_activity", "last_activity"},
		r.dailyRows()); err != nil {
		return err
	}
	if err := writeCSV(dir+"/peak_hours_analysis.csv",
		[]string{"hour", "avg_unique_users", "total_activities"},
		r.peakHourRows()); err != nil {
		return err
	}
	return writeCSV(dir+"/user_activity_summary.csv",
		[]string{"date", "user_id", "total_activities", "active_hours", "first_hour", "last_hour", "first_activity", "last_activity"},
		r.userSummaryRows())
}

type activityAgg struct {
	users     map[string]bool
	hours     map[int]bool
	total     int
	firstHour int
	lastHour  int
	firstTS   string
	lastTS    string
}

func newActivityAgg() *activityAgg {
	return &activityAgg{users: make(map[string]bool), hours: make(map[int]bool)}
}

func (a *activityAgg) add(ev activityEvent) {
	if a.total == 0 {
		a.firstHour, a.lastHour = ev.hour, ev.hour
		a.firstTS, a.lastTS = ev.timestamp, ev.timestamp
	}
	a.total++
	a.users[ev.user] = true
	a.hours[ev.hour] = true
	if ev.hour < a.firstHour {
		a.firstHour = ev.hour
	}
	if ev.hour > a.lastHour {
		a.lastHour = ev.hour
	}
	if ev.timestamp < a.firstTS {
		a.firstTS = ev.timestamp
	}
	if ev.timestamp > a.lastTS {
		a.lastTS = ev.timestamp
	}
}

func (r *ActivityReport) hourlyRows() [][]string {
	type key struct {
		date string
		hour int
	}
	aggs := make(map[key]*activityAgg)
	for _, ev := range r.events {
		k := key{ev.date, ev.hour}
		if aggs[k] == nil {
			aggs[k] = newActivityAgg()
		}
		aggs[k].add(ev)
	}

	keys := make([]key, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].hour < keys[j].hour
	})

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		a := aggs[k]
		rows = append(rows, []string{
			k.date, itoa(k.hour), itoa(len(a.users)), itoa(a.total), a.firstTS, a.lastTS,
		})
	}
	return rows
}

func (r *ActivityReport) dailyRows() [][]string {
	aggs := make(map[string]*activityAgg)
	for _, ev := range r.events {
		if aggs[ev.date] == nil {
			aggs[ev.date] = newActivityAgg()
		}
		aggs[ev.date].add(ev)
	}

	dates := make([]string, 0, len(aggs))
	for d := range aggs {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([][]string, 0, len(dates))
	for _, d := range dates {
		a := aggs[d]
		rows = append(rows, []string{
			d, itoa(len(a.users)), itoa(a.total),
			itoa(a.firstHour), itoa(a.lastHour), a.firstTS, a.lastTS,
		})
	}
	return rows
}

func (r *ActivityReport) peakHourRows() [][]string {
	aggs := make(map[int]*activityAgg)
	for _, ev := range r.events {
		if aggs[ev.hour] == nil {
			aggs[ev.hour] = newActivityAgg()
		}
		aggs[ev.hour].add(ev)
	}

	hours := make([]int, 0, len(aggs))
	for h := range aggs {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	rows := make([][]string, 0, len(hours))
	for _, h := range hours {
		a := aggs[h]
		rows = append(rows, []string{itoa(h), itoa(len(a.users)), itoa(a.total)})
	}
	return rows
}

func (r *ActivityReport) userSummaryRows() [][]string {
	type key struct {
		date string
		user string
	}
	aggs := make(map[key]*activityAgg)
	for _, ev := range r.events {
		k := key{ev.date, ev.user}
		if aggs[k] == nil {
			aggs[k] = newActivityAgg()
		}
		aggs[k].add(ev)
	}

	keys := make([]key, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].user < keys[j].user
	})

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		a := aggs[k]
		rows = append(rows, []string{
			k.date, k.user, itoa(a.total), itoa(len(a.hours)),
			itoa(a.firstHour), itoa(a.lastHour), a.firstTS, a.lastTS,
		})
	}
	return rows
}
