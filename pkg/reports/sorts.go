package reports

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// sortPattern matches "Result grid sort changed" events. The new-order
// payload is a serialized map; the sorted field and direction follow the
// closing brace.
var sortPattern = regexp.MustCompile(`^((\d{4}-\d{2}-\d{2}) (\d{2}):\d{2}:\d{2}\.\d+).*\[User:\s*([A-Z0-9]+)\].*Result grid sort changed\. new order:\s*\{[^}]*\}(\w+)\s+(ASC|DESC)`)

type sortEvent struct {
	date      string
	hour      int
	user      string
	field     string
	direction string
}

func (e sortEvent) combination() string {
	return e.field + " " + e.direction
}

// SortReport summarizes result-grid sort usage from the split tree.
type SortReport struct {
	events []sortEvent
}

// NewSortReport creates an empty sort usage report.
func NewSortReport() *SortReport {
	return &SortReport{}
}

// AddFile scans every line of f for sort events.
func (r *SortReport) AddFile(f SplitFile) error {
	file, err := os.Open(f.Path) // #nosec G304 -- paths come from the split tree walker
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "Result grid sort changed") {
			continue
		}
		m := sortPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		hour, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		r.events = append(r.events, sortEvent{
			date:      m[2],
			hour:      hour,
			user:      m[4],
			field:     m[5],
			direction: m[6],
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return nil
}

// WriteCSV writes the field, direction, combination, daily, hourly, and
// per-user sort usage reports to dir.
func (r *SortReport) WriteCSV(dir string) error {
	if err := writeCSV(dir+"/sort_field_summary.csv",
		[]string{"sort_field", "total_uses", "unique_users", "days_used"},
		r.usageSummary(func(e sortEvent) string { return e.field })); err != nil {
		return err
	}
	if err := writeCSV(dir+"/sort_direction_summary.csv",
		[]string{"sort_direction", "total_uses", "unique_users", "days_used"},
		r.usageSummary(func(e sortEvent) string { return e.direction })); err != nil {
		return err
	}
	if err := writeCSV(dir+"/sort_combination_summary.csv",
		[]string{"sort_combination", "total_uses", "unique_users", "days_used"},
		r.usageSummary(func(e sortEvent) string { return e.combination() })); err != nil {
		return err
	}
	if err := writeCSV(dir+"/daily_sort_usage.csv",
		[]string{"date", "total_sort_actions", "users_using_sort", "different_fields_sorted", "different_combinations"},
		r.dailyRows()); err != nil {
		return err
	}
	if err := writeCSV(dir+"/hourly_sort_usage.csv",
		[]string{"hour", "total_sort_actions", "avg_users_sorting", "different_fields_sorted"},
		r.hourlyRows()); err != nil {
		return err
	}
	return writeCSV(dir+"/user_sort_patterns.csv",
		[]string{"user_id", "total_sort_actions", "different_fields_used", "different_combinations_used", "days_active_sorting", "most_used_field", "preferred_direction"},
		r.userRows())
}

// usageSummary groups events by an arbitrary dimension and reports total
// uses, distinct users, and distinct days, most-used first.
func (r *SortReport) usageSummary(dim func(sortEvent) string) [][]string {
	type agg struct {
		total int
		users map[string]bool
		days  map[string]bool
	}
	aggs := make(map[string]*agg)
	for _, ev := range r.events {
		v := dim(ev)
		if aggs[v] == nil {
			aggs[v] = &agg{users: make(map[string]bool), days: make(map[string]bool)}
		}
		aggs[v].total++
		aggs[v].users[ev.user] = true
		aggs[v].days[ev.date] = true
	}

	values := make([]string, 0, len(aggs))
	for v := range aggs {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if aggs[values[i]].total != aggs[values[j]].total {
			return aggs[values[i]].total > aggs[values[j]].total
		}
		return values[i] < values[j]
	})

	rows := make([][]string, 0, len(values))
	for _, v := range values {
		a := aggs[v]
		rows = append(rows, []string{v, itoa(a.total), itoa(len(a.users)), itoa(len(a.days))})
	}
	return rows
}

func (r *SortReport) dailyRows() [][]string {
	type agg struct {
		total        int
		users        map[string]bool
		fields       map[string]bool
		combinations map[string]bool
	}
	aggs := make(map[string]*agg)
	for _, ev := range r.events {
		if aggs[ev.date] == nil {
			aggs[ev.date] = &agg{
				users:        make(map[string]bool),
				fields:       make(map[string]bool),
				combinations: make(map[string]bool),
			}
		}
		a := aggs[ev.date]
		a.total++
		a.users[ev.user] = true
		a.fields[ev.field] = true
		a.combinations[ev.combination()] = true
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
			d, itoa(a.total), itoa(len(a.users)), itoa(len(a.fields)), itoa(len(a.combinations)),
		})
	}
	return rows
}

func (r *SortReport) hourlyRows() [][]string {
	type agg struct {
		total  int
		users  map[string]bool
		fields map[string]bool
	}
	aggs := make(map[int]*agg)
	for _, ev := range r.events {
		if aggs[ev.hour] == nil {
			aggs[ev.hour] = &agg{users: make(map[string]bool), fields: make(map[string]bool)}
		}
		a := aggs[ev.hour]
		a.total++
		a.users[ev.user] = true
		a.fields[ev.field] = true
	}

	hours := make([]int, 0, len(aggs))
	for h := range aggs {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	rows := make([][]string, 0, len(hours))
	for _, h := range hours {
		a := aggs[h]
		rows = append(rows, []string{itoa(h), itoa(a.total), itoa(len(a.users)), itoa(len(a.fields))})
	}
	return rows
}

func (r *SortReport) userRows() [][]string {
	type agg struct {
		total        int
		fields       map[string]int
		combinations map[string]bool
		days         map[string]bool
		directions   map[string]int
	}
	aggs := make(map[string]*agg)
	for _, ev := range r.events {
		if aggs[ev.user] == nil {
			aggs[ev.user] = &agg{
				fields:       make(map[string]int),
				combinations: make(map[string]bool),
				days:         make(map[string]bool),
				directions:   make(map[string]int),
			}
		}
		a := aggs[ev.user]
		a.total++
		a.fields[ev.field]++
		a.combinations[ev.combination()] = true
		a.days[ev.date] = true
		a.directions[ev.direction]++
	}

	users := make([]string, 0, len(aggs))
	for u := range aggs {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if aggs[users[i]].total != aggs[users[j]].total {
			return aggs[users[i]].total > aggs[users[j]].total
		}
		return users[i] < users[j]
	})

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		a := aggs[u]
		rows = append(rows, []string{
			u, itoa(a.total), itoa(len(a.fields)), itoa(len(a.combinations)), itoa(len(a.days)),
			mode(a.fields), mode(a.directions),
		})
	}
	return rows
}

// mode returns the most frequent key; ties break alphabetically so output
// stays deterministic.
func mode(counts map[string]int) string {
	best := ""
	bestCount := -1
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best = k
			bestCount = n
		}
	}
	return best
}
