package reports

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/mssola/useragent"
)

var userAgentPattern = regexp.MustCompile(`\[UserAgent:\s*(.+?)\]`)

// UserAgentRecord is the device profile extracted from one split file. The
// portal stamps the user agent on every line, so the first line of a user's
// day is enough.
type UserAgentRecord struct {
	Date    string
	User    string
	Raw     string
	Browser string
	OS      string
	Device  string
	Mobile  bool
	Bot     bool
}

// UserAgentReport collects one device profile per (date, user) pair.
type UserAgentReport struct {
	records []UserAgentRecord
	seen    map[string]bool
}

// NewUserAgentReport creates an empty user agent report.
func NewUserAgentReport() *UserAgentReport {
	return &UserAgentReport{seen: make(map[string]bool)}
}

// AddFile reads the first line of f and records its user agent. Files
// without a UserAgent marker are ignored; duplicate (date, user) pairs keep
// the first profile seen.
func (r *UserAgentReport) AddFile(f SplitFile) error {
	key := f.Date + "\x00" + f.User
	if r.seen[key] {
		return nil
	}

	file, err := os.Open(f.Path) // #nosec G304 -- paths come from the split tree walker
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !scanner.Scan() {
		return scanner.Err()
	}

	m := userAgentPattern.FindStringSubmatch(scanner.Text())
	if m == nil {
		return nil
	}
	raw := m[1]

	ua := useragent.New(raw)
	r.seen[key] = true
	r.records = append(r.records, UserAgentRecord{
		Date:    f.Date,
		User:    f.User,
		Raw:     raw,
		Browser: browserName(ua),
		OS:      osName(ua),
		Device:  deviceFamily(ua),
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	})
	return nil
}

// browserName returns "family version" with the portal's naming fixups.
func browserName(ua *useragent.UserAgent) string {
	name, version := ua.Browser()
	if name == "Edg" {
		name = "Microsoft Edge"
	}
	return strings.TrimSpace(name + " " + version)
}

// osName normalizes the OS string. Windows 11 reports as NT 10.0, so the
// two cannot be told apart from the user agent alone.
func osName(ua *useragent.UserAgent) string {
	name := strings.TrimSpace(ua.OSInfo().FullName)
	if name == "Windows 10" {
		name = "Windows 10/11"
	}
	return name
}

func deviceFamily(ua *useragent.UserAgent) string {
	if ua.Bot() {
		return "Bot"
	}
	if p := ua.Platform(); p != "" {
		return p
	}
	return "Unknown"
}

// WriteCSV writes user_agents.csv plus the per-date browser, OS, and device
// aggregates to dir.
func (r *UserAgentReport) WriteCSV(dir string) error {
	records := make([]UserAgentRecord, len(r.records))
	copy(records, r.records)
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].User < records[j].User
	})

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Date, rec.User, rec.Raw, rec.Browser, rec.OS, rec.Device,
			btoa(rec.Mobile), btoa(rec.Bot),
		})
	}
	header := []string{
		"date", "user_id", "raw_user_agent", "browser", "os", "device",
		"is_mobile", "is_bot",
	}
	if err := writeCSV(dir+"/user_agents.csv", header, rows); err != nil {
		return err
	}

	aggs := []struct {
		file   string
		column string
		value  func(UserAgentRecord) string
	}{
		{"agg_browsers_by_date.csv", "browser", func(r UserAgentRecord) string { return r.Browser }},
		{"agg_os_by_date.csv", "os", func(r UserAgentRecord) string { return r.OS }},
		{"agg_devices_by_date.csv", "device", func(r UserAgentRecord) string { return r.Device }},
	}
	for _, agg := range aggs {
		if err := writeCSV(dir+"/"+agg.file,
			[]string{"date", agg.column, "users_count"},
			usersByDateAnd(records, agg.value)); err != nil {
			return err
		}
	}
	return nil
}

// usersByDateAnd counts distinct users per (date, value) pair, sorted.
func usersByDateAnd(records []UserAgentRecord, value func(UserAgentRecord) string) [][]string {
	type group struct{ date, value string }
	users := make(map[group]map[string]bool)
	for _, rec := range records {
		g := group{rec.Date, value(rec)}
		if users[g] == nil {
			users[g] = make(map[string]bool)
		}
		users[g][rec.User] = true
	}

	groups := make([]group, 0, len(users))
	for g := range users {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].date != groups[j].date {
			return groups[i].date < groups[j].date
		}
		return groups[i].value < groups[j].value
	})

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.date, g.value, itoa(len(users[g]))})
	}
	return rows
}
