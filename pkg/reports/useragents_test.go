package reports

import (
	"path/filepath"
	"strings"
	"testing"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func addSplitFile(t *testing.T, r *UserAgentReport, root, date, user, firstLine string) {
	t.Helper()
	path := filepath.Join(root, date, user+".log")
	mustWrite(t, path, firstLine+"\n")
	if err := r.AddFile(SplitFile{Path: path, Date: date, User: user}); err != nil {
		t.Fatalf("AddFile(%s/%s): %v", date, user, err)
	}
}

func TestUserAgentReport(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	r := NewUserAgentReport()

	line := "2025-09-10 09:00:00.000 INFO [User: IC118451] [UserAgent: " + chromeUA + "] login"
	addSplitFile(t, r, root, "2025-09-10", "IC118451", line)
	addSplitFile(t, r, root, "2025-09-10", "AB42",
		"2025-09-10 10:00:00.000 INFO [User: AB42] [UserAgent: "+chromeUA+"] login")
	// no UserAgent marker on the first line; ignored
	addSplitFile(t, r, root, "2025-09-10", "ZZ99",
		"2025-09-10 11:00:00.000 INFO [User: ZZ99] heartbeat")

	if err := r.WriteCSV(out); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows := readCSV(t, filepath.Join(out, "user_agents.csv"))
	if len(rows) != 3 {
		t.Fatalf("user_agents.csv has %d rows, want header + 2", len(rows))
	}
	rec := rows[1] // AB42 sorts first
	if rec[0] != "2025-09-10" || rec[1] != "AB42" {
		t.Errorf("first record = %v", rec)
	}
	if rec[2] != chromeUA {
		t.Errorf("raw user agent = %q", rec[2])
	}
	if !strings.HasPrefix(rec[3], "Chrome") {
		t.Errorf("browser = %q, want Chrome family", rec[3])
	}
	if rec[4] != "Windows 10/11" {
		t.Errorf("os = %q, want Windows 10/11", rec[4])
	}
	if rec[6] != "false" || rec[7] != "false" {
		t.Errorf("mobile/bot flags = %v/%v", rec[6], rec[7])
	}

	browsers := readCSV(t, filepath.Join(out, "agg_browsers_by_date.csv"))
	if len(browsers) != 2 {
		t.Fatalf("agg_browsers_by_date.csv has %d rows, want 2", len(browsers))
	}
	if browsers[1][0] != "2025-09-10" || browsers[1][2] != "2" {
		t.Errorf("browser aggregate row = %v, want 2 users", browsers[1])
	}

	oses := readCSV(t, filepath.Join(out, "agg_os_by_date.csv"))
	if oses[1][1] != "Windows 10/11" || oses[1][2] != "2" {
		t.Errorf("os aggregate row = %v", oses[1])
	}
}

func TestUserAgentReport_DedupesDateUser(t *testing.T) {
	root := t.TempDir()
	r := NewUserAgentReport()

	addSplitFile(t, r, root, "2025-09-10", "IC118451",
		"2025-09-10 09:00:00.000 INFO [User: IC118451] [UserAgent: "+chromeUA+"] a")

	// Same (date, user) again keeps the first profile.
	path := filepath.Join(root, "2025-09-10", "IC118451.log")
	if err := r.AddFile(SplitFile{Path: path, Date: "2025-09-10", User: "IC118451"}); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	if len(r.records) != 1 {
		t.Errorf("got %d records, want 1", len(r.records))
	}
}

func TestUserAgentReport_Bot(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	r := NewUserAgentReport()

	addSplitFile(t, r, root, "2025-09-10", "BOT01",
		"2025-09-10 03:00:00.000 INFO [User: BOT01] [UserAgent: Googlebot/2.1 (+http://www.google.com/bot.html)] crawl")

	if err := r.WriteCSV(out); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows := readCSV(t, filepath.Join(out, "user_agents.csv"))
	if rows[1][5] != "Bot" {
		t.Errorf("device = %q, want Bot", rows[1][5])
	}
	if rows[1][7] != "true" {
		t.Errorf("is_bot = %q, want true", rows[1][7])
	}
}

func TestUserAgentReport_EmptyTree(t *testing.T) {
	out := t.TempDir()
	if err := NewUserAgentReport().WriteCSV(out); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	rows := readCSV(t, filepath.Join(out, "user_agents.csv"))
	if len(rows) != 1 {
		t.Errorf("empty report should still write the header, got %d rows", len(rows))
	}
}
