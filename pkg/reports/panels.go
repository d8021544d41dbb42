package reports

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/portal-tools/portalstats/pkg/splitter"
)

// Base panels are standard across all users and do not count toward the
// concurrent employee-panel limit.
var basePanels = map[string]bool{
	"employees":  true,
	"documents":  true,
	"import":     true,
	"reports":    true,
	"management": true,
}

// The portal allows at most 5 employee panels open at once per user.
const maxConcurrentEmployeePanels = 5

var (
	panelActivatedPattern = regexp.MustCompile(`Switch Panel Activated: (\w+)`)
	panelAddedPattern     = regexp.MustCompile(`Switch Panel Added: (\w+)`)
	panelRemovedPattern   = regexp.MustCompile(`Switch Panel Removed: (\w+)`)
)

// panelTracker tracks panel state for a single user across the whole
// analysis window.
type panelTracker struct {
	user            string
	baseActivations map[string]int
	opened          map[string]bool // employee panels ever opened
	current         map[string]bool // employee panels open right now
	order           []string        // insertion order of current, for eviction
	maxConcurrent   int
	switches        int
	lastActivated   string
	history         []string // activation order of open employee panels
}

func newPanelTracker(user string) *panelTracker {
	return &panelTracker{
		user:            user,
		baseActivations: make(map[string]int),
		opened:          make(map[string]bool),
		current:         make(map[string]bool),
	}
}

func (t *panelTracker) activated(panel string) {
	if basePanels[panel] {
		t.baseActivations[panel]++
		return
	}

	// A switch is re-activating a panel that is already open and was
	// activated before, while another panel was in front.
	if t.lastActivated != "" && t.lastActivated != panel && t.current[panel] {
		if contains(t.history, panel) {
			t.switches++
		}
	}

	t.lastActivated = panel
	if !contains(t.history, panel) {
		t.history = append(t.history, panel)
	}
}

func (t *panelTracker) added(panel string) {
	if basePanels[panel] {
		return
	}

	t.opened[panel] = true
	if !t.current[panel] {
		t.current[panel] = true
		t.order = append(t.order, panel)
	}

	// Missing Removed events can push the tracked state past the portal's
	// limit; evict oldest panels to stay within it.
	for len(t.current) > maxConcurrentEmployeePanels {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.current, oldest)
	}

	if len(t.current) > t.maxConcurrent {
		t.maxConcurrent = len(t.current)
	}
}

func (t *panelTracker) removed(panel string) {
	if basePanels[panel] {
		return
	}

	delete(t.current, panel)
	t.order = remove(t.order, panel)
	if t.lastActivated == panel {
		t.lastActivated = ""
	}
	t.history = remove(t.history, panel)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// PanelReport summarizes switch-panel usage per user: base panel
// activations, concurrent employee panels, and switching behavior.
type PanelReport struct {
	trackers map[string]*panelTracker
}

// NewPanelReport creates an empty panel usage report.
func NewPanelReport() *PanelReport {
	return &PanelReport{trackers: make(map[string]*panelTracker)}
}

// AddFile scans every line of f for panel events.
func (r *PanelReport) AddFile(f SplitFile) error {
	file, err := os.Open(f.Path) // #nosec G304 -- paths come from the split tree walker
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		user, ok := splitter.MatchUser(line)
		if !ok {
			continue
		}

		tracker := r.trackers[user]
		if tracker == nil {
			tracker = newPanelTracker(user)
			r.trackers[user] = tracker
		}

		switch {
		case strings.Contains(line, "Switch Panel Activated:"):
			if m := panelActivatedPattern.FindStringSubmatch(line); m != nil {
				tracker.activated(m[1])
			}
		case strings.Contains(line, "Switch Panel Added:"):
			if m := panelAddedPattern.FindStringSubmatch(line); m != nil {
				tracker.added(m[1])
			}
		case strings.Contains(line, "Switch Panel Removed:"):
			if m := panelRemovedPattern.FindStringSubmatch(line); m != nil {
				tracker.removed(m[1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return nil
}

// WriteCSV writes the per-user summaries, base panel totals, and concurrent
// panel distribution to dir.
func (r *PanelReport) WriteCSV(dir string) error {
	users := make([]string, 0, len(r.trackers))
	for u := range r.trackers {
		users = append(users, u)
	}
	sort.Strings(users)

	if err := writeCSV(dir+"/panel_selection_user_summaries.csv",
		[]string{
			"user", "total_base_activations",
			"employees_activations", "documents_activations", "import_activations",
			"reports_activations", "management_activations",
			"unique_employee_panels_opened", "max_concurrent_employee_panels",
			"employee_panel_switches", "has_switched_employee_panels",
		},
		r.userSummaryRows(users)); err != nil {
		return err
	}

	if err := writeCSV(dir+"/panel_selection_base_panels.csv",
		[]string{"panel", "total_activations"},
		r.basePanelRows()); err != nil {
		return err
	}

	return writeCSV(dir+"/panel_selection_concurrent_distribution.csv",
		[]string{"concurrent_panels", "user_count", "percentage"},
		r.concurrentDistributionRows(users))
}

func (r *PanelReport) userSummaryRows(users []string) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		t := r.trackers[u]
		totalBase := 0
		for _, n := range t.baseActivations {
			totalBase += n
		}
		rows = append(rows, []string{
			u, itoa(totalBase),
			itoa(t.baseActivations["employees"]), itoa(t.baseActivations["documents"]),
			itoa(t.baseActivations["import"]), itoa(t.baseActivations["reports"]),
			itoa(t.baseActivations["management"]),
			itoa(len(t.opened)), itoa(t.maxConcurrent),
			itoa(t.switches), btoa(t.switches > 0),
		})
	}
	return rows
}

func (r *PanelReport) basePanelRows() [][]string {
	totals := make(map[string]int)
	for _, t := range r.trackers {
		for panel, n := range t.baseActivations {
			totals[panel] += n
		}
	}

	panels := make([]string, 0, len(totals))
	for p := range totals {
		panels = append(panels, p)
	}
	sort.Slice(panels, func(i, j int) bool {
		if totals[panels[i]] != totals[panels[j]] {
			return totals[panels[i]] > totals[panels[j]]
		}
		return panels[i] < panels[j]
	})

	rows := make([][]string, 0, len(panels))
	for _, p := range panels {
		rows = append(rows, []string{p, itoa(totals[p])})
	}
	return rows
}

func (r *PanelReport) concurrentDistributionRows(users []string) [][]string {
	buckets := map[string]int{
		"0_panels":         0,
		"1_panel":          0,
		"2_panels":         0,
		"3_panels":         0,
		"4_or_more_panels": 0,
	}
	for _, u := range users {
		switch n := r.trackers[u].maxConcurrent; n {
		case 0:
			buckets["0_panels"]++
		case 1:
			buckets["1_panel"]++
		case 2:
			buckets["2_panels"]++
		case 3:
			buckets["3_panels"]++
		default:
			buckets["4_or_more_panels"]++
		}
	}

	names := []string{"0_panels", "1_panel", "2_panels", "3_panels", "4_or_more_panels"}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		pct := 0.0
		if len(users) > 0 {
			pct = float64(buckets[name]) / float64(len(users)) * 100
		}
		rows = append(rows, []string{name, itoa(buckets[name]), fmt.Sprintf("%.2f%%", pct)})
	}
	return rows
}
