package detector

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSample(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portal.log")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspectFile(t *testing.T) {
	path := writeSample(t,
		"2025-09-10 09:39:02.123 INFO [User: IC118451] opened documents\n"+
			"2025-09-10 09:39:03.456 INFO heartbeat\n"+
			"stack trace line [User: IC118451]\n"+
			"random noise\n"+
			"\n"+
			"2025-09-11 10:00:00.001 WARN [User: AB42] login\n")

	result, err := New().InspectFile(context.Background(), path)
	if err != nil {
		t.Fatalf("InspectFile() error = %v", err)
	}

	if result.Sampled != 5 {
		t.Errorf("Sampled = %d, want 5 (blank lines skipped)", result.Sampled)
	}
	if result.Assignable != 2 {
		t.Errorf("Assignable = %d, want 2", result.Assignable)
	}
	if result.DateOnly != 1 {
		t.Errorf("DateOnly = %d, want 1", result.DateOnly)
	}
	if result.UserOnly != 1 {
		t.Errorf("UserOnly = %d, want 1", result.UserOnly)
	}
	if result.Unmatched != 1 {
		t.Errorf("Unmatched = %d, want 1", result.Unmatched)
	}
	if want := []string{"2025-09-10", "2025-09-11"}; !reflect.DeepEqual(result.Dates, want) {
		t.Errorf("Dates = %v, want %v", result.Dates, want)
	}
	if want := []string{"AB42", "IC118451"}; !reflect.DeepEqual(result.Users, want) {
		t.Errorf("Users = %v, want %v", result.Users, want)
	}
}

func TestInspectFile_SampleSize(t *testing.T) {
	var lines string
	for i := 0; i < 20; i++ {
		lines += "2025-09-10 09:00:00.000 INFO [User: IC118451] x\n"
	}
	path := writeSample(t, lines)

	result, err := New(WithSampleSize(5)).InspectFile(context.Background(), path)
	if err != nil {
		t.Fatalf("InspectFile() error = %v", err)
	}
	if result.Sampled != 5 {
		t.Errorf("Sampled = %d, want 5", result.Sampled)
	}
}

func TestInspectFile_MatchRate(t *testing.T) {
	path := writeSample(t,
		"2025-09-10 09:00:00.000 INFO [User: IC118451] x\n"+
			"noise\n")

	result, err := New().InspectFile(context.Background(), path)
	if err != nil {
		t.Fatalf("InspectFile() error = %v", err)
	}
	if got := result.MatchRate(); got != 0.5 {
		t.Errorf("MatchRate() = %v, want 0.5", got)
	}

	empty := &Result{}
	if got := empty.MatchRate(); got != 0 {
		t.Errorf("MatchRate() on empty result = %v, want 0", got)
	}
}

func TestInspectFile_MissingFile(t *testing.T) {
	_, err := New().InspectFile(context.Background(), filepath.Join(t.TempDir(), "nope.log"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
