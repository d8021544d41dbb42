package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/portal-tools/portalstats/pkg/output"
	"github.com/portal-tools/portalstats/pkg/splitter"
)

func newTestReport() *output.Report {
	result := &splitter.RunResult{
		Files: []splitter.FileResult{
			{Path: "logs/raw/portal.log", Lines: 50, Assigned: 40, Skipped: 10, Sinks: 2},
		},
		LinesProcessed: 50,
		LinesAssigned:  40,
		LinesSkipped:   10,
		SinksOpened:    2,
		StartedAt:      time.Now(),
	}
	return output.NewReport(result, "logs/raw", "logs/splits")
}

func TestSend_Success(t *testing.T) {
	var gotContentType, gotAuth, gotUserAgent string
	var gotBody output.Report

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotUserAgent = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient()
	resp := client.Send(context.Background(), newTestReport(), SendOptions{
		URL:   srv.URL,
		Token: "test-token",
	})

	if !resp.Success() {
		t.Fatalf("Send failed: status=%d err=%v", resp.StatusCode, resp.Error)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotUserAgent != "portalstats-webhook" {
		t.Errorf("User-Agent = %q", gotUserAgent)
	}
	if gotBody.Summary.LinesProcessed != 50 {
		t.Errorf("payload LinesProcessed = %d, want 50", gotBody.Summary.LinesProcessed)
	}
}

func TestSend_NoToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{URL: srv.URL})

	if !resp.Success() {
		t.Fatalf("Send failed: %v", resp.Error)
	}
	if gotAuth != "" {
		t.Errorf("Authorization should be empty, got %q", gotAuth)
	}
}

func TestSend_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ingest unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{URL: srv.URL})

	if resp.Success() {
		t.Fatal("expected failure for 503 response")
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", resp.StatusCode)
	}
	if resp.Error == nil {
		t.Error("expected Error to be set for status >= 400")
	}
}

func TestSend_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // close immediately so the request fails

	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{URL: srv.URL})

	if resp.Success() {
		t.Fatal("expected failure for unreachable endpoint")
	}
	if resp.Error == nil {
		t.Error("expected a transport error")
	}
}

func TestSend_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{
		URL:     srv.URL,
		Timeout: 20 * time.Millisecond,
	})

	if resp.Success() {
		t.Fatal("expected timeout failure")
	}
}
