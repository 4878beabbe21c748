package logging

import (
	"log/slog"
	"testing"
)

func TestBuffer_CapturesRecords(t *testing.T) {
	buf := NewBuffer(10)
	logger := slog.New(buf)

	logger.Info("server path resolved", "path", "/tmp/Server~")
	logger.Warn("config file missing")
	logger.Error("npm exited non-zero")

	entries := buf.Snapshot()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	if entries[0].Type != "info" {
		t.Errorf("entries[0].Type = %q, want info", entries[0].Type)
	}
	if entries[1].Type != "warning" {
		t.Errorf("entries[1].Type = %q, want warning", entries[1].Type)
	}
	if entries[2].Type != "error" {
		t.Errorf("entries[2].Type = %q, want error", entries[2].Type)
	}
	if entries[2].StackTrace == "" {
		t.Error("error entry should carry a stack trace")
	}
	if entries[0].StackTrace != "" {
		t.Error("info entry should not carry a stack trace")
	}
}

func TestBuffer_AttrsFoldedIntoMessage(t *testing.T) {
	buf := NewBuffer(10)
	slog.New(buf).Info("syncing", "client", "cursor")

	entries := buf.Snapshot()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].Message; got != "syncing client=cursor" {
		t.Errorf("Message = %q", got)
	}
}

func TestBuffer_EvictsOldest(t *testing.T) {
	buf := NewBuffer(3)
	logger := slog.New(buf)

	for _, msg := range []string{"one", "two", "three", "four"} {
		logger.Info(msg)
	}

	entries := buf.Snapshot()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Message != "two" {
		t.Errorf("oldest entry = %q, want %q", entries[0].Message, "two")
	}
	if entries[2].Message != "four" {
		t.Errorf("newest entry = %q, want %q", entries[2].Message, "four")
	}
}

func TestBuffer_Query(t *testing.T) {
	buf := NewBuffer(100)
	logger := slog.New(buf)

	for i := 0; i < 47; i++ {
		logger.Info("info entry")
	}
	for i := 0; i < 3; i++ {
		logger.Error("error entry")
	}

	entries, returned, filtered, total := buf.Query("error", 0, 10)
	if returned != 3 || filtered != 3 || total != 50 {
		t.Errorf("counts = (%d, %d, %d), want (3, 3, 50)", returned, filtered, total)
	}
	for _, e := range entries {
		if e.Type != "error" {
			t.Errorf("entry type = %q, want error", e.Type)
		}
	}
}

func TestBuffer_QueryWindow(t *testing.T) {
	buf := NewBuffer(100)
	logger := slog.New(buf)
	for i := 0; i < 20; i++ {
		logger.Info("entry")
	}

	_, returned, filtered, total := buf.Query("", 15, 10)
	if returned != 5 {
		t.Errorf("returned = %d, want 5", returned)
	}
	if filtered != 20 || total != 20 {
		t.Errorf("filtered/total = %d/%d, want 20/20", filtered, total)
	}

	// Offset past the end yields an empty window, not an error
	entries, returned, _, _ := buf.Query("", 100, 10)
	if len(entries) != 0 || returned != 0 {
		t.Errorf("expected empty window, got %d entries", len(entries))
	}
}
