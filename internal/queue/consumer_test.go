package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsumerHandleAppendsToConfiguredLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "events", "booking.log")
	c := NewConsumer("amqp://unused", logPath)

	ev := BookingConfirmedEvent{
		BookingID:  "b-123",
		Username:   "alice",
		MovieTitle: "Dune",
		ShowtimeID: "ST_0",
		StartsAt:   "2026-09-01 20:00",
		Seats:      []string{"A1", "A2"},
		TotalPrice: 30.0,
		Auditorium: "Main",
		BookedAt:   "2026-08-31T12:00:00Z",
	}
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if err := c.handle(body); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := c.handle(body); err != nil {
		t.Fatalf("expected nil error on second message, got %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("expected log file at configured path, got %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 appended lines, got %d: %q", len(lines), string(data))
	}
	for _, want := range []string{"booking_id=b-123", "user=alice", `movie="Dune"`, "total=30.00", "seats=[A1,A2]"} {
		if !strings.Contains(lines[0], want) {
			t.Fatalf("expected line to contain %q, got %q", want, lines[0])
		}
	}
}

func TestConsumerHandleRejectsMalformedMessage(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "booking.log")
	c := NewConsumer("amqp://unused", logPath)

	if err := c.handle([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed message")
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Fatalf("expected no log file for rejected message, got %v", err)
	}
}
