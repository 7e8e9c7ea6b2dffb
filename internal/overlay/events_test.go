package overlay

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEvents(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEvents(t *testing.T) {
	path := writeEvents(t, "\"PatchX\": 2026-02-11\n\"시즌 종료\": 2026-03-01\n")
	events, err := LoadEvents(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Name != "PatchX" {
		t.Errorf("name = %q", events[0].Name)
	}
	want := kst(2026, 2, 11, 0, 0)
	if !events[0].At.Equal(want) {
		t.Errorf("at = %v, want %v", events[0].At, want)
	}
	if events[1].Name != "시즌 종료" {
		t.Errorf("name = %q", events[1].Name)
	}
}

func TestLoadEventsSkipsMalformedLines(t *testing.T) {
	path := writeEvents(t, "no colon here\n\"PatchX\": 2026-02-11\n\"BadDate\": eleventh of feb\n\n")
	events, err := LoadEvents(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Name != "PatchX" {
		t.Fatalf("malformed lines must be skipped, got %+v", events)
	}
}

func TestLoadEventsMissingFile(t *testing.T) {
	events, err := LoadEvents(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if events != nil {
		t.Error("missing file must mean no events")
	}
}

func TestEventMarkersRangeFilter(t *testing.T) {
	events := []Event{
		{Name: "before", At: kst(2026, 2, 1, 0, 0)},
		{Name: "inside", At: kst(2026, 2, 11, 0, 0)},
		{Name: "after", At: kst(2026, 3, 1, 0, 0)},
	}
	markers := EventMarkers(events, kst(2026, 2, 9, 9, 0), kst(2026, 2, 13, 21, 0))
	if len(markers) != 1 || markers[0].Name != "inside" {
		t.Fatalf("markers = %+v, want only %q", markers, "inside")
	}
}

func TestEventMarkersDateCoveredByRange(t *testing.T) {
	// The observed range starts mid-day; an event at midnight of that same
	// date still counts as within range.
	events := []Event{{Name: "PatchX", At: kst(2026, 2, 11, 0, 0)}}
	markers := EventMarkers(events, kst(2026, 2, 11, 9, 0), kst(2026, 2, 12, 9, 0))
	if len(markers) != 1 {
		t.Fatalf("got %d markers, want 1", len(markers))
	}
	if hh := markers[0].At.Hour(); hh != 0 {
		t.Errorf("marker must sit at midnight, got hour %d", hh)
	}
}
