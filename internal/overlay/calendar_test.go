package overlay

import (
	"testing"
	"time"

	"lostark-market/internal/gametime"
	"lostark-market/internal/widetable"
)

func kst(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, gametime.KST)
}

func TestMaintenanceBandsOneWednesday(t *testing.T) {
	// 2026-02-11 is a Wednesday; the range spans exactly that one.
	from := kst(2026, 2, 9, 12, 0)
	to := kst(2026, 2, 13, 12, 0)
	bands := MaintenanceBands(from, to)
	if len(bands) != 1 {
		t.Fatalf("got %d bands, want 1", len(bands))
	}
	if !bands[0].Start.Equal(kst(2026, 2, 11, 6, 0)) {
		t.Errorf("band start = %v, want 06:00", bands[0].Start)
	}
	if !bands[0].End.Equal(kst(2026, 2, 11, 10, 0)) {
		t.Errorf("band end = %v, want 10:00", bands[0].End)
	}
}

func TestMaintenanceBandsNoneOnTuesday(t *testing.T) {
	// Entire range inside Tuesday 2026-02-10.
	bands := MaintenanceBands(kst(2026, 2, 10, 8, 0), kst(2026, 2, 10, 20, 0))
	if len(bands) != 0 {
		t.Fatalf("got %d bands, want 0", len(bands))
	}
}

func TestMaintenanceBandRequiresOverlap(t *testing.T) {
	// The range touches Wednesday but only after the window closed.
	bands := MaintenanceBands(kst(2026, 2, 11, 11, 0), kst(2026, 2, 11, 23, 0))
	if len(bands) != 0 {
		t.Fatalf("window outside observed range must be dropped, got %d bands", len(bands))
	}
	// Partial overlap counts.
	bands = MaintenanceBands(kst(2026, 2, 11, 9, 0), kst(2026, 2, 11, 23, 0))
	if len(bands) != 1 {
		t.Fatalf("partially overlapped window must be kept, got %d bands", len(bands))
	}
}

func TestMaintenanceBandsMultipleWeeks(t *testing.T) {
	bands := MaintenanceBands(kst(2026, 2, 1, 0, 0), kst(2026, 2, 28, 23, 59))
	if len(bands) != 4 {
		t.Fatalf("February 2026 has 4 Wednesdays, got %d bands", len(bands))
	}
}

func buildSeries(t *testing.T, merges map[string][]widetable.Record) *widetable.Series {
	t.Helper()
	tab := widetable.New(false)
	var labels []string
	for label := range merges {
		labels = append(labels, label)
	}
	// Merge in label order for determinism.
	for len(labels) > 0 {
		min := 0
		for i := range labels {
			if labels[i] < labels[min] {
				min = i
			}
		}
		label := labels[min]
		labels = append(labels[:min], labels[min+1:]...)
		if err := tab.Merge(merges[label], label); err != nil {
			t.Fatal(err)
		}
	}
	items := make(map[string]bool)
	for _, batch := range merges {
		for _, rec := range batch {
			items[rec.ItemName] = true
		}
	}
	var names []string
	for name := range items {
		names = append(names, name)
	}
	return tab.Reshape(names)
}

func TestDailyAveragesBucketsByGameDay(t *testing.T) {
	series := buildSeries(t, map[string][]widetable.Record{
		// 2026-02-10 05:00 is still game day 02-09.
		"2026-02-10 05:00": {{ItemName: "a", Price: 90}},
		"2026-02-10 07:00": {{ItemName: "a", Price: 100}},
		"2026-02-10 19:00": {{ItemName: "a", Price: 110}},
		"2026-02-11 12:00": {{ItemName: "a", Price: 120}},
	})

	daily := DailyAverages(series)
	if len(daily) != 1 {
		t.Fatalf("got %d item series, want 1", len(daily))
	}
	points := daily[0].Points
	if len(points) != 3 {
		t.Fatalf("got %d game days, want 3", len(points))
	}

	if points[0].Average == nil || *points[0].Average != 90 {
		t.Errorf("game day 02-09 average = %v, want 90", points[0].Average)
	}
	if points[1].Average == nil || *points[1].Average != 105 {
		t.Errorf("game day 02-10 average = %v, want 105", points[1].Average)
	}
	if points[0].Delta != nil {
		t.Error("first day must have no delta")
	}
	if points[1].Delta == nil || *points[1].Delta != 15 {
		t.Errorf("day-over-day delta = %v, want 15", points[1].Delta)
	}
	if points[2].Delta == nil || *points[2].Delta != 15 {
		t.Errorf("second delta = %v, want 15", points[2].Delta)
	}
}

func TestDailyAveragesMissingDayIsUnavailable(t *testing.T) {
	series := buildSeries(t, map[string][]widetable.Record{
		"2026-02-10 12:00": {{ItemName: "a", Price: 100}},
		"2026-02-13 12:00": {{ItemName: "a", Price: 130}},
	})
	daily := DailyAverages(series)
	points := daily[0].Points
	if len(points) != 4 {
		t.Fatalf("got %d game days, want 4", len(points))
	}
	if points[1].Average != nil || points[2].Average != nil {
		t.Error("days without observations must be unavailable, not zero")
	}
	// No-data gap breaks the day-over-day comparison.
	if points[3].Delta != nil {
		t.Error("delta across a gap must be unavailable")
	}
}
