// Package overlay produces the calendar annotations rendered on top of
// price charts: weekly maintenance bands, one-off event markers and
// game-day aggregates.
package overlay

import (
	"time"

	"lostark-market/internal/gametime"
	"lostark-market/internal/widetable"
)

// Scheduled maintenance runs every Wednesday from 06:00 to 10:00 KST.
const (
	maintenanceWeekday   = time.Wednesday
	maintenanceStartHour = 6
	maintenanceEndHour   = 10
)

// Band is a shaded interval on the time axis.
type Band struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MaintenanceBands returns one band per scheduled maintenance window that
// overlaps the observed range [from, to].
func MaintenanceBands(from, to time.Time) []Band {
	if to.Before(from) {
		return nil
	}
	var bands []Band
	day := time.Date(from.In(gametime.KST).Year(), from.In(gametime.KST).Month(), from.In(gametime.KST).Day(),
		0, 0, 0, 0, gametime.KST)
	for !day.After(to.In(gametime.KST)) {
		if day.Weekday() == maintenanceWeekday {
			start := day.Add(maintenanceStartHour * time.Hour)
			end := day.Add(maintenanceEndHour * time.Hour)
			if !end.Before(from) && !start.After(to) {
				bands = append(bands, Band{Label: "정기 점검", Start: start, End: end})
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return bands
}

// DailyPoint is one game-day aggregate for one item. Average is nil on
// days the item had no observations; Delta is nil whenever either side of
// the day-over-day comparison is unavailable.
type DailyPoint struct {
	Day     time.Time `json:"day"`
	Average *float64  `json:"average"`
	Delta   *float64  `json:"delta"`
}

// DailySeries is the per-game-day price history of one item.
type DailySeries struct {
	Item   string       `json:"item"`
	Points []DailyPoint `json:"points"`
}

// DailyAverages buckets a series into game days (06:00 KST boundary) and
// averages each item's prices per day. Every game day in the observed range
// appears in the output, with nil averages marking days without data.
func DailyAverages(series *widetable.Series) []DailySeries {
	if series == nil || len(series.Times) == 0 {
		return nil
	}

	firstDay := gametime.GameDay(series.Times[0])
	lastDay := gametime.GameDay(series.Times[len(series.Times)-1])

	result := make([]DailySeries, 0, len(series.Items))
	for _, item := range series.Items {
		times, prices := series.ItemSeries(item)

		sums := make(map[time.Time]float64)
		counts := make(map[time.Time]int)
		for i, t := range times {
			day := gametime.GameDay(t)
			sums[day] += prices[i]
			counts[day]++
		}

		ds := DailySeries{Item: item}
		var prev *float64
		for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
			point := DailyPoint{Day: day}
			if n := counts[day]; n > 0 {
				avg := sums[day] / float64(n)
				point.Average = &avg
				if prev != nil {
					delta := avg - *prev
					point.Delta = &delta
				}
				prev = &avg
			} else {
				prev = nil
			}
			ds.Points = append(ds.Points, point)
		}
		result = append(result, ds)
	}
	return result
}
