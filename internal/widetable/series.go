package widetable

import (
	"sort"
	"time"

	"lostark-market/internal/gametime"
)

// Series is a wide table transposed for a selected item set: parsed run
// timestamps in chronological order, one price column per item. Values are
// nil where an item has no observation at that run. Built per request,
// never persisted.
type Series struct {
	Times  []time.Time
	Items  []string
	Values [][]*float64 // Values[i][j]: price of Items[j] at Times[i]
}

// Reshape filters the table to the selected item names, drops key metadata
// and transposes it into a Series. Column labels that do not parse as run
// timestamps are dropped rather than reported. An empty selection or empty
// table yields an empty series.
func (t *Table) Reshape(selected []string) *Series {
	s := &Series{}
	if t == nil || len(selected) == 0 {
		return s
	}

	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		want[name] = true
	}
	var rows []*Row
	for _, row := range t.Rows {
		if want[row.ItemName] {
			rows = append(rows, row)
			s.Items = append(s.Items, row.ItemName)
		}
	}
	if len(rows) == 0 {
		return s
	}

	type column struct {
		label string
		at    time.Time
	}
	var cols []column
	for _, label := range t.TimeColumns {
		at, err := time.ParseInLocation(TimeLayout, label, gametime.KST)
		if err != nil {
			continue
		}
		cols = append(cols, column{label: label, at: at})
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].at.Before(cols[j].at) })

	for _, col := range cols {
		s.Times = append(s.Times, col.at)
		values := make([]*float64, len(rows))
		for j, row := range rows {
			if price, ok := row.Cells[col.label]; ok {
				p := price
				values[j] = &p
			}
		}
		s.Values = append(s.Values, values)
	}
	return s
}

// ItemSeries returns the chronological prices of one item with gaps removed,
// paired with their observation times.
func (s *Series) ItemSeries(name string) (times []time.Time, prices []float64) {
	idx := -1
	for j, item := range s.Items {
		if item == name {
			idx = j
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}
	for i, row := range s.Values {
		if row[idx] != nil {
			times = append(times, s.Times[i])
			prices = append(prices, *row[idx])
		}
	}
	return times, prices
}
