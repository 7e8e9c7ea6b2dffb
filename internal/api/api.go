package api

import (
	"errors"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lostark-market/internal/analysis"
	"lostark-market/internal/catalog"
	"lostark-market/internal/gametime"
	"lostark-market/internal/overlay"
	"lostark-market/internal/widetable"

	"github.com/gin-gonic/gin"
)

// Handler serves the dashboard API on top of the wide-table files.
type Handler struct {
	catalog    *catalog.Catalog
	dataDir    string
	eventsPath string
	cache      *tableCache
	hub        *Hub
}

// SetupRoutes registers every dashboard route on the given group.
func SetupRoutes(r *gin.RouterGroup, cat *catalog.Catalog, dataDir, eventsPath string, hub *Hub) *Handler {
	h := &Handler{
		catalog:    cat,
		dataDir:    dataDir,
		eventsPath: eventsPath,
		cache:      newTableCache(5 * time.Minute),
		hub:        hub,
	}

	r.GET("/categories", h.ListCategories)

	market := r.Group("/market/:category")
	{
		market.GET("/items", h.ListItems)
		market.GET("/series", h.GetSeries)
		market.GET("/status", h.GetStatus)
		market.GET("/daily", h.GetDaily)
		market.GET("/overlay", h.GetOverlay)
		market.GET("/exchange", h.GetExchange)
		market.GET("/export", h.ExportXLSX)
	}
	return h
}

// loadTable reads (or reuses a recent copy of) the wide table behind a
// category. Missing files are not an error: a category that has never been
// collected serves empty data.
func (h *Handler) loadTable(cat *catalog.Category) (*widetable.Table, error) {
	return h.cache.get(cat.Key, func() (*widetable.Table, error) {
		path := filepath.Join(h.dataDir, cat.File)
		t, err := widetable.Load(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return widetable.New(cat.HasSubCategory()), nil
			}
			return nil, err
		}
		return t, nil
	})
}

func (h *Handler) category(c *gin.Context) (*catalog.Category, bool) {
	cat, ok := h.catalog.Category(c.Param("category"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return nil, false
	}
	return cat, true
}

// ListCategories returns the dashboard tabs.
func (h *Handler) ListCategories(c *gin.Context) {
	type categoryInfo struct {
		Key            string `json:"key"`
		Label          string `json:"label"`
		HasSubCategory bool   `json:"has_sub_category"`
	}
	out := make([]categoryInfo, 0, len(h.catalog.Categories))
	for i := range h.catalog.Categories {
		cat := &h.catalog.Categories[i]
		out = append(out, categoryInfo{Key: cat.Key, Label: cat.Label, HasSubCategory: cat.HasSubCategory()})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// ListItems returns the item picker contents for one category, optionally
// filtered by sub-category.
func (h *Handler) ListItems(c *gin.Context) {
	cat, ok := h.category(c)
	if !ok {
		return
	}
	t, err := h.loadTable(cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	subFilter := c.Query("sub_category")
	type itemInfo struct {
		Name        string `json:"name"`
		SubCategory string `json:"sub_category,omitempty"`
	}
	var items []itemInfo
	subs := make(map[string]bool)
	for _, row := range t.Rows {
		if row.SubCategory != "" {
			subs[row.SubCategory] = true
		}
		if subFilter != "" && row.SubCategory != subFilter {
			continue
		}
		items = append(items, itemInfo{Name: row.ItemName, SubCategory: row.SubCategory})
	}
	subList := make([]string, 0, len(subs))
	for s := range subs {
		subList = append(subList, s)
	}
	sort.Strings(subList)
	c.JSON(http.StatusOK, gin.H{"items": items, "sub_categories": subList})
}

type bollingerOverlay struct {
	Item   string     `json:"item"`
	Upper  []*float64 `json:"upper"`
	Middle []*float64 `json:"middle"`
	Lower  []*float64 `json:"lower"`
}

// GetSeries returns the reshaped time series for the selected items, plus
// Bollinger reference bands for one item when requested via ?bollinger=.
func (h *Handler) GetSeries(c *gin.Context) {
	cat, ok := h.category(c)
	if !ok {
		return
	}
	t, err := h.loadTable(cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	selected := splitParam(c.Query("items"))
	series := t.Reshape(selected)

	resp := gin.H{
		"times":  formatTimes(series.Times),
		"items":  series.Items,
		"values": series.Values,
	}

	if bandItem := c.Query("bollinger"); bandItem != "" {
		if ov := bollingerFor(series, bandItem); ov != nil {
			resp["bollinger"] = ov
		}
	}
	c.JSON(http.StatusOK, resp)
}

// bollingerFor computes the reference band over one item's own observations
// and re-aligns it to the series' full time axis.
func bollingerFor(series *widetable.Series, item string) *bollingerOverlay {
	times, prices := series.ItemSeries(item)
	if len(prices) == 0 {
		return nil
	}
	upper, middle, lower := analysis.Bollinger(prices, 24, 2)

	at := make(map[time.Time]int, len(times))
	for i, ts := range times {
		at[ts] = i
	}
	ov := &bollingerOverlay{Item: item}
	for _, ts := range series.Times {
		if i, ok := at[ts]; ok {
			ov.Upper = append(ov.Upper, floatPtr(upper[i]))
			ov.Middle = append(ov.Middle, floatPtr(middle[i]))
			ov.Lower = append(ov.Lower, floatPtr(lower[i]))
		} else {
			ov.Upper = append(ov.Upper, nil)
			ov.Middle = append(ov.Middle, nil)
			ov.Lower = append(ov.Lower, nil)
		}
	}
	return ov
}

// GetStatus returns the composite market signal for one item.
func (h *Handler) GetStatus(c *gin.Context) {
	cat, ok := h.category(c)
	if !ok {
		return
	}
	item := c.Query("item")
	if item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item is required"})
		return
	}
	t, err := h.loadTable(cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	series := t.Reshape([]string{item})
	_, prices := series.ItemSeries(item)
	status := analysis.ComputeStatus(prices)
	c.JSON(http.StatusOK, gin.H{"item": item, "status": status})
}

// GetDaily returns per-game-day averages with day-over-day deltas.
func (h *Handler) GetDaily(c *gin.Context) {
	cat, ok := h.category(c)
	if !ok {
		return
	}
	t, err := h.loadTable(cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	series := t.Reshape(splitParam(c.Query("items")))
	c.JSON(http.StatusOK, gin.H{"daily": overlay.DailyAverages(series)})
}

// GetOverlay returns maintenance bands and event markers for the observed
// range of the category's table.
func (h *Handler) GetOverlay(c *gin.Context) {
	cat, ok := h.category(c)
	if !ok {
		return
	}
	t, err := h.loadTable(cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	from, to, ok := observedRange(t)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"bands": []overlay.Band{}, "events": []overlay.Event{}})
		return
	}

	events, err := overlay.LoadEvents(h.eventsPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bands":  overlay.MaintenanceBands(from, to),
		"events": overlay.EventMarkers(events, from, to),
	})
}

type exchangeComparison struct {
	Low           string  `json:"low"`
	High          string  `json:"high"`
	Ratio         int     `json:"ratio"`
	LowPrice      float64 `json:"low_price"`
	HighPrice     float64 `json:"high_price"`
	ExchangeCost  float64 `json:"exchange_cost"`  // latest low price x ratio
	AdvantageUnit float64 `json:"advantage_unit"` // high price minus exchange cost
	Advantage100  float64 `json:"advantage_100"`  // per 100-bundle
	Verdict       string  `json:"verdict"`
}

// GetExchange compares configured low/high exchange pairs among the
// selected items using the latest observation of each side.
func (h *Handler) GetExchange(c *gin.Context) {
	cat, ok := h.category(c)
	if !ok {
		return
	}
	t, err := h.loadTable(cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	selected := splitParam(c.Query("items"))
	inSelection := func(name string) bool {
		if len(selected) == 0 {
			return true
		}
		for _, s := range selected {
			if s == name {
				return true
			}
		}
		return false
	}

	var comparisons []exchangeComparison
	for _, pair := range h.catalog.ExchangePairs {
		if !inSelection(pair.Low) || !inSelection(pair.High) {
			continue
		}
		series := t.Reshape([]string{pair.Low, pair.High})
		_, lowPrices := series.ItemSeries(pair.Low)
		_, highPrices := series.ItemSeries(pair.High)
		if len(lowPrices) == 0 || len(highPrices) == 0 {
			continue
		}
		low := lowPrices[len(lowPrices)-1]
		high := highPrices[len(highPrices)-1]
		cost := low * float64(pair.Ratio)
		advantage := high - cost

		verdict := "even"
		if advantage > 0 {
			verdict = "exchange"
		} else if advantage < 0 {
			verdict = "buy"
		}
		comparisons = append(comparisons, exchangeComparison{
			Low: pair.Low, High: pair.High, Ratio: pair.Ratio,
			LowPrice: low, HighPrice: high,
			ExchangeCost:  cost,
			AdvantageUnit: advantage,
			Advantage100:  advantage * 100,
			Verdict:       verdict,
		})
	}
	c.JSON(http.StatusOK, gin.H{"pairs": comparisons})
}

func observedRange(t *widetable.Table) (from, to time.Time, ok bool) {
	for _, label := range t.TimeColumns {
		at, err := time.ParseInLocation(gametime.Layout, label, gametime.KST)
		if err != nil {
			continue
		}
		if !ok || at.Before(from) {
			from = at
		}
		if !ok || at.After(to) {
			to = at
		}
		ok = true
	}
	return from, to, ok
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func formatTimes(times []time.Time) []string {
	out := make([]string, len(times))
	for i, t := range times {
		out[i] = t.Format(gametime.Layout)
	}
	return out
}

func floatPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
