package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"lostark-market/internal/catalog"
	"lostark-market/internal/widetable"

	"github.com/gin-gonic/gin"
)

func testRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir := t.TempDir()
	tab := widetable.New(false)
	if err := tab.Merge([]widetable.Record{
		{ItemName: "정제된 파괴강석", Price: 10},
		{ItemName: "운명의 파괴석", Price: 80},
	}, "2026-01-01 10:00"); err != nil {
		t.Fatal(err)
	}
	if err := tab.Merge([]widetable.Record{
		{ItemName: "정제된 파괴강석", Price: 12},
		{ItemName: "운명의 파괴석", Price: 90},
	}, "2026-01-01 11:00"); err != nil {
		t.Fatal(err)
	}
	if err := tab.Save(filepath.Join(dataDir, "market_materials.csv")); err != nil {
		t.Fatal(err)
	}

	cat := &catalog.Catalog{
		Categories: []catalog.Category{
			{Key: "materials", Label: "재료", File: "market_materials.csv",
				CategoryCode: 50000, Mode: catalog.ModeSearch, Match: catalog.MatchContains,
				Items: []catalog.Item{{Name: "운명의 파괴석", Tier: 4}}},
			{Key: "gems", Label: "보석", File: "market_gems.csv",
				CategoryCode: 210500, Mode: catalog.ModeAuction,
				Items: []catalog.Item{{Name: "10레벨 겁화의 보석", Tier: 4}}},
		},
		ExchangePairs: []catalog.ExchangePair{
			{Low: "정제된 파괴강석", High: "운명의 파괴석", Ratio: 5},
		},
	}

	r := gin.New()
	SetupRoutes(r.Group("/api/v1"), cat, dataDir, filepath.Join(dataDir, "events.txt"), NewHub())
	return r, dataDir
}

func getJSON(t *testing.T, r *gin.Engine, path string, out interface{}) int {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return w.Code
}

func TestListCategories(t *testing.T) {
	r, _ := testRouter(t)
	var resp struct {
		Categories []struct {
			Key   string `json:"key"`
			Label string `json:"label"`
		} `json:"categories"`
	}
	if code := getJSON(t, r, "/api/v1/categories", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Categories) != 2 || resp.Categories[0].Key != "materials" {
		t.Errorf("categories = %+v", resp.Categories)
	}
}

func TestUnknownCategoryIs404(t *testing.T) {
	r, _ := testRouter(t)
	if code := getJSON(t, r, "/api/v1/market/nope/items", nil); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestListItems(t *testing.T) {
	r, _ := testRouter(t)
	var resp struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if code := getJSON(t, r, "/api/v1/market/materials/items", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Items) != 2 {
		t.Errorf("items = %+v", resp.Items)
	}
}

func TestUncollectedCategoryServesEmpty(t *testing.T) {
	r, _ := testRouter(t)
	var resp struct {
		Items []interface{} `json:"items"`
	}
	if code := getJSON(t, r, "/api/v1/market/gems/items", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Items) != 0 {
		t.Errorf("expected empty item list, got %+v", resp.Items)
	}
}

func TestGetSeries(t *testing.T) {
	r, _ := testRouter(t)
	var resp struct {
		Times  []string     `json:"times"`
		Items  []string     `json:"items"`
		Values [][]*float64 `json:"values"`
	}
	path := "/api/v1/market/materials/series?items=" + url.QueryEscape("운명의 파괴석")
	if code := getJSON(t, r, path, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Times) != 2 || resp.Times[0] != "2026-01-01 10:00" {
		t.Errorf("times = %v", resp.Times)
	}
	if len(resp.Items) != 1 || len(resp.Values) != 2 {
		t.Fatalf("series shape: items=%v values=%v", resp.Items, resp.Values)
	}
	if resp.Values[0][0] == nil || *resp.Values[0][0] != 80 {
		t.Errorf("first value = %v, want 80", resp.Values[0][0])
	}
}

func TestGetStatusInsufficientData(t *testing.T) {
	r, _ := testRouter(t)
	var resp struct {
		Status struct {
			Signal      string `json:"signal"`
			SampleCount int    `json:"sample_count"`
		} `json:"status"`
	}
	path := "/api/v1/market/materials/status?item=" + url.QueryEscape("운명의 파괴석")
	if code := getJSON(t, r, path, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Status.Signal != "insufficient data" || resp.Status.SampleCount != 2 {
		t.Errorf("status = %+v", resp.Status)
	}
}

func TestGetStatusRequiresItem(t *testing.T) {
	r, _ := testRouter(t)
	if code := getJSON(t, r, "/api/v1/market/materials/status", nil); code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
}

func TestGetExchange(t *testing.T) {
	r, _ := testRouter(t)
	var resp struct {
		Pairs []struct {
			High          string  `json:"high"`
			ExchangeCost  float64 `json:"exchange_cost"`
			AdvantageUnit float64 `json:"advantage_unit"`
			Verdict       string  `json:"verdict"`
		} `json:"pairs"`
	}
	if code := getJSON(t, r, "/api/v1/market/materials/exchange", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Pairs) != 1 {
		t.Fatalf("pairs = %+v", resp.Pairs)
	}
	// Latest prices: low 12, high 90; exchange cost 60, advantage 30.
	p := resp.Pairs[0]
	if p.ExchangeCost != 60 || p.AdvantageUnit != 30 || p.Verdict != "exchange" {
		t.Errorf("pair = %+v", p)
	}
}

func TestOverlayEndpoint(t *testing.T) {
	r, _ := testRouter(t)
	var resp struct {
		Bands  []interface{} `json:"bands"`
		Events []interface{} `json:"events"`
	}
	if code := getJSON(t, r, "/api/v1/market/materials/overlay", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	// 2026-01-01 is a Thursday; the one-hour observed range has no Wednesday.
	if len(resp.Bands) != 0 {
		t.Errorf("bands = %+v", resp.Bands)
	}
}

func TestExportXLSX(t *testing.T) {
	r, _ := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/market/materials/export", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("empty spreadsheet body")
	}
}

func TestDailyEndpoint(t *testing.T) {
	r, _ := testRouter(t)
	var resp struct {
		Daily []struct {
			Item   string `json:"item"`
			Points []struct {
				Average *float64 `json:"average"`
			} `json:"points"`
		} `json:"daily"`
	}
	path := fmt.Sprintf("/api/v1/market/materials/daily?items=%s", url.QueryEscape("운명의 파괴석"))
	if code := getJSON(t, r, path, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Daily) != 1 || len(resp.Daily[0].Points) == 0 {
		t.Fatalf("daily = %+v", resp.Daily)
	}
	if avg := resp.Daily[0].Points[len(resp.Daily[0].Points)-1].Average; avg == nil || *avg != 85 {
		t.Errorf("game-day average = %v, want 85", avg)
	}
}
