package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	cat := Default()
	if err := cat.validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	for _, key := range []string{"materials", "lifeskill", "battleitems", "engravings", "gems"} {
		if _, ok := cat.Category(key); !ok {
			t.Errorf("default catalog missing category %q", key)
		}
	}
	life, _ := cat.Category("lifeskill")
	if !life.HasSubCategory() {
		t.Error("lifeskill must track sub-categories")
	}
	mats, _ := cat.Category("materials")
	if mats.HasSubCategory() {
		t.Error("materials must not track sub-categories")
	}
}

func TestDefaultExchangePairsReferToMaterials(t *testing.T) {
	cat := Default()
	mats, _ := cat.Category("materials")
	names := make(map[string]bool)
	for _, item := range mats.Items {
		names[item.Name] = true
	}
	for _, pair := range cat.ExchangePairs {
		if !names[pair.Low] || !names[pair.High] {
			t.Errorf("pair %q -> %q refers to an untracked item", pair.Low, pair.High)
		}
		if pair.Ratio != 5 {
			t.Errorf("pair %q -> %q ratio = %d, want 5", pair.Low, pair.High, pair.Ratio)
		}
	}
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Categories) != len(Default().Categories) {
		t.Error("missing file must yield the default catalog")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	content := `
categories:
  - key: materials
    label: 재료
    file: market_materials.csv
    category_code: 50000
    mode: search
    match: exact
    items:
      - name: 운명의 파괴석
        tier: 4
exchange_pairs:
  - low: 정제된 파괴강석
    high: 운명의 파괴석
    ratio: 5
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	mats, ok := cat.Category("materials")
	if !ok {
		t.Fatal("materials missing")
	}
	if mats.Match != MatchExact || len(mats.Items) != 1 || mats.Items[0].Tier != 4 {
		t.Errorf("parsed category = %+v", mats)
	}
	if len(cat.ExchangePairs) != 1 || cat.ExchangePairs[0].Ratio != 5 {
		t.Errorf("parsed pairs = %+v", cat.ExchangePairs)
	}
}

func TestLoadRejectsInvalidCatalog(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown mode", "categories:\n  - key: x\n    file: x.csv\n    mode: sideways\n"},
		{"search without items", "categories:\n  - key: x\n    file: x.csv\n    mode: search\n"},
		{"search without match policy", "categories:\n  - key: x\n    file: x.csv\n    mode: search\n    items: [{name: y}]\n"},
		{"unknown match policy", "categories:\n  - key: x\n    file: x.csv\n    mode: search\n    match: fuzzy\n    items: [{name: y}]\n"},
		{"pages without bound", "categories:\n  - key: x\n    file: x.csv\n    mode: pages\n"},
		{"duplicate keys", `
categories:
  - {key: x, file: x.csv, mode: pages, max_pages: 1}
  - {key: x, file: y.csv, mode: pages, max_pages: 1}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
