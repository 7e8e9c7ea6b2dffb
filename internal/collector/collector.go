package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"lostark-market/internal/catalog"
	"lostark-market/internal/gametime"
	"lostark-market/internal/lostark"
	"lostark-market/internal/models"
	"lostark-market/internal/widetable"

	"gorm.io/gorm"
)

// Record is one observation assembled from an API response, before it is
// split into the wide-table cell and the long-format database row.
type Record struct {
	ItemName        string
	SubCategory     string
	ItemGrade       string
	ItemTier        int
	CurrentMinPrice float64
	RecentPrice     float64
	YDayAvgPrice    float64
	BundleCount     int
	CollectedAt     time.Time
}

// Collector runs one collection pass over every catalog category.
type Collector struct {
	client  *lostark.Client
	db      *gorm.DB
	catalog *catalog.Catalog
	dataDir string
	pace    time.Duration
}

// New builds a collector. db may be nil to skip the relational sink
// (CSV-only runs, used by tests and dry runs).
func New(client *lostark.Client, db *gorm.DB, cat *catalog.Catalog, dataDir string) *Collector {
	return &Collector{
		client:  client,
		db:      db,
		catalog: cat,
		dataDir: dataDir,
		pace:    150 * time.Millisecond,
	}
}

// Run collects every category once. All batches of the run share a single
// timestamp label, truncated to the minute in KST. Failures of a single
// query or a single category are logged and skipped; the rest of the run
// continues. Rate-limit exhaustion aborts the whole run.
func (c *Collector) Run(ctx context.Context) error {
	runAt := time.Now().In(gametime.KST).Truncate(time.Minute)
	label := gametime.RunLabel(runAt)
	log.Printf("[collector] run %s started", label)

	for i := range c.catalog.Categories {
		cat := &c.catalog.Categories[i]
		batch, err := c.collectCategory(ctx, cat, runAt)
		if err != nil {
			if errors.Is(err, lostark.ErrRateLimited) || errors.Is(err, context.Canceled) {
				return fmt.Errorf("category %s: %w", cat.Key, err)
			}
			log.Printf("[collector] category %s failed: %v", cat.Key, err)
			continue
		}
		if len(batch) == 0 {
			log.Printf("[collector] category %s: no data this run", cat.Key)
			continue
		}

		path := filepath.Join(c.dataDir, cat.File)
		if err := widetable.UpdateFile(path, toWideRecords(batch), label, cat.HasSubCategory()); err != nil {
			// A malformed existing table must not kill the run; the prior
			// file stays untouched and the category is skipped.
			log.Printf("[collector] category %s: wide table update skipped: %v", cat.Key, err)
		} else {
			log.Printf("[collector] category %s: %d items -> %s", cat.Key, len(batch), cat.File)
		}

		c.sink(batch, cat.Key)
	}

	log.Printf("[collector] run %s finished", label)
	return nil
}

// sink appends the batch to the long-format market_prices table.
func (c *Collector) sink(batch []Record, key string) {
	if c.db == nil {
		return
	}
	rows := make([]models.MarketPrice, 0, len(batch))
	for _, rec := range batch {
		rows = append(rows, models.MarketPrice{
			ItemName:        rec.ItemName,
			SubCategory:     rec.SubCategory,
			ItemGrade:       rec.ItemGrade,
			ItemTier:        rec.ItemTier,
			CurrentMinPrice: rec.CurrentMinPrice,
			RecentPrice:     rec.RecentPrice,
			YDayAvgPrice:    rec.YDayAvgPrice,
			BundleCount:     rec.BundleCount,
			CollectedAt:     rec.CollectedAt,
		})
	}
	if err := c.db.Create(&rows).Error; err != nil {
		log.Printf("[collector] category %s: database insert failed: %v", key, err)
	}
}

func (c *Collector) collectCategory(ctx context.Context, cat *catalog.Category, runAt time.Time) ([]Record, error) {
	switch cat.Mode {
	case catalog.ModeSearch:
		return c.collectBySearch(ctx, cat, runAt)
	case catalog.ModePages:
		return c.collectByPages(ctx, cat, runAt)
	case catalog.ModeAuction:
		return c.collectByAuction(ctx, cat, runAt)
	default:
		return nil, fmt.Errorf("unknown mode %q", cat.Mode)
	}
}

// collectBySearch looks up every catalog item by name. A returned listing
// is accepted only if its name matches the queried name under the
// category's match policy, guarding against unrelated partial matches.
func (c *Collector) collectBySearch(ctx context.Context, cat *catalog.Category, runAt time.Time) ([]Record, error) {
	type query struct {
		item catalog.Item
		sub  string
	}
	var queries []query
	for _, item := range cat.Items {
		queries = append(queries, query{item: item})
	}
	for _, group := range cat.Groups {
		for _, name := range group.Items {
			queries = append(queries, query{item: catalog.Item{Name: name, Tier: group.Tier}, sub: group.SubCategory})
		}
	}

	var batch []Record
	for _, q := range queries {
		if err := c.sleep(ctx); err != nil {
			return batch, err
		}
		resp, err := c.client.SearchMarketItems(ctx, &lostark.MarketItemsRequest{
			CategoryCode: cat.CategoryCode,
			ItemName:     q.item.Name,
			ItemTier:     q.item.Tier,
		})
		if err != nil {
			if errors.Is(err, lostark.ErrRateLimited) || errors.Is(err, context.Canceled) {
				return batch, err
			}
			log.Printf("[collector] search %q: %v", q.item.Name, err)
			continue
		}
		for _, item := range resp.Items {
			if !matchName(cat.Match, q.item.Name, item.Name) {
				continue
			}
			batch = append(batch, Record{
				ItemName:        item.Name,
				SubCategory:     q.sub,
				ItemGrade:       item.Grade,
				ItemTier:        q.item.Tier,
				CurrentMinPrice: item.CurrentMinPrice,
				RecentPrice:     item.RecentPrice,
				YDayAvgPrice:    item.YDayAvgPrice,
				BundleCount:     item.BundleCount,
				CollectedAt:     runAt,
			})
		}
	}
	return batch, nil
}

// collectByPages sweeps a whole market category page by page, stopping at
// the first empty page or the catalog's page bound.
func (c *Collector) collectByPages(ctx context.Context, cat *catalog.Category, runAt time.Time) ([]Record, error) {
	var batch []Record
	for page := 1; page <= cat.MaxPages; page++ {
		if err := c.sleep(ctx); err != nil {
			return batch, err
		}
		resp, err := c.client.SearchMarketItems(ctx, &lostark.MarketItemsRequest{
			CategoryCode:  cat.CategoryCode,
			ItemGrade:     cat.Grade,
			PageNo:        page,
			SortCondition: "DESC",
		})
		if err != nil {
			if errors.Is(err, lostark.ErrRateLimited) || errors.Is(err, context.Canceled) {
				return batch, err
			}
			log.Printf("[collector] page %d of category %d: %v", page, cat.CategoryCode, err)
			continue
		}
		if len(resp.Items) == 0 {
			break
		}
		for _, item := range resp.Items {
			batch = append(batch, Record{
				ItemName:        item.Name,
				ItemGrade:       item.Grade,
				ItemTier:        3,
				CurrentMinPrice: item.CurrentMinPrice,
				RecentPrice:     item.RecentPrice,
				YDayAvgPrice:    item.YDayAvgPrice,
				BundleCount:     item.BundleCount,
				CollectedAt:     runAt,
			})
		}
	}
	return batch, nil
}

// collectByAuction fetches auction listings per item and keeps only the
// minimum buy price across all listings; listings without a buy price are
// skipped, and an item with no buyable listing at all produces no record.
func (c *Collector) collectByAuction(ctx context.Context, cat *catalog.Category, runAt time.Time) ([]Record, error) {
	var batch []Record
	for _, item := range cat.Items {
		if err := c.sleep(ctx); err != nil {
			return batch, err
		}
		resp, err := c.client.SearchAuctionItems(ctx, &lostark.AuctionItemsRequest{
			CategoryCode: cat.CategoryCode,
			ItemName:     item.Name,
			ItemTier:     item.Tier,
		})
		if err != nil {
			if errors.Is(err, lostark.ErrRateLimited) || errors.Is(err, context.Canceled) {
				return batch, err
			}
			log.Printf("[collector] auction %q: %v", item.Name, err)
			continue
		}

		var best *Record
		for _, listing := range resp.Items {
			if listing.AuctionInfo == nil || listing.AuctionInfo.BuyPrice == nil {
				continue
			}
			price := *listing.AuctionInfo.BuyPrice
			if best == nil || price < best.CurrentMinPrice {
				best = &Record{
					ItemName:        item.Name,
					ItemGrade:       listing.Grade,
					ItemTier:        item.Tier,
					CurrentMinPrice: price,
					BundleCount:     1,
					CollectedAt:     runAt,
				}
			}
		}
		if best != nil {
			batch = append(batch, *best)
		}
	}
	return batch, nil
}

func (c *Collector) sleep(ctx context.Context) error {
	select {
	case <-time.After(c.pace):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func matchName(policy, queried, got string) bool {
	if policy == catalog.MatchExact {
		return got == queried
	}
	return strings.Contains(got, queried)
}

func toWideRecords(batch []Record) []widetable.Record {
	records := make([]widetable.Record, 0, len(batch))
	for _, rec := range batch {
		records = append(records, widetable.Record{
			ItemName:    rec.ItemName,
			SubCategory: rec.SubCategory,
			Price:       rec.CurrentMinPrice,
		})
	}
	return records
}
