package lostark

// MarketItemsRequest is the body of POST /markets/items.
type MarketItemsRequest struct {
	Sort          string `json:"Sort"`
	CategoryCode  int    `json:"CategoryCode"`
	PageNo        int    `json:"PageNo"`
	SortCondition string `json:"SortCondition"`
	ItemName      string `json:"ItemName,omitempty"`
	ItemTier      int    `json:"ItemTier,omitempty"`
	ItemGrade     string `json:"ItemGrade,omitempty"`
}

// MarketItem is one market listing returned by the item search.
type MarketItem struct {
	ID               int     `json:"Id"`
	Name             string  `json:"Name"`
	Grade            string  `json:"Grade"`
	Icon             string  `json:"Icon"`
	BundleCount      int     `json:"BundleCount"`
	TradeRemainCount *int    `json:"TradeRemainCount"`
	YDayAvgPrice     float64 `json:"YDayAvgPrice"`
	RecentPrice      float64 `json:"RecentPrice"`
	CurrentMinPrice  float64 `json:"CurrentMinPrice"`
}

// MarketItemsResponse is the body of a successful item search.
type MarketItemsResponse struct {
	PageNo     int          `json:"PageNo"`
	PageSize   int          `json:"PageSize"`
	TotalCount int          `json:"TotalCount"`
	Items      []MarketItem `json:"Items"`
}

// AuctionItemsRequest is the body of POST /auctions/items.
type AuctionItemsRequest struct {
	ItemName      string `json:"ItemName"`
	CategoryCode  int    `json:"CategoryCode"`
	ItemTier      int    `json:"ItemTier,omitempty"`
	PageNo        int    `json:"PageNo"`
	Sort          string `json:"Sort"`
	SortCondition string `json:"SortCondition"`
}

// AuctionInfo carries the price fields of one auction listing. BuyPrice is
// nil for listings without an instant-buy option.
type AuctionInfo struct {
	StartPrice int      `json:"StartPrice"`
	BuyPrice   *float64 `json:"BuyPrice"`
	BidPrice   int      `json:"BidPrice"`
	EndDate    string   `json:"EndDate"`
}

// AuctionItem is one auction listing.
type AuctionItem struct {
	Name        string       `json:"Name"`
	Grade       string       `json:"Grade"`
	Tier        int          `json:"Tier"`
	AuctionInfo *AuctionInfo `json:"AuctionInfo"`
}

// AuctionItemsResponse is the body of a successful auction search.
type AuctionItemsResponse struct {
	PageNo     int           `json:"PageNo"`
	PageSize   int           `json:"PageSize"`
	TotalCount int           `json:"TotalCount"`
	Items      []AuctionItem `json:"Items"`
}
