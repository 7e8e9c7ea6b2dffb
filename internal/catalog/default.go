package catalog

// Default returns the built-in catalog. It mirrors the item lists the
// collector shipped with before catalogs were externalized; a catalog.yaml
// file replaces it wholesale when present.
func Default() *Catalog {
	return &Catalog{
		Categories: []Category{
			{
				Key:          "materials",
				Label:        "강화 재료",
				File:         "market_materials.csv",
				CategoryCode: 50000,
				Mode:         ModeSearch,
				Match:        MatchContains,
				Items: []Item{
					{Name: "운명의 파편 주머니(대)", Tier: 4},
					{Name: "아비도스 융화 재료", Tier: 4},
					{Name: "상급 아비도스 융화 재료", Tier: 4},
					{Name: "운명의 돌파석", Tier: 4},
					{Name: "위대한 운명의 돌파석", Tier: 4},
					{Name: "운명의 수호석", Tier: 4},
					{Name: "운명의 수호석 결정", Tier: 4},
					{Name: "운명의 파괴석", Tier: 4},
					{Name: "운명의 파괴석 결정", Tier: 4},
					{Name: "빙하의 숨결", Tier: 4},
					{Name: "용암의 숨결", Tier: 4},
					{Name: "명예의 파편 주머니(대)", Tier: 3},
					{Name: "최상급 오레하 융화 재료", Tier: 3},
					{Name: "찬란한 명예의 돌파석", Tier: 3},
					{Name: "정제된 수호강석", Tier: 3},
					{Name: "정제된 파괴강석", Tier: 3},
					{Name: "태양의 은총", Tier: 3},
					{Name: "태양의 축복", Tier: 3},
					{Name: "태양의 가호", Tier: 3},
					{Name: "장인의 재봉술"},
					{Name: "장인의 야금술"},
				},
			},
			{
				Key:          "lifeskill",
				Label:        "생활 재료",
				File:         "market_lifeskill.csv",
				CategoryCode: 90000,
				Mode:         ModeSearch,
				Match:        MatchExact,
				Groups: []Group{
					{SubCategory: "식물채집", Items: []string{"들꽃", "수줍은 들꽃", "화사한 들꽃", "아비도스 들꽃"}},
					{SubCategory: "벌목", Items: []string{"목재", "부드러운 목재", "튼튼한 목재", "아비도스 목재"}},
					{SubCategory: "채광", Items: []string{"철광석", "묵직한 철광석", "단단한 철광석", "아비도스 철광석"}},
					{SubCategory: "낚시", Items: []string{"생선", "붉은 살 생선", "오레하 태양 잉어"}},
					{SubCategory: "고고학", Items: []string{"고대 유물", "희귀한 유물", "오레하 유물"}},
				},
			},
			{
				Key:          "battleitems",
				Label:        "배틀 아이템",
				File:         "market_battleitems.csv",
				CategoryCode: 60000,
				Mode:         ModeSearch,
				Match:        MatchExact,
				Items: []Item{
					{Name: "정령의 회복약", Tier: 3},
					{Name: "만능 물약", Tier: 3},
					{Name: "암흑 수류탄", Tier: 3},
					{Name: "화염 수류탄", Tier: 3},
					{Name: "회오리 수류탄", Tier: 3},
					{Name: "파괴 폭탄", Tier: 3},
					{Name: "부식 폭탄", Tier: 3},
					{Name: "신호탄", Tier: 3},
				},
			},
			{
				Key:          "engravings",
				Label:        "각인서",
				File:         "market_engravings.csv",
				CategoryCode: 40000,
				Mode:         ModePages,
				Grade:        "유물",
				MaxPages:     10,
			},
			{
				Key:          "gems",
				Label:        "보석",
				File:         "market_gems.csv",
				CategoryCode: 210500,
				Mode:         ModeAuction,
				Items: []Item{
					{Name: "8레벨 겁화의 보석", Tier: 4},
					{Name: "9레벨 겁화의 보석", Tier: 4},
					{Name: "10레벨 겁화의 보석", Tier: 4},
					{Name: "8레벨 작열의 보석", Tier: 4},
					{Name: "9레벨 작열의 보석", Tier: 4},
					{Name: "10레벨 작열의 보석", Tier: 4},
				},
			},
		},
		ExchangePairs: []ExchangePair{
			{Low: "찬란한 명예의 돌파석", High: "운명의 돌파석", Ratio: 5},
			{Low: "운명의 돌파석", High: "위대한 운명의 돌파석", Ratio: 5},
			{Low: "정제된 파괴강석", High: "운명의 파괴석", Ratio: 5},
			{Low: "운명의 파괴석", High: "운명의 파괴석 결정", Ratio: 5},
			{Low: "정제된 수호강석", High: "운명의 수호석", Ratio: 5},
			{Low: "운명의 수호석", High: "운명의 수호석 결정", Ratio: 5},
			{Low: "최상급 오레하 융화 재료", High: "아비도스 융화 재료", Ratio: 5},
			{Low: "아비도스 융화 재료", High: "상급 아비도스 융화 재료", Ratio: 5},
		},
	}
}
