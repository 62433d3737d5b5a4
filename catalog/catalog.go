package catalog

import (
	"fmt"
	"strings"

	"mitsumori/model"
)

// Nationwide は販売エリアの「全国」です。他エリアと同時選択された場合は
// 全国のみに集約します。
const Nationwide = "全国"

// 送付先・担当者・販売エリアの固定マスタ。
var (
	Recipients = []string{
		"三菱食品",
		"伊藤忠食品",
		"日本アクセス",
		"国分グループ本社",
		"加藤産業",
		"三井食品",
		"ヤマエ久野",
	}

	StaffList = []string{
		"田中",
		"佐藤",
		"鈴木",
		"高橋",
		"山本",
	}

	SalesAreas = []string{
		Nationwide,
		"北海道",
		"東北",
		"関東",
		"中部",
		"関西",
		"中国・四国",
		"九州・沖縄",
	}
)

// waterLotPatterns は 2Water Ceramide の発注ロット別価格です。
var waterLotPatterns = []model.LotPricingOption{
	{Lot: "1ケース〜", DefaultPrice: 1680},
	{Lot: "10ケース以上", DefaultPrice: 1560},
	{Lot: "50ケース以上（混載可）", DefaultPrice: 1440},
	{Lot: "100ケース以上（チャーター便）", DefaultPrice: 1320},
}

var defaultProducts = []model.CatalogItem{
	{
		ID: "2SN-001", Name: "2Snack ベイクドポテト うま塩味", Brand: "2Snack", Category: "スナック",
		Seller: "TWO", Jan: "4571234560011", Itf: "14571234560018", CaseJan: "24571234560015",
		Volume: "52g", CaseQty: 12, RetailPrice: 298, WholesalePrice: 180, ShelfLife: 180,
		Temperature: "常温", OrderLot: "1ケース以上", Image: "2snack_shio.png",
	},
	{
		ID: "2SN-002", Name: "2Snack ベイクドポテト コンソメ味", Brand: "2Snack", Category: "スナック",
		Seller: "TWO", Jan: "4571234560028", Itf: "14571234560025", CaseJan: "24571234560022",
		Volume: "52g", CaseQty: 12, RetailPrice: 298, WholesalePrice: 180, ShelfLife: 180,
		Temperature: "常温", OrderLot: "1ケース以上", Image: "2snack_consomme.png",
	},
	{
		ID: "2SN-003", Name: "2Snack ベイクドポテト のり塩味", Brand: "2Snack", Category: "スナック",
		Seller: "TWO", Jan: "4571234560035", Itf: "14571234560032", CaseJan: "24571234560039",
		Volume: "52g", CaseQty: 12, RetailPrice: 298, WholesalePrice: 180, ShelfLife: 180,
		Temperature: "常温", OrderLot: "1ケース以上", Image: "2snack_norishio.png",
	},
	{
		ID: "2SN-004", Name: "2Snack ソイチップス チェダーチーズ味", Brand: "2Snack", Category: "スナック",
		Seller: "TWO", Jan: "4571234560042", Itf: "14571234560049", CaseJan: "24571234560046",
		Volume: "45g", CaseQty: 12, RetailPrice: 328, WholesalePrice: 198, ShelfLife: 150,
		Temperature: "常温", OrderLot: "2ケース以上（同一SKU）", Image: "2snack_cheddar.png",
	},
	{
		ID: "2SW-001", Name: "2Sweet ガトーショコラ", Brand: "2Sweet", Category: "洋菓子",
		Seller: "TWO", Jan: "4571234560059", Itf: "14571234560056", CaseJan: "",
		Volume: "1個(65g)", CaseQty: 8, RetailPrice: 450, WholesalePrice: 280, ShelfLife: 90,
		Temperature: "冷蔵", OrderLot: "1ケース以上", Image: "2sweet_gateau.png",
	},
	{
		ID: "2SW-002", Name: "2Sweet 豆乳ビスケット プレーン", Brand: "2Sweet", Category: "焼菓子",
		Seller: "TWO", Jan: "4571234560066", Itf: "14571234560063", CaseJan: "24571234560060",
		Volume: "80g", CaseQty: 10, RetailPrice: 380, WholesalePrice: 230, ShelfLife: 240,
		Temperature: "常温", OrderLot: "1ケース以上", Image: "2sweet_biscuit.png",
	},
	{
		ID: "2WT-001", Name: "2Water Ceramide 500ml", Brand: "2Water", Category: "飲料",
		Seller: "TWO", Jan: "4571234560073", Itf: "14571234560070", CaseJan: "24571234560077",
		Volume: "500ml", CaseQty: 24, RetailPrice: 180, WholesalePrice: 1680, ShelfLife: 365,
		Temperature: "常温", OrderLot: "1ケース〜", Image: "2water_ceramide.png",
		IsLotPriced: true,
	},
}

// Provider は商品マスタと固定マスタを提供します。起動時に一度だけ構築され、
// 以降は読み取り専用です。
type Provider struct {
	products []model.CatalogItem
	lots     []model.LotPricingOption
}

func NewProvider() *Provider {
	return &Provider{
		products: defaultProducts,
		lots:     waterLotPatterns,
	}
}

// Products は全品目をマスタ定義順で返します。
func (p *Provider) Products() []model.CatalogItem {
	return p.products
}

// Product は位置指定で1品目を返します。
func (p *Provider) Product(idx int) (model.CatalogItem, bool) {
	if idx < 0 || idx >= len(p.products) {
		return model.CatalogItem{}, false
	}
	return p.products[idx], true
}

// LotOptions はロット価格商品の発注ロット一覧を定義順で返します。
func (p *Provider) LotOptions() []model.LotPricingOption {
	return p.lots
}

// LotParent はロット価格商品（2Water）本体を返します。
func (p *Provider) LotParent() (model.CatalogItem, bool) {
	for _, item := range p.products {
		if item.IsLotPriced {
			return item, true
		}
	}
	return model.CatalogItem{}, false
}

// JoinSalesAreas は選択済みエリアを印字用の1文字列にまとめます。
// 「全国」が含まれる場合は他の選択を吸収して全国のみとします。
func JoinSalesAreas(areas []string) string {
	selected := make([]string, 0, len(areas))
	for _, a := range areas {
		if a == "" {
			continue
		}
		if a == Nationwide {
			return Nationwide
		}
		selected = append(selected, a)
	}
	return strings.Join(selected, "、")
}

// validateUnique は商品ID・JANコードの一意性を検査します。
func validateUnique(items []model.CatalogItem) error {
	ids := make(map[string]bool, len(items))
	jans := make(map[string]bool, len(items))
	for _, item := range items {
		if ids[item.ID] {
			return fmt.Errorf("商品IDが重複しています: %s", item.ID)
		}
		if jans[item.Jan] {
			return fmt.Errorf("JANコードが重複しています: %s", item.Jan)
		}
		ids[item.ID] = true
		jans[item.Jan] = true
	}
	return nil
}
