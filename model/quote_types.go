package model

import "time"

// CatalogItem は商品マスタの1品目です。ロールアウト後は読み取り専用で、
// 見積作成時の価格変更は QuoteLineItem 側で上書きします。
type CatalogItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	Category       string `json:"category"`
	Seller         string `json:"seller"`
	Jan            string `json:"jan"`
	Itf            string `json:"itf"`
	CaseJan        string `json:"caseJan,omitempty"`
	Volume         string `json:"volume"`
	CaseQty        int    `json:"caseQty"`
	RetailPrice    int    `json:"retailPrice"`
	WholesalePrice int    `json:"wholesalePrice"`
	ShelfLife      int    `json:"shelfLife"` // 製造後賞味日数
	Temperature    string `json:"temperature"`
	OrderLot       string `json:"orderLot"`
	Image          string `json:"image,omitempty"`
	IsLotPriced    bool   `json:"isLotPriced,omitempty"`
}

// LotPricingOption はロット価格商品（2Water）の発注ロット1段階分です。
// 品名やコードなどの固定属性は親品目(CatalogItem)側を参照します。
type LotPricingOption struct {
	Lot          string `json:"lot"`
	DefaultPrice int    `json:"defaultPrice"`
}

// QuoteLineItem は確定済み見積の1行です。卸価格はマスタ既定値を
// 上書きした後の値を保持します。
type QuoteLineItem struct {
	Name             string `json:"name"`
	Brand            string `json:"brand,omitempty"`
	Category         string `json:"category,omitempty"`
	Seller           string `json:"seller,omitempty"`
	Jan              string `json:"jan"`
	Itf              string `json:"itf"`
	CaseJan          string `json:"caseJan,omitempty"`
	Volume           string `json:"volume"`
	CaseQty          int    `json:"caseQty"`
	RetailPrice      int    `json:"retailPrice"`
	WholesalePrice   int    `json:"wholesalePrice"`
	ShelfLife        int    `json:"shelfLife"`
	Temperature      string `json:"temperature"`
	OrderLot         string `json:"orderLot"`
	SpecialCondition string `json:"specialCondition,omitempty"`
	Image            string `json:"image,omitempty"`
}

// Quote は見積の集約ルートです。保存前のバリデーション済みの値を持ち、
// Items の並び順がそのまま印字順・行番号になります。
type Quote struct {
	QuoteDate    string          `json:"quoteDate"`
	Recipient    string          `json:"recipient"`
	Retailer     string          `json:"retailer,omitempty"`
	ShowRetailer bool            `json:"showRetailer"`
	Staff        string          `json:"staff"`
	SalesArea    string          `json:"salesArea"`
	Notes        string          `json:"notes,omitempty"`
	Items        []QuoteLineItem `json:"items"`
}

// QuoteRecord は保存済み見積1件です。ID と作成日時はストア側で採番されます。
type QuoteRecord struct {
	ID          int64     `db:"id" json:"id"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	QuoteDate   string    `db:"quote_date" json:"quoteDate"`
	Recipient   string    `db:"recipient" json:"recipient"`
	Retailer    string    `db:"retailer" json:"retailer"`
	Staff       string    `db:"staff" json:"staff"`
	SalesArea   string    `db:"sales_area" json:"salesArea"`
	ItemsJSON   string    `db:"items_json" json:"-"`
	Notes       string    `db:"notes" json:"notes"`
	PdfFilename string    `db:"pdf_filename" json:"pdfFilename"`

	Items []QuoteLineItem `db:"-" json:"items"`
}

// ToQuote は保存レコードから再描画用の Quote を復元します。
// 対象小売名は保存時に空でなければ印字対象とします。
func (r *QuoteRecord) ToQuote() *Quote {
	return &Quote{
		QuoteDate:    r.QuoteDate,
		Recipient:    r.Recipient,
		Retailer:     r.Retailer,
		ShowRetailer: r.Retailer != "",
		Staff:        r.Staff,
		SalesArea:    r.SalesArea,
		Notes:        r.Notes,
		Items:        r.Items,
	}
}
