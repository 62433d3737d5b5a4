// Package builder は作成中見積の選択状態を1セッション分保持します。
// 通常商品はマスタ位置、ロット価格商品はロット位置をキーにした
// 2系統の選択マップを持ち、Collect で確定順の明細列を取り出します。
package builder

import (
	"errors"
	"fmt"

	"mitsumori/catalog"
	"mitsumori/model"
)

// Selection は1エントリ分の選択状態です。Price はマスタ既定値を初期値とし、
// 上書きされた場合は常に置換です（平均等はしません）。
type Selection struct {
	Selected  bool
	Price     int
	Condition string
}

// BasicInfo は見積ヘッダー部の入力値です。
type BasicInfo struct {
	QuoteDate    string
	Recipient    string
	Retailer     string
	ShowRetailer bool
	Staff        string
	SalesAreas   []string
}

// NoteOptions は備考の定型文トグルと追加事項です。
type NoteOptions struct {
	Validity   bool // 見積有効期限
	LeadTime   bool // リードタイム
	WaterLT    bool // 2Water LT注記
	NoReturn   bool // 返品不可
	Additional string
}

type Builder struct {
	provider *catalog.Provider
	items    map[int]*Selection
	lots     map[int]*Selection
}

func New(provider *catalog.Provider) *Builder {
	return &Builder{
		provider: provider,
		items:    make(map[int]*Selection),
		lots:     make(map[int]*Selection),
	}
}

func (b *Builder) itemSelection(idx int) (*Selection, error) {
	item, ok := b.provider.Product(idx)
	if !ok {
		return nil, fmt.Errorf("商品位置 %d は範囲外です", idx)
	}
	if item.IsLotPriced {
		return nil, fmt.Errorf("%s はロット別に選択してください", item.Name)
	}
	sel, ok := b.items[idx]
	if !ok {
		sel = &Selection{Price: item.WholesalePrice}
		b.items[idx] = sel
	}
	return sel, nil
}

func (b *Builder) lotSelection(idx int) (*Selection, error) {
	lots := b.provider.LotOptions()
	if idx < 0 || idx >= len(lots) {
		return nil, fmt.Errorf("ロット位置 %d は範囲外です", idx)
	}
	sel, ok := b.lots[idx]
	if !ok {
		sel = &Selection{Price: lots[idx].DefaultPrice}
		b.lots[idx] = sel
	}
	return sel, nil
}

// SelectItem は通常商品の選択フラグを切り替えます。
func (b *Builder) SelectItem(idx int, selected bool) error {
	sel, err := b.itemSelection(idx)
	if err != nil {
		return err
	}
	sel.Selected = selected
	return nil
}

// SetItemPrice は通常商品の卸価格を上書きします。負値は拒否します。
func (b *Builder) SetItemPrice(idx, price int) error {
	if price < 0 {
		return errors.New("卸価格は0以上で入力してください")
	}
	sel, err := b.itemSelection(idx)
	if err != nil {
		return err
	}
	sel.Price = price
	return nil
}

// SetItemCondition は通常商品の特別条件を設定します。
func (b *Builder) SetItemCondition(idx int, condition string) error {
	sel, err := b.itemSelection(idx)
	if err != nil {
		return err
	}
	sel.Condition = condition
	return nil
}

// SelectLot はロット価格商品の指定ロットの選択フラグを切り替えます。
func (b *Builder) SelectLot(idx int, selected bool) error {
	sel, err := b.lotSelection(idx)
	if err != nil {
		return err
	}
	sel.Selected = selected
	return nil
}

func (b *Builder) SetLotPrice(idx, price int) error {
	if price < 0 {
		return errors.New("卸価格は0以上で入力してください")
	}
	sel, err := b.lotSelection(idx)
	if err != nil {
		return err
	}
	sel.Price = price
	return nil
}

func (b *Builder) SetLotCondition(idx int, condition string) error {
	sel, err := b.lotSelection(idx)
	if err != nil {
		return err
	}
	sel.Condition = condition
	return nil
}

// Collect は選択済みエントリを明細列にして返します。
// 通常商品をマスタ定義順、続いてロットを定義順に並べます。この順序が
// そのまま印字の行番号になるため、反復順は常に決定的でなければなりません。
func (b *Builder) Collect() []model.QuoteLineItem {
	var lines []model.QuoteLineItem

	for idx, item := range b.provider.Products() {
		if item.IsLotPriced {
			continue
		}
		sel, ok := b.items[idx]
		if !ok || !sel.Selected {
			continue
		}
		lines = append(lines, lineFromItem(item, sel))
	}

	parent, hasParent := b.provider.LotParent()
	if hasParent {
		for idx, lot := range b.provider.LotOptions() {
			sel, ok := b.lots[idx]
			if !ok || !sel.Selected {
				continue
			}
			lines = append(lines, lineFromLot(parent, lot, sel))
		}
	}

	return lines
}

func lineFromItem(item model.CatalogItem, sel *Selection) model.QuoteLineItem {
	return model.QuoteLineItem{
		Name:             item.Name,
		Brand:            item.Brand,
		Category:         item.Category,
		Seller:           item.Seller,
		Jan:              item.Jan,
		Itf:              item.Itf,
		CaseJan:          item.CaseJan,
		Volume:           item.Volume,
		CaseQty:          item.CaseQty,
		RetailPrice:      item.RetailPrice,
		WholesalePrice:   sel.Price,
		ShelfLife:        item.ShelfLife,
		Temperature:      item.Temperature,
		OrderLot:         item.OrderLot,
		SpecialCondition: sel.Condition,
		Image:            item.Image,
	}
}

// lineFromLot は親品目の固定属性に選択ロットのラベルと価格を差し替えます。
func lineFromLot(parent model.CatalogItem, lot model.LotPricingOption, sel *Selection) model.QuoteLineItem {
	line := lineFromItem(parent, sel)
	line.OrderLot = lot.Lot
	return line
}

// ComposeNotes は定型文の選択と追加事項から備考テキストを組み立てます。
func ComposeNotes(opts NoteOptions) string {
	notes := ""
	appendNote := func(text string) {
		if notes != "" {
			notes += "\n"
		}
		notes += "・" + text
	}
	if opts.Validity {
		appendNote("見積有効期限：次回提出時まで")
	}
	if opts.LeadTime {
		appendNote("リードタイム：中2-3日（受注〆時間 AM11:00）")
	}
	if opts.WaterLT {
		appendNote("2Water CeramideはLT最大7日発生します。")
	}
	if opts.NoReturn {
		appendNote("返品不可")
	}
	if opts.Additional != "" {
		appendNote(opts.Additional)
	}
	return notes
}

// Build は選択状態と基本情報から描画・保存可能な Quote を組み立てます。
// 必須項目が欠けている場合は利用者向けメッセージをそのままエラーで返し、
// 部分的な Quote は作りません。
func (b *Builder) Build(info BasicInfo, notes string) (*model.Quote, error) {
	if info.Recipient == "" {
		return nil, errors.New("送付先を入力してください")
	}
	items := b.Collect()
	if len(items) == 0 {
		return nil, errors.New("商品を選択してください")
	}
	salesArea := catalog.JoinSalesAreas(info.SalesAreas)
	if salesArea == "" {
		return nil, errors.New("販売エリアを選択してください")
	}
	if info.Staff == "" {
		return nil, errors.New("担当者を選択してください")
	}
	if info.QuoteDate == "" {
		return nil, errors.New("日付を入力してください")
	}

	return &model.Quote{
		QuoteDate:    info.QuoteDate,
		Recipient:    info.Recipient,
		Retailer:     info.Retailer,
		ShowRetailer: info.ShowRetailer,
		Staff:        info.Staff,
		SalesArea:    salesArea,
		Notes:        notes,
		Items:        items,
	}, nil
}
