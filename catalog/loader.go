package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"mitsumori/model"
)

// 商品マスタCSVの必須ヘッダー。
var requiredColumns = []string{
	"商品ID", "商品名", "JANコード", "ITFコード", "容量",
	"ケース入数", "想定小売価格", "標準卸価格", "賞味期限", "温度帯", "発注ロット",
}

// LoadMasterCSV は商品マスタCSV（Shift-JIS・ヘッダーあり）を読み込み、
// 組み込みの商品リストを置き換えます。不正な行はスキップして続行します。
func (p *Provider) LoadMasterCSV(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("LoadMasterCSV: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := japanese.ShiftJIS.NewDecoder()
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("LoadMasterCSV: read header: %w", err)
	}
	colIndex, err := getColIndex(header, requiredColumns)
	if err != nil {
		return fmt.Errorf("LoadMasterCSV: %w", err)
	}

	col := func(record []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var items []model.CatalogItem
	lineNo := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			return fmt.Errorf("LoadMasterCSV: read line %d: %w", lineNo, err)
		}

		caseQty, err1 := strconv.Atoi(col(record, "ケース入数"))
		retail, err2 := strconv.Atoi(col(record, "想定小売価格"))
		wholesale, err3 := strconv.Atoi(col(record, "標準卸価格"))
		shelfLife, err4 := strconv.Atoi(col(record, "賞味期限"))
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			log.Printf("WARN: 商品マスタCSV %d行目: 数値項目が不正なためスキップします", lineNo)
			continue
		}

		item := model.CatalogItem{
			ID:             col(record, "商品ID"),
			Name:           col(record, "商品名"),
			Brand:          col(record, "ブランド"),
			Category:       col(record, "カテゴリ"),
			Seller:         col(record, "販売者"),
			Jan:            col(record, "JANコード"),
			Itf:            col(record, "ITFコード"),
			CaseJan:        col(record, "ケースJAN"),
			Volume:         col(record, "容量"),
			CaseQty:        caseQty,
			RetailPrice:    retail,
			WholesalePrice: wholesale,
			ShelfLife:      shelfLife,
			Temperature:    col(record, "温度帯"),
			OrderLot:       col(record, "発注ロット"),
			Image:          col(record, "画像"),
			IsLotPriced:    col(record, "ロット価格") == "1",
		}
		if item.ID == "" || item.Name == "" || item.Jan == "" {
			log.Printf("WARN: 商品マスタCSV %d行目: 必須項目が空のためスキップします", lineNo)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return fmt.Errorf("LoadMasterCSV: %s に有効な商品行がありません", path)
	}
	if err := validateUnique(items); err != nil {
		return fmt.Errorf("LoadMasterCSV: %w", err)
	}

	p.products = items
	log.Printf("Loaded %d products from master CSV %s", len(items), path)
	return nil
}

// getColIndex はヘッダー名から列インデックスを取得するヘルパーです。
// 先頭セルのBOMは除去してから照合します。
func getColIndex(header []string, required []string) (map[string]int, error) {
	colIndex := make(map[string]int)
	for i, colName := range header {
		colName = strings.TrimPrefix(colName, "\uFEFF")
		colIndex[strings.TrimSpace(colName)] = i
	}
	for _, req := range required {
		if _, ok := colIndex[req]; !ok {
			return nil, fmt.Errorf("必須ヘッダーが見つかりません: %s", req)
		}
	}
	return colIndex, nil
}
