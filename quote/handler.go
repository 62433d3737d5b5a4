// Package quote は見積の作成・履歴・再出力のHTTPハンドラ群です。
package quote

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mitsumori/builder"
	"mitsumori/catalog"
	"mitsumori/database"
	"mitsumori/pdf"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// itemSelection は通常商品1件分の選択です。Index はマスタ位置です。
type itemSelection struct {
	Index            int    `json:"index"`
	WholesalePrice   int    `json:"wholesalePrice"`
	SpecialCondition string `json:"specialCondition"`
}

// lotSelection はロット価格商品1段階分の選択です。
type lotSelection struct {
	Index            int    `json:"index"`
	WholesalePrice   int    `json:"wholesalePrice"`
	SpecialCondition string `json:"specialCondition"`
}

type noteFlags struct {
	Validity   bool   `json:"validity"`
	LeadTime   bool   `json:"leadTime"`
	WaterLT    bool   `json:"waterLT"`
	NoReturn   bool   `json:"noReturn"`
	Additional string `json:"additional"`
}

type createRequest struct {
	QuoteDate    string          `json:"quoteDate"`
	Recipient    string          `json:"recipient"`
	Retailer     string          `json:"retailer"`
	ShowRetailer bool            `json:"showRetailer"`
	Staff        string          `json:"staff"`
	SalesAreas   []string        `json:"salesAreas"`
	Items        []itemSelection `json:"items"`
	Lots         []lotSelection  `json:"lots"`
	Notes        noteFlags       `json:"notes"`
}

func applySelections(b *builder.Builder, req *createRequest) error {
	for _, sel := range req.Items {
		if err := b.SelectItem(sel.Index, true); err != nil {
			return err
		}
		if err := b.SetItemPrice(sel.Index, sel.WholesalePrice); err != nil {
			return err
		}
		if err := b.SetItemCondition(sel.Index, sel.SpecialCondition); err != nil {
			return err
		}
	}
	for _, sel := range req.Lots {
		if err := b.SelectLot(sel.Index, true); err != nil {
			return err
		}
		if err := b.SetLotPrice(sel.Index, sel.WholesalePrice); err != nil {
			return err
		}
		if err := b.SetLotCondition(sel.Index, sel.SpecialCondition); err != nil {
			return err
		}
	}
	return nil
}

func writePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	w.Write(data)
}

// CreateQuoteHandler は見積を検証・描画・保存し、PDFを返します。
// バリデーション失敗は具体的なメッセージ付きの400で、描画にも保存にも
// 進みません。保存失敗時は入力がクライアント側に残るため再試行可能です。
func CreateQuoteHandler(store database.Store, provider *catalog.Provider, renderer *pdf.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSONError(w, "リクエストが不正です。", http.StatusBadRequest)
			return
		}

		b := builder.New(provider)
		if err := applySelections(b, &req); err != nil {
			respondJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		notes := builder.ComposeNotes(builder.NoteOptions{
			Validity:   req.Notes.Validity,
			LeadTime:   req.Notes.LeadTime,
			WaterLT:    req.Notes.WaterLT,
			NoReturn:   req.Notes.NoReturn,
			Additional: req.Notes.Additional,
		})

		q, err := b.Build(builder.BasicInfo{
			QuoteDate:    req.QuoteDate,
			Recipient:    req.Recipient,
			Retailer:     req.Retailer,
			ShowRetailer: req.ShowRetailer,
			Staff:        req.Staff,
			SalesAreas:   req.SalesAreas,
		}, notes)
		if err != nil {
			respondJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		data, err := renderer.Render(q)
		if err != nil {
			log.Printf("Error rendering quote PDF: %v", err)
			respondJSONError(w, "見積書の生成に失敗しました。", http.StatusInternalServerError)
			return
		}

		filename := pdf.Filename(q.Recipient, q.QuoteDate)
		id, err := store.Save(q, filename)
		if err != nil {
			log.Printf("Error saving quote: %v", err)
			respondJSONError(w, "見積の保存に失敗しました。", http.StatusInternalServerError)
			return
		}
		log.Printf("Quote saved. ID: %d, Recipient: %s, Items: %d", id, q.Recipient, len(q.Items))

		w.Header().Set("X-Quote-Id", strconv.FormatInt(id, 10))
		writePDF(w, filename, data)
	}
}

// SearchQuotesHandler は履歴をキーワード・日付範囲・担当者で絞り込みます。
func SearchQuotesHandler(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		records, err := store.Search(q.Get("keyword"), q.Get("start"), q.Get("end"), q.Get("staff"))
		if err != nil {
			log.Printf("Error searching quotes: %v", err)
			respondJSONError(w, "履歴の検索に失敗しました。", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": fmt.Sprintf("%d 件のデータが見つかりました。", len(records)),
			"quotes":  records,
		})
	}
}

func parseIDFromPath(r *http.Request, prefix string) (int64, error) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	if raw == "" {
		return 0, fmt.Errorf("IDを指定してください")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// GetQuotePDFHandler は保存済み見積を再描画してPDFを返します。
func GetQuotePDFHandler(store database.Store, renderer *pdf.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDFromPath(r, "/api/quotes/pdf/")
		if err != nil {
			respondJSONError(w, "IDが不正です。", http.StatusBadRequest)
			return
		}

		record, err := store.Get(id)
		if err != nil {
			log.Printf("Error loading quote %d: %v", id, err)
			respondJSONError(w, "見積の取得に失敗しました。", http.StatusInternalServerError)
			return
		}
		if record == nil {
			respondJSONError(w, "見積が見つかりません。", http.StatusNotFound)
			return
		}

		data, err := renderer.Render(record.ToQuote())
		if err != nil {
			log.Printf("Error re-rendering quote %d: %v", id, err)
			respondJSONError(w, "見積書の生成に失敗しました。", http.StatusInternalServerError)
			return
		}

		filename := record.PdfFilename
		if filename == "" {
			filename = pdf.Filename(record.Recipient, record.QuoteDate)
		}
		writePDF(w, filename, data)
	}
}

// GetQuoteHandler は保存済み見積1件をJSONで返します。
func GetQuoteHandler(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDFromPath(r, "/api/quotes/by_id/")
		if err != nil {
			respondJSONError(w, "IDが不正です。", http.StatusBadRequest)
			return
		}

		record, err := store.Get(id)
		if err != nil {
			log.Printf("Error loading quote %d: %v", id, err)
			respondJSONError(w, "見積の取得に失敗しました。", http.StatusInternalServerError)
			return
		}
		if record == nil {
			respondJSONError(w, "見積が見つかりません。", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(record)
	}
}

// DeleteQuoteHandler は見積を削除します。存在しないIDも正常応答です。
func DeleteQuoteHandler(store database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		id, err := parseIDFromPath(r, "/api/quotes/delete/")
		if err != nil {
			respondJSONError(w, "IDが不正です。", http.StatusBadRequest)
			return
		}

		if err := store.Delete(id); err != nil {
			log.Printf("Error deleting quote %d: %v", id, err)
			respondJSONError(w, "削除に失敗しました。", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "削除しました。"})
	}
}

// CatalogHandler は商品マスタと各種固定マスタを返します。
func CatalogHandler(provider *catalog.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products":    provider.Products(),
			"lotPatterns": provider.LotOptions(),
			"recipients":  catalog.Recipients,
			"staffList":   catalog.StaffList,
			"salesAreas":  catalog.SalesAreas,
		})
	}
}
