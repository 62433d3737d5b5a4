// Package pdf は確定済み見積からA4横の見積書PDFを生成します。
// 列構成・列幅・行の最低数・罫線や背景色は固定レイアウトで、
// 同じ Quote からは常に同じ見た目の文書が得られます。
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"mitsumori/config"
	"mitsumori/model"
)

const (
	pageW        = 297.0 // A4横
	pageH        = 210.0
	marginLeft   = 2.0
	marginRight  = 2.0
	marginTop    = 5.0
	marginBottom = 5.0

	headerRowH  = 8.0
	dataRowH    = 14.0
	minDataRows = 6 // 明細がこれ未満でも空行で埋めて表の高さを揃える

	cellLineH  = 3.0
	notesLineH = 4.5
	notesIndent = 12.0
)

// 組織の固定情報。
const (
	orgName        = "株式会社TWO"
	orgBrand       = "2foods"
	orgStaffPrefix = "担当：StrategicPlanning&Sales　"
	orgContact     = "連絡先：2foods-sales@two2.jp"
	orgPhone       = "電話番号：03-6869-0010"
	orgFax         = "FAX番号：03-4496-4769"
	defaultSeller  = "TWO"
	logoFileName   = "2foods_logo.png"
)

// 特別条件列を含む16列と、含まない15列の固定レイアウト。
// 幅は内容から計算せず、常にこの表を使います。
var (
	colWidthsSpecial = []float64{6, 12, 10, 10, 44, 23, 25, 23, 12, 12, 16, 12, 11, 12, 24, 11}
	colHeadersSpecial = []string{
		"No", "画像", "温度帯", "販売者", "商品名", "JANコード", "ITFコード", "ケースJAN",
		"容量", "ケース\n入数", "想定\n小売価格", "卸価格", "特別\n条件", "販売\nエリア", "発注\nロット", "賞味\n期限",
	}

	colWidthsDefault = []float64{6, 12, 10, 10, 52, 24, 26, 24, 13, 13, 17, 13, 13, 26, 12}
	colHeadersDefault = []string{
		"No", "画像", "温度帯", "販売者", "商品名", "JANコード", "ITFコード", "ケースJAN",
		"容量", "ケース\n入数", "想定\n小売価格", "卸価格", "販売\nエリア", "発注\nロット", "賞味\n期限",
	}
)

// Renderer は見積書PDFを生成します。フォントと画像の解決先は生成時に
// 確定し、以降の Render は入力の Quote のみに依存します。
type Renderer struct {
	fontPath string
	imageDir string
}

func New(cfg config.Config) *Renderer {
	imageDir := cfg.ImageFolderPath
	if imageDir == "" {
		imageDir = "images"
	}
	candidates := append(append([]string{}, cfg.FontPaths...), defaultFontPaths...)
	return &Renderer{
		fontPath: resolveFontPath(candidates),
		imageDir: imageDir,
	}
}

// HasSpecialCondition は特別条件付きの明細が1件でもあるかを返します。
// 列レイアウトの切り替えはこの真偽値だけで決まります。
func HasSpecialCondition(items []model.QuoteLineItem) bool {
	for _, item := range items {
		if item.SpecialCondition != "" {
			return true
		}
	}
	return false
}

func columnLayout(hasSpecial bool) ([]float64, []string) {
	if hasSpecial {
		return colWidthsSpecial, colHeadersSpecial
	}
	return colWidthsDefault, colHeadersDefault
}

// FormatSpecialCondition は数字のみの特別条件を金額表示にします。
// それ以外の文字列（例：「5、5円」「500円」）はそのまま通します。
func FormatSpecialCondition(s string) string {
	if s == "" || !isASCIIDigits(s) {
		return s
	}
	return "¥" + s
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatOrderLot は発注ロット文字列に強制改行を入れます。
// 固定幅セルでの折り返し位置を揃えるため、「（」の前と「以上」の前で
// 改行します。
func FormatOrderLot(lot string) string {
	lot = strings.ReplaceAll(lot, "（", "\n（")
	lot = strings.ReplaceAll(lot, "以上", "\n以上")
	return lot
}

// FormatDate は見積日付の区切りを印字用に置き換えます（2025-04-07 → 2025/04/07）。
func FormatDate(date string) string {
	return strings.ReplaceAll(date, "-", "/")
}

// Filename はダウンロード用のファイル名を生成します。
// 例: Filename("ACME", "2025-04-07") → "250407_ACME様_お見積書.pdf"
func Filename(recipient, date string) string {
	yymmdd := strings.ReplaceAll(date, "-", "")
	parts := strings.Split(date, "-")
	if len(parts) == 3 && len(parts[0]) == 4 {
		yymmdd = parts[0][2:] + parts[1] + parts[2]
	}
	return fmt.Sprintf("%s_%s様_お見積書.pdf", yymmdd, recipient)
}

// Render は見積書PDFを1枚のバイト列として生成します。
// フォント・画像の解決失敗は描画品質の劣化にとどめ、エラーにはしません。
func (r *Renderer) Render(q *model.Quote) ([]byte, error) {
	if q == nil || len(q.Items) == 0 {
		return nil, errors.New("見積に商品がありません")
	}

	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetMargins(marginLeft, marginTop, marginRight)
	doc.SetAutoPageBreak(false, marginBottom)
	font := r.registerFont(doc)
	doc.AddPage()

	r.drawHeader(doc, font, q)
	r.drawTable(doc, font, q)
	r.drawNotes(doc, font, q.Notes)

	if doc.Err() {
		return nil, fmt.Errorf("PDF描画に失敗しました: %w", doc.Error())
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF出力に失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader はロゴ・会社情報・送付先・日付のヘッダー領域を描画します。
func (r *Renderer) drawHeader(doc *fpdf.Fpdf, font string, q *model.Quote) {
	logoBottom := marginTop + 15.0

	// 左上：ロゴ。画像が無ければ太字の組織名で代替。
	if img, ok := resolveImage(r.imageDir, logoFileName, 50, 15); ok {
		doc.ImageOptions(img.path, marginLeft, marginTop, img.w, img.h, false, fpdf.ImageOptions{ImageType: img.imageType}, 0, "")
	} else {
		doc.SetFont(font, "B", 14)
		doc.SetTextColor(0, 0, 0)
		doc.SetXY(marginLeft, marginTop)
		doc.CellFormat(60, 7, orgBrand, "", 0, "L", false, 0, "")
	}

	// 右上：会社情報（右寄せ・ロゴ帯の下端に揃える）。
	doc.SetFont(font, "", 9)
	doc.SetTextColor(0, 0, 0)
	companyLines := []string{
		orgName,
		orgStaffPrefix + q.Staff,
		orgContact,
	}
	y := logoBottom - float64(len(companyLines))*4.0
	for _, line := range companyLines {
		doc.SetXY(marginLeft, y)
		doc.CellFormat(0, 4, line, "", 0, "R", false, 0, "")
		y += 4.0
	}

	// 対象小売名は「入力あり かつ 表示フラグON」のときだけ文字を出す。
	// 行自体は常に確保し、レイアウトは潰さない。
	retailerText := ""
	if q.ShowRetailer && q.Retailer != "" {
		retailerText = q.Retailer + "様"
	}

	blockTop := logoBottom + 3.0
	leftLines := []string{
		"送付先：" + q.Recipient + "様",
		"対象小売企業名：" + retailerText,
	}
	y = blockTop
	for _, line := range leftLines {
		doc.SetXY(marginLeft+4, y)
		doc.CellFormat(120, notesLineH, line, "", 0, "L", false, 0, "")
		y += notesLineH
	}

	rightLines := []string{
		orgPhone,
		orgFax,
		"日付：" + FormatDate(q.QuoteDate),
	}
	y = blockTop
	for _, line := range rightLines {
		doc.SetXY(marginLeft, y)
		doc.CellFormat(0, notesLineH, line, "", 0, "R", false, 0, "")
		y += notesLineH
	}

	doc.SetY(blockTop + 3*notesLineH + 5.0)
}

// drawTable は明細テーブルを描画します。明細が6行未満の場合は空行で
// 埋め、6行を超える場合はそのまま行を増やします。
func (r *Renderer) drawTable(doc *fpdf.Fpdf, font string, q *model.Quote) {
	hasSpecial := HasSpecialCondition(q.Items)
	widths, headers := columnLayout(hasSpecial)

	r.drawHeaderRow(doc, font, widths, headers)

	for i, item := range q.Items {
		cells := rowCells(i, item, q.SalesArea, hasSpecial)
		img, _ := resolveImage(r.imageDir, item.Image, 10, 10)
		r.drawDataRow(doc, font, widths, cells, img, i%2 == 1)
	}
	for n := len(q.Items); n < minDataRows; n++ {
		r.drawDataRow(doc, font, widths, make([]string, len(widths)), resolvedImage{}, n%2 == 1)
	}
}

// rowCells は明細1行分のセル文字列を組み立てます。画像列（index 1）は
// 別経路で描画するため空にしておきます。
func rowCells(i int, item model.QuoteLineItem, salesArea string, hasSpecial bool) []string {
	seller := item.Seller
	if seller == "" {
		seller = defaultSeller
	}

	cells := []string{
		strconv.Itoa(i + 1),
		"",
		item.Temperature,
		seller,
		item.Name,
		item.Jan,
		item.Itf,
		item.CaseJan,
		item.Volume,
		strconv.Itoa(item.CaseQty),
		"¥" + strconv.Itoa(item.RetailPrice),
		"¥" + strconv.Itoa(item.WholesalePrice),
	}
	if hasSpecial {
		cells = append(cells, FormatSpecialCondition(item.SpecialCondition))
	}
	cells = append(cells,
		salesArea,
		FormatOrderLot(item.OrderLot),
		"D"+strconv.Itoa(item.ShelfLife),
	)
	return cells
}

func (r *Renderer) drawHeaderRow(doc *fpdf.Fpdf, font string, widths []float64, headers []string) {
	y := doc.GetY()
	doc.SetFont(font, "", 7)
	doc.SetTextColor(255, 255, 255)
	doc.SetFillColor(212, 167, 0) // #d4a700
	doc.SetDrawColor(128, 128, 128)
	doc.SetLineWidth(0.18)

	x := marginLeft
	for c, w := range widths {
		doc.SetXY(x, y)
		doc.CellFormat(w, headerRowH, "", "1", 0, "", true, 0, "")
		drawCellText(doc, font, x, y, w, headerRowH, headers[c])
		x += w
	}
	doc.SetY(y + headerRowH)
}

func (r *Renderer) drawDataRow(doc *fpdf.Fpdf, font string, widths []float64, cells []string, img resolvedImage, shaded bool) {
	y := doc.GetY()
	if y+dataRowH > pageH-marginBottom {
		doc.AddPage()
		y = doc.GetY()
	}

	doc.SetFont(font, "", 7)
	doc.SetTextColor(0, 0, 0)
	doc.SetDrawColor(128, 128, 128)
	doc.SetLineWidth(0.18)
	if shaded {
		doc.SetFillColor(248, 248, 248) // #f8f8f8
	} else {
		doc.SetFillColor(255, 255, 255)
	}

	x := marginLeft
	for c, w := range widths {
		doc.SetXY(x, y)
		doc.CellFormat(w, dataRowH, "", "1", 0, "", true, 0, "")
		if c == 1 {
			if img.path != "" {
				doc.ImageOptions(img.path, x+(w-img.w)/2, y+(dataRowH-img.h)/2, img.w, img.h, false, fpdf.ImageOptions{ImageType: img.imageType}, 0, "")
			}
		} else {
			drawCellText(doc, font, x, y, w, dataRowH, cells[c])
		}
		x += w
	}
	doc.SetY(y + dataRowH)
}

// drawCellText はセル枠内に中央揃えでテキストを描画します。
// 明示改行を優先し、それでも収まらない部分はセル幅で折り返します。
// 行数がセル高を超える分は切り捨てます。コアフォント代替時は
// Latin-1に収まらない文字を ? に落としてから計測します。
func drawCellText(doc *fpdf.Fpdf, font string, x, y, w, h float64, text string) {
	if text == "" {
		return
	}
	if font != jpFontName {
		text = latin1Fallback(text)
	}
	var lines []string
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			continue
		}
		lines = append(lines, doc.SplitText(part, w-1)...)
	}
	if len(lines) == 0 {
		return
	}
	maxLines := int(h / cellLineH)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	ty := y + (h-float64(len(lines))*cellLineH)/2
	for _, line := range lines {
		doc.SetXY(x, ty)
		doc.CellFormat(w, cellLineH, line, "", 0, "C", false, 0, "")
		ty += cellLineH
	}
}

// drawNotes は備考ブロックを描画します。空なら何も出しません。
// 表のNo列に左端を揃えるため、段落の間だけ左マージンを広げます。
func (r *Renderer) drawNotes(doc *fpdf.Fpdf, font string, notes string) {
	if notes == "" {
		return
	}
	doc.SetAutoPageBreak(true, marginBottom)
	doc.SetY(doc.GetY() + 5.0)
	doc.SetLeftMargin(marginLeft + notesIndent)
	doc.SetX(marginLeft + notesIndent)

	doc.SetTextColor(0, 0, 0)
	doc.SetFont(font, "B", 9)
	doc.CellFormat(0, notesLineH, "▼備考", "", 1, "L", false, 0, "")

	doc.SetFont(font, "", 9)
	for _, line := range strings.Split(notes, "\n") {
		doc.CellFormat(0, notesLineH, line, "", 1, "L", false, 0, "")
	}

	doc.SetLeftMargin(marginLeft)
}
