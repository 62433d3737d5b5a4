package pdf

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// jpFontName はTTF登録時のフォントファミリー名です。
const jpFontName = "JapaneseFont"

// fallbackFontName は日本語フォントが1つも使えない場合の最終フォールバック
// です。CJK文字は正しく描画されませんが、エラーにはしない仕様です。
const fallbackFontName = "Helvetica"

// defaultFontPaths は設定で指定が無い場合に順に試す既定の探索パスです。
var defaultFontPaths = []string{
	"fonts/NotoSansJP-Regular.ttf",
	"fonts/ipaexg.ttf",
	"/usr/share/fonts/opentype/ipaexfont-gothic/ipaexg.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansCJKjp-Regular.ttf",
}

// resolveFontPath は候補パスを順に試し、最初に登録確認の取れたTTFの
// パスを返します。候補はまず使い捨てのドキュメントで登録を試し、
// 壊れたフォントファイルで本番ドキュメントを汚染しないようにします。
// どの候補も使えない場合は空文字を返します（フォールバック運用）。
func resolveFontPath(candidates []string) string {
	for _, path := range candidates {
		if path == "" {
			continue
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}

		probe := fpdf.New("L", "mm", "A4", "")
		probe.AddUTF8Font(jpFontName, "", path)
		if probe.Err() {
			log.Printf("WARN: フォント %s を登録できません: %v", path, probe.Error())
			continue
		}
		return path
	}
	return ""
}

// latin1Fallback はコアフォント描画用にLatin-1の範囲外の文字を ? に
// 置き換えます。コアフォントの幅テーブルは256文字分しかないため、
// 範囲外の文字をそのまま計測に回すことはできません。
func latin1Fallback(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r > 255 {
			b.WriteByte('?')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// registerFont はドキュメントに日本語フォントを登録し、以降の描画で
// 使うファミリー名を返します。
func (r *Renderer) registerFont(doc *fpdf.Fpdf) string {
	if r.fontPath == "" {
		return fallbackFontName
	}
	doc.AddUTF8Font(jpFontName, "", r.fontPath)
	doc.AddUTF8Font(jpFontName, "B", r.fontPath)
	if doc.Err() {
		log.Printf("WARN: フォント %s の登録に失敗しました。既定フォントで続行します: %v", r.fontPath, doc.Error())
		doc.ClearError()
		return fallbackFontName
	}
	return jpFontName
}
