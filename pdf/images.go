package pdf

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// resolvedImage は配置先が確定した画像1件です。幅・高さはmm単位で、
// 指定の枠に縦横比を維持したまま収めた後の値です。imageType は中身から
// 判定した形式で、拡張子とは食い違うことがあります。
type resolvedImage struct {
	path      string
	imageType string
	w         float64
	h         float64
}

// resolveImage は画像フォルダ内のファイルを探し、枠に収まるサイズを
// 計算します。ファイルが無い・デコードできない・PDFに載せられない場合は
// ok=false を返すだけで、エラーにはしません（空セル表示に退化）。
func resolveImage(dir, filename string, maxW, maxH float64) (resolvedImage, bool) {
	if filename == "" {
		return resolvedImage{}, false
	}
	path := filepath.Join(dir, filename)
	origW, origH, format, err := imageSize(path)
	if err != nil || origW <= 0 || origH <= 0 {
		return resolvedImage{}, false
	}

	// 使い捨てのドキュメントで登録まで確認し、載せられない画像で
	// 本番ドキュメントをエラー状態にしない
	probe := fpdf.New("L", "mm", "A4", "")
	probe.RegisterImageOptions(path, fpdf.ImageOptions{ImageType: format})
	if probe.Err() {
		return resolvedImage{}, false
	}

	w, h := fitBox(origW, origH, maxW, maxH)
	return resolvedImage{path: path, imageType: format, w: w, h: h}, true
}

// imageSize は画像のピクセル寸法と形式を返します。形式は拡張子ではなく
// 中身から判定します。
func imageSize(path string) (float64, float64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, "", err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, "", err
	}
	return float64(cfg.Width), float64(cfg.Height), format, nil
}

// fitBox は縦横比を維持したまま maxW×maxH に収まる寸法を返します。
func fitBox(origW, origH, maxW, maxH float64) (float64, float64) {
	ratio := maxW / origW
	if r := maxH / origH; r < ratio {
		ratio = r
	}
	return origW * ratio, origH * ratio
}
