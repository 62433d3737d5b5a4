package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"mitsumori/model"
)

func TestJoinSalesAreas(t *testing.T) {
	assert.Equal(t, "関東、関西", JoinSalesAreas([]string{"関東", "関西"}))
	assert.Equal(t, "北海道", JoinSalesAreas([]string{"北海道"}))
	assert.Equal(t, "", JoinSalesAreas(nil))
	assert.Equal(t, "", JoinSalesAreas([]string{"", ""}))

	// 全国は他の選択を吸収する
	assert.Equal(t, Nationwide, JoinSalesAreas([]string{"関東", Nationwide, "関西"}))
	assert.Equal(t, Nationwide, JoinSalesAreas([]string{Nationwide}))
}

func TestProviderDefaults(t *testing.T) {
	p := NewProvider()

	require.NotEmpty(t, p.Products())
	require.NoError(t, validateUnique(p.Products()))

	parent, ok := p.LotParent()
	require.True(t, ok)
	assert.True(t, parent.IsLotPriced)
	assert.Equal(t, "2Water Ceramide 500ml", parent.Name)

	lots := p.LotOptions()
	require.Len(t, lots, 4)
	assert.Equal(t, "1ケース〜", lots[0].Lot)
	assert.Equal(t, 1680, lots[0].DefaultPrice)
	assert.Equal(t, 1320, lots[3].DefaultPrice)

	_, ok = p.Product(-1)
	assert.False(t, ok)
	_, ok = p.Product(len(p.Products()))
	assert.False(t, ok)
}

func TestValidateUnique(t *testing.T) {
	items := []model.CatalogItem{
		{ID: "A-1", Jan: "100"},
		{ID: "A-2", Jan: "200"},
	}
	require.NoError(t, validateUnique(items))

	dupID := append(items, model.CatalogItem{ID: "A-1", Jan: "300"})
	err := validateUnique(dupID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "商品IDが重複")

	dupJan := append(items, model.CatalogItem{ID: "A-3", Jan: "200"})
	err = validateUnique(dupJan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JANコードが重複")
}

// writeShiftJISCSV はテスト用のShift-JIS CSVを一時ファイルに書き出します。
func writeShiftJISCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "master.csv")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	writer := transform.NewWriter(file, japanese.ShiftJIS.NewEncoder())
	_, err = writer.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return path
}

func TestLoadMasterCSV(t *testing.T) {
	csvData := "商品ID,商品名,JANコード,ITFコード,容量,ケース入数,想定小売価格,標準卸価格,賞味期限,温度帯,発注ロット,ロット価格\n" +
		"T-001,テスト煎餅,4900000000017,14900000000014,60g,12,300,180,180,常温,1ケース以上,\n" +
		"T-002,テスト飲料,4900000000024,14900000000021,500ml,24,180,120,365,常温,1ケース～,1\n"
	path := writeShiftJISCSV(t, csvData)

	p := NewProvider()
	require.NoError(t, p.LoadMasterCSV(path))

	items := p.Products()
	require.Len(t, items, 2)
	assert.Equal(t, "T-001", items[0].ID)
	assert.Equal(t, "テスト煎餅", items[0].Name)
	assert.Equal(t, 12, items[0].CaseQty)
	assert.Equal(t, 180, items[0].WholesalePrice)
	assert.False(t, items[0].IsLotPriced)
	assert.True(t, items[1].IsLotPriced)
}

func TestLoadMasterCSVSkipsBadRows(t *testing.T) {
	csvData := "商品ID,商品名,JANコード,ITFコード,容量,ケース入数,想定小売価格,標準卸価格,賞味期限,温度帯,発注ロット\n" +
		"T-001,テスト煎餅,4900000000017,14900000000014,60g,十二,300,180,180,常温,1ケース以上\n" +
		",名前だけ,4900000000031,,60g,12,300,180,180,常温,1ケース以上\n" +
		"T-003,有効な行,4900000000048,14900000000045,60g,12,300,180,180,常温,1ケース以上\n"
	path := writeShiftJISCSV(t, csvData)

	p := NewProvider()
	require.NoError(t, p.LoadMasterCSV(path))
	require.Len(t, p.Products(), 1)
	assert.Equal(t, "T-003", p.Products()[0].ID)
}

func TestLoadMasterCSVErrors(t *testing.T) {
	p := NewProvider()
	original := p.Products()

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, p.LoadMasterCSV(filepath.Join(t.TempDir(), "nope.csv")))
	})

	t.Run("missing header", func(t *testing.T) {
		path := writeShiftJISCSV(t, "商品ID,商品名\nT-001,テスト\n")
		err := p.LoadMasterCSV(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "必須ヘッダーが見つかりません")
	})

	t.Run("no valid rows", func(t *testing.T) {
		path := writeShiftJISCSV(t, "商品ID,商品名,JANコード,ITFコード,容量,ケース入数,想定小売価格,標準卸価格,賞味期限,温度帯,発注ロット\n")
		require.Error(t, p.LoadMasterCSV(path))
	})

	t.Run("duplicate id", func(t *testing.T) {
		csvData := "商品ID,商品名,JANコード,ITFコード,容量,ケース入数,想定小売価格,標準卸価格,賞味期限,温度帯,発注ロット\n" +
			"T-001,行1,4900000000017,,60g,12,300,180,180,常温,1ケース以上\n" +
			"T-001,行2,4900000000024,,60g,12,300,180,180,常温,1ケース以上\n"
		path := writeShiftJISCSV(t, csvData)
		err := p.LoadMasterCSV(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "商品IDが重複")
	})

	// 失敗時は組み込みマスタのまま
	assert.Equal(t, original, p.Products())
}
