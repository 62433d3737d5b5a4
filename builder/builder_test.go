package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mitsumori/catalog"
)

func validInfo() BasicInfo {
	return BasicInfo{
		QuoteDate:  "2025-04-07",
		Recipient:  "三菱食品",
		Staff:      "田中",
		SalesAreas: []string{"関東"},
	}
}

// lotParentIndex はロット価格商品のマスタ位置を返します。
func lotParentIndex(t *testing.T, p *catalog.Provider) int {
	t.Helper()
	for idx, item := range p.Products() {
		if item.IsLotPriced {
			return idx
		}
	}
	t.Fatal("no lot-priced product in catalog")
	return -1
}

func TestSelectItem(t *testing.T) {
	p := catalog.NewProvider()
	b := New(p)

	require.NoError(t, b.SelectItem(0, true))
	require.Len(t, b.Collect(), 1)

	require.NoError(t, b.SelectItem(0, false))
	require.Empty(t, b.Collect())

	t.Run("out of range", func(t *testing.T) {
		assert.Error(t, b.SelectItem(-1, true))
		assert.Error(t, b.SelectItem(len(p.Products()), true))
	})

	t.Run("lot-priced product rejected", func(t *testing.T) {
		err := b.SelectItem(lotParentIndex(t, p), true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ロット別に選択してください")
	})
}

func TestPriceOverride(t *testing.T) {
	p := catalog.NewProvider()
	b := New(p)

	require.NoError(t, b.SelectItem(0, true))

	// 既定値はマスタの卸価格
	lines := b.Collect()
	require.Len(t, lines, 1)
	assert.Equal(t, p.Products()[0].WholesalePrice, lines[0].WholesalePrice)

	// 上書きは常に置換
	require.NoError(t, b.SetItemPrice(0, 155))
	assert.Equal(t, 155, b.Collect()[0].WholesalePrice)
	require.NoError(t, b.SetItemPrice(0, 0))
	assert.Equal(t, 0, b.Collect()[0].WholesalePrice)

	err := b.SetItemPrice(0, -1)
	require.Error(t, err)
	assert.Equal(t, "卸価格は0以上で入力してください", err.Error())

	err = b.SetLotPrice(0, -100)
	require.Error(t, err)
	assert.Equal(t, "卸価格は0以上で入力してください", err.Error())
}

func TestCollectOrder(t *testing.T) {
	p := catalog.NewProvider()
	b := New(p)

	// あえて逆順に選択してもマスタ定義順で出てくる
	require.NoError(t, b.SelectItem(3, true))
	require.NoError(t, b.SelectItem(1, true))
	require.NoError(t, b.SelectLot(2, true))
	require.NoError(t, b.SelectLot(0, true))

	lines := b.Collect()
	require.Len(t, lines, 4)
	assert.Equal(t, p.Products()[1].Name, lines[0].Name)
	assert.Equal(t, p.Products()[3].Name, lines[1].Name)

	parent, _ := p.LotParent()
	lots := p.LotOptions()
	assert.Equal(t, parent.Name, lines[2].Name)
	assert.Equal(t, lots[0].Lot, lines[2].OrderLot)
	assert.Equal(t, lots[0].DefaultPrice, lines[2].WholesalePrice)
	assert.Equal(t, lots[2].Lot, lines[3].OrderLot)
}

func TestLotSelection(t *testing.T) {
	p := catalog.NewProvider()
	b := New(p)

	require.NoError(t, b.SelectLot(1, true))
	require.NoError(t, b.SetLotPrice(1, 1500))
	require.NoError(t, b.SetLotCondition(1, "1450"))

	lines := b.Collect()
	require.Len(t, lines, 1)
	assert.Equal(t, "10ケース以上", lines[0].OrderLot)
	assert.Equal(t, 1500, lines[0].WholesalePrice)
	assert.Equal(t, "1450", lines[0].SpecialCondition)

	assert.Error(t, b.SelectLot(-1, true))
	assert.Error(t, b.SelectLot(len(p.LotOptions()), true))
}

func TestComposeNotes(t *testing.T) {
	assert.Equal(t, "", ComposeNotes(NoteOptions{}))

	assert.Equal(t, "・見積有効期限：次回提出時まで", ComposeNotes(NoteOptions{Validity: true}))

	all := ComposeNotes(NoteOptions{
		Validity:   true,
		LeadTime:   true,
		WaterLT:    true,
		NoReturn:   true,
		Additional: "初回取引は前払いとなります。",
	})
	assert.Equal(t,
		"・見積有効期限：次回提出時まで\n"+
			"・リードタイム：中2-3日（受注〆時間 AM11:00）\n"+
			"・2Water CeramideはLT最大7日発生します。\n"+
			"・返品不可\n"+
			"・初回取引は前払いとなります。",
		all)
}

func TestBuildValidation(t *testing.T) {
	p := catalog.NewProvider()

	newSelected := func() *Builder {
		b := New(p)
		require.NoError(t, b.SelectItem(0, true))
		return b
	}

	t.Run("missing recipient", func(t *testing.T) {
		info := validInfo()
		info.Recipient = ""
		_, err := newSelected().Build(info, "")
		require.Error(t, err)
		assert.Equal(t, "送付先を入力してください", err.Error())
	})

	t.Run("no items", func(t *testing.T) {
		_, err := New(p).Build(validInfo(), "")
		require.Error(t, err)
		assert.Equal(t, "商品を選択してください", err.Error())
	})

	t.Run("missing sales area", func(t *testing.T) {
		info := validInfo()
		info.SalesAreas = nil
		_, err := newSelected().Build(info, "")
		require.Error(t, err)
		assert.Equal(t, "販売エリアを選択してください", err.Error())
	})

	t.Run("missing staff", func(t *testing.T) {
		info := validInfo()
		info.Staff = ""
		_, err := newSelected().Build(info, "")
		require.Error(t, err)
		assert.Equal(t, "担当者を選択してください", err.Error())
	})

	t.Run("missing date", func(t *testing.T) {
		info := validInfo()
		info.QuoteDate = ""
		_, err := newSelected().Build(info, "")
		require.Error(t, err)
		assert.Equal(t, "日付を入力してください", err.Error())
	})
}

func TestBuild(t *testing.T) {
	p := catalog.NewProvider()
	b := New(p)
	require.NoError(t, b.SelectItem(0, true))
	require.NoError(t, b.SelectItem(4, true))

	info := validInfo()
	info.Retailer = "まいばすけっと"
	info.ShowRetailer = true
	info.SalesAreas = []string{"関東", "関西"}

	q, err := b.Build(info, ComposeNotes(NoteOptions{NoReturn: true}))
	require.NoError(t, err)

	assert.Equal(t, "三菱食品", q.Recipient)
	assert.Equal(t, "まいばすけっと", q.Retailer)
	assert.True(t, q.ShowRetailer)
	assert.Equal(t, "関東、関西", q.SalesArea)
	assert.Equal(t, "・返品不可", q.Notes)
	require.Len(t, q.Items, 2)
	assert.Equal(t, p.Products()[0].Name, q.Items[0].Name)
	assert.Equal(t, p.Products()[4].Name, q.Items[1].Name)
}
