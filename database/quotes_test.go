package database

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mitsumori/model"
)

func openTestStore(t *testing.T) *sqliteStore {
	t.Helper()

	db, err := sqlx.Open("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	// インメモリDBはコネクションを閉じると消えるため1本に固定する
	db.SetMaxOpenConns(1)

	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)

	store := &sqliteStore{queries{db: db}}
	t.Cleanup(func() { store.Close() })
	return store
}

func testQuote(recipient, date, staff string) *model.Quote {
	return &model.Quote{
		QuoteDate: date,
		Recipient: recipient,
		Staff:     staff,
		SalesArea: "関東",
		Notes:     "・返品不可",
		Items: []model.QuoteLineItem{
			{
				Name: "2Snack ベイクドポテト うま塩味", Jan: "4571234560011", Itf: "14571234560018",
				Volume: "52g", CaseQty: 12, RetailPrice: 298, WholesalePrice: 180,
				ShelfLife: 180, Temperature: "常温", OrderLot: "1ケース以上",
			},
			{
				Name: "2Water Ceramide 500ml", Jan: "4571234560073", Itf: "14571234560070",
				Volume: "500ml", CaseQty: 24, RetailPrice: 180, WholesalePrice: 1560,
				ShelfLife: 365, Temperature: "常温", OrderLot: "10ケース以上",
				SpecialCondition: "1500",
			},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	store := openTestStore(t)

	q := testQuote("三菱食品", "2025-04-07", "田中")
	q.Retailer = "まいばすけっと"
	id, err := store.Save(q, "250407_三菱食品様_お見積書.pdf")
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	record, err := store.Get(id)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, id, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, "2025-04-07", record.QuoteDate)
	assert.Equal(t, "三菱食品", record.Recipient)
	assert.Equal(t, "まいばすけっと", record.Retailer)
	assert.Equal(t, "田中", record.Staff)
	assert.Equal(t, "関東", record.SalesArea)
	assert.Equal(t, "・返品不可", record.Notes)
	assert.Equal(t, "250407_三菱食品様_お見積書.pdf", record.PdfFilename)

	// 明細は保存時の並び・値のまま復元される
	require.Equal(t, q.Items, record.Items)

	restored := record.ToQuote()
	assert.True(t, restored.ShowRetailer)
	assert.Equal(t, q.Items, restored.Items)
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)

	record, err := store.Get(9999)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSearch(t *testing.T) {
	store := openTestStore(t)

	id1, err := store.Save(testQuote("三菱食品", "2025-04-01", "田中"), "a.pdf")
	require.NoError(t, err)
	id2, err := store.Save(testQuote("伊藤忠食品", "2025-04-10", "佐藤"), "b.pdf")
	require.NoError(t, err)
	id3, err := store.Save(testQuote("三井食品", "2025-05-01", "田中"), "c.pdf")
	require.NoError(t, err)

	t.Run("no filters returns all newest first", func(t *testing.T) {
		records, err := store.Search("", "", "", "")
		require.NoError(t, err)
		require.Len(t, records, 3)
		// 作成時刻が同秒でもIDの降順で新しい順が保たれる
		assert.Equal(t, []int64{id3, id2, id1},
			[]int64{records[0].ID, records[1].ID, records[2].ID})
	})

	t.Run("keyword matches recipient", func(t *testing.T) {
		records, err := store.Search("三菱", "", "", "")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, id1, records[0].ID)
	})

	t.Run("keyword matches retailer", func(t *testing.T) {
		q := testQuote("加藤産業", "2025-05-02", "鈴木")
		q.Retailer = "まいばすけっと"
		id4, err := store.Save(q, "d.pdf")
		require.NoError(t, err)

		records, err := store.Search("まいばす", "", "", "")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, id4, records[0].ID)

		require.NoError(t, store.Delete(id4))
	})

	t.Run("date range", func(t *testing.T) {
		records, err := store.Search("", "2025-04-05", "2025-04-30", "")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, id2, records[0].ID)
	})

	t.Run("staff exact match", func(t *testing.T) {
		records, err := store.Search("", "", "", "田中")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, id3, records[0].ID)
		assert.Equal(t, id1, records[1].ID)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		records, err := store.Search("食品", "2025-04-05", "", "田中")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, id3, records[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		records, err := store.Search("存在しない社名", "", "", "")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Save(testQuote("三菱食品", "2025-04-07", "田中"), "a.pdf")
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))

	record, err := store.Get(id)
	require.NoError(t, err)
	assert.Nil(t, record)

	// 存在しないIDの削除はエラーにしない
	require.NoError(t, store.Delete(id))
	require.NoError(t, store.Delete(424242))
}
