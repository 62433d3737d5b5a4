package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"mitsumori/model"
)

const quoteColumns = `
    id, created_at, quote_date, recipient, retailer, staff,
    sales_area, items_json, notes, pdf_filename`

// queries は両バックエンド共通の検索・取得・削除です。プレースホルダは
// Rebind でドライバごとに変換します。
type queries struct {
	db *sqlx.DB
}

func (s *queries) Close() error {
	return s.db.Close()
}

// Search は条件に合う見積をすべて返します。指定された条件はAND結合で、
// 未指定の条件は絞り込みに使いません。結果は作成日時の新しい順です。
func (s *queries) Search(keyword, startDate, endDate, staff string) ([]model.QuoteRecord, error) {
	query := "SELECT" + quoteColumns + " FROM quotes WHERE 1=1"
	args := []interface{}{}

	if keyword != "" {
		query += " AND (recipient LIKE ? OR retailer LIKE ?)"
		pattern := "%" + keyword + "%"
		args = append(args, pattern, pattern)
	}
	if startDate != "" {
		query += " AND quote_date >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND quote_date <= ?"
		args = append(args, endDate)
	}
	if staff != "" {
		query += " AND staff = ?"
		args = append(args, staff)
	}
	query += " ORDER BY created_at DESC, id DESC"

	var records []model.QuoteRecord
	if err := s.db.Select(&records, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to search quotes: %w", err)
	}
	for i := range records {
		if err := decodeItems(&records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Get はIDで1件取得します。見つからない場合は (nil, nil) を返します。
func (s *queries) Get(id int64) (*model.QuoteRecord, error) {
	var record model.QuoteRecord
	query := s.db.Rebind("SELECT" + quoteColumns + " FROM quotes WHERE id = ?")
	if err := s.db.Get(&record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quote %d: %w", id, err)
	}
	if err := decodeItems(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete はIDで1件削除します。存在しないIDは何もせず正常終了します。
func (s *queries) Delete(id int64) error {
	query := s.db.Rebind("DELETE FROM quotes WHERE id = ?")
	if _, err := s.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete quote %d: %w", id, err)
	}
	return nil
}

// encodeItems は明細列を順序保持のJSONにして返します。保存した列は
// Get/Search で同じ並び・同じ値に復元されます。
func encodeItems(q *model.Quote) (string, error) {
	blob, err := json.Marshal(q.Items)
	if err != nil {
		return "", fmt.Errorf("failed to encode line items: %w", err)
	}
	return string(blob), nil
}

func decodeItems(record *model.QuoteRecord) error {
	if err := json.Unmarshal([]byte(record.ItemsJSON), &record.Items); err != nil {
		return fmt.Errorf("failed to decode line items of quote %d: %w", record.ID, err)
	}
	return nil
}

// sqliteStore はファイルDB実装です。採番は last_insert_rowid に依ります。
type sqliteStore struct {
	queries
}

func (s *sqliteStore) Save(q *model.Quote, pdfFilename string) (int64, error) {
	blob, err := encodeItems(q)
	if err != nil {
		return 0, err
	}
	const query = `
        INSERT INTO quotes (quote_date, recipient, retailer, staff, sales_area, items_json, notes, pdf_filename)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.Exec(query,
		q.QuoteDate, q.Recipient, q.Retailer, q.Staff, q.SalesArea, blob, q.Notes, pdfFilename)
	if err != nil {
		return 0, fmt.Errorf("failed to save quote: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get new quote id: %w", err)
	}
	return id, nil
}

// postgresStore はネットワークDB実装です。採番は RETURNING で受け取ります。
type postgresStore struct {
	queries
}

func (s *postgresStore) Save(q *model.Quote, pdfFilename string) (int64, error) {
	blob, err := encodeItems(q)
	if err != nil {
		return 0, err
	}
	const query = `
        INSERT INTO quotes (quote_date, recipient, retailer, staff, sales_area, items_json, notes, pdf_filename)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`
	var id int64
	err = s.db.QueryRow(query,
		q.QuoteDate, q.Recipient, q.Retailer, q.Staff, q.SalesArea, blob, q.Notes, pdfFilename).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save quote: %w", err)
	}
	return id, nil
}
