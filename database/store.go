// Package database は見積の保存・検索を提供します。バックエンドは
// sqlite（ファイル）と postgres（ネットワーク）の2実装で、起動時の設定で
// 明示的に選択します。
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"mitsumori/config"
	"mitsumori/model"
)

// Store は見積ストアの契約です。Save は採番したIDを返し、作成日時は
// ストア側で付与します。Get は未存在のとき (nil, nil) を返し、
// Delete は未存在IDでもエラーにしません。
type Store interface {
	Save(q *model.Quote, pdfFilename string) (int64, error)
	Search(keyword, startDate, endDate, staff string) ([]model.QuoteRecord, error)
	Get(id int64) (*model.QuoteRecord, error)
	Delete(id int64) error
	Close() error
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS quotes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    quote_date TEXT NOT NULL,
    recipient TEXT NOT NULL,
    retailer TEXT NOT NULL DEFAULT '',
    staff TEXT NOT NULL,
    sales_area TEXT NOT NULL,
    items_json TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    pdf_filename TEXT NOT NULL DEFAULT ''
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS quotes (
    id BIGSERIAL PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    quote_date TEXT NOT NULL,
    recipient TEXT NOT NULL,
    retailer TEXT NOT NULL DEFAULT '',
    staff TEXT NOT NULL,
    sales_area TEXT NOT NULL,
    items_json TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    pdf_filename TEXT NOT NULL DEFAULT ''
)`

// Open は設定に従ってストアを開き、スキーマを適用します。
func Open(cfg config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case "", "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = "./mitsumori.db"
		}
		db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("sqlite open error: %w", err)
		}
		if _, err := db.Exec(sqliteSchema); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
		}
		return &sqliteStore{queries{db: db}}, nil

	case "postgres":
		db, err := sqlx.Connect("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres connect error: %w", err)
		}
		if _, err := db.Exec(postgresSchema); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply postgres schema: %w", err)
		}
		return &postgresStore{queries{db: db}}, nil

	default:
		return nil, fmt.Errorf("未対応のストアドライバです: %s", cfg.StoreDriver)
	}
}
