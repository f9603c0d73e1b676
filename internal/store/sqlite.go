package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"stock-review-backend/internal/model"
)

var db *sql.DB

// Init 打开（必要时创建）sqlite数据库并建表
func Init(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}

	d, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.ToSlash(path)))
	if err != nil {
		return fmt.Errorf("打开数据库失败: %w", err)
	}

	if _, err := d.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = d.Close()
		return err
	}
	if _, err := d.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		_ = d.Close()
		return err
	}

	if err := ensureSchema(d); err != nil {
		_ = d.Close()
		return err
	}

	db = d
	return nil
}

// Close 关闭数据库连接
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

func ensureSchema(d *sql.DB) error {
	_, err := d.Exec(`
CREATE TABLE IF NOT EXISTS stocks (
  id            TEXT PRIMARY KEY,
  code          TEXT NOT NULL,
  name          TEXT NOT NULL,
  current_price REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS transactions (
  id           TEXT PRIMARY KEY,
  stock_id     TEXT NOT NULL,
  stock_code   TEXT NOT NULL,
  stock_name   TEXT NOT NULL,
  type         TEXT NOT NULL,
  price        REAL NOT NULL,
  quantity     INTEGER NOT NULL,
  date         TEXT NOT NULL,
  timestamp    INTEGER NOT NULL,
  fees         REAL NOT NULL,
  total_amount REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_stock ON transactions(stock_id);

CREATE TABLE IF NOT EXISTS settings (
  id                INTEGER PRIMARY KEY CHECK (id = 1),
  commission_rate   REAL NOT NULL,
  min_five_yuan     INTEGER NOT NULL,
  stamp_duty_rate   REAL NOT NULL,
  transfer_fee_rate REAL NOT NULL
);
`)
	return err
}

// ListStocks 返回全部自选股票
func ListStocks() ([]model.Stock, error) {
	rows, err := db.Query(`SELECT id, code, name, current_price FROM stocks ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []model.Stock
	for rows.Next() {
		var s model.Stock
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.CurrentPrice); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// GetStock 按ID查询股票
func GetStock(id string) (model.Stock, error) {
	var s model.Stock
	err := db.QueryRow(`SELECT id, code, name, current_price FROM stocks WHERE id = ?`, id).
		Scan(&s.ID, &s.Code, &s.Name, &s.CurrentPrice)
	if err == sql.ErrNoRows {
		return s, fmt.Errorf("股票不存在: %s", id)
	}
	return s, err
}

// AddStock 新增股票
func AddStock(s model.Stock) error {
	_, err := db.Exec(`INSERT INTO stocks (id, code, name, current_price) VALUES (?, ?, ?, ?)`,
		s.ID, s.Code, s.Name, s.CurrentPrice)
	return err
}

// UpdateStockPrice 更新现价
func UpdateStockPrice(id string, price float64) error {
	res, err := db.Exec(`UPDATE stocks SET current_price = ? WHERE id = ?`, price, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("股票不存在: %s", id)
	}
	return nil
}

// DeleteStock 删除股票及其全部成交记录
func DeleteStock(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM transactions WHERE stock_id = ?`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM stocks WHERE id = ?`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

const txColumns = `id, stock_id, stock_code, stock_name, type, price, quantity, date, timestamp, fees, total_amount`

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var t model.Transaction
	err := rows.Scan(&t.ID, &t.StockID, &t.StockCode, &t.StockName, &t.Type,
		&t.Price, &t.Quantity, &t.Date, &t.Timestamp, &t.Fees, &t.TotalAmount)
	return t, err
}

func queryTransactions(query string, args ...any) ([]model.Transaction, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ListTransactions 返回全部成交记录
func ListTransactions() ([]model.Transaction, error) {
	return queryTransactions(`SELECT ` + txColumns + ` FROM transactions ORDER BY timestamp, id`)
}

// ListTransactionsByStock 返回某只股票的全部成交记录
func ListTransactionsByStock(stockID string) ([]model.Transaction, error) {
	return queryTransactions(`SELECT `+txColumns+` FROM transactions WHERE stock_id = ? ORDER BY timestamp, id`, stockID)
}

// GetTransaction 按ID查询成交记录
func GetTransaction(id string) (model.Transaction, error) {
	txs, err := queryTransactions(`SELECT `+txColumns+` FROM transactions WHERE id = ?`, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if len(txs) == 0 {
		return model.Transaction{}, fmt.Errorf("成交记录不存在: %s", id)
	}
	return txs[0], nil
}

// InsertTransaction 写入成交记录
func InsertTransaction(t model.Transaction) error {
	_, err := db.Exec(`INSERT INTO transactions (`+txColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.StockID, t.StockCode, t.StockName, t.Type,
		t.Price, t.Quantity, t.Date, t.Timestamp, t.Fees, t.TotalAmount)
	return err
}

// ReplaceTransaction 修改成交记录，按删除+重插实现
func ReplaceTransaction(t model.Transaction) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM transactions WHERE id = ?`, t.ID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("成交记录不存在: %s", t.ID)
	}
	if _, err := tx.Exec(`INSERT INTO transactions (`+txColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.StockID, t.StockCode, t.StockName, t.Type,
		t.Price, t.Quantity, t.Date, t.Timestamp, t.Fees, t.TotalAmount); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// DeleteTransaction 删除成交记录
func DeleteTransaction(id string) error {
	res, err := db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("成交记录不存在: %s", id)
	}
	return nil
}

// GetSettings 读取费率设置，未设置过时返回ok=false
func GetSettings() (model.FeeSettings, bool, error) {
	var s model.FeeSettings
	var minFive int
	err := db.QueryRow(`SELECT commission_rate, min_five_yuan, stamp_duty_rate, transfer_fee_rate FROM settings WHERE id = 1`).
		Scan(&s.CommissionRate, &minFive, &s.StampDutyRate, &s.TransferFeeRate)
	if err == sql.ErrNoRows {
		return s, false, nil
	}
	if err != nil {
		return s, false, err
	}
	s.MinFiveYuan = minFive != 0
	return s, true, nil
}

const settingsUpsertSQL = `
INSERT INTO settings (id, commission_rate, min_five_yuan, stamp_duty_rate, transfer_fee_rate)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  commission_rate = excluded.commission_rate,
  min_five_yuan = excluded.min_five_yuan,
  stamp_duty_rate = excluded.stamp_duty_rate,
  transfer_fee_rate = excluded.transfer_fee_rate
`

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SaveSettings 保存费率设置
func SaveSettings(s model.FeeSettings) error {
	_, err := db.Exec(settingsUpsertSQL, s.CommissionRate, boolToInt(s.MinFiveYuan), s.StampDutyRate, s.TransferFeeRate)
	return err
}
