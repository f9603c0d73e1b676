package store

import (
	"fmt"

	"stock-review-backend/internal/model"
)

// 备份文档版本号，与桌面版 data.json 一致
const BackupVersion = 2

// ExportDocument 导出全部数据为备份文档
func ExportDocument(settings model.FeeSettings) (model.BackupDocument, error) {
	doc := model.BackupDocument{Version: BackupVersion, Settings: settings}

	stocks, err := ListStocks()
	if err != nil {
		return doc, err
	}
	txs, err := ListTransactions()
	if err != nil {
		return doc, err
	}

	doc.Stocks = stocks
	doc.Transactions = txs
	return doc, nil
}

// ImportDocument 从备份文档恢复数据，整库替换
func ImportDocument(doc model.BackupDocument) error {
	if doc.Transactions == nil {
		return fmt.Errorf("备份文档缺少成交记录")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM transactions`); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM stocks`); err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, s := range doc.Stocks {
		if _, err := tx.Exec(`INSERT INTO stocks (id, code, name, current_price) VALUES (?, ?, ?, ?)`,
			s.ID, s.Code, s.Name, s.CurrentPrice); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	for _, t := range doc.Transactions {
		if _, err := tx.Exec(`INSERT INTO transactions (`+txColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.StockID, t.StockCode, t.StockName, t.Type,
			t.Price, t.Quantity, t.Date, t.Timestamp, t.Fees, t.TotalAmount); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	// 费率设置与交易数据同一事务落库，避免恢复出新数据旧费率的组合
	if _, err := tx.Exec(settingsUpsertSQL, doc.Settings.CommissionRate, boolToInt(doc.Settings.MinFiveYuan),
		doc.Settings.StampDutyRate, doc.Settings.TransferFeeRate); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
