package service

import (
	"sort"
	"time"

	"stock-review-backend/internal/model"
)

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseLocalDate 解析ISO格式的本地时间
func parseLocalDate(dateStr string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, dateStr, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// CalculateMaxSellable 计算目标时刻按T+1规则可卖出的最大数量。
// 日期无法解析时返回0。excludeID用于修改订单时排除自身。
func CalculateMaxSellable(dateStr string, transactions []model.Transaction, excludeID string) int {
	targetDate, err := parseLocalDate(dateStr)
	if err != nil {
		return 0
	}

	// 目标日零点（T+1判断基准）与目标时刻，均为毫秒时间戳
	y, m, d := targetDate.Date()
	startOfTargetDay := time.Date(y, m, d, 0, 0, 0, 0, targetDate.Location()).UnixMilli()
	targetTimestamp := targetDate.UnixMilli()

	sorted := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if excludeID != "" && t.ID == excludeID {
			continue
		}
		sorted = append(sorted, t)
	}
	sortTransactions(sorted)

	sellable := 0
	for _, t := range sorted {
		if t.Type == model.Buy {
			// 买入需在目标日零点之前才完成交收
			if t.Timestamp < startOfTargetDay {
				sellable += t.Quantity
			}
		} else if t.Timestamp <= targetTimestamp {
			// 发生在目标时刻之前（含同时）的卖出已占用额度
			sellable -= t.Quantity
		}
	}

	if sellable < 0 {
		return 0
	}
	return sellable
}

// sortTransactions 按(时间戳, ID)升序排序，ID作时间并列时的稳定键
func sortTransactions(txs []model.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Timestamp != txs[j].Timestamp {
			return txs[i].Timestamp < txs[j].Timestamp
		}
		return txs[i].ID < txs[j].ID
	})
}
