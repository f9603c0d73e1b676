package service

import (
	"fmt"
	"testing"

	"stock-review-backend/internal/model"
)

var testTxSeq int

// makeTx 构造测试成交，时间戳由日期串推导
func makeTx(t *testing.T, txType model.TransactionType, price float64, quantity int, date string) model.Transaction {
	t.Helper()
	parsed, err := parseLocalDate(date)
	if err != nil {
		t.Fatalf("解析日期 %q 失败: %v", date, err)
	}
	testTxSeq++
	settings := DefaultFeeSettings()
	return model.Transaction{
		ID:        fmt.Sprintf("tx-%03d", testTxSeq),
		StockID:   "stock-1",
		Type:      txType,
		Price:     price,
		Quantity:  quantity,
		Date:      date,
		Timestamp: parsed.UnixMilli(),
		Fees:      CalculateFees(txType, price, quantity, settings),
	}
}

func TestCalculateMaxSellable(t *testing.T) {
	buy1 := makeTx(t, model.Buy, 10.0, 1000, "2025-03-10T09:40:00")
	buy2 := makeTx(t, model.Buy, 10.2, 500, "2025-03-11T10:00:00")
	sell1 := makeTx(t, model.Sell, 10.5, 300, "2025-03-11T14:00:00")
	txs := []model.Transaction{buy1, buy2, sell1}

	tests := []struct {
		name      string
		date      string
		excludeID string
		want      int
	}{
		{"当日买入当日不可卖", "2025-03-10T14:00:00", "", 0},
		{"次日可卖前日买入", "2025-03-11T09:30:00", "", 1000},
		{"目标时刻前的卖出占用额度", "2025-03-11T15:00:00", "", 700},
		{"目标时刻在卖出之前不受影响", "2025-03-11T10:30:00", "", 1000},
		{"排除自身后恢复额度", "2025-03-11T15:00:00", sell1.ID, 1000},
		{"再次日两笔买入均可卖", "2025-03-12T09:30:00", "", 1200},
		{"首笔买入之前无可卖", "2025-03-09", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMaxSellable(tt.date, txs, tt.excludeID)
			if got != tt.want {
				t.Errorf("CalculateMaxSellable(%q) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestCalculateMaxSellableBadDate(t *testing.T) {
	buy := makeTx(t, model.Buy, 10.0, 1000, "2025-03-10T09:40:00")
	if got := CalculateMaxSellable("not-a-date", []model.Transaction{buy}, ""); got != 0 {
		t.Errorf("无效日期应返回0，实际 %d", got)
	}
}

func TestCalculateMaxSellableClampNegative(t *testing.T) {
	// 卖出记录多于已交收买入时额度钳制为0
	buy := makeTx(t, model.Buy, 10.0, 100, "2025-03-10T09:40:00")
	sell := makeTx(t, model.Sell, 10.5, 300, "2025-03-11T10:00:00")
	if got := CalculateMaxSellable("2025-03-11T14:00:00", []model.Transaction{buy, sell}, ""); got != 0 {
		t.Errorf("超卖场景应钳制为0，实际 %d", got)
	}
}

func TestParseLocalDateLayouts(t *testing.T) {
	for _, date := range []string{"2025-03-10T09:40:00", "2025-03-10T09:40", "2025-03-10"} {
		if _, err := parseLocalDate(date); err != nil {
			t.Errorf("parseLocalDate(%q) 报错: %v", date, err)
		}
	}
	if _, err := parseLocalDate("2025/03/10"); err == nil {
		t.Error("非ISO格式应报错")
	}
}
