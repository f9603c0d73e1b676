package service

import (
	"math"
	"reflect"
	"testing"

	"stock-review-backend/internal/model"
)

func TestProcessHistoryOnlyBuys(t *testing.T) {
	settings := DefaultFeeSettings()
	txs := []model.Transaction{
		makeTx(t, model.Buy, 10.0, 1000, "2025-03-10T09:40:00"),
		makeTx(t, model.Buy, 11.0, 500, "2025-03-11T10:00:00"),
	}

	summary, history := ProcessTransactionHistory(txs, settings)

	if summary.TotalRealizedPnl != 0 {
		t.Errorf("纯买入的已实现盈亏 = %v, want 0", summary.TotalRealizedPnl)
	}
	if summary.TotalHoldings != 1500 {
		t.Errorf("持仓 = %v, want 1500", summary.TotalHoldings)
	}
	wantCost := 10005.1 + 11.0*500 + CalculateFees(model.Buy, 11.0, 500, settings)
	if !almostEqual(summary.TotalCost, wantCost) {
		t.Errorf("持仓成本 = %v, want %v", summary.TotalCost, wantCost)
	}
	if !almostEqual(summary.AvgCost, wantCost/1500) {
		t.Errorf("摊薄成本 = %v, want %v", summary.AvgCost, wantCost/1500)
	}

	if history[0].PositionTag != model.PositionTagOpen {
		t.Errorf("首笔买入标签 = %q, want %q", history[0].PositionTag, model.PositionTagOpen)
	}
	if history[1].PositionTag != "" {
		t.Errorf("加仓买入不应带标签，实际 %q", history[1].PositionTag)
	}
	for _, e := range history {
		if e.TradePnl != nil {
			t.Error("买入不应有本笔盈亏")
		}
		if e.IsTTrade {
			t.Error("买入不应标记做T")
		}
	}
}

// 当日买入当日卖出：卖出按当日买入均价计成本，与做T配对共同给出同一利润
func TestProcessHistorySameDayRoundTrip(t *testing.T) {
	settings := DefaultFeeSettings()
	buy := makeTx(t, model.Buy, 10.0, 1000, "2025-03-10T09:40:00")
	sell := makeTx(t, model.Sell, 10.5, 1000, "2025-03-10T13:30:00")

	summary, history := ProcessTransactionHistory([]model.Transaction{buy, sell}, settings)

	// 费用：买入触发最低佣金5+过户0.1=5.10，卖出5+5.25+0.105=10.36
	wantPnl := (10.5*1000 - 10.36) - (10.0*1000 + 5.10)

	enrichedSell := history[1]
	if !enrichedSell.IsTTrade {
		t.Fatal("同日买卖的卖出应标记做T")
	}
	if enrichedSell.TradePnl == nil || !almostEqual(*enrichedSell.TradePnl, wantPnl) {
		t.Errorf("本笔盈亏 = %v, want %v", enrichedSell.TradePnl, wantPnl)
	}
	if enrichedSell.PositionTag != model.PositionTagClose {
		t.Errorf("清仓卖出标签 = %q, want %q", enrichedSell.PositionTag, model.PositionTagClose)
	}
	if enrichedSell.RunningHoldings != 0 {
		t.Errorf("卖出后持仓 = %v, want 0", enrichedSell.RunningHoldings)
	}

	if !almostEqual(summary.TotalRealizedPnl, wantPnl) {
		t.Errorf("已实现盈亏 = %v, want %v", summary.TotalRealizedPnl, wantPnl)
	}
	if summary.TotalHoldings != 0 || summary.TotalCost != 0 {
		t.Errorf("清仓后持仓/成本 = %v/%v, 均应为0", summary.TotalHoldings, summary.TotalCost)
	}

	cs := summary.LastCycleStats
	if cs == nil {
		t.Fatal("清仓后应有完整周期统计")
	}
	if cs.HoldingDays != 1 {
		t.Errorf("持有天数 = %d, want 1", cs.HoldingDays)
	}
	if !almostEqual(cs.TotalCost, 10005.1) {
		t.Errorf("周期买入成本 = %v, want 10005.1", cs.TotalCost)
	}
	if !almostEqual(cs.AvgBuyPrice, 10.0051) {
		t.Errorf("周期买入均价 = %v, want 10.0051", cs.AvgBuyPrice)
	}
	if !almostEqual(cs.PnlPercent, cs.TotalPnl/cs.TotalCost*100) {
		t.Errorf("盈亏比例 = %v 与盈亏/成本不一致", cs.PnlPercent)
	}
	if cs.TotalTTrades != 1 {
		t.Errorf("周期做T次数 = %d, want 1", cs.TotalTTrades)
	}
	if !almostEqual(cs.TotalTProfit, wantPnl) {
		t.Errorf("周期做T利润 = %v, want %v", cs.TotalTProfit, wantPnl)
	}

	// 做T明细挂在后成交的卖出单上
	detail := enrichedSell.TTradeDetail
	if detail == nil {
		t.Fatal("卖出单应带做T明细")
	}
	if detail.Type != TTradeStandard {
		t.Errorf("配对类型 = %q, want %q", detail.Type, TTradeStandard)
	}
	if detail.PairID != buy.ID {
		t.Errorf("配对ID = %q, want %q", detail.PairID, buy.ID)
	}
	if detail.TimeInterval != "3时50分" {
		t.Errorf("配对间隔 = %q, want 3时50分", detail.TimeInterval)
	}
	if history[0].TTradeDetail != nil {
		t.Error("先成交的买入腿不应带明细")
	}
}

func TestProcessHistoryMultiDayCycle(t *testing.T) {
	settings := DefaultFeeSettings()
	txs := []model.Transaction{
		makeTx(t, model.Buy, 10.0, 1000, "2025-03-10T10:00:00"),
		makeTx(t, model.Sell, 11.0, 1000, "2025-03-12T10:00:00"),
	}

	summary, history := ProcessTransactionHistory(txs, settings)

	sell := history[1]
	if sell.IsTTrade {
		t.Error("隔日卖出不应标记做T")
	}
	sellFees := CalculateFees(model.Sell, 11.0, 1000, settings)
	wantPnl := (11.0*1000 - sellFees) - 10005.1
	if sell.TradePnl == nil || !almostEqual(*sell.TradePnl, wantPnl) {
		t.Errorf("本笔盈亏 = %v, want %v", sell.TradePnl, wantPnl)
	}

	cs := summary.LastCycleStats
	if cs == nil {
		t.Fatal("清仓后应有完整周期统计")
	}
	if cs.HoldingDays != 2 {
		t.Errorf("持有天数 = %d, want 2", cs.HoldingDays)
	}
	if cs.TotalTTrades != 0 {
		t.Errorf("周期做T次数 = %d, want 0", cs.TotalTTrades)
	}

	// 开仓当日的周期快照只含持有天数
	openStats := history[0].CycleStats
	if openStats == nil || openStats.HoldingDays != 1 {
		t.Errorf("持仓中周期快照 = %+v, 持有天数应为1", openStats)
	}
	if openStats != nil && openStats.TotalCost != 0 {
		t.Error("持仓中快照不应带财务统计")
	}
}

func TestProcessHistoryPartialSells(t *testing.T) {
	settings := DefaultFeeSettings()
	txs := []model.Transaction{
		makeTx(t, model.Buy, 10.0, 1000, "2025-03-10T10:00:00"),
		makeTx(t, model.Sell, 11.0, 400, "2025-03-11T10:00:00"),
		makeTx(t, model.Sell, 12.0, 600, "2025-03-12T10:00:00"),
	}

	summary, history := ProcessTransactionHistory(txs, settings)

	partial := history[1]
	if partial.PositionTag != "" {
		t.Errorf("部分卖出标签 = %q, 应为空", partial.PositionTag)
	}
	if !almostEqual(partial.RunningHoldings, 600) {
		t.Errorf("部分卖出后持仓 = %v, want 600", partial.RunningHoldings)
	}
	// 部分卖出不改变摊薄成本
	if !almostEqual(partial.RunningAvgCost, 10.0051) {
		t.Errorf("部分卖出后摊薄成本 = %v, want 10.0051", partial.RunningAvgCost)
	}

	final := history[2]
	if final.PositionTag != model.PositionTagClose {
		t.Errorf("末笔卖出标签 = %q, want %q", final.PositionTag, model.PositionTagClose)
	}
	if summary.TotalHoldings != 0 || summary.TotalCost != 0 {
		t.Errorf("清仓后持仓/成本 = %v/%v, 均应为0", summary.TotalHoldings, summary.TotalCost)
	}

	// 各笔盈亏之和等于总已实现盈亏
	var sum float64
	for _, e := range history {
		if e.TradePnl != nil {
			sum += *e.TradePnl
		}
	}
	if !almostEqual(sum, summary.TotalRealizedPnl) {
		t.Errorf("各笔盈亏和 %v != 总已实现盈亏 %v", sum, summary.TotalRealizedPnl)
	}
}

// 同日先卖后买：做T判断只看当日有无买入，不区分盘中先后
func TestProcessHistorySellBeforeBuySameDay(t *testing.T) {
	settings := DefaultFeeSettings()
	txs := []model.Transaction{
		makeTx(t, model.Buy, 10.0, 1000, "2025-03-10T10:00:00"),
		makeTx(t, model.Sell, 10.8, 500, "2025-03-11T09:45:00"),
		makeTx(t, model.Buy, 10.3, 500, "2025-03-11T14:00:00"),
	}

	summary, history := ProcessTransactionHistory(txs, settings)

	sell := history[1]
	if !sell.IsTTrade {
		t.Error("当日稍后有买入的卖出应标记做T")
	}
	// 反T配对：明细挂在后成交的买入单上
	buyBack := history[2]
	if buyBack.TTradeDetail == nil {
		t.Fatal("反T的买入腿应带明细")
	}
	if buyBack.TTradeDetail.Type != TTradeReverse {
		t.Errorf("配对类型 = %q, want %q", buyBack.TTradeDetail.Type, TTradeReverse)
	}
	if summary.TotalHoldings != 1000 {
		t.Errorf("持仓 = %v, want 1000", summary.TotalHoldings)
	}
	cs := summary.LastCycleStats
	if cs != nil {
		t.Error("未清仓不应有完整周期统计")
	}
}

// 清仓后再开仓：第二周期统计独立于第一周期
func TestProcessHistoryNewCycleResetsStats(t *testing.T) {
	settings := DefaultFeeSettings()
	txs := []model.Transaction{
		makeTx(t, model.Buy, 10.0, 1000, "2025-03-10T10:00:00"),
		makeTx(t, model.Sell, 11.0, 1000, "2025-03-12T10:00:00"),
		makeTx(t, model.Buy, 12.0, 500, "2025-04-01T10:00:00"),
		makeTx(t, model.Sell, 12.5, 500, "2025-04-03T10:00:00"),
	}

	summary, history := ProcessTransactionHistory(txs, settings)

	if history[2].PositionTag != model.PositionTagOpen {
		t.Errorf("二次开仓标签 = %q, want %q", history[2].PositionTag, model.PositionTagOpen)
	}

	cs := summary.LastCycleStats
	if cs == nil {
		t.Fatal("应有最近一次完整周期统计")
	}
	buyCost := 12.0*500 + CalculateFees(model.Buy, 12.0, 500, settings)
	if !almostEqual(cs.TotalCost, buyCost) {
		t.Errorf("第二周期买入成本 = %v, want %v", cs.TotalCost, buyCost)
	}
	if cs.HoldingDays != 2 {
		t.Errorf("第二周期持有天数 = %d, want 2", cs.HoldingDays)
	}

	sellFees := CalculateFees(model.Sell, 12.5, 500, settings)
	wantPnl := (12.5*500 - sellFees) - buyCost
	if !almostEqual(cs.TotalPnl, wantPnl) {
		t.Errorf("第二周期盈亏 = %v, want %v", cs.TotalPnl, wantPnl)
	}
}

// 全量重算应是纯函数：重复调用结果一致，且不修改输入
func TestProcessHistoryDeterministic(t *testing.T) {
	settings := DefaultFeeSettings()
	txs := []model.Transaction{
		makeTx(t, model.Buy, 10.0, 1000, "2025-03-10T09:40:00"),
		makeTx(t, model.Buy, 10.2, 500, "2025-03-10T10:30:00"),
		makeTx(t, model.Sell, 10.5, 800, "2025-03-10T14:00:00"),
		makeTx(t, model.Sell, 10.9, 700, "2025-03-12T10:00:00"),
	}
	snapshot := make([]model.Transaction, len(txs))
	copy(snapshot, txs)

	summary1, history1 := ProcessTransactionHistory(txs, settings)
	summary2, history2 := ProcessTransactionHistory(txs, settings)

	if !reflect.DeepEqual(summary1, summary2) {
		t.Errorf("两次汇总不一致:\n%+v\n%+v", summary1, summary2)
	}
	if !reflect.DeepEqual(history1, history2) {
		t.Error("两次明细不一致")
	}
	if !reflect.DeepEqual(txs, snapshot) {
		t.Error("输入切片被修改")
	}
}

func TestHoldingDays(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		start   int64
		want    int
	}{
		{"同一时刻最少1天", 1000, 1000, 1},
		{"不足一天向上取整", 1000 + msPerDay/2, 1000, 1},
		{"恰好整天", 1000 + 2*msPerDay, 1000, 2},
		{"略超整天", 1000 + 2*msPerDay + 1, 1000, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := holdingDays(tt.current, tt.start); got != tt.want {
				t.Errorf("holdingDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSafeFloat(t *testing.T) {
	if got := safeFloat(0.1 + 0.2); got != 0.3 {
		t.Errorf("safeFloat(0.1+0.2) = %v, want 0.3", got)
	}
	if got := safeFloat(999.99995); math.Abs(got-1000) > 1e-9 {
		t.Errorf("safeFloat(999.99995) = %v, want 1000", got)
	}
}
