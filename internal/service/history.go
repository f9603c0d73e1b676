package service

import (
	"math"
	"strings"

	"stock-review-backend/internal/model"
)

const (
	// 持仓低于该值视为已清零
	holdingsEpsilon = 0.0001

	msPerDay = 1000 * 60 * 60 * 24
)

// dayBuyStats 单日买入聚合，remaining池在回放时被当日卖出逐步消耗
type dayBuyStats struct {
	buyQty      float64 // 当日买入总量
	avgBuyPrice float64 // 当日买入加权均价（含费用）
	remaining   float64 // 尚未被当日卖出匹配的数量
}

// tradeDay 取ISO日期串的日历日部分
func tradeDay(date string) string {
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}

// ProcessTransactionHistory 按时间顺序回放全部成交，计算持仓、摊薄成本、
// 每笔卖出盈亏、做T标记与持仓周期统计。输入不会被修改，每次调用全量重算。
func ProcessTransactionHistory(transactions []model.Transaction, settings model.FeeSettings) (model.StockSummary, []model.EnrichedTransaction) {
	// 1. 排序
	sorted := make([]model.Transaction, len(transactions))
	copy(sorted, transactions)
	sortTransactions(sorted)

	// 2. 预聚合每日买入（用于T+0判断与优先匹配）
	dayStats := make(map[string]*dayBuyStats)
	for _, tx := range sorted {
		if tx.Type != model.Buy {
			continue
		}
		day := tradeDay(tx.Date)
		stats, ok := dayStats[day]
		if !ok {
			stats = &dayBuyStats{}
			dayStats[day] = stats
		}
		cost := tx.Price*float64(tx.Quantity) + tx.Fees
		currentTotalCost := stats.avgBuyPrice*stats.buyQty + cost
		stats.buyQty += float64(tx.Quantity)
		stats.remaining += float64(tx.Quantity)
		if stats.buyQty > 0 {
			stats.avgBuyPrice = currentTotalCost / stats.buyQty
		}
	}

	// 做T配对明细（按日LIFO配对）
	tTradeMap, _ := MatchTTrades(sorted)

	// 3. 回放
	var (
		currentHoldings  float64
		totalCostAmount  float64
		totalRealizedPnl float64

		cycleStarted          bool
		cycleStartTimestamp   int64
		cycleTotalBuyCost     float64
		cycleTotalBuyQty      int
		cycleTotalRealizedPnl float64
		cycleTCount           int
		cycleTProfit          float64

		lastCompleteCycleStats *model.CycleStats
	)

	enrichedHistory := make([]model.EnrichedTransaction, 0, len(sorted))

	for _, tx := range sorted {
		// 持仓归零后的首笔买入开启新周期
		if currentHoldings == 0 && tx.Type == model.Buy {
			cycleStarted = true
			cycleStartTimestamp = tx.Timestamp
			cycleTotalBuyCost = 0
			cycleTotalBuyQty = 0
			cycleTotalRealizedPnl = 0
			cycleTCount = 0
			cycleTProfit = 0
		}

		day := tradeDay(tx.Date)
		stats := dayStats[day]

		// T+0判断：只看当日是否有买入，不区分盘中先后
		isTTrade := tx.Type == model.Sell && stats != nil && stats.buyQty > 0

		tDetail := tTradeMap[tx.ID]
		if tDetail != nil {
			cycleTCount++
			tDetail.Index = cycleTCount
			cycleTProfit += tDetail.Profit
		}

		var tradePnl *float64
		positionTag := ""

		if currentHoldings == 0 && tx.Type == model.Buy {
			positionTag = model.PositionTagOpen
		}

		if tx.Type == model.Buy {
			cost := tx.Price*float64(tx.Quantity) + tx.Fees
			cycleTotalBuyCost += cost
			cycleTotalBuyQty += tx.Quantity

			currentHoldings += float64(tx.Quantity)
			totalCostAmount += cost
		} else {
			netRevenue := tx.Price*float64(tx.Quantity) - tx.Fees

			costOfSoldShares := 0.0
			matchedQty := 0.0

			// 做T优先匹配当日买入，按当日均价计成本
			if isTTrade && stats.remaining > 0 {
				matchedQty = math.Min(float64(tx.Quantity), stats.remaining)
				stats.remaining -= matchedQty
				costOfSoldShares += matchedQty * stats.avgBuyPrice
			}

			// 超出当日买入的部分按持仓摊薄成本计
			excessQty := float64(tx.Quantity) - matchedQty
			if excessQty > 0 {
				avgCostExcess := 0.0
				if currentHoldings > 0 {
					avgCostExcess = totalCostAmount / currentHoldings
				}
				costOfSoldShares += excessQty * avgCostExcess
			}

			totalCostAmount -= costOfSoldShares
			currentHoldings -= float64(tx.Quantity)

			pnl := netRevenue - costOfSoldShares
			tradePnl = &pnl
			totalRealizedPnl += pnl
			cycleTotalRealizedPnl += pnl

			if currentHoldings <= holdingsEpsilon {
				positionTag = model.PositionTagClose
			}
		}

		// 修正浮点误差：持仓归零时成本一并清零
		currentHoldings = safeFloat(currentHoldings)
		if math.Abs(currentHoldings) < holdingsEpsilon {
			currentHoldings = 0
			totalCostAmount = 0
		}

		// 周期统计快照：清仓时出完整统计，持仓中只给持有天数
		var cycleStats *model.CycleStats
		if positionTag == model.PositionTagClose && cycleStarted {
			pnlPercent := 0.0
			if cycleTotalBuyCost > 0 {
				pnlPercent = cycleTotalRealizedPnl / cycleTotalBuyCost * 100
			}
			avgBuyPrice := 0.0
			if cycleTotalBuyQty > 0 {
				avgBuyPrice = cycleTotalBuyCost / float64(cycleTotalBuyQty)
			}
			cycleStats = &model.CycleStats{
				HoldingDays:  holdingDays(tx.Timestamp, cycleStartTimestamp),
				TotalCost:    cycleTotalBuyCost,
				AvgBuyPrice:  avgBuyPrice,
				TotalPnl:     cycleTotalRealizedPnl,
				PnlPercent:   pnlPercent,
				TotalTTrades: cycleTCount,
				TotalTProfit: cycleTProfit,
			}
			lastCompleteCycleStats = cycleStats
		} else if cycleStarted {
			cycleStats = &model.CycleStats{
				HoldingDays: holdingDays(tx.Timestamp, cycleStartTimestamp),
			}
		}

		runningAvgCost := 0.0
		if currentHoldings > 0 {
			runningAvgCost = totalCostAmount / currentHoldings
		}

		enrichedHistory = append(enrichedHistory, model.EnrichedTransaction{
			Transaction:     tx,
			RunningHoldings: currentHoldings,
			RunningAvgCost:  runningAvgCost,
			TradePnl:        tradePnl,
			PositionTag:     positionTag,
			IsTTrade:        isTTrade,
			TTradeDetail:    tDetail,
			CycleStats:      cycleStats,
		})
	}

	avgCost := 0.0
	if currentHoldings > 0 {
		avgCost = totalCostAmount / currentHoldings
	}

	summary := model.StockSummary{
		TotalHoldings:    currentHoldings,
		AvgCost:          avgCost,
		TotalRealizedPnl: totalRealizedPnl,
		TotalCost:        totalCostAmount,
		LastCycleStats:   lastCompleteCycleStats,
	}

	return summary, enrichedHistory
}

// holdingDays 持仓天数：毫秒差向上取整到天，最少1天
func holdingDays(current, start int64) int {
	diff := current - start
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(float64(diff) / float64(msPerDay)))
	if days < 1 {
		return 1
	}
	return days
}
