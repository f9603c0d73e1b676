package service

import (
	"fmt"
	"math"
	"sort"

	"stock-review-backend/internal/model"
)

// 做T配对类型
const (
	TTradeStandard = "standard" // 先买后卖
	TTradeReverse  = "reverse"  // 先卖后买
)

// pendingLeg 当日尚未配对的一腿
type pendingLeg struct {
	tx        model.Transaction
	remaining float64
}

// MatchTTrades 对同一日历日内的买卖单做LIFO配对，生成做T明细。
// 后成交的一腿持有明细（先买后卖记在卖单上，先卖后买记在买单上），
// 费用按配对数量比例分摊。返回以成交ID为键的明细表和参与配对的成交ID集合。
func MatchTTrades(transactions []model.Transaction) (map[string]*model.TTradeDetail, map[string]bool) {
	details := make(map[string]*model.TTradeDetail)
	pairIDs := make(map[string]bool)

	dayGroups := make(map[string][]model.Transaction)
	for _, tx := range transactions {
		day := tradeDay(tx.Date)
		dayGroups[day] = append(dayGroups[day], tx)
	}

	for _, txs := range dayGroups {
		daySorted := make([]model.Transaction, len(txs))
		copy(daySorted, txs)
		sort.Slice(daySorted, func(i, j int) bool {
			return daySorted[i].Timestamp < daySorted[j].Timestamp
		})

		var unmatchedBuys, unmatchedSells []*pendingLeg
		dayTIndex := 0

		for _, tx := range daySorted {
			remaining := float64(tx.Quantity)

			if tx.Type == model.Sell {
				for remaining > 0 && len(unmatchedBuys) > 0 {
					matchObj := unmatchedBuys[len(unmatchedBuys)-1]
					matchTx := matchObj.tx
					matchQty := math.Min(remaining, matchObj.remaining)
					if remaining == float64(tx.Quantity) {
						dayTIndex++
					}
					pairIDs[tx.ID] = true
					pairIDs[matchTx.ID] = true

					revenue := tx.Price*matchQty - tx.Fees*(matchQty/float64(tx.Quantity))
					cost := matchTx.Price*matchQty + matchTx.Fees*(matchQty/float64(matchTx.Quantity))
					profit := revenue - cost

					recordTTrade(details, tx, matchTx, TTradeStandard, dayTIndex, profit)

					remaining -= matchQty
					matchObj.remaining -= matchQty
					if matchObj.remaining <= 0 {
						unmatchedBuys = unmatchedBuys[:len(unmatchedBuys)-1]
					}
				}
				if remaining > 0 {
					unmatchedSells = append(unmatchedSells, &pendingLeg{tx: tx, remaining: remaining})
				}
			} else {
				for remaining > 0 && len(unmatchedSells) > 0 {
					matchObj := unmatchedSells[len(unmatchedSells)-1]
					matchTx := matchObj.tx
					matchQty := math.Min(remaining, matchObj.remaining)
					if remaining == float64(tx.Quantity) {
						dayTIndex++
					}
					pairIDs[tx.ID] = true
					pairIDs[matchTx.ID] = true

					revenue := matchTx.Price*matchQty - matchTx.Fees*(matchQty/float64(matchTx.Quantity))
					cost := tx.Price*matchQty + tx.Fees*(matchQty/float64(tx.Quantity))
					profit := revenue - cost

					recordTTrade(details, tx, matchTx, TTradeReverse, dayTIndex, profit)

					remaining -= matchQty
					matchObj.remaining -= matchQty
					if matchObj.remaining <= 0 {
						unmatchedSells = unmatchedSells[:len(unmatchedSells)-1]
					}
				}
				if remaining > 0 {
					unmatchedBuys = append(unmatchedBuys, &pendingLeg{tx: tx, remaining: remaining})
				}
			}
		}
	}

	return details, pairIDs
}

// recordTTrade 记录或累加一次配对成交的明细
func recordTTrade(details map[string]*model.TTradeDetail, tx, matchTx model.Transaction, pairType string, dayTIndex int, profit float64) {
	interval := formatTimeDiff(absInt64(tx.Timestamp - matchTx.Timestamp))
	if existing := details[tx.ID]; existing != nil {
		existing.Profit += profit
		existing.TimeInterval = interval
		return
	}
	details[tx.ID] = &model.TTradeDetail{
		Index:        dayTIndex,
		PairID:       matchTx.ID,
		Type:         pairType,
		TimeInterval: interval,
		Profit:       profit,
	}
}

// formatTimeDiff 将毫秒间隔格式化为"X时Y分"
func formatTimeDiff(ms int64) string {
	mins := ms / 60000
	h := mins / 60
	m := mins % 60
	if h > 0 {
		return fmt.Sprintf("%d时%d分", h, m)
	}
	return fmt.Sprintf("%d分", m)
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
