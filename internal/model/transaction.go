package model

// TransactionType 交易方向
type TransactionType string

const (
	Buy  TransactionType = "buy"  // 买入
	Sell TransactionType = "sell" // 卖出
)

// 持仓标签
const (
	PositionTagOpen  = "建仓"
	PositionTagClose = "清仓"
)

// FeeSettings 费率设置
type FeeSettings struct {
	CommissionRate  float64 `json:"commission_rate"`   // 佣金费率，如 0.00025（万2.5）
	MinFiveYuan     bool    `json:"min_five_yuan"`     // 佣金不足5元按5元收取
	StampDutyRate   float64 `json:"stamp_duty_rate"`   // 印花税率（仅卖出）
	TransferFeeRate float64 `json:"transfer_fee_rate"` // 过户费率（双向）
}

// Transaction 一笔成交记录
type Transaction struct {
	ID          string          `json:"id"`
	StockID     string          `json:"stock_id"`
	StockCode   string          `json:"stock_code"`
	StockName   string          `json:"stock_name"`
	Type        TransactionType `json:"type"`
	Price       float64         `json:"price"`
	Quantity    int             `json:"quantity"`
	Date        string          `json:"date"`      // ISO格式，如 "2025-03-10T09:45:00"
	Timestamp   int64           `json:"timestamp"` // 毫秒时间戳
	Fees        float64         `json:"fees"`
	TotalAmount float64         `json:"total_amount"` // 买入含费用，卖出扣费用
}

// CycleStats 持仓周期统计
// 周期未结束时只有HoldingDays有效
type CycleStats struct {
	HoldingDays  int     `json:"holding_days"`
	TotalCost    float64 `json:"total_cost,omitempty"`
	AvgBuyPrice  float64 `json:"avg_buy_price,omitempty"`
	TotalPnl     float64 `json:"total_pnl,omitempty"`
	PnlPercent   float64 `json:"pnl_percent,omitempty"`
	TotalTTrades int     `json:"total_t_trades,omitempty"` // 周期内做T次数
	TotalTProfit float64 `json:"total_t_profit,omitempty"` // 周期内做T总收益
}

// TTradeDetail 做T配对明细
type TTradeDetail struct {
	Index        int     `json:"index"`         // 周期内第几次做T
	PairID       string  `json:"pair_id"`       // 对手单ID
	Type         string  `json:"type"`          // standard(先买后卖) / reverse(先卖后买)
	TimeInterval string  `json:"time_interval"` // 两腿间隔，如 "2时15分"
	Profit       float64 `json:"profit"`
}

// EnrichedTransaction 回放计算后的成交记录
type EnrichedTransaction struct {
	Transaction
	RunningHoldings float64       `json:"running_holdings"`
	RunningAvgCost  float64       `json:"running_avg_cost"`
	TradePnl        *float64      `json:"trade_pnl,omitempty"`    // 仅卖出
	PositionTag     string        `json:"position_tag,omitempty"` // 建仓 / 清仓
	IsTTrade        bool          `json:"is_t_trade"`
	TTradeDetail    *TTradeDetail `json:"t_trade_detail,omitempty"`
	CycleStats      *CycleStats   `json:"cycle_stats,omitempty"`
}

// StockSummary 个股汇总
type StockSummary struct {
	TotalHoldings    float64     `json:"total_holdings"`
	AvgCost          float64     `json:"avg_cost"`
	TotalRealizedPnl float64     `json:"total_realized_pnl"`
	TotalCost        float64     `json:"total_cost"` // 剩余持仓成本
	LastCycleStats   *CycleStats `json:"last_cycle_stats,omitempty"`
}

// ValidationResult 下单校验结果
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}
