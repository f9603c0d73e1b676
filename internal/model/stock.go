package model

// Stock 自选股票
type Stock struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"` // 现价，手动填写或行情接口刷新
}

// StockReview 个股复盘视图
type StockReview struct {
	Stock          Stock                 `json:"stock"`
	Summary        StockSummary          `json:"summary"`
	History        []EnrichedTransaction `json:"history"`
	BreakEvenPrice float64               `json:"break_even_price"`
	MarketValue    float64               `json:"market_value"`
	FloatingPnl    float64               `json:"floating_pnl"`
}

// DashboardStock 总览中的单只股票
type DashboardStock struct {
	Stock
	Summary     StockSummary `json:"summary"`
	MarketValue float64      `json:"market_value"`
	FloatingPnl float64      `json:"floating_pnl"`
}

// Dashboard 账户总览
type Dashboard struct {
	Stocks        []DashboardStock `json:"stocks"`
	TotalCost     float64          `json:"total_cost"`     // 全部持仓成本
	TotalRealized float64          `json:"total_realized"` // 累计已实现盈亏
	TotalFloating float64          `json:"total_floating"` // 累计浮动盈亏
	TotalPnl      float64          `json:"total_pnl"`      // 已实现+浮动
}

// BackupDocument 备份文档，兼容桌面版导出的 data.json 结构
type BackupDocument struct {
	Version      int           `json:"version"`
	Stocks       []Stock       `json:"stocks"`
	Transactions []Transaction `json:"transactions"`
	Settings     FeeSettings   `json:"settings"`
}
