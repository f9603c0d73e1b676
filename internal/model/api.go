package model

// AddStockRequest 新增自选股票
type AddStockRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// UpdatePriceRequest 手动更新现价
type UpdatePriceRequest struct {
	Price float64 `json:"price"`
}

// TransactionRequest 新增/修改成交记录
type TransactionRequest struct {
	StockID  string          `json:"stock_id" binding:"required"`
	Type     TransactionType `json:"type" binding:"required"`
	Price    float64         `json:"price" binding:"required"`
	Quantity int             `json:"quantity" binding:"required"`
	Date     string          `json:"date" binding:"required"` // ISO格式
}
