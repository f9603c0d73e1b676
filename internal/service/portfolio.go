package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"stock-review-backend/internal/model"
	"stock-review-backend/internal/store"
)

// CurrentSettings 读取费率设置，未配置过时落回默认费率
func CurrentSettings() model.FeeSettings {
	s, ok, err := store.GetSettings()
	if err != nil {
		log.Printf("读取费率设置失败，使用默认费率: %v", err)
		return DefaultFeeSettings()
	}
	if !ok {
		return DefaultFeeSettings()
	}
	return s
}

// CreateStock 新增自选股票
func CreateStock(req model.AddStockRequest) (model.Stock, error) {
	s := model.Stock{
		ID:   uuid.NewString(),
		Code: req.Code,
		Name: req.Name,
	}
	if err := store.AddStock(s); err != nil {
		return model.Stock{}, err
	}
	return s, nil
}

// buildTransaction 由请求构造完整成交记录：解析时间、计算费用与现金流
func buildTransaction(req model.TransactionRequest, id string) (model.Transaction, error) {
	stock, err := store.GetStock(req.StockID)
	if err != nil {
		return model.Transaction{}, err
	}

	t, err := parseLocalDate(req.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("日期格式错误: %s", req.Date)
	}

	settings := CurrentSettings()
	fees := CalculateFees(req.Type, req.Price, req.Quantity, settings)

	// 买入含费用，卖出扣费用
	amount := req.Price * float64(req.Quantity)
	totalAmount := amount + fees
	if req.Type == model.Sell {
		totalAmount = amount - fees
	}

	if id == "" {
		id = uuid.NewString()
	}

	return model.Transaction{
		ID:          id,
		StockID:     stock.ID,
		StockCode:   stock.Code,
		StockName:   stock.Name,
		Type:        req.Type,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Date:        req.Date,
		Timestamp:   t.UnixMilli(),
		Fees:        fees,
		TotalAmount: totalAmount,
	}, nil
}

// CreateTransaction 校验并写入一笔成交。校验不通过时返回的结果带原因，不算错误。
func CreateTransaction(req model.TransactionRequest) (model.Transaction, model.ValidationResult, error) {
	return saveTransaction(req, "")
}

// UpdateTransaction 修改成交记录：按删除+重插语义整笔替换
func UpdateTransaction(id string, req model.TransactionRequest) (model.Transaction, model.ValidationResult, error) {
	if _, err := store.GetTransaction(id); err != nil {
		return model.Transaction{}, model.ValidationResult{}, err
	}
	return saveTransaction(req, id)
}

func saveTransaction(req model.TransactionRequest, id string) (model.Transaction, model.ValidationResult, error) {
	tx, err := buildTransaction(req, id)
	if err != nil {
		return model.Transaction{}, model.ValidationResult{}, err
	}

	existing, err := store.ListTransactionsByStock(tx.StockID)
	if err != nil {
		return model.Transaction{}, model.ValidationResult{}, err
	}

	result := ValidateTransaction(tx, existing)
	if !result.Valid {
		return model.Transaction{}, result, nil
	}

	if id == "" {
		err = store.InsertTransaction(tx)
	} else {
		err = store.ReplaceTransaction(tx)
	}
	if err != nil {
		return model.Transaction{}, model.ValidationResult{}, err
	}
	return tx, result, nil
}

// GetStockReview 个股复盘：全量重放历史并叠加现价相关指标
func GetStockReview(stockID string) (model.StockReview, error) {
	stock, err := store.GetStock(stockID)
	if err != nil {
		return model.StockReview{}, err
	}
	txs, err := store.ListTransactionsByStock(stockID)
	if err != nil {
		return model.StockReview{}, err
	}

	settings := CurrentSettings()
	summary, history := ProcessTransactionHistory(txs, settings)

	return model.StockReview{
		Stock:          stock,
		Summary:        summary,
		History:        history,
		BreakEvenPrice: CalculateBreakEven(summary, settings),
		MarketValue:    stock.CurrentPrice * summary.TotalHoldings,
		FloatingPnl:    CalculateFloatingPnl(stock.CurrentPrice, summary.TotalHoldings, summary.TotalCost, settings),
	}, nil
}

// GetDashboard 账户总览：逐股重放汇总后合计
func GetDashboard() (model.Dashboard, error) {
	stocks, err := store.ListStocks()
	if err != nil {
		return model.Dashboard{}, err
	}

	settings := CurrentSettings()
	dashboard := model.Dashboard{Stocks: make([]model.DashboardStock, 0, len(stocks))}

	for _, stock := range stocks {
		txs, err := store.ListTransactionsByStock(stock.ID)
		if err != nil {
			return model.Dashboard{}, err
		}
		summary, _ := ProcessTransactionHistory(txs, settings)
		floating := CalculateFloatingPnl(stock.CurrentPrice, summary.TotalHoldings, summary.TotalCost, settings)

		dashboard.Stocks = append(dashboard.Stocks, model.DashboardStock{
			Stock:       stock,
			Summary:     summary,
			MarketValue: stock.CurrentPrice * summary.TotalHoldings,
			FloatingPnl: floating,
		})

		dashboard.TotalCost += summary.TotalCost
		dashboard.TotalRealized += summary.TotalRealizedPnl
		dashboard.TotalFloating += floating
	}

	dashboard.TotalPnl = dashboard.TotalRealized + dashboard.TotalFloating
	return dashboard, nil
}

// MaxSellableForStock 查询某只股票在目标时刻的可卖数量
func MaxSellableForStock(stockID, dateStr, excludeID string) (int, error) {
	txs, err := store.ListTransactionsByStock(stockID)
	if err != nil {
		return 0, err
	}
	return CalculateMaxSellable(dateStr, txs, excludeID), nil
}
