package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-review-backend/internal/model"
	"stock-review-backend/internal/quote"
	"stock-review-backend/internal/report"
	"stock-review-backend/internal/service"
	"stock-review-backend/internal/store"
)

// GetStocks 获取自选股票列表
func GetStocks(c *gin.Context) {
	stocks, err := store.ListStocks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stocks == nil {
		stocks = []model.Stock{}
	}
	c.JSON(http.StatusOK, gin.H{"data": stocks})
}

// AddStock 新增自选股票
func AddStock(c *gin.Context) {
	var req model.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	stock, err := service.CreateStock(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stock)
}

// DeleteStock 删除股票及其全部成交记录
func DeleteStock(c *gin.Context) {
	id := c.Param("id")
	if err := store.DeleteStock(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// UpdateStockPrice 手动更新现价
func UpdateStockPrice(c *gin.Context) {
	id := c.Param("id")

	var req model.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	if err := store.UpdateStockPrice(id, req.Price); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "current_price": req.Price})
}

// RefreshStockPrice 从行情接口刷新现价
func RefreshStockPrice(c *gin.Context) {
	id := c.Param("id")

	stock, err := store.GetStock(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	price, err := quote.GetRealtimePrice(stock.Code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if err := store.UpdateStockPrice(id, price); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "current_price": price})
}

// GetStockReview 个股复盘：汇总+逐笔增强历史
func GetStockReview(c *gin.Context) {
	id := c.Param("id")

	review, err := service.GetStockReview(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, review)
}

// ExportStockReport 导出个股复盘xlsx报表
func ExportStockReport(c *gin.Context) {
	id := c.Param("id")

	review, err := service.GetStockReview(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	data, err := report.GenerateHistoryReport(review)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("%s_复盘.xlsx", review.Stock.Code)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
