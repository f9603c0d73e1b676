package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-review-backend/internal/model"
	"stock-review-backend/internal/service"
	"stock-review-backend/internal/store"
)

// CreateTransaction 新增成交记录
func CreateTransaction(c *gin.Context) {
	var req model.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	tx, result, err := service.CreateTransaction(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// UpdateTransaction 修改成交记录（删除+重插语义）
func UpdateTransaction(c *gin.Context) {
	id := c.Param("id")

	var req model.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	tx, result, err := service.UpdateTransaction(id, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteTransaction 删除成交记录
func DeleteTransaction(c *gin.Context) {
	id := c.Param("id")
	if err := store.DeleteTransaction(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ValidateTransaction 下单前校验（不落库）
func ValidateTransaction(c *gin.Context) {
	var req model.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	existing, err := store.ListTransactionsByStock(req.StockID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tx := model.Transaction{
		Type:     req.Type,
		Price:    req.Price,
		Quantity: req.Quantity,
		Date:     req.Date,
	}
	c.JSON(http.StatusOK, service.ValidateTransaction(tx, existing))
}

// GetMaxSellable 查询T+1规则下的可卖数量
func GetMaxSellable(c *gin.Context) {
	stockID := c.Query("stock_id")
	date := c.Query("date")
	excludeID := c.Query("exclude_id")

	if stockID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少stock_id或date参数"})
		return
	}

	qty, err := service.MaxSellableForStock(stockID, date, excludeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"max_sellable": qty})
}
