package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-review-backend/internal/model"
	"stock-review-backend/internal/service"
	"stock-review-backend/internal/store"
)

// ExportBackup 导出全部数据为备份文档
func ExportBackup(c *gin.Context) {
	doc, err := store.ExportDocument(service.CurrentSettings())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if doc.Stocks == nil {
		doc.Stocks = []model.Stock{}
	}
	if doc.Transactions == nil {
		doc.Transactions = []model.Transaction{}
	}
	c.JSON(http.StatusOK, doc)
}

// RestoreBackup 从备份文档恢复数据，整库替换
func RestoreBackup(c *gin.Context) {
	var doc model.BackupDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件格式错误: " + err.Error()})
		return
	}

	if err := store.ImportDocument(doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": len(doc.Transactions)})
}
