package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-review-backend/internal/model"
	"stock-review-backend/internal/service"
	"stock-review-backend/internal/store"
)

// GetSettings 获取费率设置（未设置过时返回默认费率）
func GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, service.CurrentSettings())
}

// UpdateSettings 保存费率设置
func UpdateSettings(c *gin.Context) {
	var req model.FeeSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	if err := store.SaveSettings(req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, req)
}
