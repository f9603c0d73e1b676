package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-review-backend/internal/service"
)

// GetDashboard 账户总览：逐股汇总与账户级合计
func GetDashboard(c *gin.Context) {
	dashboard, err := service.GetDashboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
