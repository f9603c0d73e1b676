package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"stock-review-backend/internal/cache"
	"stock-review-backend/internal/config"
	"stock-review-backend/internal/handler"
	"stock-review-backend/internal/holiday"
	"stock-review-backend/internal/quote"
	"stock-review-backend/internal/scheduler"
	"stock-review-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()

	if err := store.Init(cfg.DBPath); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer store.Close()

	// Redis可选，未配置或连接失败时行情走内存缓存
	if cfg.Redis.Addr != "" {
		if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Printf("%v，行情缓存降级为内存缓存", err)
		} else {
			quote.SetCacheProvider(cache.Provider{})
			defer cache.Close()
		}
	}

	if err := holiday.LoadCustomHolidays(cfg.HolidayFile); err != nil {
		log.Printf("加载节假日配置失败: %v", err)
	}

	scheduler.Start(cfg)

	r := gin.Default()

	// 配置 CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// 注册路由
	api := r.Group("/api")
	{
		// 股票相关
		api.GET("/stocks", handler.GetStocks)
		api.POST("/stocks", handler.AddStock)
		api.DELETE("/stocks/:id", handler.DeleteStock)
		api.PUT("/stocks/:id/price", handler.UpdateStockPrice)
		api.POST("/stocks/:id/price/refresh", handler.RefreshStockPrice)
		api.GET("/stocks/:id/history", handler.GetStockReview)
		api.GET("/stocks/:id/report", handler.ExportStockReport)

		// 成交记录
		api.POST("/transactions", handler.CreateTransaction)
		api.PUT("/transactions/:id", handler.UpdateTransaction)
		api.DELETE("/transactions/:id", handler.DeleteTransaction)
		api.POST("/transactions/validate", handler.ValidateTransaction)
		api.GET("/sellable", handler.GetMaxSellable)

		// 账户总览
		api.GET("/dashboard", handler.GetDashboard)

		// 费率设置
		api.GET("/settings", handler.GetSettings)
		api.PUT("/settings", handler.UpdateSettings)

		// 备份与恢复
		api.GET("/backup", handler.ExportBackup)
		api.POST("/backup/restore", handler.RestoreBackup)
	}

	log.Printf("服务启动在端口 %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}
