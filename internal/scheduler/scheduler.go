package scheduler

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"stock-review-backend/internal/config"
	"stock-review-backend/internal/holiday"
	"stock-review-backend/internal/quote"
	"stock-review-backend/internal/service"
	"stock-review-backend/internal/store"
)

// Start 启动后台定时任务：数据自动备份与现价自动刷新
func Start(cfg *config.AppConfig) {
	if cfg.Backup.Enabled {
		log.Printf("自动备份已启用，间隔 %s，目录 %s", cfg.Backup.Interval, cfg.Backup.Dir)
		go runLoop(cfg.Backup.Interval, func() {
			path, err := RunBackup(cfg.Backup.Dir)
			if err != nil {
				log.Printf("自动备份失败: %v", err)
				return
			}
			log.Printf("数据已自动备份至: %s", path)
		})
	}

	if cfg.QuoteRefresh.Enabled {
		log.Printf("现价自动刷新已启用，间隔 %s", cfg.QuoteRefresh.Interval)
		go runLoop(cfg.QuoteRefresh.Interval, RefreshQuotes)
	}
}

func runLoop(interval time.Duration, job func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		job()
	}
}

// RunBackup 导出全量数据到备份目录，文件按日期命名，同日多次备份互相覆盖
func RunBackup(dir string) (string, error) {
	doc, err := store.ExportDocument(service.CurrentSettings())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建备份目录失败: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("A股复盘_%s.json", time.Now().Format("2006-01-02")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// RefreshQuotes 刷新全部自选股票的现价，仅在交易时段执行
func RefreshQuotes() {
	if !holiday.IsTradingTimeNow() {
		return
	}

	stocks, err := store.ListStocks()
	if err != nil {
		log.Printf("读取股票列表失败: %v", err)
		return
	}

	for _, s := range stocks {
		price, err := quote.GetRealtimePrice(s.Code)
		if err != nil {
			log.Printf("刷新现价失败 %s(%s): %v", s.Name, s.Code, err)
			continue
		}
		if err := store.UpdateStockPrice(s.ID, price); err != nil {
			log.Printf("写入现价失败 %s(%s): %v", s.Name, s.Code, err)
		}
	}
}
