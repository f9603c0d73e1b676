package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 服务配置
type AppConfig struct {
	Port        string
	DBPath      string   // sqlite数据文件路径
	CORSOrigins []string // 允许的前端来源

	// 自动备份配置
	Backup struct {
		Enabled  bool
		Dir      string
		Interval time.Duration
	}

	// 现价自动刷新配置
	QuoteRefresh struct {
		Enabled  bool
		Interval time.Duration
	}

	// Redis缓存配置（未配置地址时使用内存缓存）
	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// 自定义节假日配置文件路径
	HolidayFile string
}

// Load 从环境变量读取配置
func Load() *AppConfig {
	cfg := &AppConfig{}

	cfg.Port = getEnvString("PORT", "8080")
	cfg.DBPath = getEnvString("DB_PATH", "data/review.db")
	cfg.CORSOrigins = strings.Split(getEnvString("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"), ",")

	cfg.Backup.Enabled = getEnvBool("BACKUP_ENABLED", true)
	cfg.Backup.Dir = getEnvString("BACKUP_DIR", "backups")
	cfg.Backup.Interval = getEnvDuration("BACKUP_INTERVAL", 24*time.Hour)

	cfg.QuoteRefresh.Enabled = getEnvBool("QUOTE_REFRESH_ENABLED", true)
	cfg.QuoteRefresh.Interval = getEnvDuration("QUOTE_REFRESH_INTERVAL", 5*time.Minute)

	cfg.Redis.Addr = getEnvString("REDIS_ADDR", "")
	cfg.Redis.Password = getEnvString("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.HolidayFile = getEnvString("HOLIDAY_FILE", "")

	return cfg
}

// 辅助函数
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
