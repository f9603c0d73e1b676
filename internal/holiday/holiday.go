package holiday

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

var (
	mu       sync.RWMutex
	cache    = make(map[string]cachedResult)
	cacheTTL = 24 * time.Hour

	// 自定义节假日（从配置文件加载）
	customHolidays = make(map[string]bool)

	apiClient  = &http.Client{Timeout: 3 * time.Second}
	apiBaseURL = "http://timor.tech/api/holiday/info"
)

type cachedResult struct {
	isTrading bool
	fetchedAt time.Time
}

// LoadCustomHolidays 从JSON文件加载自定义节假日
// 文件格式: {"holidays": ["2026-01-01", "2026-02-17", ...]}
func LoadCustomHolidays(filePath string) error {
	if filePath == "" {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("读取节假日配置文件失败: %w", err)
	}

	var config struct {
		Holidays []string `json:"holidays"`
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("解析节假日配置文件失败: %w", err)
	}

	mu.Lock()
	for _, date := range config.Holidays {
		customHolidays[date] = true
	}
	mu.Unlock()

	log.Printf("加载自定义节假日配置: %d个节假日", len(config.Holidays))
	return nil
}

// IsTradingDay 判断是否为A股交易日。
// 周六周日不交易（调休补班日也不交易），法定节假日不交易；
// API不可用时回退为：周一到周五均视作交易日。
func IsTradingDay(date time.Time) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}

	dateStr := date.Format("2006-01-02")

	mu.RLock()
	if customHolidays[dateStr] {
		mu.RUnlock()
		return false
	}
	if r, ok := cache[dateStr]; ok && time.Since(r.fetchedAt) < cacheTTL {
		mu.RUnlock()
		return r.isTrading
	}
	mu.RUnlock()

	// API查询失败时按工作日处理，但不写缓存，下次调用重新探测
	fromAPI, ok := checkFromAPI(dateStr)
	if !ok {
		return true
	}

	mu.Lock()
	cache[dateStr] = cachedResult{isTrading: fromAPI, fetchedAt: time.Now()}
	mu.Unlock()

	return fromAPI
}

// checkFromAPI 从节假日API查询指定日期
// type: 0工作日 1周末 2节假日 3调休（上班）
func checkFromAPI(dateStr string) (bool, bool) {
	url := fmt.Sprintf("%s/%s", apiBaseURL, dateStr)

	resp, err := apiClient.Get(url)
	if err != nil {
		return false, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, false
	}

	var result struct {
		Code int `json:"code"`
		Type struct {
			Type int `json:"type"`
		} `json:"type"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.Code != 0 {
		return false, false
	}

	return result.Type.Type == 0 || result.Type.Type == 3, true
}

// IsTradingTimeNow 判断当前是否为交易时段（09:30-11:30, 13:00-15:00）
func IsTradingTimeNow() bool {
	now := time.Now()
	if !IsTradingDay(now) {
		return false
	}
	hhmm := now.Hour()*100 + now.Minute()
	morning := hhmm >= 930 && hhmm < 1130
	afternoon := hhmm >= 1300 && hhmm < 1500
	return morning || afternoon
}
