package quote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPClient HTTP客户端
var HTTPClient = &http.Client{
	Timeout: 10 * time.Second,
}

// 现价缓存时间，盘中价格变化快，只做短缓存
const priceCacheTTL = time.Minute

// GetRealtimePrice 获取现价，先查缓存，未命中时先尝试新浪再回退东方财富
func GetRealtimePrice(code string) (float64, error) {
	cacheKey := "quote:price:" + code

	var cached float64
	if err := getCacheProvider().Get(cacheKey, &cached); err == nil && cached > 0 {
		return cached, nil
	}

	price, err := getPriceFromSina(code)
	if err != nil || price <= 0 {
		price, err = getPriceFromEM(code)
	}
	if err != nil {
		return 0, fmt.Errorf("获取现价失败: %w", err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("获取现价失败: 无有效报价")
	}

	_ = getCacheProvider().Set(cacheKey, price, priceCacheTTL)
	return price, nil
}

// sinaSymbol 按代码判断市场前缀
func sinaSymbol(code string) string {
	if strings.HasPrefix(code, "6") {
		return "sh" + code
	}
	return "sz" + code
}

// getPriceFromSina 从新浪行情获取现价
func getPriceFromSina(code string) (float64, error) {
	url := fmt.Sprintf("https://hq.sinajs.cn/list=%s", sinaSymbol(code))

	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://finance.sina.com.cn")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	return parseSinaQuote(string(body))
}

// parseSinaQuote 解析新浪行情响应
// 格式: var hq_str_sh600000="浦发银行,开盘,昨收,现价,最高,最低,..."
func parseSinaQuote(text string) (float64, error) {
	start := strings.Index(text, `"`)
	end := strings.LastIndex(text, `"`)
	if start < 0 || end <= start {
		return 0, fmt.Errorf("响应格式错误")
	}

	fields := strings.Split(text[start+1:end], ",")
	if len(fields) < 4 {
		return 0, fmt.Errorf("响应字段不足")
	}

	price, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return 0, fmt.Errorf("现价解析失败: %w", err)
	}
	return price, nil
}

// getPriceFromEM 从东方财富获取现价
func getPriceFromEM(code string) (float64, error) {
	var secid string
	if strings.HasPrefix(code, "6") {
		secid = "1." + code
	} else {
		secid = "0." + code
	}

	url := fmt.Sprintf("https://push2.eastmoney.com/api/qt/stock/get?secid=%s&fields=f43", secid)

	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://quote.eastmoney.com")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var emResp struct {
		Data struct {
			F43 json.Number `json:"f43"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &emResp); err != nil {
		return 0, err
	}

	raw, err := emResp.Data.F43.Float64()
	if err != nil {
		return 0, fmt.Errorf("现价解析失败: %w", err)
	}

	// f43为放大100倍的整数价
	return raw / 100, nil
}
