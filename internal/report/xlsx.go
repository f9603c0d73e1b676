package report

import (
	"fmt"
	"log"
	"math"

	"github.com/xuri/excelize/v2"

	"stock-review-backend/internal/model"
)

const sheetName = "复盘"

// GenerateHistoryReport 生成个股复盘xlsx报表，返回文件字节
func GenerateHistoryReport(review model.StockReview) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("关闭xlsx文件失败: %v", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	if err := fillSummary(f, review); err != nil {
		return nil, err
	}
	if err := fillHistory(f, review.History); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成xlsx失败: %w", err)
	}
	return buf.Bytes(), nil
}

// fillSummary 顶部汇总区
func fillSummary(f *excelize.File, review model.StockReview) error {
	if err := f.MergeCell(sheetName, "A1", "K1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s (%s) 盈亏复盘", review.Stock.Name, review.Stock.Code))

	titleStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Size: 13},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "K1", titleStyle); err != nil {
		return err
	}

	labels := []any{"持仓", "摊薄成本", "已实现盈亏", "持仓成本", "现价", "浮动盈亏", "保本价"}
	values := []any{
		review.Summary.TotalHoldings,
		round2(review.Summary.AvgCost),
		round2(review.Summary.TotalRealizedPnl),
		round2(review.Summary.TotalCost),
		review.Stock.CurrentPrice,
		round2(review.FloatingPnl),
		round2(review.BreakEvenPrice),
	}
	if err := f.SetSheetRow(sheetName, "A2", &labels); err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, "A3", &values)
}

// fillHistory 成交明细区
func fillHistory(f *excelize.File, history []model.EnrichedTransaction) error {
	headers := []any{"日期", "方向", "价格", "数量", "费用", "金额", "持仓", "摊薄成本", "本笔盈亏", "标签", "做T"}
	if err := f.SetSheetRow(sheetName, "A5", &headers); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A5", "K5", headerStyle); err != nil {
		return err
	}

	for i, tx := range history {
		side := "买入"
		if tx.Type == model.Sell {
			side = "卖出"
		}

		var pnl any
		if tx.TradePnl != nil {
			pnl = round2(*tx.TradePnl)
		}

		tTrade := ""
		if tx.IsTTrade {
			tTrade = "是"
		}

		row := []any{
			tx.Date, side, tx.Price, tx.Quantity, tx.Fees, round2(tx.TotalAmount),
			tx.RunningHoldings, round2(tx.RunningAvgCost), pnl, tx.PositionTag, tTrade,
		}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", 6+i), &row); err != nil {
			return err
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
