package service

import (
	"math"

	"stock-review-backend/internal/model"
)

const (
	// 佣金费率 0.025%，最低5元
	DefaultCommissionRate = 0.00025
	MinCommission         = 5.0

	// 印花税 0.05%（仅卖出）
	DefaultStampDutyRate = 0.0005

	// 过户费 0.001%（双向）
	DefaultTransferFeeRate = 0.00001
)

// DefaultFeeSettings 默认费率设置
func DefaultFeeSettings() model.FeeSettings {
	return model.FeeSettings{
		CommissionRate:  DefaultCommissionRate,
		MinFiveYuan:     true,
		StampDutyRate:   DefaultStampDutyRate,
		TransferFeeRate: DefaultTransferFeeRate,
	}
}

// CalculateFees 计算单笔交易费用：佣金+印花税+过户费，保留两位小数
func CalculateFees(txType model.TransactionType, price float64, quantity int, settings model.FeeSettings) float64 {
	amount := price * float64(quantity)

	// 佣金
	commission := amount * settings.CommissionRate
	if settings.MinFiveYuan && commission < MinCommission {
		commission = MinCommission
	}

	// 印花税（仅卖出）
	stampDuty := 0.0
	if txType == model.Sell {
		stampDuty = amount * settings.StampDutyRate
	}

	// 过户费
	transferFee := amount * settings.TransferFeeRate

	return math.Round((commission+stampDuty+transferFee)*100) / 100
}

// CalculateBreakEven 计算保本价：按此价清仓，净回款恰好覆盖持仓成本
func CalculateBreakEven(summary model.StockSummary, settings model.FeeSettings) float64 {
	if summary.TotalHoldings <= 0 {
		return 0
	}
	q := summary.TotalHoldings
	rateSum := settings.CommissionRate + settings.StampDutyRate + settings.TransferFeeRate

	// P*Q*(1-费率和) = 持仓成本
	p := summary.TotalCost / (q * (1 - rateSum))

	// 若按此价卖出佣金不足5元，改用固定佣金公式：
	// P*Q - (5 + P*Q*(印花+过户)) = 持仓成本
	estimatedCommission := p * q * settings.CommissionRate
	if settings.MinFiveYuan && estimatedCommission < MinCommission {
		otherRates := settings.StampDutyRate + settings.TransferFeeRate
		p = (summary.TotalCost + MinCommission) / (q * (1 - otherRates))
	}

	return p
}

// CalculateFloatingPnl 按现价模拟清仓计算浮动盈亏（扣除卖出费用）
func CalculateFloatingPnl(currentPrice, holdings, totalCost float64, settings model.FeeSettings) float64 {
	if holdings <= 0 {
		return 0
	}

	marketValue := currentPrice * holdings

	commission := marketValue * settings.CommissionRate
	if settings.MinFiveYuan && commission < MinCommission {
		commission = MinCommission
	}
	stampDuty := marketValue * settings.StampDutyRate
	transferFee := marketValue * settings.TransferFeeRate

	return (marketValue - commission - stampDuty - transferFee) - totalCost
}

// safeFloat 保留4位小数，消除浮点累计误差
func safeFloat(v float64) float64 {
	return math.Round(v*10000) / 10000
}
