package service

import (
	"fmt"

	"stock-review-backend/internal/model"
)

// ValidateTransaction 下单前校验：手数规则与T+1可卖额度。
// 修改订单时传入的tx带原ID，计算可卖额度会排除自身。
func ValidateTransaction(tx model.Transaction, existing []model.Transaction) model.ValidationResult {
	if tx.Quantity < 100 {
		return model.ValidationResult{Valid: false, Message: "最小交易数量为100"}
	}
	if tx.Quantity%100 != 0 {
		return model.ValidationResult{Valid: false, Message: "交易数量必须是100的整数倍"}
	}
	if tx.Type == model.Buy {
		return model.ValidationResult{Valid: true}
	}

	maxSellable := CalculateMaxSellable(tx.Date, existing, tx.ID)
	if tx.Quantity > maxSellable {
		return model.ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("可用股数不足 (T+1规则)。当前可卖: %d", maxSellable),
		}
	}
	return model.ValidationResult{Valid: true}
}
