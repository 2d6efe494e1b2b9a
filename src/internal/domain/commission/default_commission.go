package commission

import (
	"github.com/shopspring/decimal"
)

// ===========================
// DefaultCommission 值對象
// ===========================

// DefaultCommission 聯盟夥伴的預設佣金設定
//
// 業務規則：
// - useDefault = false 且無特定規則匹配時，佣金為零
// - useDefault = true 但 value <= 0 時，層級同樣落到「無佣金」
//   （零值預設不產生佣金記錄行為，與未啟用等價）
//
// 設計原則：不可變、自我驗證
type DefaultCommission struct {
	useDefault     bool
	commissionType CommissionType
	value          decimal.Decimal
}

// NewDefaultCommission 創建預設佣金設定（Checked Constructor）
func NewDefaultCommission(useDefault bool, commissionType CommissionType, value decimal.Decimal) (DefaultCommission, error) {
	if err := validateCommission(commissionType, value); err != nil {
		return DefaultCommission{}, err
	}
	return DefaultCommission{
		useDefault:     useDefault,
		commissionType: commissionType,
		value:          value,
	}, nil
}

// NoDefaultCommission 創建「不使用預設佣金」設定（便捷建構函數）
//
// 此設定下，沒有特定規則匹配的品項佣金為零。
func NoDefaultCommission() DefaultCommission {
	return DefaultCommission{
		useDefault:     false,
		commissionType: CommissionPercentage,
		value:          decimal.Zero,
	}
}

// UseDefault 是否啟用預設佣金
func (d DefaultCommission) UseDefault() bool {
	return d.useDefault
}

// CommissionType 獲取預設佣金類型
func (d DefaultCommission) CommissionType() CommissionType {
	return d.commissionType
}

// Value 獲取預設佣金數值
func (d DefaultCommission) Value() decimal.Decimal {
	return d.value
}

// IsEffective 判斷預設佣金是否實際生效（啟用且數值 > 0）
func (d DefaultCommission) IsEffective() bool {
	return d.useDefault && d.value.IsPositive()
}
