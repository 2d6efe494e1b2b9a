package pricing

import "github.com/shopspring/decimal"

// ===========================
// 金額精度策略
// ===========================

// 內部計算一律使用 decimal.Decimal 全精度運算，
// 不在計算中途捨入 — 逐筆捨入的誤差會在大量小額佣金中累積。
// 只在持久化 / 顯示邊界呼叫 RoundCurrency。

// RoundCurrency 將金額捨入到 2 位小數（四捨五入）
//
// 使用場景：
// - Application Layer 構建回應 DTO
// - Infrastructure Layer 寫入資料庫前
//
// 禁止在 Domain Service 的計算中途使用。
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
