package commission

import (
	"github.com/shopspring/decimal"
)

// ===========================
// CommissionService 領域服務
// ===========================

// hundred 百分比計算的共用除數
var hundred = decimal.NewFromInt(100)

// CommissionSource 佣金數值的解析來源
type CommissionSource string

// 佣金來源常量
const (
	SourceSpecificProduct  CommissionSource = "specific_product"  // 商品級規則
	SourceSpecificCategory CommissionSource = "specific_category" // 分類級規則
	SourceDefault          CommissionSource = "default"           // 聯盟夥伴預設佣金
	SourceNone             CommissionSource = "none"              // 無佣金
)

// CommissionBasis 層級解析結果：對一個品項實際生效的佣金依據
type CommissionBasis struct {
	Type   CommissionType
	Value  decimal.Decimal
	Source CommissionSource
}

// CommissionableItem 佣金計算的品項輸入
//
// Subtotal 與 Discount 由折扣引擎（pricing）計算後傳入 —
// 佣金作用在折後金額上，兩個引擎透過此值對象銜接。
type CommissionableItem struct {
	ProductID   string
	ProductName string
	Category    string // 空字串表示無分類
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
}

// ValueWithDiscount 品項折後金額（小計 − 折扣）
func (i CommissionableItem) ValueWithDiscount() decimal.Decimal {
	return i.Subtotal.Sub(i.Discount)
}

// ItemCommission 單一品項的佣金計算結果（稽核明細行的來源）
type ItemCommission struct {
	Item   CommissionableItem
	Basis  CommissionBasis
	Amount decimal.Decimal
}

// OrderCommissionResult 整筆訂單的佣金計算結果
//
// 除了訂單總額外必須保留逐品項明細 —
// 佣金管線要為每個品項持久化一行稽核記錄。
type OrderCommissionResult struct {
	Items      []ItemCommission
	OrderTotal decimal.Decimal // Σ 品項折後金額
	Total      decimal.Decimal // Σ 品項佣金
}

// CommissionService 佣金計算領域服務
//
// 設計原則：
// 1. 無狀態：所有規則與預設設定以參數傳入，無模組級查找表，
//    可安全併發調用
// 2. 純計算：無 I/O、無副作用；結果每次全新產生
// 3. 防禦性歸零：無匹配規則、停用規則、零 / 負折後金額
//    一律解析為零佣金，不拋錯 — 拋錯會讓訂單靜默丟失佣金記錄
type CommissionService struct{}

// NewCommissionService 建構函數
func NewCommissionService() *CommissionService {
	return &CommissionService{}
}

// ResolveBasis 按固定層級解析品項的佣金依據
//
// 優先序（只考慮啟用中的規則，first match wins）：
// 1. 商品級規則（ProductID 精確匹配）
// 2. 分類級規則（分類不分大小寫匹配；品項無分類時整層跳過）
// 3. 預設佣金（useDefault = true 且 value > 0）
// 4. 皆無 → {percentage, 0, none}
//
// 停用規則（isActive = false）在每一層都視同不存在 —
// 層級穿過它的行為與把規則從清單刪掉完全一致。
func (s *CommissionService) ResolveBasis(
	productID string,
	categoryName string,
	rules []CommissionRule,
	defaultCommission DefaultCommission,
) CommissionBasis {
	// 1. 商品級規則
	for _, rule := range rules {
		if rule.IsActive() && rule.MatchesProduct(productID) {
			return CommissionBasis{
				Type:   rule.CommissionType(),
				Value:  rule.Value(),
				Source: SourceSpecificProduct,
			}
		}
	}

	// 2. 分類級規則（無分類品項整層跳過）
	if categoryName != "" {
		for _, rule := range rules {
			if rule.IsActive() && rule.MatchesCategory(categoryName) {
				return CommissionBasis{
					Type:   rule.CommissionType(),
					Value:  rule.Value(),
					Source: SourceSpecificCategory,
				}
			}
		}
	}

	// 3. 預設佣金
	if defaultCommission.IsEffective() {
		return CommissionBasis{
			Type:   defaultCommission.CommissionType(),
			Value:  defaultCommission.Value(),
			Source: SourceDefault,
		}
	}

	// 4. 無佣金
	return CommissionBasis{
		Type:   CommissionPercentage,
		Value:  decimal.Zero,
		Source: SourceNone,
	}
}

// CalculateItemCommission 計算單一品項的佣金金額
//
// 業務規則：
// - value <= 0 或 折後金額 <= 0 → 0
// - percentage → 折後金額 × value / 100
//   （引擎不對 value 設 100 上限 — 超額佣金是配置層的決策，
//   此處照算；見 NewProductCommissionRule 的說明）
// - fixed → 直接返回 value，不以品項價值封頂
//   （每售出一件的固定獎金可以超過品項本身的價值，這是刻意的）
func (s *CommissionService) CalculateItemCommission(
	itemValueWithDiscount decimal.Decimal,
	commissionType CommissionType,
	value decimal.Decimal,
) decimal.Decimal {
	if !value.IsPositive() || !itemValueWithDiscount.IsPositive() {
		return decimal.Zero
	}

	switch commissionType {
	case CommissionPercentage:
		return itemValueWithDiscount.Mul(value).Div(hundred)
	case CommissionFixed:
		return value
	default:
		return decimal.Zero
	}
}

// CalculateOrderCommission 計算整筆訂單的佣金（含逐品項明細）
//
// 對每個品項：解析佣金依據（ResolveBasis）→ 按折後金額計算佣金
// （CalculateItemCommission）→ 彙總為訂單總佣金。
//
// 返回的逐品項明細供佣金管線持久化稽核記錄行。
func (s *CommissionService) CalculateOrderCommission(
	items []CommissionableItem,
	rules []CommissionRule,
	defaultCommission DefaultCommission,
) OrderCommissionResult {
	result := OrderCommissionResult{
		Items:      make([]ItemCommission, 0, len(items)),
		OrderTotal: decimal.Zero,
		Total:      decimal.Zero,
	}

	for _, item := range items {
		basis := s.ResolveBasis(item.ProductID, item.Category, rules, defaultCommission)
		amount := s.CalculateItemCommission(item.ValueWithDiscount(), basis.Type, basis.Value)

		result.Items = append(result.Items, ItemCommission{
			Item:   item,
			Basis:  basis,
			Amount: amount,
		})
		result.OrderTotal = result.OrderTotal.Add(item.ValueWithDiscount())
		result.Total = result.Total.Add(amount)
	}

	return result
}
