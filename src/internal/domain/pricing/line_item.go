package pricing

import (
	"github.com/shopspring/decimal"
)

// ===========================
// LineItem 購物車 / 訂單品項
// ===========================

// Addon 加購項（按單位加價，可有數量）
type Addon struct {
	Price    decimal.Decimal
	Quantity int
}

// Flavor 口味加價項（每項數量固定為 1）
type Flavor struct {
	Price decimal.Decimal
}

// ColorOption 顏色加價項（每個品項至多一個）
type ColorOption struct {
	Price decimal.Decimal
}

// LineItem 購物車或已成立訂單中的一個購買品項
//
// 設計原則：
// - 計算輸入值對象：由調用方（購物車 / 訂單管線）組裝後傳入引擎，
//   引擎不擁有、不修改、不持久化品項數據
// - 欄位導出：這是跨層傳遞的數據載體，不是聚合根
//
// 單價組成不變條件（顯示與佣金總額都依賴此順序，不可變更）：
// - 基準價：SizePrice（選了尺寸）> PromotionalPrice（有促銷價）> BasePrice
// - 加價項永遠是加法：Σ addon.Price × addon.Quantity + Σ flavor.Price + color.Price
// - 品項小計 = 單價 × Quantity
//
// 數值前提：引擎假設價格與數量皆非負，不做驗證 —
// 上游必須保證，否則負值會按算式傳播而非報錯（spec 既定行為）。
type LineItem struct {
	// 識別欄位（用於規則匹配與佣金稽核明細）
	ProductID   string
	ProductName string
	Category    string // 空字串表示無分類；無分類品項永遠不匹配分類級規則

	// 價格欄位
	BasePrice        decimal.Decimal
	PromotionalPrice *decimal.Decimal // nil 表示無促銷價
	SizePrice        *decimal.Decimal // nil 表示未選尺寸；選了尺寸則覆蓋基準價與促銷價

	Quantity int // >= 1

	// 加價項
	Addons  []Addon
	Flavors []Flavor
	Color   *ColorOption
}

// UnitPrice 計算品項單價
//
// 組成：基準價（尺寸價 > 促銷價 > 原價）+ 所有加價項
func (i LineItem) UnitPrice() decimal.Decimal {
	unit := i.effectiveBasePrice()

	for _, addon := range i.Addons {
		unit = unit.Add(addon.Price.Mul(decimal.NewFromInt(int64(addon.Quantity))))
	}
	for _, flavor := range i.Flavors {
		unit = unit.Add(flavor.Price)
	}
	if i.Color != nil {
		unit = unit.Add(i.Color.Price)
	}

	return unit
}

// Subtotal 計算品項小計（單價 × 數量）
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HasCategory 判斷品項是否有分類
func (i LineItem) HasCategory() bool {
	return i.Category != ""
}

// effectiveBasePrice 解析基準價
// 優先序：尺寸價（選了尺寸時促銷價不生效）> 促銷價 > 原價
func (i LineItem) effectiveBasePrice() decimal.Decimal {
	if i.SizePrice != nil {
		return *i.SizePrice
	}
	if i.PromotionalPrice != nil {
		return *i.PromotionalPrice
	}
	return i.BasePrice
}
