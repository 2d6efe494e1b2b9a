package pricing

import (
	"github.com/shopspring/decimal"
)

// ===========================
// DiscountService 領域服務
// ===========================

// hundred 百分比計算的共用除數
var hundred = decimal.NewFromInt(100)

// DiscountService 折扣計算領域服務
//
// 設計原則：
// 1. 無狀態（stateless）：所有數據透過參數傳入，無模組級查找表，
//    可安全地在任意數量的 goroutine 中併發調用
// 2. 純計算：無 I/O、無副作用，每次調用產生全新結果
// 3. 防禦性歸零而非拋錯：範圍不符、空分攤池、零/負小計
//    一律解析為明確定義的零結果 — 折扣計算在購物車渲染與
//    訂單處理的熱路徑上，錯誤中斷會弄壞結帳流程
type DiscountService struct{}

// NewDiscountService 建構函數
// Domain Service 無狀態，保留建構函數以與其他服務一致
func NewDiscountService() *DiscountService {
	return &DiscountService{}
}

// ItemDiscountResult 單一品項的折扣計算結果
//
// 每次計算都產生全新結果，引擎在多次調用間沒有記憶。
type ItemDiscountResult struct {
	Eligible bool
	Discount decimal.Decimal
	UsedRule *DiscountRule // nil 表示使用優惠券預設折扣（或不符合範圍）
}

// CalculateDiscount 計算一個範圍小計的折扣金額
//
// 業務規則：
// - eligibleSubtotal <= 0 或 value <= 0 → 0
// - percentage → min(subtotal × value / 100, subtotal)
//   （百分比折扣永遠不超過它所作用的小計，value > 100 時的防禦性上限）
// - fixed → min(value, subtotal)
//   （固定折扣永遠不把該範圍的剩餘小計打成負數）
func (s *DiscountService) CalculateDiscount(
	eligibleSubtotal decimal.Decimal,
	discountType DiscountType,
	value decimal.Decimal,
) decimal.Decimal {
	if !eligibleSubtotal.IsPositive() || !value.IsPositive() {
		return decimal.Zero
	}

	switch discountType {
	case DiscountPercentage:
		discount := eligibleSubtotal.Mul(value).Div(hundred)
		return decimal.Min(discount, eligibleSubtotal)
	case DiscountFixed:
		return decimal.Min(value, eligibleSubtotal)
	default:
		// 未知折扣類型：fail closed，不給折扣
		return decimal.Zero
	}
}

// CalculateItemDiscount 計算單一品項的折扣（含特定規則層級）
//
// 演算法：
// 1. 品項不在適用範圍 → {Eligible: false, Discount: 0}
// 2. 查找特定規則（商品級 > 分類級）
// 3. 有特定規則：
//    - percentage 規則 → 小計 × value / 100，各品項獨立計算，無跨品項上限
//    - fixed 規則 → 固定金額按比例分攤到「解析到同一條規則」的
//      所有符合範圍品項（不是所有符合範圍的品項）：
//      share = 小計 / 池總小計 × min(value, 池總小計)
// 4. 無特定規則：回落到優惠券預設折扣
//    - percentage 預設 → 各符合品項獨立計算小計 × value / 100
//    - fixed 預設 → 按比例分攤到「符合範圍且無特定規則」的品項池
//      （有特定規則的品項被排除在此池之外）
// 5. 分攤池總小計 <= 0 → 0（避免除以零）
//
// 分攤池的不對稱性是既定設計：百分比各品項獨立、固定金額按子集合
// 分攤 — 規則綁定的固定折扣只在受該規則管轄的品項間分配，
// 不被無關品項稀釋。不可「簡化」為單一池。
func (s *DiscountService) CalculateItemDiscount(
	item LineItem,
	scope Scope,
	defaultType DiscountType,
	defaultValue decimal.Decimal,
	allItems []LineItem,
	rules []DiscountRule,
) ItemDiscountResult {
	// 1. 範圍判定
	if !scope.IsItemEligible(item) {
		return ItemDiscountResult{Eligible: false, Discount: decimal.Zero}
	}

	itemSubtotal := item.Subtotal()

	// 2. 特定規則查找
	if rule, ok := FindItemDiscountRule(item, rules); ok {
		return ItemDiscountResult{
			Eligible: true,
			Discount: s.ruleDiscount(item, itemSubtotal, rule, scope, allItems, rules),
			UsedRule: &rule,
		}
	}

	// 4. 預設折扣回落
	if !defaultValue.IsPositive() {
		return ItemDiscountResult{Eligible: true, Discount: decimal.Zero}
	}

	switch defaultType {
	case DiscountPercentage:
		return ItemDiscountResult{
			Eligible: true,
			Discount: itemSubtotal.Mul(defaultValue).Div(hundred),
		}
	case DiscountFixed:
		pool := s.defaultPoolSubtotal(scope, allItems, rules)
		return ItemDiscountResult{
			Eligible: true,
			Discount: proportionalShare(itemSubtotal, pool, defaultValue),
		}
	default:
		return ItemDiscountResult{Eligible: true, Discount: decimal.Zero}
	}
}

// CalculateEligibleSubtotal 計算範圍內品項的小計總和
//
// 返回：
//   eligibleSubtotal - 符合範圍品項的小計總和
//   eligibleItems - 符合範圍的品項清單（保持輸入順序）
func (s *DiscountService) CalculateEligibleSubtotal(
	items []LineItem,
	scope Scope,
) (decimal.Decimal, []LineItem) {
	total := decimal.Zero
	eligible := make([]LineItem, 0, len(items))

	for _, item := range items {
		if scope.IsItemEligible(item) {
			total = total.Add(item.Subtotal())
			eligible = append(eligible, item)
		}
	}

	return total, eligible
}

// CalculateTotalDiscount 計算整筆訂單的折扣總額
//
// 對每個品項套用 CalculateItemDiscount 後加總；
// 不符合範圍的品項貢獻 0。
func (s *DiscountService) CalculateTotalDiscount(
	items []LineItem,
	scope Scope,
	defaultType DiscountType,
	defaultValue decimal.Decimal,
	rules []DiscountRule,
) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		result := s.CalculateItemDiscount(item, scope, defaultType, defaultValue, items, rules)
		total = total.Add(result.Discount)
	}
	return total
}

// ===========================
// 私有輔助方法
// ===========================

// ruleDiscount 計算特定規則下的品項折扣（演算法步驟 3）
func (s *DiscountService) ruleDiscount(
	item LineItem,
	itemSubtotal decimal.Decimal,
	rule DiscountRule,
	scope Scope,
	allItems []LineItem,
	rules []DiscountRule,
) decimal.Decimal {
	if !rule.Value().IsPositive() {
		return decimal.Zero
	}

	switch rule.DiscountType() {
	case DiscountPercentage:
		return itemSubtotal.Mul(rule.Value()).Div(hundred)
	case DiscountFixed:
		pool := s.rulePoolSubtotal(rule, scope, allItems, rules)
		return proportionalShare(itemSubtotal, pool, rule.Value())
	default:
		return decimal.Zero
	}
}

// rulePoolSubtotal 計算「解析到同一條規則」的符合範圍品項池總小計
//
// 解析一致性：FindItemDiscountRule 對同一規則集是確定性的，
// 且 Coupon 聚合保證同一商品 / 分類不會有重複規則，
// 因此 SameTarget 足以判定兩個品項解析到同一條規則。
func (s *DiscountService) rulePoolSubtotal(
	rule DiscountRule,
	scope Scope,
	allItems []LineItem,
	rules []DiscountRule,
) decimal.Decimal {
	pool := decimal.Zero
	for _, other := range allItems {
		if !scope.IsItemEligible(other) {
			continue
		}
		resolved, ok := FindItemDiscountRule(other, rules)
		if ok && resolved.SameTarget(rule) {
			pool = pool.Add(other.Subtotal())
		}
	}
	return pool
}

// defaultPoolSubtotal 計算「符合範圍且無特定規則」的品項池總小計
func (s *DiscountService) defaultPoolSubtotal(
	scope Scope,
	allItems []LineItem,
	rules []DiscountRule,
) decimal.Decimal {
	pool := decimal.Zero
	for _, other := range allItems {
		if !scope.IsItemEligible(other) {
			continue
		}
		if _, ok := FindItemDiscountRule(other, rules); ok {
			continue
		}
		pool = pool.Add(other.Subtotal())
	}
	return pool
}

// proportionalShare 按比例分攤固定折扣金額
//
// share = itemSubtotal / poolSubtotal × min(fixedValue, poolSubtotal)
//
// 邊緣情況：poolSubtotal <= 0 → 0（避免除以零）。
// 以 乘法先行（itemSubtotal × capped ÷ pool）保留精度，
// 捨入留到持久化 / 顯示邊界。
func proportionalShare(itemSubtotal, poolSubtotal, fixedValue decimal.Decimal) decimal.Decimal {
	if !poolSubtotal.IsPositive() {
		return decimal.Zero
	}
	capped := decimal.Min(fixedValue, poolSubtotal)
	return itemSubtotal.Mul(capped).Div(poolSubtotal)
}
