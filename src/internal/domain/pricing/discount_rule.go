package pricing

import (
	"github.com/shopspring/decimal"
)

// ===========================
// DiscountType / DiscountRule
// ===========================

// DiscountType 折扣類型
type DiscountType string

// 折扣類型常量
const (
	DiscountPercentage DiscountType = "percentage" // 百分比折扣
	DiscountFixed      DiscountType = "fixed"      // 固定金額折扣
)

// IsValid 判斷折扣類型是否為已知類型
func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// DiscountRuleKind 折扣規則種類（封閉變體的判別標籤）
type DiscountRuleKind string

// 折扣規則種類常量
const (
	RuleKindProduct  DiscountRuleKind = "product"  // 商品級規則
	RuleKindCategory DiscountRuleKind = "category" // 分類級規則
)

// DiscountRule 折扣規則值對象（覆蓋優惠券預設折扣的特定規則）
//
// 設計原則（封閉變體 / tagged union）：
// - 規則只能是商品級或分類級其中之一，由建構函數保證判別欄位
//   恰好填一個 — 消除「productId 和 categoryName 都缺」的資料損壞模式
// - 不可變：計算過程中永遠不修改規則
// - 可比較（comparable）：固定金額分攤需要以值相等判定
//   「解析到同一條規則」的品項池
type DiscountRule struct {
	kind         DiscountRuleKind
	productID    string // kind = product 時填寫
	categoryName string // kind = category 時填寫（已正規化）
	discountType DiscountType
	value        decimal.Decimal
}

// NewProductDiscountRule 創建商品級折扣規則（Checked Constructor）
//
// 驗證規則：
// - productID 不能為空 → ErrInvalidDiscountRule
// - discountType 必須為已知類型 → ErrInvalidDiscountType
// - value 不能為負數 → ErrInvalidDiscountValue
func NewProductDiscountRule(productID string, discountType DiscountType, value decimal.Decimal) (DiscountRule, error) {
	if productID == "" {
		return DiscountRule{}, ErrInvalidDiscountRule.WithContext(
			"rule_kind", string(RuleKindProduct),
			"reason", "productID cannot be empty",
		)
	}
	if err := validateDiscount(discountType, value); err != nil {
		return DiscountRule{}, err
	}

	return DiscountRule{
		kind:         RuleKindProduct,
		productID:    productID,
		discountType: discountType,
		value:        value,
	}, nil
}

// NewCategoryDiscountRule 創建分類級折扣規則（Checked Constructor）
//
// 分類名稱在此正規化；正規化後為空 → ErrInvalidDiscountRule。
func NewCategoryDiscountRule(categoryName string, discountType DiscountType, value decimal.Decimal) (DiscountRule, error) {
	normalized := NormalizeCategory(categoryName)
	if normalized == "" {
		return DiscountRule{}, ErrInvalidDiscountRule.WithContext(
			"rule_kind", string(RuleKindCategory),
			"reason", "categoryName cannot be empty",
		)
	}
	if err := validateDiscount(discountType, value); err != nil {
		return DiscountRule{}, err
	}

	return DiscountRule{
		kind:         RuleKindCategory,
		categoryName: normalized,
		discountType: discountType,
		value:        value,
	}, nil
}

// validateDiscount 共用的折扣類型 / 數值驗證
func validateDiscount(discountType DiscountType, value decimal.Decimal) error {
	if !discountType.IsValid() {
		return ErrInvalidDiscountType.WithContext(
			"discount_type", string(discountType),
		)
	}
	if value.IsNegative() {
		return ErrInvalidDiscountValue.WithContext(
			"value", value.String(),
		)
	}
	return nil
}

// Kind 獲取規則種類
func (r DiscountRule) Kind() DiscountRuleKind {
	return r.kind
}

// ProductID 獲取商品 ID（僅商品級規則有值）
func (r DiscountRule) ProductID() string {
	return r.productID
}

// CategoryName 獲取正規化後的分類名稱（僅分類級規則有值）
func (r DiscountRule) CategoryName() string {
	return r.categoryName
}

// DiscountType 獲取折扣類型
func (r DiscountRule) DiscountType() DiscountType {
	return r.discountType
}

// Value 獲取折扣數值
func (r DiscountRule) Value() decimal.Decimal {
	return r.value
}

// IsZero 判斷是否為零值規則（未初始化）
func (r DiscountRule) IsZero() bool {
	return r.kind == ""
}

// MatchesItem 判斷規則是否匹配品項
//
// 業務規則：
// - 商品級：ProductID 精確比對
// - 分類級：品項有分類且正規化後相等
// - 零值 / 未知種類規則：永遠不匹配（損壞的規則資料按不存在處理）
func (r DiscountRule) MatchesItem(item LineItem) bool {
	switch r.kind {
	case RuleKindProduct:
		return r.productID == item.ProductID
	case RuleKindCategory:
		return item.HasCategory() && r.categoryName == NormalizeCategory(item.Category)
	default:
		return false
	}
}

// SameTarget 判斷兩條規則是否指向同一商品 / 分類
// 使用場景：Coupon.AddRule 的重複規則檢查
func (r DiscountRule) SameTarget(other DiscountRule) bool {
	if r.kind != other.kind {
		return false
	}
	switch r.kind {
	case RuleKindProduct:
		return r.productID == other.productID
	case RuleKindCategory:
		return r.categoryName == other.categoryName
	default:
		return false
	}
}

// ===========================
// 規則層級查找
// ===========================

// FindItemDiscountRule 按優先序查找品項適用的折扣規則
//
// 優先序（first match wins）：
// 1. 商品級規則（ProductID 精確匹配）
// 2. 分類級規則（分類不分大小寫匹配）
// 3. 皆無 → ok = false，調用方回落到優惠券預設折扣
//
// 線性掃描：規則集預期為數十條的量級，不需要索引結構。
func FindItemDiscountRule(item LineItem, rules []DiscountRule) (DiscountRule, bool) {
	for _, rule := range rules {
		if rule.Kind() == RuleKindProduct && rule.MatchesItem(item) {
			return rule, true
		}
	}
	for _, rule := range rules {
		if rule.Kind() == RuleKindCategory && rule.MatchesItem(item) {
			return rule, true
		}
	}
	return DiscountRule{}, false
}
