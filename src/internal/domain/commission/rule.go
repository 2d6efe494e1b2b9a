package commission

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ===========================
// CommissionType / CommissionRule
// ===========================

// CommissionType 佣金類型
type CommissionType string

// 佣金類型常量
const (
	CommissionPercentage CommissionType = "percentage" // 按成交額百分比
	CommissionFixed      CommissionType = "fixed"      // 每個品項固定金額
)

// IsValid 判斷佣金類型是否為已知類型
func (t CommissionType) IsValid() bool {
	return t == CommissionPercentage || t == CommissionFixed
}

// CommissionRuleKind 佣金規則種類（封閉變體的判別標籤）
type CommissionRuleKind string

// 佣金規則種類常量
const (
	RuleKindProduct  CommissionRuleKind = "product"  // 商品級規則
	RuleKindCategory CommissionRuleKind = "category" // 分類級規則
)

// CommissionRule 佣金規則值對象（覆蓋聯盟夥伴預設佣金的特定規則）
//
// 設計原則（封閉變體 / tagged union）：
// - 規則只能是商品級或分類級其中之一，建構函數保證判別欄位恰好填一個
// - 停用的規則（isActive = false）在層級解析的每一層都視同不存在，
//   層級直接穿過它往下落
// - 不可變：停用 / 啟用產生新值（WithActive）
//
// 注意：「全品項」的佣金覆蓋不用規則表達 — 聯盟夥伴的預設佣金
// 在層級中正好佔據那個位置（見 DefaultCommission）。
type CommissionRule struct {
	kind           CommissionRuleKind
	productID      string // kind = product 時填寫
	categoryName   string // kind = category 時填寫（已正規化）
	commissionType CommissionType
	value          decimal.Decimal
	isActive       bool
}

// NewProductCommissionRule 創建商品級佣金規則（Checked Constructor）
//
// 新規則預設為啟用狀態。
//
// 驗證規則：
// - productID 不能為空 → ErrInvalidCommissionRule
// - commissionType 必須為已知類型 → ErrInvalidCommissionType
// - value 不能為負數 → ErrInvalidCommissionValue
//   （percentage 不設 100 上限：超過 100% 的佣金是合法配置，
//   例如賠本衝量的促銷，由管線在解析後記 warning）
func NewProductCommissionRule(productID string, commissionType CommissionType, value decimal.Decimal) (CommissionRule, error) {
	if productID == "" {
		return CommissionRule{}, ErrInvalidCommissionRule.WithContext(
			"rule_kind", string(RuleKindProduct),
			"reason", "productID cannot be empty",
		)
	}
	if err := validateCommission(commissionType, value); err != nil {
		return CommissionRule{}, err
	}

	return CommissionRule{
		kind:           RuleKindProduct,
		productID:      productID,
		commissionType: commissionType,
		value:          value,
		isActive:       true,
	}, nil
}

// NewCategoryCommissionRule 創建分類級佣金規則（Checked Constructor）
//
// 分類名稱在此正規化（去空白 + 轉小寫）；正規化後為空 → ErrInvalidCommissionRule。
func NewCategoryCommissionRule(categoryName string, commissionType CommissionType, value decimal.Decimal) (CommissionRule, error) {
	normalized := normalizeCategory(categoryName)
	if normalized == "" {
		return CommissionRule{}, ErrInvalidCommissionRule.WithContext(
			"rule_kind", string(RuleKindCategory),
			"reason", "categoryName cannot be empty",
		)
	}
	if err := validateCommission(commissionType, value); err != nil {
		return CommissionRule{}, err
	}

	return CommissionRule{
		kind:           RuleKindCategory,
		categoryName:   normalized,
		commissionType: commissionType,
		value:          value,
		isActive:       true,
	}, nil
}

// validateCommission 共用的佣金類型 / 數值驗證
func validateCommission(commissionType CommissionType, value decimal.Decimal) error {
	if !commissionType.IsValid() {
		return ErrInvalidCommissionType.WithContext(
			"commission_type", string(commissionType),
		)
	}
	if value.IsNegative() {
		return ErrInvalidCommissionValue.WithContext(
			"value", value.String(),
		)
	}
	return nil
}

// Kind 獲取規則種類
func (r CommissionRule) Kind() CommissionRuleKind {
	return r.kind
}

// ProductID 獲取商品 ID（僅商品級規則有值）
func (r CommissionRule) ProductID() string {
	return r.productID
}

// CategoryName 獲取正規化後的分類名稱（僅分類級規則有值）
func (r CommissionRule) CategoryName() string {
	return r.categoryName
}

// CommissionType 獲取佣金類型
func (r CommissionRule) CommissionType() CommissionType {
	return r.commissionType
}

// Value 獲取佣金數值
func (r CommissionRule) Value() decimal.Decimal {
	return r.value
}

// IsActive 獲取啟用狀態
func (r CommissionRule) IsActive() bool {
	return r.isActive
}

// IsZero 判斷是否為零值規則（未初始化）
func (r CommissionRule) IsZero() bool {
	return r.kind == ""
}

// WithActive 返回啟用狀態變更後的新規則（保持不可變性）
func (r CommissionRule) WithActive(active bool) CommissionRule {
	r.isActive = active
	return r
}

// MatchesProduct 判斷商品級規則是否匹配商品 ID
func (r CommissionRule) MatchesProduct(productID string) bool {
	return r.kind == RuleKindProduct && r.productID == productID
}

// MatchesCategory 判斷分類級規則是否匹配分類名稱（不分大小寫）
//
// 空分類永遠不匹配 — 無分類的品項直接穿過分類層。
func (r CommissionRule) MatchesCategory(categoryName string) bool {
	if r.kind != RuleKindCategory {
		return false
	}
	normalized := normalizeCategory(categoryName)
	return normalized != "" && r.categoryName == normalized
}

// SameTarget 判斷兩條規則是否指向同一商品 / 分類
// 使用場景：Affiliate.AddRule 的重複規則檢查
func (r CommissionRule) SameTarget(other CommissionRule) bool {
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

// normalizeCategory 正規化分類名稱（去前後空白 + 轉小寫）
// 與 pricing 包的分類比對規則一致
func normalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
