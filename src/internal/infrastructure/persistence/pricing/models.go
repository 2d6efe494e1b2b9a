package pricing

import (
	"encoding/json"
	"time"

	"github.com/jackyeh168/shop_crm/src/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// ===========================
// GORM 資料模型
// ===========================

// CouponGORM 優惠券資料表模型
//
// 設計原則：
// 1. 資料模型與領域模型分離（Persistence Model vs Domain Model）
// 2. (store_id, code) 複合唯一索引承擔「同商店內優惠碼唯一」的不變量
// 3. 範圍清單（分類 / 商品 ID）以 JSON 文本欄位儲存 —
//    清單只整包讀寫、不參與查詢條件，不需要展開成關聯表
type CouponGORM struct {
	CouponID        string          `gorm:"column:coupon_id;type:varchar(36);primaryKey"`
	StoreID         string          `gorm:"column:store_id;type:varchar(36);uniqueIndex:idx_coupons_store_code"`
	Code            string          `gorm:"column:code;type:varchar(64);uniqueIndex:idx_coupons_store_code"`
	ScopeType       string          `gorm:"column:scope_type;type:varchar(16)"`
	ScopeCategories string          `gorm:"column:scope_categories;type:text"`
	ScopeProductIDs string          `gorm:"column:scope_product_ids;type:text"`
	DefaultType     string          `gorm:"column:default_type;type:varchar(16)"`
	DefaultValue    decimal.Decimal `gorm:"column:default_value;type:decimal(20,2)"`
	IsActive        bool            `gorm:"column:is_active"`
	StartsAt        *time.Time      `gorm:"column:starts_at"`
	EndsAt          *time.Time      `gorm:"column:ends_at"`
	UsageLimit      int             `gorm:"column:usage_limit"`
	UsedCount       int             `gorm:"column:used_count"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

// TableName 指定資料表名稱
func (CouponGORM) TableName() string {
	return "coupons"
}

// CouponRuleGORM 優惠券特定折扣規則資料表模型
//
// 每條規則一行，隸屬於一張優惠券。Update 時整批刪除重建 —
// 規則清單是聚合內的值對象集合，沒有獨立的生命週期。
type CouponRuleGORM struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement"`
	CouponID     string          `gorm:"column:coupon_id;type:varchar(36);index"`
	RuleKind     string          `gorm:"column:rule_kind;type:varchar(16)"`
	ProductID    string          `gorm:"column:product_id;type:varchar(64)"`
	CategoryName string          `gorm:"column:category_name;type:varchar(128)"`
	DiscountType string          `gorm:"column:discount_type;type:varchar(16)"`
	Value        decimal.Decimal `gorm:"column:value;type:decimal(20,2)"`
}

// TableName 指定資料表名稱
func (CouponRuleGORM) TableName() string {
	return "coupon_rules"
}

// ===========================
// 模型轉換（Domain ↔ GORM）
// ===========================

// toCouponGORM 將領域聚合轉換為資料模型
func toCouponGORM(coupon *pricing.Coupon) (*CouponGORM, error) {
	scope := coupon.Scope()

	categories, err := json.Marshal(scope.CategoryNames())
	if err != nil {
		return nil, err
	}
	productIDs, err := json.Marshal(scope.ProductIDs())
	if err != nil {
		return nil, err
	}

	return &CouponGORM{
		CouponID:        coupon.CouponID().String(),
		StoreID:         coupon.StoreID().String(),
		Code:            coupon.Code(),
		ScopeType:       string(scope.AppliesTo()),
		ScopeCategories: string(categories),
		ScopeProductIDs: string(productIDs),
		DefaultType:     string(coupon.DefaultDiscountType()),
		DefaultValue:    coupon.DefaultDiscountValue(),
		IsActive:        coupon.IsActive(),
		StartsAt:        coupon.StartsAt(),
		EndsAt:          coupon.EndsAt(),
		UsageLimit:      coupon.UsageLimit(),
		UsedCount:       coupon.UsedCount(),
		CreatedAt:       coupon.CreatedAt(),
		UpdatedAt:       coupon.UpdatedAt(),
	}, nil
}

// toCouponRuleGORMs 將規則清單轉換為資料模型行
func toCouponRuleGORMs(coupon *pricing.Coupon) []CouponRuleGORM {
	rules := coupon.Rules()
	rows := make([]CouponRuleGORM, 0, len(rules))
	for _, rule := range rules {
		rows = append(rows, CouponRuleGORM{
			CouponID:     coupon.CouponID().String(),
			RuleKind:     string(rule.Kind()),
			ProductID:    rule.ProductID(),
			CategoryName: rule.CategoryName(),
			DiscountType: string(rule.DiscountType()),
			Value:        rule.Value(),
		})
	}
	return rows
}

// toDomainRule 將規則行轉換為領域值對象
// 經過 Checked Constructor 重建，損壞的行返回錯誤由調用方跳過
func (m *CouponRuleGORM) toDomainRule() (pricing.DiscountRule, error) {
	switch pricing.DiscountRuleKind(m.RuleKind) {
	case pricing.RuleKindProduct:
		return pricing.NewProductDiscountRule(m.ProductID, pricing.DiscountType(m.DiscountType), m.Value)
	case pricing.RuleKindCategory:
		return pricing.NewCategoryDiscountRule(m.CategoryName, pricing.DiscountType(m.DiscountType), m.Value)
	default:
		return pricing.DiscountRule{}, pricing.ErrInvalidDiscountRule.WithContext(
			"rule_kind", m.RuleKind,
		)
	}
}

// toDomain 將資料模型重建為領域聚合
//
// 優惠券本體的欄位損壞（ID / 範圍類型 / 折扣設定）直接返回錯誤 —
// 損壞的聚合不能進入領域層。規則行的損壞由 Repository 跳過並記錄。
func (m *CouponGORM) toDomain(rules []pricing.DiscountRule) (*pricing.Coupon, error) {
	couponID, err := pricing.CouponIDFromString(m.CouponID)
	if err != nil {
		return nil, err
	}
	storeID, err := pricing.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}

	var categories []string
	if m.ScopeCategories != "" {
		if err := json.Unmarshal([]byte(m.ScopeCategories), &categories); err != nil {
			return nil, err
		}
	}
	var productIDs []string
	if m.ScopeProductIDs != "" {
		if err := json.Unmarshal([]byte(m.ScopeProductIDs), &productIDs); err != nil {
			return nil, err
		}
	}

	scope, err := pricing.NewScope(pricing.ScopeType(m.ScopeType), categories, productIDs)
	if err != nil {
		return nil, err
	}

	return pricing.ReconstructCoupon(
		couponID,
		storeID,
		m.Code,
		scope,
		pricing.DiscountType(m.DefaultType),
		m.DefaultValue,
		rules,
		m.IsActive,
		m.StartsAt,
		m.EndsAt,
		m.UsageLimit,
		m.UsedCount,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
