package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ===========================
// Coupon 聚合根
// ===========================

// Coupon 優惠券聚合根
//
// 聚合邊界：
// - 優惠碼、適用範圍、預設折扣（類型 + 數值）
// - 特定折扣規則清單（商品級 / 分類級覆蓋）
// - 生效窗口與使用次數限制
//
// 不變量（Invariants）：
// 1. Code 非空（同一商店內唯一，由資料庫唯一索引保證）
// 2. 預設折扣數值 >= 0
// 3. 規則清單中同一商品 / 分類至多一條規則
// 4. usedCount <= usageLimit（usageLimit = 0 表示不限制）
// 5. endsAt（若有）晚於 startsAt（若有）
//
// 設計原則：
// - Tell, Don't Ask：可用性判斷（EnsureUsableAt）與用量登記
//   （RegisterUse）封裝在聚合內，不暴露狀態供外部判斷
// - 折扣計算委託給 DiscountService（規則與範圍以值傳入，
//   聚合不持有計算邏輯）
type Coupon struct {
	// 識別欄位
	couponID CouponID
	storeID  StoreID
	code     string

	// 折扣設定
	scope        Scope
	defaultType  DiscountType
	defaultValue decimal.Decimal
	rules        []DiscountRule

	// 生效控制
	isActive   bool
	startsAt   *time.Time
	endsAt     *time.Time
	usageLimit int // 0 = 不限制
	usedCount  int

	// 審計欄位
	createdAt time.Time
	updatedAt time.Time
}

// NewCoupon 創建新優惠券（Checked Constructor）
//
// 業務規則：
// 1. code 去空白後不能為空，統一轉大寫儲存
// 2. 預設折扣類型必須有效、數值 >= 0
// 3. 新優惠券預設啟用、無生效窗口、不限使用次數
func NewCoupon(
	storeID StoreID,
	code string,
	scope Scope,
	defaultType DiscountType,
	defaultValue decimal.Decimal,
) (*Coupon, error) {
	if storeID.IsEmpty() {
		return nil, ErrInvalidStoreID.WithContext(
			"reason", "storeID cannot be empty",
		)
	}

	normalizedCode := strings.ToUpper(strings.TrimSpace(code))
	if normalizedCode == "" {
		return nil, ErrInvalidCouponCode
	}

	if err := validateDiscount(defaultType, defaultValue); err != nil {
		return nil, err
	}

	now := time.Now()

	return &Coupon{
		couponID:     NewCouponID(),
		storeID:      storeID,
		code:         normalizedCode,
		scope:        scope,
		defaultType:  defaultType,
		defaultValue: defaultValue,
		rules:        make([]DiscountRule, 0),
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// CouponID 獲取優惠券 ID
func (c *Coupon) CouponID() CouponID {
	return c.couponID
}

// StoreID 獲取商店 ID
func (c *Coupon) StoreID() StoreID {
	return c.storeID
}

// Code 獲取優惠碼（已轉大寫）
func (c *Coupon) Code() string {
	return c.code
}

// Scope 獲取適用範圍
func (c *Coupon) Scope() Scope {
	return c.scope
}

// DefaultDiscountType 獲取預設折扣類型
func (c *Coupon) DefaultDiscountType() DiscountType {
	return c.defaultType
}

// DefaultDiscountValue 獲取預設折扣數值
func (c *Coupon) DefaultDiscountValue() decimal.Decimal {
	return c.defaultValue
}

// Rules 獲取特定折扣規則清單（防禦性拷貝）
func (c *Coupon) Rules() []DiscountRule {
	rules := make([]DiscountRule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

// IsActive 獲取啟用狀態
func (c *Coupon) IsActive() bool {
	return c.isActive
}

// StartsAt 獲取生效時間（nil 表示立即生效）
func (c *Coupon) StartsAt() *time.Time {
	return c.startsAt
}

// EndsAt 獲取失效時間（nil 表示不過期）
func (c *Coupon) EndsAt() *time.Time {
	return c.endsAt
}

// UsageLimit 獲取使用次數上限（0 = 不限制）
func (c *Coupon) UsageLimit() int {
	return c.usageLimit
}

// UsedCount 獲取已使用次數
func (c *Coupon) UsedCount() int {
	return c.usedCount
}

// CreatedAt 獲取創建時間
func (c *Coupon) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt 獲取最後更新時間
func (c *Coupon) UpdatedAt() time.Time {
	return c.updatedAt
}

// ===========================
// 命令方法（狀態變更）
// ===========================

// AddRule 添加特定折扣規則
//
// 業務規則：同一商品 / 分類至多一條規則 —
// 規則層級查找是 first-match-wins，重複規則會讓後加的永遠不生效，
// 視為配置錯誤直接拒絕。
func (c *Coupon) AddRule(rule DiscountRule) error {
	if rule.IsZero() {
		return ErrInvalidDiscountRule.WithContext(
			"reason", "zero-value rule",
		)
	}

	for _, existing := range c.rules {
		if existing.SameTarget(rule) {
			return ErrDuplicateRule.WithContext(
				"rule_kind", string(rule.Kind()),
				"product_id", rule.ProductID(),
				"category_name", rule.CategoryName(),
			)
		}
	}

	c.rules = append(c.rules, rule)
	c.updatedAt = time.Now()
	return nil
}

// RemoveRule 移除指向同一商品 / 分類的規則
// 返回是否有規則被移除
func (c *Coupon) RemoveRule(target DiscountRule) bool {
	for i, existing := range c.rules {
		if existing.SameTarget(target) {
			c.rules = append(c.rules[:i], c.rules[i+1:]...)
			c.updatedAt = time.Now()
			return true
		}
	}
	return false
}

// SetValidityWindow 設定生效窗口
//
// 業務規則：endsAt（若有）必須晚於 startsAt（若有）
func (c *Coupon) SetValidityWindow(startsAt, endsAt *time.Time) error {
	if startsAt != nil && endsAt != nil && !endsAt.After(*startsAt) {
		return ErrInvalidValidityWindow.WithContext(
			"starts_at", startsAt.String(),
			"ends_at", endsAt.String(),
		)
	}
	c.startsAt = startsAt
	c.endsAt = endsAt
	c.updatedAt = time.Now()
	return nil
}

// SetUsageLimit 設定使用次數上限（0 = 不限制）
func (c *Coupon) SetUsageLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	c.usageLimit = limit
	c.updatedAt = time.Now()
}

// Deactivate 停用優惠券
func (c *Coupon) Deactivate() {
	c.isActive = false
	c.updatedAt = time.Now()
}

// Activate 重新啟用優惠券
func (c *Coupon) Activate() {
	c.isActive = true
	c.updatedAt = time.Now()
}

// EnsureUsableAt 檢查優惠券在指定時間點是否可用
//
// 檢查順序：啟用狀態 → 生效時間 → 失效時間 → 使用次數
func (c *Coupon) EnsureUsableAt(at time.Time) error {
	if !c.isActive {
		return ErrCouponInactive.WithContext("code", c.code)
	}
	if c.startsAt != nil && at.Before(*c.startsAt) {
		return ErrCouponNotYetActive.WithContext(
			"code", c.code,
			"starts_at", c.startsAt.String(),
		)
	}
	if c.endsAt != nil && at.After(*c.endsAt) {
		return ErrCouponExpired.WithContext(
			"code", c.code,
			"ends_at", c.endsAt.String(),
		)
	}
	if c.usageLimit > 0 && c.usedCount >= c.usageLimit {
		return ErrCouponUsageExhausted.WithContext(
			"code", c.code,
			"usage_limit", c.usageLimit,
		)
	}
	return nil
}

// RegisterUse 登記一次使用（訂單成立時由管線調用）
//
// 前置條件：EnsureUsableAt 已通過；此處仍重查次數上限，
// 防止同一事務外的並發使用穿透上限。
func (c *Coupon) RegisterUse(at time.Time) error {
	if err := c.EnsureUsableAt(at); err != nil {
		return err
	}
	c.usedCount++
	c.updatedAt = time.Now()
	return nil
}

// ===========================
// 聚合重建方法（僅供 Infrastructure Layer 使用）
// ===========================

// ReconstructCoupon 從持久化存儲重建優惠券聚合
//
// 與 NewCoupon 的區別：
// - New: 創建新聚合，執行完整驗證
// - Reconstruct: 重建已存在的聚合，仍驗證關鍵不變量，
//   防止損壞資料污染領域層
func ReconstructCoupon(
	couponID CouponID,
	storeID StoreID,
	code string,
	scope Scope,
	defaultType DiscountType,
	defaultValue decimal.Decimal,
	rules []DiscountRule,
	isActive bool,
	startsAt, endsAt *time.Time,
	usageLimit, usedCount int,
	createdAt, updatedAt time.Time,
) (*Coupon, error) {
	if couponID.IsEmpty() {
		return nil, ErrInvalidCouponID.WithContext(
			"reason", "invalid coupon ID in database",
		)
	}
	if storeID.IsEmpty() {
		return nil, ErrInvalidStoreID.WithContext(
			"reason", "invalid store ID in database",
		)
	}
	if code == "" {
		return nil, ErrInvalidCouponCode
	}
	if err := validateDiscount(defaultType, defaultValue); err != nil {
		return nil, err
	}

	if rules == nil {
		rules = make([]DiscountRule, 0)
	}

	return &Coupon{
		couponID:     couponID,
		storeID:      storeID,
		code:         code,
		scope:        scope,
		defaultType:  defaultType,
		defaultValue: defaultValue,
		rules:        rules,
		isActive:     isActive,
		startsAt:     startsAt,
		endsAt:       endsAt,
		usageLimit:   usageLimit,
		usedCount:    usedCount,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}
