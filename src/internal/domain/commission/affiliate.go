package commission

import (
	"time"
)

// ===========================
// Affiliate Aggregate Root
// ===========================

// Affiliate 聯盟夥伴聚合根
//
// 聚合邊界：
// - 夥伴基本信息（ID, StoreID, DisplayName, ReferralCode）
// - 預設佣金設定（DefaultCommission）
// - 特定佣金規則清單（商品級 / 分類級覆蓋）
// - 啟用狀態
//
// 不變量（Invariants）：
// 1. 夥伴必須有顯示名稱與推薦碼
// 2. 推薦碼發放後不可變更（業務規則：分享連結永久有效）
// 3. 規則清單中同一商品 / 分類至多一條規則
//    （層級查找 first-match-wins，重複規則是配置錯誤）
//
// 設計原則：
// - Tell, Don't Ask：規則管理（新增 / 停用 / 移除）封裝在聚合內
// - 佣金計算委託給 CommissionService（規則以值傳出，聚合不算錢）
type Affiliate struct {
	// 識別欄位
	affiliateID  AffiliateID
	storeID      StoreID
	displayName  string
	referralCode ReferralCode

	// 佣金設定
	defaultCommission DefaultCommission
	rules             []CommissionRule

	// 狀態
	isActive bool

	// 審計欄位
	createdAt time.Time
	updatedAt time.Time
}

// NewAffiliate 創建新聯盟夥伴（Checked Constructor）
//
// 業務規則：
// 1. DisplayName 不能為空
// 2. ReferralCode 必須有效（已在 VO 中驗證）
// 3. 新夥伴預設啟用、不使用預設佣金（零佣金，待商家設定）
func NewAffiliate(
	storeID StoreID,
	displayName string,
	referralCode ReferralCode,
) (*Affiliate, error) {
	if storeID.IsEmpty() {
		return nil, ErrInvalidStoreID.WithContext(
			"reason", "storeID cannot be empty",
		)
	}
	if displayName == "" {
		return nil, ErrInvalidDisplayName
	}
	if referralCode.IsEmpty() {
		return nil, ErrInvalidReferralCode.WithContext(
			"reason", "referral code cannot be empty",
		)
	}

	now := time.Now()

	return &Affiliate{
		affiliateID:       NewAffiliateID(),
		storeID:           storeID,
		displayName:       displayName,
		referralCode:      referralCode,
		defaultCommission: NoDefaultCommission(),
		rules:             make([]CommissionRule, 0),
		isActive:          true,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// AffiliateID 獲取聯盟夥伴 ID
func (a *Affiliate) AffiliateID() AffiliateID {
	return a.affiliateID
}

// StoreID 獲取商店 ID
func (a *Affiliate) StoreID() StoreID {
	return a.storeID
}

// DisplayName 獲取顯示名稱
func (a *Affiliate) DisplayName() string {
	return a.displayName
}

// ReferralCode 獲取推薦碼
func (a *Affiliate) ReferralCode() ReferralCode {
	return a.referralCode
}

// DefaultCommission 獲取預設佣金設定
func (a *Affiliate) DefaultCommission() DefaultCommission {
	return a.defaultCommission
}

// Rules 獲取佣金規則清單（防禦性拷貝，含停用規則）
func (a *Affiliate) Rules() []CommissionRule {
	rules := make([]CommissionRule, len(a.rules))
	copy(rules, a.rules)
	return rules
}

// IsActive 獲取啟用狀態
func (a *Affiliate) IsActive() bool {
	return a.isActive
}

// CreatedAt 獲取創建時間
func (a *Affiliate) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt 獲取最後更新時間
func (a *Affiliate) UpdatedAt() time.Time {
	return a.updatedAt
}

// ===========================
// 命令方法（狀態變更）
// ===========================

// SetDefaultCommission 設定預設佣金
func (a *Affiliate) SetDefaultCommission(defaultCommission DefaultCommission) {
	a.defaultCommission = defaultCommission
	a.updatedAt = time.Now()
}

// AddRule 添加特定佣金規則
//
// 業務規則：同一商品 / 分類至多一條規則（含停用中的規則 —
// 要改數值應先移除或重新啟用既有規則，而不是疊加新規則）
func (a *Affiliate) AddRule(rule CommissionRule) error {
	if rule.IsZero() {
		return ErrInvalidCommissionRule.WithContext(
			"reason", "zero-value rule",
		)
	}

	for _, existing := range a.rules {
		if existing.SameTarget(rule) {
			return ErrDuplicateRule.WithContext(
				"rule_kind", string(rule.Kind()),
				"product_id", rule.ProductID(),
				"category_name", rule.CategoryName(),
			)
		}
	}

	a.rules = append(a.rules, rule)
	a.updatedAt = time.Now()
	return nil
}

// SetRuleActive 變更指定規則的啟用狀態
// 返回是否找到目標規則
func (a *Affiliate) SetRuleActive(target CommissionRule, active bool) bool {
	for i, existing := range a.rules {
		if existing.SameTarget(target) {
			a.rules[i] = existing.WithActive(active)
			a.updatedAt = time.Now()
			return true
		}
	}
	return false
}

// RemoveRule 移除指向同一商品 / 分類的規則
// 返回是否有規則被移除
func (a *Affiliate) RemoveRule(target CommissionRule) bool {
	for i, existing := range a.rules {
		if existing.SameTarget(target) {
			a.rules = append(a.rules[:i], a.rules[i+1:]...)
			a.updatedAt = time.Now()
			return true
		}
	}
	return false
}

// Deactivate 停用聯盟夥伴（停止產生新佣金，既有入帳不受影響）
func (a *Affiliate) Deactivate() {
	a.isActive = false
	a.updatedAt = time.Now()
}

// Activate 重新啟用聯盟夥伴
func (a *Affiliate) Activate() {
	a.isActive = true
	a.updatedAt = time.Now()
}

// ===========================
// 聚合重建方法（僅供 Infrastructure Layer 使用）
// ===========================

// ReconstructAffiliate 從持久化存儲重建聯盟夥伴聚合
//
// 重要：即使是從資料庫重建，也驗證關鍵不變量，
// 防止損壞資料污染領域層。損壞的規則行不在此處理 —
// Repository 層負責跳過無法重建的規則並記錄日誌。
func ReconstructAffiliate(
	affiliateID AffiliateID,
	storeID StoreID,
	displayName string,
	referralCode ReferralCode,
	defaultCommission DefaultCommission,
	rules []CommissionRule,
	isActive bool,
	createdAt time.Time,
	updatedAt time.Time,
) (*Affiliate, error) {
	if affiliateID.IsEmpty() {
		return nil, ErrInvalidAffiliateID.WithContext(
			"reason", "invalid affiliate ID in database",
		)
	}
	if storeID.IsEmpty() {
		return nil, ErrInvalidStoreID.WithContext(
			"reason", "invalid store ID in database",
		)
	}
	if displayName == "" {
		return nil, ErrInvalidDisplayName
	}
	if referralCode.IsEmpty() {
		return nil, ErrInvalidReferralCode.WithContext(
			"reason", "invalid referral code in database",
		)
	}

	if rules == nil {
		rules = make([]CommissionRule, 0)
	}

	return &Affiliate{
		affiliateID:       affiliateID,
		storeID:           storeID,
		displayName:       displayName,
		referralCode:      referralCode,
		defaultCommission: defaultCommission,
		rules:             rules,
		isActive:          isActive,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}
