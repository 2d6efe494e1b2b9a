package commission

import (
	"time"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/shopspring/decimal"
)

// ===========================
// GORM 資料模型
// ===========================

// AffiliateGORM 聯盟夥伴資料表模型
//
// 設計原則：
// 1. 資料模型與領域模型分離（Persistence Model vs Domain Model）
// 2. (store_id, referral_code) 複合唯一索引承擔
//    「同商店內推薦碼唯一」的不變量 — Save 不做 check-then-insert
type AffiliateGORM struct {
	AffiliateID     string          `gorm:"column:affiliate_id;type:varchar(36);primaryKey"`
	StoreID         string          `gorm:"column:store_id;type:varchar(36);uniqueIndex:idx_affiliates_store_code"`
	ReferralCode    string          `gorm:"column:referral_code;type:varchar(16);uniqueIndex:idx_affiliates_store_code"`
	DisplayName     string          `gorm:"column:display_name;type:varchar(128)"`
	UseDefault      bool            `gorm:"column:use_default"`
	CommissionType  string          `gorm:"column:commission_type;type:varchar(16)"`
	CommissionValue decimal.Decimal `gorm:"column:commission_value;type:decimal(20,2)"`
	IsActive        bool            `gorm:"column:is_active"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

// TableName 指定資料表名稱
func (AffiliateGORM) TableName() string {
	return "affiliates"
}

// CommissionRuleGORM 聯盟夥伴特定佣金規則資料表模型
type CommissionRuleGORM struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement"`
	AffiliateID    string          `gorm:"column:affiliate_id;type:varchar(36);index"`
	RuleKind       string          `gorm:"column:rule_kind;type:varchar(16)"`
	ProductID      string          `gorm:"column:product_id;type:varchar(64)"`
	CategoryName   string          `gorm:"column:category_name;type:varchar(128)"`
	CommissionType string          `gorm:"column:commission_type;type:varchar(16)"`
	Value          decimal.Decimal `gorm:"column:value;type:decimal(20,2)"`
	IsActive       bool            `gorm:"column:is_active"`
}

// TableName 指定資料表名稱
func (CommissionRuleGORM) TableName() string {
	return "affiliate_commission_rules"
}

// EarningGORM 佣金入帳資料表模型
//
// (order_id, affiliate_id) 複合唯一索引承擔「一個訂單-夥伴對
// 至多一筆入帳」的不變量 — 併發重複入帳由索引攔截
type EarningGORM struct {
	EarningID        string          `gorm:"column:earning_id;type:varchar(36);primaryKey"`
	OrderID          string          `gorm:"column:order_id;type:varchar(36);uniqueIndex:idx_earnings_order_affiliate"`
	AffiliateID      string          `gorm:"column:affiliate_id;type:varchar(36);uniqueIndex:idx_earnings_order_affiliate;index"`
	StoreID          string          `gorm:"column:store_id;type:varchar(36);index"`
	OrderTotal       decimal.Decimal `gorm:"column:order_total;type:decimal(20,2)"`
	CommissionAmount decimal.Decimal `gorm:"column:commission_amount;type:decimal(20,2)"`
	CommissionType   string          `gorm:"column:commission_type;type:varchar(16)"`
	CommissionValue  decimal.Decimal `gorm:"column:commission_value;type:decimal(20,2)"`
	Status           string          `gorm:"column:status;type:varchar(16);index"`
	CreatedAt        time.Time       `gorm:"column:created_at;index"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

// TableName 指定資料表名稱
func (EarningGORM) TableName() string {
	return "affiliate_earnings"
}

// EarningItemGORM 佣金入帳品項稽核明細資料表模型
// 明細行在入帳後不可變，Update 不觸碰此表
type EarningItemGORM struct {
	ID                uint            `gorm:"column:id;primaryKey;autoIncrement"`
	EarningID         string          `gorm:"column:earning_id;type:varchar(36);index"`
	ProductID         string          `gorm:"column:product_id;type:varchar(64)"`
	ProductName       string          `gorm:"column:product_name;type:varchar(256)"`
	Category          string          `gorm:"column:category;type:varchar(128)"`
	Subtotal          decimal.Decimal `gorm:"column:subtotal;type:decimal(20,2)"`
	Discount          decimal.Decimal `gorm:"column:discount;type:decimal(20,2)"`
	ValueWithDiscount decimal.Decimal `gorm:"column:value_with_discount;type:decimal(20,2)"`
	Source            string          `gorm:"column:source;type:varchar(32)"`
	Amount            decimal.Decimal `gorm:"column:amount;type:decimal(20,2)"`
}

// TableName 指定資料表名稱
func (EarningItemGORM) TableName() string {
	return "affiliate_earning_items"
}

// ===========================
// 模型轉換（Domain ↔ GORM）
// ===========================

// toAffiliateGORM 將聯盟夥伴聚合轉換為資料模型
func toAffiliateGORM(affiliate *commission.Affiliate) *AffiliateGORM {
	defaultCommission := affiliate.DefaultCommission()
	return &AffiliateGORM{
		AffiliateID:     affiliate.AffiliateID().String(),
		StoreID:         affiliate.StoreID().String(),
		ReferralCode:    affiliate.ReferralCode().Value(),
		DisplayName:     affiliate.DisplayName(),
		UseDefault:      defaultCommission.UseDefault(),
		CommissionType:  string(defaultCommission.CommissionType()),
		CommissionValue: defaultCommission.Value(),
		IsActive:        affiliate.IsActive(),
		CreatedAt:       affiliate.CreatedAt(),
		UpdatedAt:       affiliate.UpdatedAt(),
	}
}

// toCommissionRuleGORMs 將規則清單轉換為資料模型行
func toCommissionRuleGORMs(affiliate *commission.Affiliate) []CommissionRuleGORM {
	rules := affiliate.Rules()
	rows := make([]CommissionRuleGORM, 0, len(rules))
	for _, rule := range rules {
		rows = append(rows, CommissionRuleGORM{
			AffiliateID:    affiliate.AffiliateID().String(),
			RuleKind:       string(rule.Kind()),
			ProductID:      rule.ProductID(),
			CategoryName:   rule.CategoryName(),
			CommissionType: string(rule.CommissionType()),
			Value:          rule.Value(),
			IsActive:       rule.IsActive(),
		})
	}
	return rows
}

// toDomainRule 將規則行轉換為領域值對象
// 經過 Checked Constructor 重建，損壞的行返回錯誤由調用方跳過
func (m *CommissionRuleGORM) toDomainRule() (commission.CommissionRule, error) {
	var rule commission.CommissionRule
	var err error

	switch commission.CommissionRuleKind(m.RuleKind) {
	case commission.RuleKindProduct:
		rule, err = commission.NewProductCommissionRule(m.ProductID, commission.CommissionType(m.CommissionType), m.Value)
	case commission.RuleKindCategory:
		rule, err = commission.NewCategoryCommissionRule(m.CategoryName, commission.CommissionType(m.CommissionType), m.Value)
	default:
		return commission.CommissionRule{}, commission.ErrInvalidCommissionRule.WithContext(
			"rule_kind", m.RuleKind,
		)
	}
	if err != nil {
		return commission.CommissionRule{}, err
	}

	return rule.WithActive(m.IsActive), nil
}

// toDomain 將聯盟夥伴資料模型重建為領域聚合
func (m *AffiliateGORM) toDomain(rules []commission.CommissionRule) (*commission.Affiliate, error) {
	affiliateID, err := commission.AffiliateIDFromString(m.AffiliateID)
	if err != nil {
		return nil, err
	}
	storeID, err := commission.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	referralCode, err := commission.NewReferralCode(m.ReferralCode)
	if err != nil {
		return nil, err
	}
	defaultCommission, err := commission.NewDefaultCommission(
		m.UseDefault,
		commission.CommissionType(m.CommissionType),
		m.CommissionValue,
	)
	if err != nil {
		return nil, err
	}

	return commission.ReconstructAffiliate(
		affiliateID,
		storeID,
		m.DisplayName,
		referralCode,
		defaultCommission,
		rules,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// toEarningGORM 將入帳聚合轉換為資料模型
func toEarningGORM(earning *commission.AffiliateEarning) *EarningGORM {
	return &EarningGORM{
		EarningID:        earning.EarningID().String(),
		OrderID:          earning.OrderID().String(),
		AffiliateID:      earning.AffiliateID().String(),
		StoreID:          earning.StoreID().String(),
		OrderTotal:       earning.OrderTotal(),
		CommissionAmount: earning.CommissionAmount(),
		CommissionType:   string(earning.CommissionType()),
		CommissionValue:  earning.CommissionValue(),
		Status:           string(earning.Status()),
		CreatedAt:        earning.CreatedAt(),
		UpdatedAt:        earning.UpdatedAt(),
	}
}

// toEarningItemGORMs 將稽核明細轉換為資料模型行
func toEarningItemGORMs(earning *commission.AffiliateEarning) []EarningItemGORM {
	items := earning.Items()
	rows := make([]EarningItemGORM, 0, len(items))
	for _, item := range items {
		rows = append(rows, EarningItemGORM{
			EarningID:         earning.EarningID().String(),
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			Category:          item.Category,
			Subtotal:          item.Subtotal,
			Discount:          item.Discount,
			ValueWithDiscount: item.ValueWithDiscount,
			Source:            string(item.Source),
			Amount:            item.Amount,
		})
	}
	return rows
}

// toDomain 將入帳資料模型重建為領域聚合
// 狀態有效性與金額一致性由 ReconstructAffiliateEarning 驗證
func (m *EarningGORM) toDomain(itemRows []EarningItemGORM) (*commission.AffiliateEarning, error) {
	earningID, err := commission.EarningIDFromString(m.EarningID)
	if err != nil {
		return nil, err
	}
	affiliateID, err := commission.AffiliateIDFromString(m.AffiliateID)
	if err != nil {
		return nil, err
	}
	orderID, err := commission.OrderIDFromString(m.OrderID)
	if err != nil {
		return nil, err
	}
	storeID, err := commission.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}

	items := make([]commission.EarningItem, 0, len(itemRows))
	for _, row := range itemRows {
		items = append(items, commission.EarningItem{
			ProductID:         row.ProductID,
			ProductName:       row.ProductName,
			Category:          row.Category,
			Subtotal:          row.Subtotal,
			Discount:          row.Discount,
			ValueWithDiscount: row.ValueWithDiscount,
			Source:            commission.CommissionSource(row.Source),
			Amount:            row.Amount,
		})
	}

	return commission.ReconstructAffiliateEarning(
		earningID,
		affiliateID,
		orderID,
		storeID,
		m.OrderTotal,
		m.CommissionAmount,
		commission.CommissionType(m.CommissionType),
		m.CommissionValue,
		items,
		commission.EarningStatus(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}
