package commission

import (
	"errors"
	"strings"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================
// AffiliateRepository GORM 實作
// ===========================

// gormTransactionContext 事務上下文介面（內部使用）
// 用於從 TransactionContext 提取 *gorm.DB
type gormTransactionContext interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// AffiliateRepositoryImpl 聯盟夥伴倉儲 GORM 實作
type AffiliateRepositoryImpl struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAffiliateRepository 創建聯盟夥伴倉儲實作
// logger 用於記錄跳過的損壞規則行；傳 nil 時靜音
func NewAffiliateRepository(db *gorm.DB, logger *zap.Logger) commission.AffiliateRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AffiliateRepositoryImpl{db: db, logger: logger}
}

// getDB 從事務上下文提取 DB 連接
// ctx 為 nil 或非 GORM 上下文時回落到 auto-commit 連接
func (r *AffiliateRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if ctx != nil {
		if gormCtx, ok := ctx.(gormTransactionContext); ok {
			return gormCtx.GetDB()
		}
	}
	return r.db
}

// Save 保存新聯盟夥伴（含規則清單）
// (store_id, referral_code) 唯一索引衝突轉換為 ErrAffiliateAlreadyExists —
// 推薦碼碰撞時由 Application Layer 換碼重試
func (r *AffiliateRepositoryImpl) Save(ctx shared.TransactionContext, affiliate *commission.Affiliate) error {
	db := r.getDB(ctx)

	if err := db.Create(toAffiliateGORM(affiliate)).Error; err != nil {
		if isUniqueConstraintError(err) {
			return commission.ErrAffiliateAlreadyExists.WithContext(
				"store_id", affiliate.StoreID().String(),
				"referral_code", affiliate.ReferralCode().Value(),
			)
		}
		return err
	}

	ruleRows := toCommissionRuleGORMs(affiliate)
	if len(ruleRows) > 0 {
		if err := db.Create(&ruleRows).Error; err != nil {
			return err
		}
	}

	return nil
}

// FindByID 根據聯盟夥伴 ID 查找
func (r *AffiliateRepositoryImpl) FindByID(ctx shared.TransactionContext, affiliateID commission.AffiliateID) (*commission.Affiliate, error) {
	db := r.getDB(ctx)

	var model AffiliateGORM
	result := db.Where("affiliate_id = ?", affiliateID.String()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, commission.ErrAffiliateNotFound.WithContext(
				"affiliate_id", affiliateID.String(),
			)
		}
		return nil, result.Error
	}

	return r.loadAffiliate(db, &model)
}

// FindByReferralCode 根據商店 + 推薦碼查找
func (r *AffiliateRepositoryImpl) FindByReferralCode(ctx shared.TransactionContext, storeID commission.StoreID, code commission.ReferralCode) (*commission.Affiliate, error) {
	db := r.getDB(ctx)

	var model AffiliateGORM
	result := db.Where("store_id = ? AND referral_code = ?", storeID.String(), code.Value()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, commission.ErrAffiliateNotFound.WithContext(
				"store_id", storeID.String(),
				"referral_code", code.Value(),
			)
		}
		return nil, result.Error
	}

	return r.loadAffiliate(db, &model)
}

// Update 更新聯盟夥伴（含佣金設定與規則清單）
// 規則清單整批刪除重建 — 規則是聚合內的值對象集合，以聚合為準
func (r *AffiliateRepositoryImpl) Update(ctx shared.TransactionContext, affiliate *commission.Affiliate) error {
	db := r.getDB(ctx)

	if err := db.Save(toAffiliateGORM(affiliate)).Error; err != nil {
		return err
	}

	if err := db.Where("affiliate_id = ?", affiliate.AffiliateID().String()).Delete(&CommissionRuleGORM{}).Error; err != nil {
		return err
	}
	ruleRows := toCommissionRuleGORMs(affiliate)
	if len(ruleRows) > 0 {
		if err := db.Create(&ruleRows).Error; err != nil {
			return err
		}
	}

	return nil
}

// loadAffiliate 載入規則行並重建聚合
// 損壞的規則行按不存在處理（跳過 + 記錄），層級解析落到下一層 —
// 寧可少算佣金也不能讓損壞資料拖垮整個夥伴
func (r *AffiliateRepositoryImpl) loadAffiliate(db *gorm.DB, model *AffiliateGORM) (*commission.Affiliate, error) {
	var ruleRows []CommissionRuleGORM
	if err := db.Where("affiliate_id = ?", model.AffiliateID).Order("id").Find(&ruleRows).Error; err != nil {
		return nil, err
	}

	rules := make([]commission.CommissionRule, 0, len(ruleRows))
	for _, row := range ruleRows {
		rule, err := row.toDomainRule()
		if err != nil {
			r.logger.Warn("skipping corrupted commission rule row",
				zap.String("affiliate_id", model.AffiliateID),
				zap.Uint("rule_row_id", row.ID),
				zap.Error(err),
			)
			continue
		}
		rules = append(rules, rule)
	}

	return model.toDomain(rules)
}

// isUniqueConstraintError 判斷是否為唯一約束錯誤
// 支持 SQLite、PostgreSQL、MySQL 的錯誤訊息格式
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	return containsAny(errMsg,
		"UNIQUE constraint failed",   // SQLite
		"duplicate key value",        // PostgreSQL
		"Duplicate entry",            // MySQL
		"violates unique constraint", // PostgreSQL (alternative)
	)
}

// containsAny 檢查字串是否包含任一子字串
func containsAny(s string, substrings ...string) bool {
	for _, substr := range substrings {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
