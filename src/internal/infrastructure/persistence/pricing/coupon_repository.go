package pricing

import (
	"errors"
	"strings"

	"github.com/jackyeh168/shop_crm/src/internal/domain/pricing"
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================
// CouponRepository GORM 實作
// ===========================

// gormTransactionContext 事務上下文介面（內部使用）
// 用於從 TransactionContext 提取 *gorm.DB
type gormTransactionContext interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// CouponRepositoryImpl 優惠券倉儲 GORM 實作
type CouponRepositoryImpl struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCouponRepository 創建優惠券倉儲實作
// logger 用於記錄跳過的損壞規則行；傳 nil 時靜音
func NewCouponRepository(db *gorm.DB, logger *zap.Logger) pricing.CouponRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponRepositoryImpl{db: db, logger: logger}
}

// getDB 從事務上下文提取 DB 連接
// ctx 為 nil 或非 GORM 上下文時回落到 auto-commit 連接
func (r *CouponRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if ctx != nil {
		if gormCtx, ok := ctx.(gormTransactionContext); ok {
			return gormCtx.GetDB()
		}
	}
	return r.db
}

// Save 保存新優惠券（含規則清單）
// (store_id, code) 唯一索引衝突轉換為 ErrCouponAlreadyExists
func (r *CouponRepositoryImpl) Save(ctx shared.TransactionContext, coupon *pricing.Coupon) error {
	db := r.getDB(ctx)

	model, err := toCouponGORM(coupon)
	if err != nil {
		return err
	}

	if err := db.Create(model).Error; err != nil {
		if isUniqueConstraintError(err) {
			return pricing.ErrCouponAlreadyExists.WithContext(
				"store_id", coupon.StoreID().String(),
				"code", coupon.Code(),
			)
		}
		return err
	}

	ruleRows := toCouponRuleGORMs(coupon)
	if len(ruleRows) > 0 {
		if err := db.Create(&ruleRows).Error; err != nil {
			return err
		}
	}

	return nil
}

// FindByID 根據優惠券 ID 查找
func (r *CouponRepositoryImpl) FindByID(ctx shared.TransactionContext, couponID pricing.CouponID) (*pricing.Coupon, error) {
	db := r.getDB(ctx)

	var model CouponGORM
	result := db.Where("coupon_id = ?", couponID.String()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, pricing.ErrCouponNotFound.WithContext(
				"coupon_id", couponID.String(),
			)
		}
		return nil, result.Error
	}

	return r.loadCoupon(db, &model)
}

// FindByCode 根據商店 + 優惠碼查找
// 比對前將 code 去空白並轉大寫（與聚合的儲存格式一致）
func (r *CouponRepositoryImpl) FindByCode(ctx shared.TransactionContext, storeID pricing.StoreID, code string) (*pricing.Coupon, error) {
	db := r.getDB(ctx)
	normalizedCode := strings.ToUpper(strings.TrimSpace(code))

	var model CouponGORM
	result := db.Where("store_id = ? AND code = ?", storeID.String(), normalizedCode).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, pricing.ErrCouponNotFound.WithContext(
				"store_id", storeID.String(),
				"code", normalizedCode,
			)
		}
		return nil, result.Error
	}

	return r.loadCoupon(db, &model)
}

// Update 更新優惠券（含規則清單與使用次數）
// 規則清單整批刪除重建 — 規則是聚合內的值對象集合，以聚合為準
func (r *CouponRepositoryImpl) Update(ctx shared.TransactionContext, coupon *pricing.Coupon) error {
	db := r.getDB(ctx)

	model, err := toCouponGORM(coupon)
	if err != nil {
		return err
	}

	if err := db.Save(model).Error; err != nil {
		return err
	}

	if err := db.Where("coupon_id = ?", coupon.CouponID().String()).Delete(&CouponRuleGORM{}).Error; err != nil {
		return err
	}
	ruleRows := toCouponRuleGORMs(coupon)
	if len(ruleRows) > 0 {
		if err := db.Create(&ruleRows).Error; err != nil {
			return err
		}
	}

	return nil
}

// loadCoupon 載入規則行並重建聚合
// 損壞的規則行按不存在處理（跳過 + 記錄），不拖垮整張優惠券
func (r *CouponRepositoryImpl) loadCoupon(db *gorm.DB, model *CouponGORM) (*pricing.Coupon, error) {
	var ruleRows []CouponRuleGORM
	if err := db.Where("coupon_id = ?", model.CouponID).Order("id").Find(&ruleRows).Error; err != nil {
		return nil, err
	}

	rules := make([]pricing.DiscountRule, 0, len(ruleRows))
	for _, row := range ruleRows {
		rule, err := row.toDomainRule()
		if err != nil {
			r.logger.Warn("skipping corrupted coupon rule row",
				zap.String("coupon_id", model.CouponID),
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
