package commission

import (
	"errors"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// AffiliateEarningRepository GORM 實作
// ===========================

// EarningRepositoryImpl 佣金入帳倉儲 GORM 實作
type EarningRepositoryImpl struct {
	db *gorm.DB
}

// NewEarningRepository 創建佣金入帳倉儲實作
func NewEarningRepository(db *gorm.DB) commission.AffiliateEarningRepository {
	return &EarningRepositoryImpl{db: db}
}

// getDB 從事務上下文提取 DB 連接
// ctx 為 nil 或非 GORM 上下文時回落到 auto-commit 連接
func (r *EarningRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if ctx != nil {
		if gormCtx, ok := ctx.(gormTransactionContext); ok {
			return gormCtx.GetDB()
		}
	}
	return r.db
}

// Save 保存新入帳記錄（含品項明細行）
// (order_id, affiliate_id) 唯一索引衝突轉換為 ErrEarningAlreadyExists —
// 併發重複入帳在此被攔截，由 Application Layer 轉為冪等返回
func (r *EarningRepositoryImpl) Save(ctx shared.TransactionContext, earning *commission.AffiliateEarning) error {
	db := r.getDB(ctx)

	if err := db.Create(toEarningGORM(earning)).Error; err != nil {
		if isUniqueConstraintError(err) {
			return commission.ErrEarningAlreadyExists.WithContext(
				"order_id", earning.OrderID().String(),
				"affiliate_id", earning.AffiliateID().String(),
			)
		}
		return err
	}

	itemRows := toEarningItemGORMs(earning)
	if len(itemRows) > 0 {
		if err := db.Create(&itemRows).Error; err != nil {
			return err
		}
	}

	return nil
}

// FindByID 根據入帳 ID 查找
func (r *EarningRepositoryImpl) FindByID(ctx shared.TransactionContext, earningID commission.EarningID) (*commission.AffiliateEarning, error) {
	db := r.getDB(ctx)

	var model EarningGORM
	result := db.Where("earning_id = ?", earningID.String()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, commission.ErrEarningNotFound.WithContext(
				"earning_id", earningID.String(),
			)
		}
		return nil, result.Error
	}

	return r.loadEarning(db, &model)
}

// FindByOrderAndAffiliate 根據 (訂單, 聯盟夥伴) 對查找
func (r *EarningRepositoryImpl) FindByOrderAndAffiliate(ctx shared.TransactionContext, orderID commission.OrderID, affiliateID commission.AffiliateID) (*commission.AffiliateEarning, error) {
	db := r.getDB(ctx)

	var model EarningGORM
	result := db.Where("order_id = ? AND affiliate_id = ?", orderID.String(), affiliateID.String()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, commission.ErrEarningNotFound.WithContext(
				"order_id", orderID.String(),
				"affiliate_id", affiliateID.String(),
			)
		}
		return nil, result.Error
	}

	return r.loadEarning(db, &model)
}

// FindByAffiliate 查找聯盟夥伴的所有入帳記錄
// 按創建時間新到舊排序（報表 / 提領餘額場景）
func (r *EarningRepositoryImpl) FindByAffiliate(ctx shared.TransactionContext, affiliateID commission.AffiliateID) ([]*commission.AffiliateEarning, error) {
	db := r.getDB(ctx)

	var models []EarningGORM
	if err := db.Where("affiliate_id = ?", affiliateID.String()).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	earnings := make([]*commission.AffiliateEarning, 0, len(models))
	for i := range models {
		earning, err := r.loadEarning(db, &models[i])
		if err != nil {
			return nil, err
		}
		earnings = append(earnings, earning)
	}

	return earnings, nil
}

// Update 更新入帳記錄（狀態轉換）
// 明細行在入帳後不可變，此處只更新本體
func (r *EarningRepositoryImpl) Update(ctx shared.TransactionContext, earning *commission.AffiliateEarning) error {
	db := r.getDB(ctx)
	return db.Save(toEarningGORM(earning)).Error
}

// loadEarning 載入明細行並重建聚合
func (r *EarningRepositoryImpl) loadEarning(db *gorm.DB, model *EarningGORM) (*commission.AffiliateEarning, error) {
	var itemRows []EarningItemGORM
	if err := db.Where("earning_id = ?", model.EarningID).Order("id").Find(&itemRows).Error; err != nil {
		return nil, err
	}

	return model.toDomain(itemRows)
}
