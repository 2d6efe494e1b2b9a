package persistence

import (
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionManager 實作
// ===========================

// GORMTransactionManager GORM 事務管理器實作
//
// 設計原則：
// 1. 實作 shared.TransactionManager 介面（依賴倒置）
// 2. 委託 gorm.DB.Transaction 管理 BEGIN / COMMIT / ROLLBACK：
//    - fn 返回 error → 回滾
//    - fn 返回 nil → 提交
//    - fn panic → 回滾後重新拋出
// 3. 事務內的 *gorm.DB 透過 TransactionContext 傳遞給 Repository
type GORMTransactionManager struct {
	db *gorm.DB
}

// NewGORMTransactionManager 創建 GORM 事務管理器
func NewGORMTransactionManager(db *gorm.DB) shared.TransactionManager {
	return &GORMTransactionManager{db: db}
}

// InTransaction 在單一資料庫事務中執行 fn
func (m *GORMTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMTransactionContext(tx))
	})
}
