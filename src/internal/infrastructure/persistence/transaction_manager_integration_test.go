package persistence

import (
	"errors"
	"testing"

	"github.com/jackyeh168/shop_crm/src/internal/domain/pricing"
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
	pricingpersistence "github.com/jackyeh168/shop_crm/src/internal/infrastructure/persistence/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// TransactionManager Integration Tests
// ===========================
//
// 這些測試驗證 TransactionManager 的核心保證：
// 1. 事務隔離：錯誤時回滾，成功時提交
// 2. Panic 處理：panic 時自動回滾
// 3. 多操作原子性：多個操作在同一事務中成功或失敗

// newTestCoupon 創建測試用優惠券（全品項 10% 折扣）
func newTestCoupon(t *testing.T, storeID pricing.StoreID, code string) *pricing.Coupon {
	t.Helper()
	coupon, err := pricing.NewCoupon(
		storeID, code, pricing.ScopeAllItems(),
		pricing.DiscountPercentage, decimal.NewFromInt(10),
	)
	require.NoError(t, err)
	return coupon
}

// TestRollbackOnError 驗證事務回滾機制
//
// 場景：
// 1. 開啟事務
// 2. 執行操作（Save coupon）
// 3. 返回錯誤（模擬失敗）
// 4. 驗證事務已回滾（優惠券未保存）
func TestRollbackOnError_DoesNotCommit(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := pricingpersistence.NewCouponRepository(db, nil)

	storeID := pricing.NewStoreID()

	// Act: 執行一個會失敗的事務
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		// 1. 創建並保存優惠券
		coupon := newTestCoupon(t, storeID, "SUMMER10")
		err := repo.Save(ctx, coupon)
		require.NoError(t, err, "Save should succeed within transaction")

		// 2. 模擬錯誤 - 事務應該回滾
		return errors.New("simulated error - trigger rollback")
	})

	// Assert: 驗證事務返回錯誤
	require.Error(t, err)
	assert.Equal(t, "simulated error - trigger rollback", err.Error())

	// Assert: 驗證優惠券未保存（回滾成功）
	_, err = repo.FindByCode(nil, storeID, "SUMMER10")
	assert.ErrorIs(t, err, pricing.ErrCouponNotFound, "coupon should not exist after rollback")
}

// TestCommitOnSuccess_SavesData 驗證事務提交機制
func TestCommitOnSuccess_SavesData(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := pricingpersistence.NewCouponRepository(db, nil)

	storeID := pricing.NewStoreID()
	var couponID pricing.CouponID

	// Act: 執行一個成功的事務
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		coupon := newTestCoupon(t, storeID, "SUMMER10")
		couponID = coupon.CouponID()
		return repo.Save(ctx, coupon)
	})

	// Assert: 驗證事務成功
	require.NoError(t, err)

	// Assert: 驗證優惠券已保存（提交成功）
	coupon, err := repo.FindByCode(nil, storeID, "SUMMER10")
	require.NoError(t, err, "coupon should exist after commit")
	assert.Equal(t, couponID.String(), coupon.CouponID().String())
}

// TestPanicRecovery_RollsBackAndRepanics 驗證 panic 處理
//
// 預期結果：
// - 事務應該回滾
// - panic 應該被重新拋出（由調用者處理）
func TestPanicRecovery_RollsBackAndRepanics(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := pricingpersistence.NewCouponRepository(db, nil)

	storeID := pricing.NewStoreID()

	// Act & Assert: 執行會 panic 的事務，並捕獲 panic
	assert.Panics(t, func() {
		_ = txManager.InTransaction(func(ctx shared.TransactionContext) error {
			coupon := newTestCoupon(t, storeID, "SUMMER10")
			err := repo.Save(ctx, coupon)
			require.NoError(t, err, "Save should succeed within transaction")

			panic("simulated panic - should rollback")
		})
	}, "panic should be re-thrown")

	// Assert: 驗證優惠券未保存（回滾成功）
	_, err := repo.FindByCode(nil, storeID, "SUMMER10")
	assert.ErrorIs(t, err, pricing.ErrCouponNotFound, "coupon should not exist after panic rollback")
}

// TestMultipleOperations_AtomicCommit 驗證多操作原子性
func TestMultipleOperations_AtomicCommit(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := pricingpersistence.NewCouponRepository(db, nil)

	storeID := pricing.NewStoreID()

	// Act: 在同一事務中保存兩張優惠券
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if err := repo.Save(ctx, newTestCoupon(t, storeID, "SUMMER10")); err != nil {
			return err
		}
		return repo.Save(ctx, newTestCoupon(t, storeID, "WINTER20"))
	})

	// Assert: 驗證事務成功，兩張優惠券都存在
	require.NoError(t, err)

	coupon1, err := repo.FindByCode(nil, storeID, "SUMMER10")
	require.NoError(t, err, "first coupon should exist")
	assert.Equal(t, "SUMMER10", coupon1.Code())

	coupon2, err := repo.FindByCode(nil, storeID, "WINTER20")
	require.NoError(t, err, "second coupon should exist")
	assert.Equal(t, "WINTER20", coupon2.Code())
}

// TestMultipleOperations_AtomicRollback 驗證多操作原子回滾
//
// 場景：兩個 Save 都成功，後續操作失敗 —
// 兩張優惠券都必須回滾，不能留下半套資料
func TestMultipleOperations_AtomicRollback(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := pricingpersistence.NewCouponRepository(db, nil)

	storeID := pricing.NewStoreID()

	// Act: 在同一事務中，保存成功後模擬後續失敗
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if err := repo.Save(ctx, newTestCoupon(t, storeID, "SUMMER10")); err != nil {
			return err
		}
		if err := repo.Save(ctx, newTestCoupon(t, storeID, "WINTER20")); err != nil {
			return err
		}
		return errors.New("second operation failed")
	})

	// Assert: 驗證事務失敗，兩張優惠券都不存在（原子回滾）
	require.Error(t, err)

	_, err = repo.FindByCode(nil, storeID, "SUMMER10")
	assert.ErrorIs(t, err, pricing.ErrCouponNotFound, "first coupon should not exist after rollback")

	_, err = repo.FindByCode(nil, storeID, "WINTER20")
	assert.ErrorIs(t, err, pricing.ErrCouponNotFound, "second coupon should not exist after rollback")
}

// TestRepository_NilContext_AutoCommitMode 驗證 nil context 的 auto-commit 行為
//
// 注意：
// - 這個測試驗證了 TransactionContext 文檔中的 "ctx == nil" 語義
// - 證明讀操作不強制要求事務參與
func TestRepository_NilContext_AutoCommitMode(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := pricingpersistence.NewCouponRepository(db, nil)

	storeID := pricing.NewStoreID()
	coupon := newTestCoupon(t, storeID, "SUMMER10")

	// 先在事務中保存（為後續查詢準備數據）
	txManager := NewGORMTransactionManager(db)
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		return repo.Save(ctx, coupon)
	})
	require.NoError(t, err, "setup: save coupon should succeed")

	// Act: 使用 nil context 進行查詢（auto-commit 模式）
	found, err := repo.FindByCode(nil, storeID, "SUMMER10")

	// Assert: 驗證查詢成功
	require.NoError(t, err, "FindByCode with nil context should succeed")
	assert.NotNil(t, found)
	assert.Equal(t, coupon.CouponID().String(), found.CouponID().String())
}
