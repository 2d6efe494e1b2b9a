package commission

import (
	"testing"
	"time"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// AffiliateEarningRepository Integration Tests
// ===========================

// createTestEarning 創建測試用入帳記錄
// 兩個品項、預設佣金 10%：(100-10)×10% + 50×10% = 14
func createTestEarning(t *testing.T, affiliateID commission.AffiliateID, orderID commission.OrderID, storeID commission.StoreID) *commission.AffiliateEarning {
	t.Helper()

	defaultCommission, err := commission.NewDefaultCommission(true, commission.CommissionPercentage, dec("10"))
	require.NoError(t, err)

	service := commission.NewCommissionService()
	result := service.CalculateOrderCommission(
		[]commission.CommissionableItem{
			{ProductID: "prod-1", ProductName: "Producto 1", Category: "Bebidas", Subtotal: dec("100"), Discount: dec("10")},
			{ProductID: "prod-2", ProductName: "Producto 2", Subtotal: dec("50"), Discount: dec("0")},
		},
		nil,
		defaultCommission,
	)

	earning, err := commission.NewAffiliateEarning(affiliateID, orderID, storeID, result, defaultCommission)
	require.NoError(t, err)
	earning.PullEvents()
	return earning
}

// Test 1: Save new earning with item rows
func TestEarningRepository_Save_NewEarning_Success(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewEarningRepository(db)

	earning := createTestEarning(t, commission.NewAffiliateID(), commission.NewOrderID(), commission.NewStoreID())

	// Act
	err := repo.Save(nil, earning)

	// Assert
	require.NoError(t, err)

	// Verify in database
	var model EarningGORM
	result := db.First(&model, "earning_id = ?", earning.EarningID().String())
	require.NoError(t, result.Error)
	assert.Equal(t, "pending", model.Status)
	assert.True(t, model.CommissionAmount.Equal(dec("14")))

	var itemCount int64
	db.Model(&EarningItemGORM{}).Where("earning_id = ?", earning.EarningID().String()).Count(&itemCount)
	assert.Equal(t, int64(2), itemCount)
}

// Test 2: Duplicate (order, affiliate) pair is blocked by the unique index
func TestEarningRepository_Save_DuplicateOrderAffiliatePair_ReturnsError(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewEarningRepository(db)

	affiliateID := commission.NewAffiliateID()
	orderID := commission.NewOrderID()
	storeID := commission.NewStoreID()
	require.NoError(t, repo.Save(nil, createTestEarning(t, affiliateID, orderID, storeID)))

	// Act: 同一 (訂單, 夥伴) 對重複入帳
	err := repo.Save(nil, createTestEarning(t, affiliateID, orderID, storeID))

	// Assert
	assert.ErrorIs(t, err, commission.ErrEarningAlreadyExists)
}

// Test 3: FindByOrderAndAffiliate round-trips amounts and audit items
func TestEarningRepository_FindByOrderAndAffiliate_RoundTripsAggregate(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewEarningRepository(db)

	affiliateID := commission.NewAffiliateID()
	orderID := commission.NewOrderID()
	earning := createTestEarning(t, affiliateID, orderID, commission.NewStoreID())
	require.NoError(t, repo.Save(nil, earning))

	// Act
	found, err := repo.FindByOrderAndAffiliate(nil, orderID, affiliateID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, earning.EarningID().String(), found.EarningID().String())
	assert.Equal(t, commission.EarningPending, found.Status())
	assert.True(t, found.OrderTotal().Equal(dec("140")))
	assert.True(t, found.CommissionAmount().Equal(dec("14")))
	assert.Equal(t, commission.CommissionPercentage, found.CommissionType())
	assert.True(t, found.CommissionValue().Equal(dec("10")))

	items := found.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "prod-1", items[0].ProductID)
	assert.True(t, items[0].ValueWithDiscount.Equal(dec("90")))
	assert.True(t, items[0].Amount.Equal(dec("9")))
	assert.Equal(t, commission.SourceDefault, items[0].Source)
	assert.Equal(t, "prod-2", items[1].ProductID)
	assert.True(t, items[1].Amount.Equal(dec("5")))
}

// Test 4: FindByID returns not found for unknown ID
func TestEarningRepository_FindByID_NotFound_ReturnsError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewEarningRepository(db)

	found, err := repo.FindByID(nil, commission.NewEarningID())

	assert.ErrorIs(t, err, commission.ErrEarningNotFound)
	assert.Nil(t, found)
}

// Test 5: Update persists status transitions without touching items
func TestEarningRepository_Update_PersistsStatusTransition(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewEarningRepository(db)

	earning := createTestEarning(t, commission.NewAffiliateID(), commission.NewOrderID(), commission.NewStoreID())
	require.NoError(t, repo.Save(nil, earning))

	// Act: pending → approved
	require.NoError(t, earning.Approve())
	earning.PullEvents()
	require.NoError(t, repo.Update(nil, earning))

	// Assert
	found, err := repo.FindByID(nil, earning.EarningID())
	require.NoError(t, err)
	assert.Equal(t, commission.EarningApproved, found.Status())
	assert.Len(t, found.Items(), 2, "audit items must survive status updates")
}

// Test 6: FindByAffiliate returns earnings newest first
func TestEarningRepository_FindByAffiliate_OrdersNewestFirst(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewEarningRepository(db)

	affiliateID := commission.NewAffiliateID()
	storeID := commission.NewStoreID()

	first := createTestEarning(t, affiliateID, commission.NewOrderID(), storeID)
	require.NoError(t, repo.Save(nil, first))

	time.Sleep(10 * time.Millisecond) // created_at 需要可區分

	second := createTestEarning(t, affiliateID, commission.NewOrderID(), storeID)
	require.NoError(t, repo.Save(nil, second))

	// 另一位夥伴的入帳不應出現在結果中
	require.NoError(t, repo.Save(nil, createTestEarning(t, commission.NewAffiliateID(), commission.NewOrderID(), storeID)))

	// Act
	earnings, err := repo.FindByAffiliate(nil, affiliateID)

	// Assert
	require.NoError(t, err)
	require.Len(t, earnings, 2)
	assert.Equal(t, second.EarningID().String(), earnings[0].EarningID().String())
	assert.Equal(t, first.EarningID().String(), earnings[1].EarningID().String())
}

// Test 7: Corrupted amounts are rejected at reconstruction
func TestEarningRepository_FindByID_CorruptedAmount_ReturnsError(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewEarningRepository(db)

	earning := createTestEarning(t, commission.NewAffiliateID(), commission.NewOrderID(), commission.NewStoreID())
	require.NoError(t, repo.Save(nil, earning))

	// 直接竄改總額，破壞「總額 = 明細加總」的一致性
	err := db.Model(&EarningGORM{}).
		Where("earning_id = ?", earning.EarningID().String()).
		Update("commission_amount", dec("999")).Error
	require.NoError(t, err)

	// Act
	found, err := repo.FindByID(nil, earning.EarningID())

	// Assert
	assert.ErrorIs(t, err, commission.ErrCorruptedEarning)
	assert.Nil(t, found)
}
