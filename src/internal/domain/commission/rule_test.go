package commission_test

import (
	"testing"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== CommissionRule 建構驗證測試 =====

// Test 1: 商品級規則建構驗證
func TestNewProductCommissionRule_Validation(t *testing.T) {
	tests := []struct {
		name           string
		productID      string
		commissionType commission.CommissionType
		value          string
		expectedErr    *commission.DomainError
	}{
		{"合法的百分比規則", "prod-1", commission.CommissionPercentage, "20", nil},
		{"超過 100% 仍是合法配置", "prod-1", commission.CommissionPercentage, "150", nil},
		{"合法的固定金額規則", "prod-1", commission.CommissionFixed, "5", nil},
		{"商品 ID 為空", "", commission.CommissionPercentage, "20", commission.ErrInvalidCommissionRule},
		{"未知佣金類型", "prod-1", commission.CommissionType("tiered"), "20", commission.ErrInvalidCommissionType},
		{"佣金數值為負", "prod-1", commission.CommissionFixed, "-1", commission.ErrInvalidCommissionValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rule, err := commission.NewProductCommissionRule(tt.productID, tt.commissionType, dec(tt.value))

			// Assert
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, commission.RuleKindProduct, rule.Kind())
			assert.True(t, rule.IsActive(), "新規則預設啟用")
		})
	}
}

// Test 2: 分類級規則正規化分類名稱
func TestNewCategoryCommissionRule_NormalizesCategory(t *testing.T) {
	rule, err := commission.NewCategoryCommissionRule(" Categoria1 ", commission.CommissionPercentage, dec("15"))
	require.NoError(t, err)
	assert.Equal(t, "categoria1", rule.CategoryName())

	_, err = commission.NewCategoryCommissionRule("   ", commission.CommissionPercentage, dec("15"))
	assert.ErrorIs(t, err, commission.ErrInvalidCommissionRule)
}

// Test 3: 匹配語義
func TestCommissionRule_Matching(t *testing.T) {
	productRule, err := commission.NewProductCommissionRule("prod-1", commission.CommissionPercentage, dec("20"))
	require.NoError(t, err)
	categoryRule, err := commission.NewCategoryCommissionRule("categoria1", commission.CommissionPercentage, dec("15"))
	require.NoError(t, err)

	// 商品匹配
	assert.True(t, productRule.MatchesProduct("prod-1"))
	assert.False(t, productRule.MatchesProduct("prod-2"))
	assert.False(t, categoryRule.MatchesProduct("prod-1"), "分類規則不匹配商品層")

	// 分類匹配（不分大小寫）
	assert.True(t, categoryRule.MatchesCategory("CATEGORIA1"))
	assert.True(t, categoryRule.MatchesCategory(" categoria1 "))
	assert.False(t, categoryRule.MatchesCategory("categoria2"))
	assert.False(t, categoryRule.MatchesCategory(""), "空分類永遠不匹配")
	assert.False(t, productRule.MatchesCategory("categoria1"), "商品規則不匹配分類層")
}

// Test 4: WithActive 保持不可變性
func TestCommissionRule_WithActive_Immutable(t *testing.T) {
	rule, err := commission.NewProductCommissionRule("prod-1", commission.CommissionPercentage, dec("20"))
	require.NoError(t, err)

	// Act
	deactivated := rule.WithActive(false)

	// Assert：原值不受影響
	assert.True(t, rule.IsActive())
	assert.False(t, deactivated.IsActive())
	assert.True(t, rule.SameTarget(deactivated), "啟用狀態不影響目標身份")
}

// Test 5: SameTarget 判定
func TestCommissionRule_SameTarget(t *testing.T) {
	productA, _ := commission.NewProductCommissionRule("prod-1", commission.CommissionPercentage, dec("20"))
	productASmaller, _ := commission.NewProductCommissionRule("prod-1", commission.CommissionFixed, dec("2"))
	productB, _ := commission.NewProductCommissionRule("prod-2", commission.CommissionPercentage, dec("20"))
	categoryA, _ := commission.NewCategoryCommissionRule("categoria1", commission.CommissionPercentage, dec("15"))
	categoryAUpper, _ := commission.NewCategoryCommissionRule("CATEGORIA1", commission.CommissionPercentage, dec("30"))

	assert.True(t, productA.SameTarget(productASmaller))
	assert.False(t, productA.SameTarget(productB))
	assert.True(t, categoryA.SameTarget(categoryAUpper))
	assert.False(t, productA.SameTarget(categoryA))
}

// Test 6: DefaultCommission 生效判定
func TestDefaultCommission_IsEffective(t *testing.T) {
	tests := []struct {
		name       string
		useDefault bool
		value      string
		expected   bool
	}{
		{"啟用且數值為正", true, "10", true},
		{"啟用但數值為零", true, "0", false},
		{"未啟用", false, "10", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := commission.NewDefaultCommission(tt.useDefault, commission.CommissionPercentage, dec(tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.IsEffective())
		})
	}
}
