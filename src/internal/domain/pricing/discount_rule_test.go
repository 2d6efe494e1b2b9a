package pricing_test

import (
	"testing"

	"github.com/jackyeh168/shop_crm/src/internal/domain/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== DiscountRule 建構驗證測試 =====

// Test 1: 商品級規則建構驗證
func TestNewProductDiscountRule_Validation(t *testing.T) {
	tests := []struct {
		name         string
		productID    string
		discountType pricing.DiscountType
		value        string
		expectedErr  *pricing.DomainError
	}{
		{"合法的百分比規則", "prod-1", pricing.DiscountPercentage, "10", nil},
		{"合法的固定金額規則", "prod-1", pricing.DiscountFixed, "50", nil},
		{"商品 ID 為空", "", pricing.DiscountPercentage, "10", pricing.ErrInvalidDiscountRule},
		{"未知折扣類型", "prod-1", pricing.DiscountType("bogo"), "10", pricing.ErrInvalidDiscountType},
		{"折扣數值為負", "prod-1", pricing.DiscountFixed, "-1", pricing.ErrInvalidDiscountValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rule, err := pricing.NewProductDiscountRule(tt.productID, tt.discountType, dec(tt.value))

			// Assert
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, pricing.RuleKindProduct, rule.Kind())
			assert.Equal(t, tt.productID, rule.ProductID())
		})
	}
}

// Test 2: 分類級規則建構時正規化分類名稱
func TestNewCategoryDiscountRule_NormalizesCategory(t *testing.T) {
	// Act
	rule, err := pricing.NewCategoryDiscountRule(" Categoria1 ", pricing.DiscountPercentage, dec("20"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "categoria1", rule.CategoryName())

	// 正規化後為空 → 建構失敗
	_, err = pricing.NewCategoryDiscountRule("   ", pricing.DiscountPercentage, dec("20"))
	assert.ErrorIs(t, err, pricing.ErrInvalidDiscountRule)
}

// Test 3: MatchesItem 匹配語義
func TestDiscountRule_MatchesItem(t *testing.T) {
	productRule, err := pricing.NewProductDiscountRule("prod-1", pricing.DiscountPercentage, dec("10"))
	require.NoError(t, err)
	categoryRule, err := pricing.NewCategoryDiscountRule("categoria1", pricing.DiscountPercentage, dec("20"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		rule     pricing.DiscountRule
		item     pricing.LineItem
		expected bool
	}{
		{"商品級規則精確匹配", productRule, pricing.LineItem{ProductID: "prod-1"}, true},
		{"商品級規則不匹配其他商品", productRule, pricing.LineItem{ProductID: "prod-2"}, false},
		{"分類級規則不分大小寫匹配", categoryRule, pricing.LineItem{ProductID: "p", Category: "CATEGORIA1"}, true},
		{"分類級規則不匹配無分類品項", categoryRule, pricing.LineItem{ProductID: "p"}, false},
		{"零值規則永遠不匹配", pricing.DiscountRule{}, pricing.LineItem{ProductID: "prod-1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rule.MatchesItem(tt.item))
		})
	}
}

// ===== 規則層級查找測試 =====

// Test 4: 商品級規則優先於分類級規則
func TestFindItemDiscountRule_ProductBeatsCategory(t *testing.T) {
	// Arrange：同一品項同時被商品級與分類級規則覆蓋
	categoryRule, err := pricing.NewCategoryDiscountRule("categoria1", pricing.DiscountPercentage, dec("50"))
	require.NoError(t, err)
	productRule, err := pricing.NewProductDiscountRule("prod-1", pricing.DiscountPercentage, dec("10"))
	require.NoError(t, err)

	// 分類規則排在前面，仍然是商品規則勝出
	rules := []pricing.DiscountRule{categoryRule, productRule}
	item := pricing.LineItem{ProductID: "prod-1", Category: "categoria1", BasePrice: dec("100"), Quantity: 1}

	// Act
	found, ok := pricing.FindItemDiscountRule(item, rules)

	// Assert
	require.True(t, ok)
	assert.Equal(t, pricing.RuleKindProduct, found.Kind())
	assert.Equal(t, "prod-1", found.ProductID())
}

// Test 5: 無匹配規則時回落
func TestFindItemDiscountRule_NoMatch(t *testing.T) {
	productRule, err := pricing.NewProductDiscountRule("prod-1", pricing.DiscountPercentage, dec("10"))
	require.NoError(t, err)

	item := pricing.LineItem{ProductID: "prod-9", BasePrice: dec("100"), Quantity: 1}

	found, ok := pricing.FindItemDiscountRule(item, []pricing.DiscountRule{productRule})

	assert.False(t, ok)
	assert.True(t, found.IsZero())
}

// Test 6: SameTarget 判定
func TestDiscountRule_SameTarget(t *testing.T) {
	productA10, _ := pricing.NewProductDiscountRule("prod-1", pricing.DiscountPercentage, dec("10"))
	productA20, _ := pricing.NewProductDiscountRule("prod-1", pricing.DiscountFixed, dec("20"))
	productB, _ := pricing.NewProductDiscountRule("prod-2", pricing.DiscountPercentage, dec("10"))
	categoryA, _ := pricing.NewCategoryDiscountRule("categoria1", pricing.DiscountPercentage, dec("10"))
	categoryAUpper, _ := pricing.NewCategoryDiscountRule("CATEGORIA1", pricing.DiscountFixed, dec("5"))

	// 同一商品、不同折扣內容 → 同一目標
	assert.True(t, productA10.SameTarget(productA20))
	// 不同商品 → 不同目標
	assert.False(t, productA10.SameTarget(productB))
	// 分類正規化後相等 → 同一目標
	assert.True(t, categoryA.SameTarget(categoryAUpper))
	// 種類不同 → 不同目標
	assert.False(t, productA10.SameTarget(categoryA))
}
