package pricing_test

import (
	"testing"

	"github.com/jackyeh168/shop_crm/src/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allScope(t *testing.T) pricing.Scope {
	t.Helper()
	return pricing.ScopeAllItems()
}

func categoryScope(t *testing.T, categories ...string) pricing.Scope {
	t.Helper()
	scope, err := pricing.NewScope(pricing.ScopeCategory, categories, nil)
	require.NoError(t, err)
	return scope
}

// ===== CalculateDiscount 範圍小計折扣測試 =====

// Test 1: 邊界情況矩陣
func TestDiscountService_CalculateDiscount_Boundaries(t *testing.T) {
	service := pricing.NewDiscountService()

	tests := []struct {
		name         string
		subtotal     string
		discountType pricing.DiscountType
		value        string
		expected     string
	}{
		{"小計為零不給折扣", "0", pricing.DiscountPercentage, "50", "0"},
		{"小計為負不給折扣", "-10", pricing.DiscountPercentage, "50", "0"},
		{"折扣數值為零不給折扣", "100", pricing.DiscountPercentage, "0", "0"},
		{"折扣數值為負不給折扣", "100", pricing.DiscountFixed, "-5", "0"},
		{"百分比正常計算", "200", pricing.DiscountPercentage, "15", "30"},
		{"百分比超過 100 上限為小計", "100", pricing.DiscountPercentage, "150", "100"},
		{"固定金額正常計算", "100", pricing.DiscountFixed, "30", "30"},
		{"固定金額超過小計上限為小計", "100", pricing.DiscountFixed, "250", "100"},
		{"未知折扣類型歸零", "100", pricing.DiscountType("bogo"), "50", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			discount := service.CalculateDiscount(dec(tt.subtotal), tt.discountType, dec(tt.value))

			// Assert
			assert.True(t, dec(tt.expected).Equal(discount),
				"expected %s, got %s", tt.expected, discount)
		})
	}
}

// ===== CalculateItemDiscount 單品折扣測試 =====

// Test 2: 範圍不符的品項折扣為零
func TestDiscountService_CalculateItemDiscount_IneligibleItem(t *testing.T) {
	// Arrange：優惠券只適用 categoria1，品項屬於 categoria2
	service := pricing.NewDiscountService()
	scope := categoryScope(t, "categoria1")
	item := pricing.LineItem{ProductID: "prod-1", Category: "categoria2", BasePrice: dec("100"), Quantity: 1}

	// Act
	result := service.CalculateItemDiscount(
		item, scope, pricing.DiscountPercentage, dec("50"),
		[]pricing.LineItem{item}, nil,
	)

	// Assert
	assert.False(t, result.Eligible)
	assert.True(t, result.Discount.IsZero())
	assert.Nil(t, result.UsedRule)
}

// Test 3: 商品級規則覆蓋分類級規則與預設折扣
func TestDiscountService_CalculateItemDiscount_RuleHierarchy(t *testing.T) {
	// Arrange：預設 5%、分類規則 10%、商品規則 20% 同時存在
	service := pricing.NewDiscountService()
	categoryRule, err := pricing.NewCategoryDiscountRule("categoria1", pricing.DiscountPercentage, dec("10"))
	require.NoError(t, err)
	productRule, err := pricing.NewProductDiscountRule("prod-1", pricing.DiscountPercentage, dec("20"))
	require.NoError(t, err)
	rules := []pricing.DiscountRule{categoryRule, productRule}

	item := pricing.LineItem{ProductID: "prod-1", Category: "categoria1", BasePrice: dec("100"), Quantity: 1}

	// Act
	result := service.CalculateItemDiscount(
		item, allScope(t), pricing.DiscountPercentage, dec("5"),
		[]pricing.LineItem{item}, rules,
	)

	// Assert：商品級規則 20% 勝出 → 折扣 20
	require.True(t, result.Eligible)
	assert.True(t, dec("20").Equal(result.Discount), "got %s", result.Discount)
	require.NotNil(t, result.UsedRule)
	assert.Equal(t, pricing.RuleKindProduct, result.UsedRule.Kind())
}

// Test 4: 無特定規則時回落到預設折扣
func TestDiscountService_CalculateItemDiscount_DefaultFallback(t *testing.T) {
	service := pricing.NewDiscountService()
	productRule, err := pricing.NewProductDiscountRule("prod-1", pricing.DiscountPercentage, dec("20"))
	require.NoError(t, err)

	// prod-2 不被任何規則覆蓋 → 預設 10%
	item := pricing.LineItem{ProductID: "prod-2", BasePrice: dec("80"), Quantity: 1}

	result := service.CalculateItemDiscount(
		item, allScope(t), pricing.DiscountPercentage, dec("10"),
		[]pricing.LineItem{item}, []pricing.DiscountRule{productRule},
	)

	require.True(t, result.Eligible)
	assert.True(t, dec("8").Equal(result.Discount), "got %s", result.Discount)
	assert.Nil(t, result.UsedRule)
}

// Test 5: 固定金額預設折扣按比例分攤（精確加總）
//
// 購物車 [100, 200]、預設固定折扣 50：
//   品項一分攤 100/300 × 50 = 16.666...
//   品項二分攤 200/300 × 50 = 33.333...
// 全精度加總必須恰好等於 50，不多一分也不少一分。
func TestDiscountService_CalculateItemDiscount_FixedProportionalSplit(t *testing.T) {
	// Arrange
	service := pricing.NewDiscountService()
	itemA := pricing.LineItem{ProductID: "prod-a", BasePrice: dec("100"), Quantity: 1}
	itemB := pricing.LineItem{ProductID: "prod-b", BasePrice: dec("200"), Quantity: 1}
	cart := []pricing.LineItem{itemA, itemB}

	// Act
	resultA := service.CalculateItemDiscount(itemA, allScope(t), pricing.DiscountFixed, dec("50"), cart, nil)
	resultB := service.CalculateItemDiscount(itemB, allScope(t), pricing.DiscountFixed, dec("50"), cart, nil)

	// Assert：捨入到分後分別為 16.67 / 33.33
	assert.True(t, dec("16.67").Equal(pricing.RoundCurrency(resultA.Discount)),
		"item A rounded share: got %s", pricing.RoundCurrency(resultA.Discount))
	assert.True(t, dec("33.33").Equal(pricing.RoundCurrency(resultB.Discount)),
		"item B rounded share: got %s", pricing.RoundCurrency(resultB.Discount))

	// 全精度加總恰好等於折扣面額
	total := resultA.Discount.Add(resultB.Discount)
	assert.True(t, dec("50").Equal(total), "full precision sum: got %s", total)
}

// Test 6: 分攤池的不對稱性 — 規則池與預設池互不稀釋
func TestDiscountService_CalculateItemDiscount_PoolAsymmetry(t *testing.T) {
	// Arrange：
	//   categoria1 固定折扣規則 30 → 只在 categoria1 品項間分攤
	//   預設固定折扣 20 → 只在「無特定規則」品項間分攤
	service := pricing.NewDiscountService()
	categoryRule, err := pricing.NewCategoryDiscountRule("categoria1", pricing.DiscountFixed, dec("30"))
	require.NoError(t, err)
	rules := []pricing.DiscountRule{categoryRule}

	ruled1 := pricing.LineItem{ProductID: "prod-1", Category: "categoria1", BasePrice: dec("60"), Quantity: 1}
	ruled2 := pricing.LineItem{ProductID: "prod-2", Category: "categoria1", BasePrice: dec("40"), Quantity: 1}
	unruled := pricing.LineItem{ProductID: "prod-3", Category: "categoria2", BasePrice: dec("200"), Quantity: 1}
	cart := []pricing.LineItem{ruled1, ruled2, unruled}

	// Act
	r1 := service.CalculateItemDiscount(ruled1, allScope(t), pricing.DiscountFixed, dec("20"), cart, rules)
	r2 := service.CalculateItemDiscount(ruled2, allScope(t), pricing.DiscountFixed, dec("20"), cart, rules)
	r3 := service.CalculateItemDiscount(unruled, allScope(t), pricing.DiscountFixed, dec("20"), cart, rules)

	// Assert：規則池 = 60 + 40 = 100，unruled 的 200 不稀釋它
	assert.True(t, dec("18").Equal(r1.Discount), "ruled1: got %s", r1.Discount)
	assert.True(t, dec("12").Equal(r2.Discount), "ruled2: got %s", r2.Discount)

	// 預設池只有 unruled 一個品項 → 整筆 20 歸它
	assert.True(t, dec("20").Equal(r3.Discount), "unruled: got %s", r3.Discount)
	assert.Nil(t, r3.UsedRule)
}

// Test 7: 百分比規則各品項獨立計算，不經過分攤池
func TestDiscountService_CalculateItemDiscount_PercentageIsPerItem(t *testing.T) {
	service := pricing.NewDiscountService()
	categoryRule, err := pricing.NewCategoryDiscountRule("categoria1", pricing.DiscountPercentage, dec("10"))
	require.NoError(t, err)
	rules := []pricing.DiscountRule{categoryRule}

	itemA := pricing.LineItem{ProductID: "prod-1", Category: "categoria1", BasePrice: dec("100"), Quantity: 1}
	itemB := pricing.LineItem{ProductID: "prod-2", Category: "categoria1", BasePrice: dec("300"), Quantity: 1}
	cart := []pricing.LineItem{itemA, itemB}

	rA := service.CalculateItemDiscount(itemA, allScope(t), pricing.DiscountPercentage, dec("0"), cart, rules)
	rB := service.CalculateItemDiscount(itemB, allScope(t), pricing.DiscountPercentage, dec("0"), cart, rules)

	assert.True(t, dec("10").Equal(rA.Discount), "got %s", rA.Discount)
	assert.True(t, dec("30").Equal(rB.Discount), "got %s", rB.Discount)
}

// Test 8: 固定金額分攤池小計為零時歸零（不除以零）
func TestDiscountService_CalculateItemDiscount_ZeroPoolYieldsZero(t *testing.T) {
	service := pricing.NewDiscountService()

	// 免費品項：小計為 0 → 池總小計為 0
	freeItem := pricing.LineItem{ProductID: "prod-1", BasePrice: dec("0"), Quantity: 1}

	result := service.CalculateItemDiscount(
		freeItem, allScope(t), pricing.DiscountFixed, dec("50"),
		[]pricing.LineItem{freeItem}, nil,
	)

	require.True(t, result.Eligible)
	assert.True(t, result.Discount.IsZero())
}

// ===== CalculateEligibleSubtotal 測試 =====

// Test 9: 符合範圍小計與品項清單
func TestDiscountService_CalculateEligibleSubtotal(t *testing.T) {
	// Arrange：範圍限定 categoria1，一個品項不符
	service := pricing.NewDiscountService()
	scope := categoryScope(t, "categoria1")

	items := []pricing.LineItem{
		{ProductID: "prod-1", Category: "categoria1", BasePrice: dec("100"), Quantity: 1},
		{ProductID: "prod-2", Category: "Categoria1", BasePrice: dec("50"), Quantity: 2}, // 大小寫不同仍符合
		{ProductID: "prod-3", Category: "categoria2", BasePrice: dec("999"), Quantity: 1},
	}

	// Act
	subtotal, eligible := service.CalculateEligibleSubtotal(items, scope)

	// Assert
	assert.True(t, dec("200").Equal(subtotal), "got %s", subtotal)
	require.Len(t, eligible, 2)
	assert.Equal(t, "prod-1", eligible[0].ProductID)
	assert.Equal(t, "prod-2", eligible[1].ProductID)
}

// ===== CalculateTotalDiscount 測試 =====

// Test 10: 不符合範圍的品項貢獻零折扣
func TestDiscountService_CalculateTotalDiscount_IneligibleItemContributesZero(t *testing.T) {
	// Arrange：categoria1 範圍 20% 折扣，categoria2 品項必須不動
	service := pricing.NewDiscountService()
	scope := categoryScope(t, "categoria1")

	items := []pricing.LineItem{
		{ProductID: "prod-1", Category: "categoria1", BasePrice: dec("150"), Quantity: 1},
		{ProductID: "prod-2", Category: "categoria2", BasePrice: dec("400"), Quantity: 1},
	}

	// Act
	total := service.CalculateTotalDiscount(items, scope, pricing.DiscountPercentage, dec("20"), nil)

	// Assert：只有 prod-1 打折 → 150 × 20% = 30
	assert.True(t, dec("30").Equal(total), "got %s", total)
}

// Test 11: 計算是冪等的 — 同輸入反覆調用結果恆定
func TestDiscountService_CalculateTotalDiscount_Idempotent(t *testing.T) {
	service := pricing.NewDiscountService()
	productRule, err := pricing.NewProductDiscountRule("prod-1", pricing.DiscountFixed, dec("15"))
	require.NoError(t, err)

	items := []pricing.LineItem{
		{ProductID: "prod-1", BasePrice: dec("100"), Quantity: 1},
		{ProductID: "prod-2", BasePrice: dec("80"), Quantity: 3},
	}

	var results []decimal.Decimal
	for i := 0; i < 5; i++ {
		results = append(results, service.CalculateTotalDiscount(
			items, allScope(t), pricing.DiscountPercentage, dec("10"),
			[]pricing.DiscountRule{productRule},
		))
	}

	for i := 1; i < len(results); i++ {
		assert.True(t, results[0].Equal(results[i]),
			"call %d diverged: %s vs %s", i, results[0], results[i])
	}
}

// Test 12: 固定金額超過池小計時上限為池小計（整車不會折成負數）
func TestDiscountService_CalculateTotalDiscount_FixedCappedAtPool(t *testing.T) {
	service := pricing.NewDiscountService()

	items := []pricing.LineItem{
		{ProductID: "prod-1", BasePrice: dec("30"), Quantity: 1},
		{ProductID: "prod-2", BasePrice: dec("20"), Quantity: 1},
	}

	// 預設固定折扣 500 遠大於小計 50 → 總折扣恰好 50
	total := service.CalculateTotalDiscount(items, allScope(t), pricing.DiscountFixed, dec("500"), nil)

	assert.True(t, dec("50").Equal(total), "got %s", total)
}
