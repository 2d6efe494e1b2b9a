package pricing

import (
	"fmt"
	"time"

	"github.com/jackyeh168/shop_crm/src/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// ===========================
// UC-101: QuoteCartDiscount Use Case
// ===========================

// CartItemInput 購物車品項輸入（Input DTO）
//
// 設計原則：
// - 結構對齊儲存前端送來的購物車 payload，由 Use Case 轉換為領域值對象
// - 金額欄位使用 decimal，避免在應用層邊界引入浮點誤差
type CartItemInput struct {
	ProductID        string
	ProductName      string
	Category         string // 空字串表示無分類
	BasePrice        decimal.Decimal
	PromotionalPrice *decimal.Decimal
	SizePrice        *decimal.Decimal
	Quantity         int
	Addons           []AddonInput
	Flavors          []FlavorInput
	ColorPrice       *decimal.Decimal
}

// AddonInput 加料輸入
type AddonInput struct {
	Price    decimal.Decimal
	Quantity int
}

// FlavorInput 口味加價輸入
type FlavorInput struct {
	Price decimal.Decimal
}

// QuoteCartDiscountQuery 購物車折扣試算查詢
type QuoteCartDiscountQuery struct {
	StoreID    string
	CouponCode string
	At         time.Time // 零值表示以當下時間判斷可用性
	Items      []CartItemInput
}

// DiscountLine 單一品項的折扣試算結果行
type DiscountLine struct {
	ProductID   string
	ProductName string
	Eligible    bool
	Subtotal    decimal.Decimal // 捨入到 2 位
	Discount    decimal.Decimal // 捨入到 2 位（含尾差修正）
	RuleKind    string          // "product" / "category"，空字串表示預設折扣或不適用
}

// QuoteCartDiscountResult 購物車折扣試算結果（Output DTO）
type QuoteCartDiscountResult struct {
	CouponID         string
	CouponCode       string
	Lines            []DiscountLine
	EligibleSubtotal decimal.Decimal
	TotalDiscount    decimal.Decimal
}

// QuoteCartDiscountUseCase 購物車折扣試算 Use Case 接口
//
// 使用場景：
// - 結帳頁輸入優惠碼後的即時試算
// - 訂單成立前的最終折扣確認（佣金管線以同一條路徑取得折後金額）
type QuoteCartDiscountUseCase interface {
	Execute(query QuoteCartDiscountQuery) (*QuoteCartDiscountResult, error)
}

// ===========================
// QuoteCartDiscountUseCaseImpl
// ===========================

// QuoteCartDiscountUseCaseImpl 購物車折扣試算 Use Case 實作
//
// 職責：
// 1. 驗證輸入並載入優惠券（商店 + 優惠碼）
// 2. 檢查優惠券可用性（啟用 / 窗口 / 次數）
// 3. 委託 DiscountService 逐品項計算折扣
// 4. 在結果邊界捨入金額，並修正固定折扣分攤的捨入尾差
//
// 純讀取操作，不開啟事務（Repository 讀操作接受 nil context）。
type QuoteCartDiscountUseCaseImpl struct {
	couponRepo      pricing.CouponRepository
	discountService *pricing.DiscountService
}

// NewQuoteCartDiscountUseCase 創建 QuoteCartDiscountUseCase 實例
func NewQuoteCartDiscountUseCase(
	couponRepo pricing.CouponRepository,
	discountService *pricing.DiscountService,
) QuoteCartDiscountUseCase {
	return &QuoteCartDiscountUseCaseImpl{
		couponRepo:      couponRepo,
		discountService: discountService,
	}
}

// Execute 執行購物車折扣試算
//
// 業務流程：
// 1. 驗證 StoreID 並載入優惠券
// 2. EnsureUsableAt 檢查可用性（失敗直接返回領域錯誤，
//    上層據錯誤碼顯示「已過期 / 次數用盡」等訊息）
// 3. 逐品項計算折扣（全精度），同時累計符合範圍小計
// 4. 邊界捨入 + 尾差修正：固定折扣分攤的各行捨入值加總
//    可能與總折扣的捨入值差一分，把差額併入折扣最大的那一行，
//    保證 Σ行折扣 == 總折扣 恆成立
func (uc *QuoteCartDiscountUseCaseImpl) Execute(query QuoteCartDiscountQuery) (*QuoteCartDiscountResult, error) {
	// Step 1: 驗證輸入並載入優惠券
	storeID, err := pricing.StoreIDFromString(query.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store ID: %w", err)
	}

	coupon, err := uc.couponRepo.FindByCode(nil, storeID, query.CouponCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}

	// Step 2: 可用性檢查
	at := query.At
	if at.IsZero() {
		at = time.Now()
	}
	if err := coupon.EnsureUsableAt(at); err != nil {
		return nil, err
	}

	// Step 3: 逐品項計算（全精度）
	items := toLineItems(query.Items)
	scope := coupon.Scope()
	rules := coupon.Rules()

	eligibleSubtotal, _ := uc.discountService.CalculateEligibleSubtotal(items, scope)

	lines := make([]DiscountLine, 0, len(items))
	rawDiscounts := make([]decimal.Decimal, 0, len(items))
	totalDiscount := decimal.Zero

	for i, item := range items {
		result := uc.discountService.CalculateItemDiscount(
			item, scope,
			coupon.DefaultDiscountType(), coupon.DefaultDiscountValue(),
			items, rules,
		)

		ruleKind := ""
		if result.UsedRule != nil {
			ruleKind = string(result.UsedRule.Kind())
		}

		lines = append(lines, DiscountLine{
			ProductID:   query.Items[i].ProductID,
			ProductName: query.Items[i].ProductName,
			Eligible:    result.Eligible,
			Subtotal:    pricing.RoundCurrency(item.Subtotal()),
			Discount:    pricing.RoundCurrency(result.Discount),
			RuleKind:    ruleKind,
		})
		rawDiscounts = append(rawDiscounts, result.Discount)
		totalDiscount = totalDiscount.Add(result.Discount)
	}

	// Step 4: 邊界捨入 + 尾差修正
	roundedTotal := pricing.RoundCurrency(totalDiscount)
	repairRoundingDrift(lines, rawDiscounts, roundedTotal)

	return &QuoteCartDiscountResult{
		CouponID:         coupon.CouponID().String(),
		CouponCode:       coupon.Code(),
		Lines:            lines,
		EligibleSubtotal: pricing.RoundCurrency(eligibleSubtotal),
		TotalDiscount:    roundedTotal,
	}, nil
}

// toLineItems 將輸入 DTO 轉換為領域品項
func toLineItems(inputs []CartItemInput) []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(inputs))
	for _, in := range inputs {
		addons := make([]pricing.Addon, 0, len(in.Addons))
		for _, a := range in.Addons {
			addons = append(addons, pricing.Addon{Price: a.Price, Quantity: a.Quantity})
		}
		flavors := make([]pricing.Flavor, 0, len(in.Flavors))
		for _, f := range in.Flavors {
			flavors = append(flavors, pricing.Flavor{Price: f.Price})
		}
		var color *pricing.ColorOption
		if in.ColorPrice != nil {
			color = &pricing.ColorOption{Price: *in.ColorPrice}
		}

		items = append(items, pricing.LineItem{
			ProductID:        in.ProductID,
			ProductName:      in.ProductName,
			Category:         in.Category,
			BasePrice:        in.BasePrice,
			PromotionalPrice: in.PromotionalPrice,
			SizePrice:        in.SizePrice,
			Quantity:         in.Quantity,
			Addons:           addons,
			Flavors:          flavors,
			Color:            color,
		})
	}
	return items
}

// repairRoundingDrift 修正各行捨入折扣與總折扣捨入值之間的尾差
//
// 固定折扣按比例分攤後，各行獨立捨入到分的加總可能與
// 總折扣的捨入值差正負一分。把差額併入全精度折扣最大的那一行 —
// 相對誤差最小，且對同一輸入是確定性的。
func repairRoundingDrift(lines []DiscountLine, rawDiscounts []decimal.Decimal, roundedTotal decimal.Decimal) {
	if len(lines) == 0 {
		return
	}

	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Discount)
	}

	drift := roundedTotal.Sub(sum)
	if drift.IsZero() {
		return
	}

	largest := 0
	for i := 1; i < len(rawDiscounts); i++ {
		if rawDiscounts[i].GreaterThan(rawDiscounts[largest]) {
			largest = i
		}
	}
	lines[largest].Discount = lines[largest].Discount.Add(drift)
}
