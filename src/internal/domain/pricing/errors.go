package pricing

import "fmt"

// ===========================
// 錯誤代碼定義
// ===========================

// ErrorCode Pricing Domain 錯誤代碼類型
type ErrorCode string

// 錯誤代碼常量
const (
	// 折扣規則相關
	ErrCodeInvalidDiscountType  ErrorCode = "DISCOUNT_TYPE_INVALID"
	ErrCodeInvalidDiscountValue ErrorCode = "DISCOUNT_VALUE_INVALID"
	ErrCodeInvalidDiscountRule  ErrorCode = "DISCOUNT_RULE_INVALID"
	ErrCodeDuplicateRule        ErrorCode = "DISCOUNT_RULE_DUPLICATE"

	// 適用範圍相關
	ErrCodeInvalidScopeType ErrorCode = "SCOPE_TYPE_INVALID"

	// 優惠券相關
	ErrCodeInvalidCouponID       ErrorCode = "COUPON_ID_INVALID"
	ErrCodeInvalidStoreID        ErrorCode = "STORE_ID_INVALID"
	ErrCodeInvalidCouponCode     ErrorCode = "COUPON_CODE_INVALID"
	ErrCodeInvalidValidityWindow ErrorCode = "COUPON_VALIDITY_INVALID"
	ErrCodeCouponInactive        ErrorCode = "COUPON_INACTIVE"
	ErrCodeCouponNotYetActive    ErrorCode = "COUPON_NOT_YET_ACTIVE"
	ErrCodeCouponExpired         ErrorCode = "COUPON_EXPIRED"
	ErrCodeCouponUsageExhausted  ErrorCode = "COUPON_USAGE_EXHAUSTED"
)

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
// 設計原則：
// 1. 結構化錯誤代碼（用於上層狀態碼映射與錯誤分類）
// 2. 支持上下文信息（用於調試和日誌）
// 3. 不可變性（WithContext 返回新實例）
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// Error 實現 error 介面
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %+v)", e.Code, e.Message, e.Context)
}

// WithContext 添加上下文信息（返回新的錯誤實例，保持不可變性）
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)

	for k, v := range e.Context {
		ctx[k] = v
	}

	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 實現 errors.Is 介面（按錯誤代碼判斷同類錯誤）
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ===========================
// 預定義錯誤
// ===========================

// 折扣規則相關錯誤
var (
	ErrInvalidDiscountType = &DomainError{
		Code:    ErrCodeInvalidDiscountType,
		Message: "折扣類型必須為 percentage 或 fixed",
	}

	ErrInvalidDiscountValue = &DomainError{
		Code:    ErrCodeInvalidDiscountValue,
		Message: "折扣數值不能為負數",
	}

	ErrInvalidDiscountRule = &DomainError{
		Code:    ErrCodeInvalidDiscountRule,
		Message: "折扣規則缺少對應的商品或分類識別符",
	}

	ErrDuplicateRule = &DomainError{
		Code:    ErrCodeDuplicateRule,
		Message: "同一商品或分類不能有重複的折扣規則",
	}
)

// 適用範圍相關錯誤
var (
	ErrInvalidScopeType = &DomainError{
		Code:    ErrCodeInvalidScopeType,
		Message: "適用範圍必須為 all、category 或 product",
	}
)

// 優惠券相關錯誤
var (
	ErrInvalidCouponID = &DomainError{
		Code:    ErrCodeInvalidCouponID,
		Message: "無效的優惠券 ID",
	}

	ErrInvalidStoreID = &DomainError{
		Code:    ErrCodeInvalidStoreID,
		Message: "無效的商店 ID",
	}

	ErrInvalidCouponCode = &DomainError{
		Code:    ErrCodeInvalidCouponCode,
		Message: "優惠碼不能為空",
	}

	ErrInvalidValidityWindow = &DomainError{
		Code:    ErrCodeInvalidValidityWindow,
		Message: "優惠券失效時間必須晚於生效時間",
	}

	ErrCouponInactive = &DomainError{
		Code:    ErrCodeCouponInactive,
		Message: "優惠券已停用",
	}

	ErrCouponNotYetActive = &DomainError{
		Code:    ErrCodeCouponNotYetActive,
		Message: "優惠券尚未生效",
	}

	ErrCouponExpired = &DomainError{
		Code:    ErrCodeCouponExpired,
		Message: "優惠券已過期",
	}

	ErrCouponUsageExhausted = &DomainError{
		Code:    ErrCodeCouponUsageExhausted,
		Message: "優惠券使用次數已達上限",
	}
)
