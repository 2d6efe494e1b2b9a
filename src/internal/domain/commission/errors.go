package commission

import "fmt"

// ===========================
// 錯誤代碼定義
// ===========================

// ErrorCode Commission Domain 錯誤代碼類型
type ErrorCode string

// 錯誤代碼常量
const (
	// 佣金規則相關
	ErrCodeInvalidCommissionType  ErrorCode = "COMMISSION_TYPE_INVALID"
	ErrCodeInvalidCommissionValue ErrorCode = "COMMISSION_VALUE_INVALID"
	ErrCodeInvalidCommissionRule  ErrorCode = "COMMISSION_RULE_INVALID"
	ErrCodeDuplicateRule          ErrorCode = "COMMISSION_RULE_DUPLICATE"

	// 聯盟夥伴相關
	ErrCodeInvalidAffiliateID  ErrorCode = "AFFILIATE_ID_INVALID"
	ErrCodeInvalidStoreID      ErrorCode = "AFFILIATE_STORE_ID_INVALID"
	ErrCodeInvalidReferralCode ErrorCode = "REFERRAL_CODE_INVALID"
	ErrCodeInvalidDisplayName  ErrorCode = "AFFILIATE_DISPLAY_NAME_INVALID"

	// 佣金入帳相關
	ErrCodeInvalidEarningID        ErrorCode = "EARNING_ID_INVALID"
	ErrCodeInvalidOrderID          ErrorCode = "ORDER_ID_INVALID"
	ErrCodeInvalidStatusTransition ErrorCode = "EARNING_STATUS_TRANSITION_INVALID"
	ErrCodeCorruptedEarning        ErrorCode = "EARNING_CORRUPTED"
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

// 佣金規則相關錯誤
var (
	ErrInvalidCommissionType = &DomainError{
		Code:    ErrCodeInvalidCommissionType,
		Message: "佣金類型必須為 percentage 或 fixed",
	}

	ErrInvalidCommissionValue = &DomainError{
		Code:    ErrCodeInvalidCommissionValue,
		Message: "佣金數值不能為負數",
	}

	ErrInvalidCommissionRule = &DomainError{
		Code:    ErrCodeInvalidCommissionRule,
		Message: "佣金規則缺少對應的商品或分類識別符",
	}

	ErrDuplicateRule = &DomainError{
		Code:    ErrCodeDuplicateRule,
		Message: "同一商品或分類不能有重複的佣金規則",
	}
)

// 聯盟夥伴相關錯誤
var (
	ErrInvalidAffiliateID = &DomainError{
		Code:    ErrCodeInvalidAffiliateID,
		Message: "無效的聯盟夥伴 ID",
	}

	ErrInvalidStoreID = &DomainError{
		Code:    ErrCodeInvalidStoreID,
		Message: "無效的商店 ID",
	}

	ErrInvalidReferralCode = &DomainError{
		Code:    ErrCodeInvalidReferralCode,
		Message: "推薦碼格式錯誤（AF- 開頭 + 8 位大寫英數字）",
	}

	ErrInvalidDisplayName = &DomainError{
		Code:    ErrCodeInvalidDisplayName,
		Message: "顯示名稱不能為空",
	}
)

// 佣金入帳相關錯誤
var (
	ErrInvalidEarningID = &DomainError{
		Code:    ErrCodeInvalidEarningID,
		Message: "無效的佣金入帳 ID",
	}

	ErrInvalidOrderID = &DomainError{
		Code:    ErrCodeInvalidOrderID,
		Message: "無效的訂單 ID",
	}

	ErrInvalidStatusTransition = &DomainError{
		Code:    ErrCodeInvalidStatusTransition,
		Message: "不允許的佣金入帳狀態轉換",
	}

	ErrCorruptedEarning = &DomainError{
		Code:    ErrCodeCorruptedEarning,
		Message: "資料庫中的佣金入帳記錄損壞",
	}
)
