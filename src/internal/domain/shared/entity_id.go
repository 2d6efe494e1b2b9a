package shared

import (
	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 泛型實體 ID 值對象
//
// 設計原則：
// 1. 使用泛型消除各 bounded context 重複的 ID 包裝代碼（DRY）
// 2. 類型安全：CouponID 與 AffiliateID 是不同類型，編譯器禁止混用
// 3. 不可變（unexported field）、自我驗證（建構時檢查）
//
// 泛型參數 T 是標記類型（marker type），不需要任何方法或字段，
// 只用於編譯期區分不同實體的 ID。
//
// 使用範例：
//   type CouponMarker struct{}
//   type CouponID = shared.EntityID[CouponMarker]
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID 生成新的實體 ID（UUID v4）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromString 從字串解析實體 ID
//
// 參數：
//   s - UUID 字串（標準格式）
//   errTemplate - 解析失敗時返回的錯誤（由各 bounded context 提供，
//                 錯誤類型屬於定義它的業務包）
//
// 設計決策：shared 層不依賴具體業務錯誤，透過 errTemplate 反轉依賴。
// 若 errTemplate 支援 WithContext（如各 context 的 DomainError），
// 會附帶輸入與解析錯誤作為上下文。
func EntityIDFromString[T any](s string, errTemplate error) (EntityID[T], error) {
	id, err := uuid.Parse(s)
	if err != nil {
		if domainErr, ok := errTemplate.(interface {
			WithContext(keyValues ...interface{}) error
		}); ok {
			return EntityID[T]{}, domainErr.WithContext(
				"input", s,
				"parse_error", err.Error(),
			)
		}
		return EntityID[T]{}, errTemplate
	}
	return EntityID[T]{value: id}, nil
}

// String 轉換為小寫 UUID 字串
func (e EntityID[T]) String() string {
	return e.value.String()
}

// Equals 比較兩個同類型 ID 是否相等
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 判斷是否為零值 ID
//
// 零值場景：未初始化的結構體字段、解析失敗後的返回值
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}
