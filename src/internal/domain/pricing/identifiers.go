package pricing

import (
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
)

// ===========================
// 實體 ID 類型定義
// ===========================

// 設計原則：使用泛型 shared.EntityID[T] + 標記類型，
// 讓 CouponID 和 StoreID 成為編譯期不可混用的不同類型。
//
// 注意：ProductID 不在此定義 — 商品目錄由外部系統擁有，
// 規則匹配使用其原始字串識別符（精確比對），不強制 UUID 格式。

// CouponMarker 是 CouponID 的標記類型
type CouponMarker struct{}

// CouponID 優惠券的唯一標識符
type CouponID = shared.EntityID[CouponMarker]

// NewCouponID 生成新的優惠券 ID（UUID v4）
func NewCouponID() CouponID {
	return shared.NewEntityID[CouponMarker]()
}

// CouponIDFromString 從字串解析優惠券 ID
func CouponIDFromString(s string) (CouponID, error) {
	return shared.EntityIDFromString[CouponMarker](s, ErrInvalidCouponID)
}

// StoreMarker 是 StoreID 的標記類型
type StoreMarker struct{}

// StoreID 商店（租戶）的唯一標識符
//
// 多租戶邊界：所有優惠券、聯盟行銷設定與佣金記錄都歸屬於一個商店，
// Repository 查詢一律以 StoreID 為界。
type StoreID = shared.EntityID[StoreMarker]

// NewStoreID 生成新的商店 ID（UUID v4）
func NewStoreID() StoreID {
	return shared.NewEntityID[StoreMarker]()
}

// StoreIDFromString 從字串解析商店 ID
func StoreIDFromString(s string) (StoreID, error) {
	return shared.EntityIDFromString[StoreMarker](s, ErrInvalidStoreID)
}
