package commission

import (
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
)

// ===========================
// 實體 ID 類型定義
// ===========================

// 設計原則：泛型 shared.EntityID[T] + 標記類型（與 pricing 包一致）。
// OrderID 屬於外部訂單系統的聚合，此處只作為引用值對象使用。

// AffiliateMarker 是 AffiliateID 的標記類型
type AffiliateMarker struct{}

// AffiliateID 聯盟夥伴的唯一標識符
type AffiliateID = shared.EntityID[AffiliateMarker]

// NewAffiliateID 生成新的聯盟夥伴 ID（UUID v4）
func NewAffiliateID() AffiliateID {
	return shared.NewEntityID[AffiliateMarker]()
}

// AffiliateIDFromString 從字串解析聯盟夥伴 ID
func AffiliateIDFromString(s string) (AffiliateID, error) {
	return shared.EntityIDFromString[AffiliateMarker](s, ErrInvalidAffiliateID)
}

// EarningMarker 是 EarningID 的標記類型
type EarningMarker struct{}

// EarningID 佣金入帳記錄的唯一標識符
type EarningID = shared.EntityID[EarningMarker]

// NewEarningID 生成新的佣金入帳 ID（UUID v4）
func NewEarningID() EarningID {
	return shared.NewEntityID[EarningMarker]()
}

// EarningIDFromString 從字串解析佣金入帳 ID
func EarningIDFromString(s string) (EarningID, error) {
	return shared.EntityIDFromString[EarningMarker](s, ErrInvalidEarningID)
}

// StoreMarker 是本 context 中 StoreID 的標記類型
//
// 設計決策：每個 bounded context 定義自己的 StoreID 別名，
// 不跨 context 共用標記類型 — 商店 ID 只在各自的 Repository
// 查詢邊界使用，轉換一律經過字串。
type StoreMarker struct{}

// StoreID 商店（租戶）的唯一標識符
type StoreID = shared.EntityID[StoreMarker]

// NewStoreID 生成新的商店 ID（UUID v4）
func NewStoreID() StoreID {
	return shared.NewEntityID[StoreMarker]()
}

// StoreIDFromString 從字串解析商店 ID
func StoreIDFromString(s string) (StoreID, error) {
	return shared.EntityIDFromString[StoreMarker](s, ErrInvalidStoreID)
}

// OrderMarker 是 OrderID 的標記類型
type OrderMarker struct{}

// OrderID 訂單的唯一標識符（外部訂單系統擁有）
type OrderID = shared.EntityID[OrderMarker]

// NewOrderID 生成新的訂單 ID（UUID v4，主要供測試使用）
func NewOrderID() OrderID {
	return shared.NewEntityID[OrderMarker]()
}

// OrderIDFromString 從字串解析訂單 ID
func OrderIDFromString(s string) (OrderID, error) {
	return shared.EntityIDFromString[OrderMarker](s, ErrInvalidOrderID)
}
