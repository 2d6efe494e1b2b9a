package pricing

import "github.com/jackyeh168/shop_crm/src/internal/domain/shared"

// ===========================
// Coupon Repository 介面
// ===========================

// CouponRepository 優惠券倉儲介面
//
// 設計原則：
// 1. 依賴倒置（DIP）：Domain Layer 定義介面，Infrastructure 實作
// 2. 事務支持：寫操作的 ctx 必須為 non-nil，讀操作可為 nil
// 3. 多租戶邊界：按優惠碼查詢一律帶 StoreID
type CouponRepository interface {
	// Save 保存新優惠券
	// 前置條件：同商店內 code 唯一
	// 錯誤：ErrCouponAlreadyExists（code 在該商店已存在）
	Save(ctx shared.TransactionContext, coupon *Coupon) error

	// FindByID 根據優惠券 ID 查找
	// 返回：找到的優惠券，或 ErrCouponNotFound
	FindByID(ctx shared.TransactionContext, couponID CouponID) (*Coupon, error)

	// FindByCode 根據商店 + 優惠碼查找
	// 比對前會將 code 去空白並轉大寫（與聚合的儲存格式一致）
	// 返回：找到的優惠券，或 ErrCouponNotFound
	FindByCode(ctx shared.TransactionContext, storeID StoreID, code string) (*Coupon, error)

	// Update 更新優惠券（含規則清單與使用次數）
	// 前置條件：優惠券已存在
	Update(ctx shared.TransactionContext, coupon *Coupon) error
}

// ===========================
// Repository 錯誤定義
// ===========================

// Repository 相關錯誤代碼
const (
	ErrCodeCouponNotFound      ErrorCode = "COUPON_NOT_FOUND"
	ErrCodeCouponAlreadyExists ErrorCode = "COUPON_ALREADY_EXISTS"
)

// Repository 錯誤實例
var (
	// ErrCouponNotFound 優惠券不存在
	ErrCouponNotFound = &DomainError{
		Code:    ErrCodeCouponNotFound,
		Message: "優惠券不存在",
	}

	// ErrCouponAlreadyExists 優惠碼已存在
	ErrCouponAlreadyExists = &DomainError{
		Code:    ErrCodeCouponAlreadyExists,
		Message: "優惠碼在此商店已存在",
	}
)
