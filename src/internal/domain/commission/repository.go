package commission

import "github.com/jackyeh168/shop_crm/src/internal/domain/shared"

// ===========================
// Repository 介面
// ===========================

// AffiliateRepository 聯盟夥伴倉儲介面
//
// 設計原則：
// 1. 依賴倒置（DIP）：Domain Layer 定義介面，Infrastructure 實作
// 2. 事務支持：寫操作的 ctx 必須為 non-nil，讀操作可為 nil
// 3. 多租戶邊界：按推薦碼查詢一律帶 StoreID
type AffiliateRepository interface {
	// Save 保存新聯盟夥伴
	// 錯誤：ErrAffiliateAlreadyExists（推薦碼在該商店已存在）
	Save(ctx shared.TransactionContext, affiliate *Affiliate) error

	// FindByID 根據聯盟夥伴 ID 查找
	// 返回：找到的夥伴，或 ErrAffiliateNotFound
	FindByID(ctx shared.TransactionContext, affiliateID AffiliateID) (*Affiliate, error)

	// FindByReferralCode 根據商店 + 推薦碼查找
	// 返回：找到的夥伴，或 ErrAffiliateNotFound
	FindByReferralCode(ctx shared.TransactionContext, storeID StoreID, code ReferralCode) (*Affiliate, error)

	// Update 更新聯盟夥伴（含佣金設定與規則清單）
	Update(ctx shared.TransactionContext, affiliate *Affiliate) error
}

// AffiliateEarningRepository 佣金入帳倉儲介面
//
// 併發約束：一個 (orderID, affiliateID) 對至多一筆入帳，
// 由資料庫唯一索引保證 — Save 不做 check-then-insert，
// 重複入帳由唯一約束攔截並轉為 ErrEarningAlreadyExists。
type AffiliateEarningRepository interface {
	// Save 保存新入帳記錄（含品項明細行）
	// 錯誤：ErrEarningAlreadyExists（該訂單-夥伴對已有入帳）
	Save(ctx shared.TransactionContext, earning *AffiliateEarning) error

	// FindByID 根據入帳 ID 查找
	// 返回：找到的入帳記錄，或 ErrEarningNotFound
	FindByID(ctx shared.TransactionContext, earningID EarningID) (*AffiliateEarning, error)

	// FindByOrderAndAffiliate 根據 (訂單, 聯盟夥伴) 對查找
	// 返回：找到的入帳記錄，或 ErrEarningNotFound
	FindByOrderAndAffiliate(ctx shared.TransactionContext, orderID OrderID, affiliateID AffiliateID) (*AffiliateEarning, error)

	// FindByAffiliate 查找聯盟夥伴的所有入帳記錄（報表 / 提領餘額）
	// 按創建時間新到舊排序
	FindByAffiliate(ctx shared.TransactionContext, affiliateID AffiliateID) ([]*AffiliateEarning, error)

	// Update 更新入帳記錄（狀態轉換）
	Update(ctx shared.TransactionContext, earning *AffiliateEarning) error
}

// ===========================
// Repository 錯誤定義
// ===========================

// Repository 相關錯誤代碼
const (
	ErrCodeAffiliateNotFound      ErrorCode = "AFFILIATE_NOT_FOUND"
	ErrCodeAffiliateAlreadyExists ErrorCode = "AFFILIATE_ALREADY_EXISTS"
	ErrCodeEarningNotFound        ErrorCode = "EARNING_NOT_FOUND"
	ErrCodeEarningAlreadyExists   ErrorCode = "EARNING_ALREADY_EXISTS"
)

// Repository 錯誤實例
var (
	// ErrAffiliateNotFound 聯盟夥伴不存在
	ErrAffiliateNotFound = &DomainError{
		Code:    ErrCodeAffiliateNotFound,
		Message: "聯盟夥伴不存在",
	}

	// ErrAffiliateAlreadyExists 推薦碼已存在
	ErrAffiliateAlreadyExists = &DomainError{
		Code:    ErrCodeAffiliateAlreadyExists,
		Message: "推薦碼在此商店已存在",
	}

	// ErrEarningNotFound 入帳記錄不存在
	ErrEarningNotFound = &DomainError{
		Code:    ErrCodeEarningNotFound,
		Message: "佣金入帳記錄不存在",
	}

	// ErrEarningAlreadyExists 該訂單-夥伴對已有入帳
	ErrEarningAlreadyExists = &DomainError{
		Code:    ErrCodeEarningAlreadyExists,
		Message: "此訂單已為該聯盟夥伴入帳佣金",
	}
)
