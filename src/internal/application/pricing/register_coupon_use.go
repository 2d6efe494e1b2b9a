package pricing

import (
	"fmt"
	"time"

	"github.com/jackyeh168/shop_crm/src/internal/domain/pricing"
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
)

// ===========================
// UC-102: RegisterCouponUse Use Case
// ===========================

// RegisterCouponUseCommand 登記優惠券使用指令
type RegisterCouponUseCommand struct {
	StoreID    string
	CouponCode string
	At         time.Time // 零值表示當下時間
}

// RegisterCouponUseResult 登記優惠券使用結果（Output DTO）
type RegisterCouponUseResult struct {
	CouponID   string
	UsedCount  int
	UsageLimit int // 0 = 不限制
}

// RegisterCouponUseUseCase 登記優惠券使用 Use Case 接口
//
// 業務規則：
// 1. 可用性與次數上限由 Coupon 聚合在同一事務內複查 —
//    試算通過後到下單之間優惠券可能已被用完
// 2. 讀取與用量遞增在同一事務中，防止併發使用穿透上限
//
// 使用場景：訂單成立時由下單管線調用（與折扣試算分離，
// 試算是純讀取、可任意重試；登記有副作用、只在成單時執行）
type RegisterCouponUseUseCase interface {
	Execute(cmd RegisterCouponUseCommand) (*RegisterCouponUseResult, error)
}

// RegisterCouponUseUseCaseImpl 登記優惠券使用 Use Case 實作
type RegisterCouponUseUseCaseImpl struct {
	couponRepo pricing.CouponRepository
	txManager  shared.TransactionManager
}

// NewRegisterCouponUseUseCase 創建 RegisterCouponUseUseCase 實例
func NewRegisterCouponUseUseCase(
	couponRepo pricing.CouponRepository,
	txManager shared.TransactionManager,
) RegisterCouponUseUseCase {
	return &RegisterCouponUseUseCaseImpl{
		couponRepo: couponRepo,
		txManager:  txManager,
	}
}

// Execute 執行登記優惠券使用
//
// 業務流程：
// 1. 驗證 StoreID
// 2. 在事務中：載入優惠券 → RegisterUse（聚合內複查可用性）→ 更新
//
// 錯誤處理：
// - 優惠券不存在 → pricing.ErrCouponNotFound
// - 不可用 → pricing.ErrCouponInactive / NotYetActive / Expired / UsageExhausted
func (uc *RegisterCouponUseUseCaseImpl) Execute(cmd RegisterCouponUseCommand) (*RegisterCouponUseResult, error) {
	storeID, err := pricing.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store ID: %w", err)
	}

	at := cmd.At
	if at.IsZero() {
		at = time.Now()
	}

	var coupon *pricing.Coupon

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		coupon, err = uc.couponRepo.FindByCode(ctx, storeID, cmd.CouponCode)
		if err != nil {
			return err
		}

		if err := coupon.RegisterUse(at); err != nil {
			return err
		}

		return uc.couponRepo.Update(ctx, coupon)
	})

	if err != nil {
		return nil, err
	}

	return &RegisterCouponUseResult{
		CouponID:   coupon.CouponID().String(),
		UsedCount:  coupon.UsedCount(),
		UsageLimit: coupon.UsageLimit(),
	}, nil
}
