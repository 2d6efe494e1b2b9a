package commission

import (
	"errors"
	"fmt"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
)

// ===========================
// UC-204: EnrollAffiliate Use Case
// ===========================

// referralCodeRetryLimit 推薦碼碰撞時的重試上限
//
// 8 位英數字的碰撞機率極低，連續碰撞到上限幾乎只會發生在
// 唯一索引以外的資料庫錯誤被誤判時。
const referralCodeRetryLimit = 3

// EnrollAffiliateCommand 註冊聯盟夥伴指令
type EnrollAffiliateCommand struct {
	StoreID     string
	DisplayName string
}

// EnrollAffiliateResult 註冊聯盟夥伴結果（Output DTO）
type EnrollAffiliateResult struct {
	AffiliateID  string
	ReferralCode string
}

// EnrollAffiliateUseCase 註冊聯盟夥伴 Use Case 接口
//
// 業務規則：
// 1. 推薦碼由系統生成（"AF-" + 8 位英數字），不接受外部指定
// 2. 推薦碼在商店內唯一，由資料庫唯一索引保證；
//    碰撞時換碼重試（上限 referralCodeRetryLimit 次）
// 3. 新夥伴預設啟用、零佣金，佣金設定由商家後台另行配置
type EnrollAffiliateUseCase interface {
	Execute(cmd EnrollAffiliateCommand) (*EnrollAffiliateResult, error)
}

// EnrollAffiliateUseCaseImpl 註冊聯盟夥伴 Use Case 實作
type EnrollAffiliateUseCaseImpl struct {
	affiliateRepo commission.AffiliateRepository
	txManager     shared.TransactionManager
}

// NewEnrollAffiliateUseCase 創建 EnrollAffiliateUseCase 實例
func NewEnrollAffiliateUseCase(
	affiliateRepo commission.AffiliateRepository,
	txManager shared.TransactionManager,
) EnrollAffiliateUseCase {
	return &EnrollAffiliateUseCaseImpl{
		affiliateRepo: affiliateRepo,
		txManager:     txManager,
	}
}

// Execute 執行註冊聯盟夥伴
//
// 業務流程：
// 1. 驗證 StoreID
// 2. 生成推薦碼並在事務中創建 + 保存夥伴
// 3. 推薦碼碰撞（ErrAffiliateAlreadyExists）→ 換碼重試
func (uc *EnrollAffiliateUseCaseImpl) Execute(cmd EnrollAffiliateCommand) (*EnrollAffiliateResult, error) {
	storeID, err := commission.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store ID: %w", err)
	}

	var affiliate *commission.Affiliate

	for attempt := 0; attempt < referralCodeRetryLimit; attempt++ {
		affiliate, err = commission.NewAffiliate(storeID, cmd.DisplayName, commission.GenerateReferralCode())
		if err != nil {
			return nil, err
		}

		err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
			return uc.affiliateRepo.Save(ctx, affiliate)
		})
		if err == nil {
			return &EnrollAffiliateResult{
				AffiliateID:  affiliate.AffiliateID().String(),
				ReferralCode: affiliate.ReferralCode().Value(),
			}, nil
		}
		if !errors.Is(err, commission.ErrAffiliateAlreadyExists) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to enroll affiliate after %d referral code collisions: %w",
		referralCodeRetryLimit, err)
}
