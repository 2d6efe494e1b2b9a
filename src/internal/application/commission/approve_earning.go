package commission

import (
	"fmt"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
	"go.uber.org/zap"
)

// ===========================
// UC-202: ApproveEarning Use Case
// ===========================

// ApproveEarningCommand 確認佣金指令
//
// 以 (訂單, 夥伴) 對定位入帳記錄 — 訂單送達事件帶的是訂單 ID，
// 不是入帳 ID。
type ApproveEarningCommand struct {
	OrderID     string
	AffiliateID string
}

// ApproveEarningResult 確認佣金結果（Output DTO）
type ApproveEarningResult struct {
	EarningID        string
	Status           string
	CommissionAmount string
}

// ApproveEarningUseCase 確認佣金 Use Case 接口
//
// 使用場景：訂單送達事件（order delivered）觸發，
// 佣金由 pending 轉為 approved（成熟可提領）。
type ApproveEarningUseCase interface {
	Execute(cmd ApproveEarningCommand) (*ApproveEarningResult, error)
}

// ApproveEarningUseCaseImpl 確認佣金 Use Case 實作
type ApproveEarningUseCaseImpl struct {
	earningRepo commission.AffiliateEarningRepository
	txManager   shared.TransactionManager
	publisher   shared.EventPublisher // 可為 nil
	logger      *zap.Logger
}

// NewApproveEarningUseCase 創建 ApproveEarningUseCase 實例
func NewApproveEarningUseCase(
	earningRepo commission.AffiliateEarningRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) ApproveEarningUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApproveEarningUseCaseImpl{
		earningRepo: earningRepo,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute 執行確認佣金
//
// 業務流程：
// 1. 驗證輸入並轉換為 Value Object
// 2. 在事務中：載入入帳記錄 → Approve（狀態機在聚合內）→ 更新
// 3. 事務成功後發布領域事件
//
// 錯誤處理：
// - 入帳記錄不存在 → commission.ErrEarningNotFound
// - 非 pending 狀態 → commission.ErrInvalidStatusTransition
func (uc *ApproveEarningUseCaseImpl) Execute(cmd ApproveEarningCommand) (*ApproveEarningResult, error) {
	orderID, err := commission.OrderIDFromString(cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order ID: %w", err)
	}
	affiliateID, err := commission.AffiliateIDFromString(cmd.AffiliateID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse affiliate ID: %w", err)
	}

	var earning *commission.AffiliateEarning

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		earning, err = uc.earningRepo.FindByOrderAndAffiliate(ctx, orderID, affiliateID)
		if err != nil {
			return err
		}

		if err := earning.Approve(); err != nil {
			return err
		}

		return uc.earningRepo.Update(ctx, earning)
	})

	if err != nil {
		return nil, err
	}

	uc.publishEvents(earning)

	return &ApproveEarningResult{
		EarningID:        earning.EarningID().String(),
		Status:           string(earning.Status()),
		CommissionAmount: earning.CommissionAmount().String(),
	}, nil
}

// publishEvents 發布聚合累積的領域事件（失敗只記日誌）
func (uc *ApproveEarningUseCaseImpl) publishEvents(earning *commission.AffiliateEarning) {
	events := earning.PullEvents()
	if uc.publisher == nil || len(events) == 0 {
		return
	}
	if err := uc.publisher.PublishBatch(events); err != nil {
		uc.logger.Error("failed to publish earning events",
			zap.String("earning_id", earning.EarningID().String()),
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}
