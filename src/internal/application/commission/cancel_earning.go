package commission

import (
	"fmt"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
	"go.uber.org/zap"
)

// ===========================
// UC-203: CancelEarning Use Case
// ===========================

// CancelEarningCommand 作廢佣金指令
type CancelEarningCommand struct {
	OrderID     string
	AffiliateID string
	Reason      string // 作廢原因（訂單取消 / 退貨）
}

// CancelEarningResult 作廢佣金結果（Output DTO）
type CancelEarningResult struct {
	EarningID string
	Status    string
}

// CancelEarningUseCase 作廢佣金 Use Case 接口
//
// 使用場景：訂單取消 / 退貨事件觸發，
// pending 或 approved 的佣金轉為 cancelled。
// 已撥付（paid）的佣金不可作廢 — 追回走人工流程。
type CancelEarningUseCase interface {
	Execute(cmd CancelEarningCommand) (*CancelEarningResult, error)
}

// CancelEarningUseCaseImpl 作廢佣金 Use Case 實作
type CancelEarningUseCaseImpl struct {
	earningRepo commission.AffiliateEarningRepository
	txManager   shared.TransactionManager
	publisher   shared.EventPublisher // 可為 nil
	logger      *zap.Logger
}

// NewCancelEarningUseCase 創建 CancelEarningUseCase 實例
func NewCancelEarningUseCase(
	earningRepo commission.AffiliateEarningRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) CancelEarningUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CancelEarningUseCaseImpl{
		earningRepo: earningRepo,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute 執行作廢佣金
//
// 業務流程：
// 1. 驗證輸入並轉換為 Value Object
// 2. 在事務中：載入入帳記錄 → Cancel（狀態機在聚合內）→ 更新
// 3. 事務成功後發布領域事件
func (uc *CancelEarningUseCaseImpl) Execute(cmd CancelEarningCommand) (*CancelEarningResult, error) {
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

		if err := earning.Cancel(cmd.Reason); err != nil {
			return err
		}

		return uc.earningRepo.Update(ctx, earning)
	})

	if err != nil {
		return nil, err
	}

	events := earning.PullEvents()
	if uc.publisher != nil && len(events) > 0 {
		if err := uc.publisher.PublishBatch(events); err != nil {
			uc.logger.Error("failed to publish earning events",
				zap.String("earning_id", earning.EarningID().String()),
				zap.Int("event_count", len(events)),
				zap.Error(err),
			)
		}
	}

	return &CancelEarningResult{
		EarningID: earning.EarningID().String(),
		Status:    string(earning.Status()),
	}, nil
}
