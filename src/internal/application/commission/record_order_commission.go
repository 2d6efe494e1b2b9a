package commission

import (
	"errors"
	"fmt"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ===========================
// UC-201: RecordOrderCommission Use Case
// ===========================

// OrderItemInput 訂單品項輸入（Input DTO）
//
// Subtotal 與 Discount 由折扣試算（pricing）產出後傳入 —
// 佣金管線不重算折扣，兩個引擎在此邊界銜接。
type OrderItemInput struct {
	ProductID   string
	ProductName string
	Category    string // 空字串表示無分類
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
}

// RecordOrderCommissionCommand 訂單佣金入帳指令
type RecordOrderCommissionCommand struct {
	OrderID      string
	StoreID      string
	ReferralCode string // 下單時帶的推薦碼
	Items        []OrderItemInput
}

// RecordOrderCommissionResult 訂單佣金入帳結果（Output DTO）
//
// Recorded = false 的情況（皆非錯誤）：
// - 聯盟夥伴已停用
// - 計算結果為零佣金（無規則匹配且預設未生效）
// - 該 (訂單, 夥伴) 對已有入帳（重送的訂單事件）
type RecordOrderCommissionResult struct {
	EarningID        string
	AffiliateID      string
	OrderTotal       decimal.Decimal
	CommissionAmount decimal.Decimal
	Recorded         bool
	SkipReason       string
}

// 入帳跳過原因常量
const (
	SkipReasonAffiliateInactive = "affiliate_inactive"
	SkipReasonZeroCommission    = "zero_commission"
	SkipReasonAlreadyRecorded   = "already_recorded"
)

// RecordOrderCommissionUseCase 訂單佣金入帳 Use Case 接口
//
// 業務規則：
// 1. 推薦碼必須對應到該商店的聯盟夥伴
// 2. 停用的夥伴不產生新佣金（既有入帳不受影響）
// 3. 一個 (訂單, 夥伴) 對至多一筆入帳 — 訂單事件重送時
//    冪等返回既有記錄，不重複入帳
// 4. 零佣金的訂單不產生入帳記錄
//
// 使用場景：
// - 訂單成立事件（order placed）觸發的佣金管線
type RecordOrderCommissionUseCase interface {
	Execute(cmd RecordOrderCommissionCommand) (*RecordOrderCommissionResult, error)
}

// ===========================
// RecordOrderCommissionUseCaseImpl
// ===========================

// RecordOrderCommissionUseCaseImpl 訂單佣金入帳 Use Case 實作
//
// 職責：
// 1. 驗證輸入（轉換為 Value Object）
// 2. 在事務中：載入夥伴 → 計算佣金 → 保存入帳記錄
// 3. 事務成功後發布領域事件（發布失敗只記日誌，不回滾入帳）
//
// 冪等保證：重複入帳不做 check-then-insert，
// 由資料庫唯一索引攔截，ErrEarningAlreadyExists 轉為冪等返回。
type RecordOrderCommissionUseCaseImpl struct {
	affiliateRepo     commission.AffiliateRepository
	earningRepo       commission.AffiliateEarningRepository
	commissionService *commission.CommissionService
	txManager         shared.TransactionManager
	publisher         shared.EventPublisher // 可為 nil（事件發布為選配）
	logger            *zap.Logger
}

// NewRecordOrderCommissionUseCase 創建 RecordOrderCommissionUseCase 實例
func NewRecordOrderCommissionUseCase(
	affiliateRepo commission.AffiliateRepository,
	earningRepo commission.AffiliateEarningRepository,
	commissionService *commission.CommissionService,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) RecordOrderCommissionUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordOrderCommissionUseCaseImpl{
		affiliateRepo:     affiliateRepo,
		earningRepo:       earningRepo,
		commissionService: commissionService,
		txManager:         txManager,
		publisher:         publisher,
		logger:            logger,
	}
}

// Execute 執行訂單佣金入帳
//
// 業務流程：
// 1. 驗證輸入並轉換為 Value Object
// 2. 在事務中執行：
//    a. 按商店 + 推薦碼載入聯盟夥伴
//    b. 夥伴停用 → 冪等跳過
//    c. 計算整單佣金（百分比基準 > 100 記 warning，照算不攔截）
//    d. 零佣金 → 冪等跳過
//    e. 創建入帳聚合並保存
// 3. 唯一索引衝突 → 讀回既有記錄冪等返回
// 4. 事務成功後發布領域事件
func (uc *RecordOrderCommissionUseCaseImpl) Execute(cmd RecordOrderCommissionCommand) (*RecordOrderCommissionResult, error) {
	// Step 1: 驗證輸入並轉換為 Value Object
	orderID, err := commission.OrderIDFromString(cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order ID: %w", err)
	}
	storeID, err := commission.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store ID: %w", err)
	}
	referralCode, err := commission.NewReferralCode(cmd.ReferralCode)
	if err != nil {
		return nil, err
	}

	items := make([]commission.CommissionableItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		items = append(items, commission.CommissionableItem{
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Category:    in.Category,
			Subtotal:    in.Subtotal,
			Discount:    in.Discount,
		})
	}

	// Step 2: 在事務中執行業務邏輯
	var (
		earning *commission.AffiliateEarning
		result  *RecordOrderCommissionResult
	)

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		// 2a. 載入聯盟夥伴
		affiliate, err := uc.affiliateRepo.FindByReferralCode(ctx, storeID, referralCode)
		if err != nil {
			return err
		}

		// 2b. 停用的夥伴不產生新佣金
		if !affiliate.IsActive() {
			uc.logger.Info("skipping commission for inactive affiliate",
				zap.String("order_id", cmd.OrderID),
				zap.String("affiliate_id", affiliate.AffiliateID().String()),
			)
			result = &RecordOrderCommissionResult{
				AffiliateID: affiliate.AffiliateID().String(),
				Recorded:    false,
				SkipReason:  SkipReasonAffiliateInactive,
			}
			return nil
		}

		// 2c. 計算整單佣金
		orderResult := uc.commissionService.CalculateOrderCommission(
			items, affiliate.Rules(), affiliate.DefaultCommission(),
		)
		uc.warnOnExcessivePercentage(cmd.OrderID, orderResult)

		// 2d. 零佣金不產生入帳記錄
		if !orderResult.Total.IsPositive() {
			result = &RecordOrderCommissionResult{
				AffiliateID: affiliate.AffiliateID().String(),
				OrderTotal:  orderResult.OrderTotal.Round(2),
				Recorded:    false,
				SkipReason:  SkipReasonZeroCommission,
			}
			return nil
		}

		// 2e. 創建並保存入帳記錄
		earning, err = commission.NewAffiliateEarning(
			affiliate.AffiliateID(), orderID, storeID,
			orderResult, affiliate.DefaultCommission(),
		)
		if err != nil {
			return err
		}

		if err := uc.earningRepo.Save(ctx, earning); err != nil {
			// 唯一索引衝突：訂單事件重送，讀回既有記錄冪等返回
			if errors.Is(err, commission.ErrEarningAlreadyExists) {
				existing, findErr := uc.earningRepo.FindByOrderAndAffiliate(ctx, orderID, affiliate.AffiliateID())
				if findErr != nil {
					return fmt.Errorf("failed to load existing earning after conflict: %w", findErr)
				}
				earning = nil
				result = &RecordOrderCommissionResult{
					EarningID:        existing.EarningID().String(),
					AffiliateID:      existing.AffiliateID().String(),
					OrderTotal:       existing.OrderTotal(),
					CommissionAmount: existing.CommissionAmount(),
					Recorded:         false,
					SkipReason:       SkipReasonAlreadyRecorded,
				}
				return nil
			}
			return err
		}

		result = &RecordOrderCommissionResult{
			EarningID:        earning.EarningID().String(),
			AffiliateID:      earning.AffiliateID().String(),
			OrderTotal:       earning.OrderTotal(),
			CommissionAmount: earning.CommissionAmount(),
			Recorded:         true,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Step 3: 事務成功後發布領域事件
	if earning != nil {
		uc.publishEvents(earning)
	}

	return result, nil
}

// warnOnExcessivePercentage 對解析出超過 100% 的百分比佣金記 warning
//
// 超額百分比是合法配置（賠本衝量促銷），引擎照算，
// 但多半是商家填錯，留下日誌供排查。
func (uc *RecordOrderCommissionUseCaseImpl) warnOnExcessivePercentage(orderID string, result commission.OrderCommissionResult) {
	for _, ic := range result.Items {
		if ic.Basis.Type == commission.CommissionPercentage && ic.Basis.Value.GreaterThan(decimal.NewFromInt(100)) {
			uc.logger.Warn("commission percentage exceeds 100",
				zap.String("order_id", orderID),
				zap.String("product_id", ic.Item.ProductID),
				zap.String("source", string(ic.Basis.Source)),
				zap.String("value", ic.Basis.Value.String()),
			)
		}
	}
}

// publishEvents 發布聚合累積的領域事件
//
// 發布失敗只記日誌不返回錯誤 — 入帳已提交，
// 事件遺失由下游的對帳補償，不能因此回滾佣金。
func (uc *RecordOrderCommissionUseCaseImpl) publishEvents(earning *commission.AffiliateEarning) {
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
