package commission

import (
	"time"

	"github.com/jackyeh168/shop_crm/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ===========================
// EarningStatus 狀態機
// ===========================

// EarningStatus 佣金入帳狀態
type EarningStatus string

// 佣金入帳狀態常量
//
// 生命週期（訂單 pending → delivered → 佣金成熟 → 提領 的內部對應）：
//   pending → approved → paid
//   pending → cancelled
//   approved → cancelled
// paid / cancelled 為終態。
const (
	EarningPending   EarningStatus = "pending"   // 訂單成立，佣金待確認
	EarningApproved  EarningStatus = "approved"  // 訂單送達，佣金成熟可提領
	EarningPaid      EarningStatus = "paid"      // 已隨提領撥付
	EarningCancelled EarningStatus = "cancelled" // 訂單取消 / 退貨，佣金作廢
)

// IsValid 判斷狀態是否為已知狀態
func (s EarningStatus) IsValid() bool {
	switch s {
	case EarningPending, EarningApproved, EarningPaid, EarningCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal 判斷是否為終態
func (s EarningStatus) IsTerminal() bool {
	return s == EarningPaid || s == EarningCancelled
}

// ===========================
// EarningItem 稽核明細行
// ===========================

// EarningItem 佣金入帳的品項級稽核明細
//
// 每個訂單品項一行，供商家後台的稽核與報表使用。
// 金額欄位已在入帳時捨入到 2 位小數（持久化邊界）。
type EarningItem struct {
	ProductID         string
	ProductName       string
	Category          string
	Subtotal          decimal.Decimal
	Discount          decimal.Decimal
	ValueWithDiscount decimal.Decimal
	Source            CommissionSource
	Amount            decimal.Decimal
}

// ===========================
// AffiliateEarning 聚合根
// ===========================

// AffiliateEarning 佣金入帳聚合根
//
// 聚合邊界：
// - 一筆 (訂單, 聯盟夥伴) 對的佣金記錄
// - 訂單總額、佣金總額、計算當下的預設佣金快照
// - 品項級稽核明細行
// - 入帳狀態與其轉換
//
// 不變量（Invariants）：
// 1. 一個 (orderID, affiliateID) 對至多一筆入帳
//    （由資料庫唯一索引保證，聚合不做 check-then-insert）
// 2. commissionAmount = Σ items.Amount（建構時計算，之後不可變）
// 3. 狀態只能沿狀態機前進，終態不可再轉換
// 4. 金額欄位在建構時已捨入到 2 位小數
//
// 設計原則：
// - 事件驅動：狀態變更發布領域事件（PullEvents 模式，
//   Repository.Save 成功後由 Application Layer 取出發布）
// - 金額快照：佣金計算結果在入帳時凍結，
//   之後規則變更不回溯已入帳記錄
type AffiliateEarning struct {
	// 聚合根識別符
	earningID   EarningID
	affiliateID AffiliateID
	orderID     OrderID
	storeID     StoreID

	// 金額快照
	orderTotal       decimal.Decimal // Σ 品項折後金額
	commissionAmount decimal.Decimal // Σ 品項佣金
	commissionType   CommissionType  // 計算當下的預設佣金類型快照
	commissionValue  decimal.Decimal // 計算當下的預設佣金數值快照

	// 稽核明細
	items []EarningItem

	// 狀態
	status EarningStatus

	// 審計欄位
	createdAt time.Time
	updatedAt time.Time

	// 待發布的領域事件
	events []shared.DomainEvent
}

// NewAffiliateEarning 從訂單佣金計算結果創建入帳記錄
//
// 參數：
//   affiliateID / orderID / storeID - 記錄歸屬
//   result - CommissionService.CalculateOrderCommission 的結果
//   defaultCommission - 計算當下的預設佣金設定（快照用）
//
// 業務規則：
// - 初始狀態為 pending
// - 所有金額在此捨入到 2 位小數（持久化邊界；
//   逐品項明細用捨入後的品項佣金重新加總，保證
//   commissionAmount 與明細行嚴格一致）
// - 發布 EarningRecordedEvent
func NewAffiliateEarning(
	affiliateID AffiliateID,
	orderID OrderID,
	storeID StoreID,
	result OrderCommissionResult,
	defaultCommission DefaultCommission,
) (*AffiliateEarning, error) {
	if affiliateID.IsEmpty() {
		return nil, ErrInvalidAffiliateID.WithContext(
			"reason", "affiliateID cannot be empty",
		)
	}
	if orderID.IsEmpty() {
		return nil, ErrInvalidOrderID.WithContext(
			"reason", "orderID cannot be empty",
		)
	}
	if storeID.IsEmpty() {
		return nil, ErrInvalidStoreID.WithContext(
			"reason", "storeID cannot be empty",
		)
	}

	items := make([]EarningItem, 0, len(result.Items))
	totalAmount := decimal.Zero
	for _, ic := range result.Items {
		amount := ic.Amount.Round(2)
		items = append(items, EarningItem{
			ProductID:         ic.Item.ProductID,
			ProductName:       ic.Item.ProductName,
			Category:          ic.Item.Category,
			Subtotal:          ic.Item.Subtotal.Round(2),
			Discount:          ic.Item.Discount.Round(2),
			ValueWithDiscount: ic.Item.ValueWithDiscount().Round(2),
			Source:            ic.Basis.Source,
			Amount:            amount,
		})
		totalAmount = totalAmount.Add(amount)
	}

	now := time.Now()

	earning := &AffiliateEarning{
		earningID:        NewEarningID(),
		affiliateID:      affiliateID,
		orderID:          orderID,
		storeID:          storeID,
		orderTotal:       result.OrderTotal.Round(2),
		commissionAmount: totalAmount,
		commissionType:   defaultCommission.CommissionType(),
		commissionValue:  defaultCommission.Value(),
		items:            items,
		status:           EarningPending,
		createdAt:        now,
		updatedAt:        now,
		events:           make([]shared.DomainEvent, 0),
	}

	earning.addEvent(NewEarningRecordedEvent(
		earning.earningID,
		affiliateID,
		orderID,
		earning.commissionAmount,
	))

	return earning, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// EarningID 獲取入帳 ID
func (e *AffiliateEarning) EarningID() EarningID {
	return e.earningID
}

// AffiliateID 獲取聯盟夥伴 ID
func (e *AffiliateEarning) AffiliateID() AffiliateID {
	return e.affiliateID
}

// OrderID 獲取訂單 ID
func (e *AffiliateEarning) OrderID() OrderID {
	return e.orderID
}

// StoreID 獲取商店 ID
func (e *AffiliateEarning) StoreID() StoreID {
	return e.storeID
}

// OrderTotal 獲取訂單折後總額
func (e *AffiliateEarning) OrderTotal() decimal.Decimal {
	return e.orderTotal
}

// CommissionAmount 獲取佣金總額
func (e *AffiliateEarning) CommissionAmount() decimal.Decimal {
	return e.commissionAmount
}

// CommissionType 獲取預設佣金類型快照
func (e *AffiliateEarning) CommissionType() CommissionType {
	return e.commissionType
}

// CommissionValue 獲取預設佣金數值快照
func (e *AffiliateEarning) CommissionValue() decimal.Decimal {
	return e.commissionValue
}

// Items 獲取品項級稽核明細（防禦性拷貝）
func (e *AffiliateEarning) Items() []EarningItem {
	items := make([]EarningItem, len(e.items))
	copy(items, e.items)
	return items
}

// Status 獲取入帳狀態
func (e *AffiliateEarning) Status() EarningStatus {
	return e.status
}

// CreatedAt 獲取創建時間
func (e *AffiliateEarning) CreatedAt() time.Time {
	return e.createdAt
}

// UpdatedAt 獲取最後更新時間
func (e *AffiliateEarning) UpdatedAt() time.Time {
	return e.updatedAt
}

// ===========================
// 事件管理
// ===========================

// addEvent 添加領域事件到待發布列表（私有方法）
func (e *AffiliateEarning) addEvent(event shared.DomainEvent) {
	e.events = append(e.events, event)
}

// PullEvents 獲取所有待發布事件並清空列表
//
// 使用場景：Repository.Save() / Update() 成功後，
// Application Layer 調用此方法取出事件交給 EventPublisher。
// Pull 模式：聚合根不依賴 Publisher；只讀取一次，避免重複發布。
func (e *AffiliateEarning) PullEvents() []shared.DomainEvent {
	events := e.events
	e.events = make([]shared.DomainEvent, 0)
	return events
}

// ===========================
// 命令方法（狀態轉換）
// ===========================

// Approve 確認佣金（訂單送達時由管線調用）
//
// 狀態轉換：pending → approved
// 副作用：發布 EarningApprovedEvent
func (e *AffiliateEarning) Approve() error {
	if e.status != EarningPending {
		return e.transitionError(EarningApproved)
	}
	e.status = EarningApproved
	e.updatedAt = time.Now()
	e.addEvent(NewEarningApprovedEvent(e.earningID, e.affiliateID, e.commissionAmount))
	return nil
}

// MarkPaid 標記佣金已撥付（提領流程完成時由外部協作方調用）
//
// 狀態轉換：approved → paid
// 副作用：發布 EarningPaidEvent
func (e *AffiliateEarning) MarkPaid() error {
	if e.status != EarningApproved {
		return e.transitionError(EarningPaid)
	}
	e.status = EarningPaid
	e.updatedAt = time.Now()
	e.addEvent(NewEarningPaidEvent(e.earningID, e.affiliateID, e.commissionAmount))
	return nil
}

// Cancel 作廢佣金（訂單取消 / 退貨時由管線調用）
//
// 狀態轉換：pending | approved → cancelled
// 副作用：發布 EarningCancelledEvent（含作廢原因）
func (e *AffiliateEarning) Cancel(reason string) error {
	if e.status != EarningPending && e.status != EarningApproved {
		return e.transitionError(EarningCancelled)
	}
	e.status = EarningCancelled
	e.updatedAt = time.Now()
	e.addEvent(NewEarningCancelledEvent(e.earningID, e.affiliateID, reason))
	return nil
}

// transitionError 構建狀態轉換錯誤（含當前與目標狀態）
func (e *AffiliateEarning) transitionError(target EarningStatus) error {
	return ErrInvalidStatusTransition.WithContext(
		"earning_id", e.earningID.String(),
		"from", string(e.status),
		"to", string(target),
	)
}

// ===========================
// 聚合重建方法（僅供 Infrastructure Layer 使用）
// ===========================

// ReconstructAffiliateEarning 從持久化存儲重建入帳聚合
//
// 與 NewAffiliateEarning 的區別：
// - New: 從計算結果創建，捨入金額，發布 EarningRecorded 事件
// - Reconstruct: 重建已存在的記錄，不發布事件（事件已發生過），
//   但仍驗證狀態有效性與金額一致性，防止損壞資料污染領域層
func ReconstructAffiliateEarning(
	earningID EarningID,
	affiliateID AffiliateID,
	orderID OrderID,
	storeID StoreID,
	orderTotal decimal.Decimal,
	commissionAmount decimal.Decimal,
	commissionType CommissionType,
	commissionValue decimal.Decimal,
	items []EarningItem,
	status EarningStatus,
	createdAt time.Time,
	updatedAt time.Time,
) (*AffiliateEarning, error) {
	if earningID.IsEmpty() {
		return nil, ErrInvalidEarningID.WithContext(
			"reason", "invalid earning ID in database",
		)
	}
	if affiliateID.IsEmpty() {
		return nil, ErrInvalidAffiliateID.WithContext(
			"reason", "invalid affiliate ID in database",
		)
	}
	if orderID.IsEmpty() {
		return nil, ErrInvalidOrderID.WithContext(
			"reason", "invalid order ID in database",
		)
	}
	if !status.IsValid() {
		return nil, ErrCorruptedEarning.WithContext(
			"earning_id", earningID.String(),
			"status", string(status),
		)
	}

	// 金額一致性：總額必須等於明細行加總（容忍空明細的舊資料）
	if len(items) > 0 {
		sum := decimal.Zero
		for _, item := range items {
			sum = sum.Add(item.Amount)
		}
		if !sum.Equal(commissionAmount) {
			return nil, ErrCorruptedEarning.WithContext(
				"earning_id", earningID.String(),
				"commission_amount", commissionAmount.String(),
				"items_sum", sum.String(),
			)
		}
	}

	if items == nil {
		items = make([]EarningItem, 0)
	}

	return &AffiliateEarning{
		earningID:        earningID,
		affiliateID:      affiliateID,
		orderID:          orderID,
		storeID:          storeID,
		orderTotal:       orderTotal,
		commissionAmount: commissionAmount,
		commissionType:   commissionType,
		commissionValue:  commissionValue,
		items:            items,
		status:           status,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
		events:           make([]shared.DomainEvent, 0),
	}, nil
}
