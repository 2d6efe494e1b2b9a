package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===========================
// AffiliateEarning 領域事件
// ===========================

// EarningRecordedEvent 佣金已入帳事件
type EarningRecordedEvent struct {
	eventID     string
	earningID   EarningID
	affiliateID AffiliateID
	orderID     OrderID
	amount      decimal.Decimal
	occurredAt  time.Time
}

// NewEarningRecordedEvent 創建佣金已入帳事件
func NewEarningRecordedEvent(
	earningID EarningID,
	affiliateID AffiliateID,
	orderID OrderID,
	amount decimal.Decimal,
) *EarningRecordedEvent {
	return &EarningRecordedEvent{
		eventID:     uuid.New().String(),
		earningID:   earningID,
		affiliateID: affiliateID,
		orderID:     orderID,
		amount:      amount,
		occurredAt:  time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *EarningRecordedEvent) EventID() string {
	return e.eventID
}

// EventType 實現 DomainEvent 介面
func (e *EarningRecordedEvent) EventType() string {
	return "commission.earning_recorded"
}

// OccurredAt 實現 DomainEvent 介面
func (e *EarningRecordedEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// AggregateID 實現 DomainEvent 介面
func (e *EarningRecordedEvent) AggregateID() string {
	return e.earningID.String()
}

// AffiliateID 獲取聯盟夥伴 ID
func (e *EarningRecordedEvent) AffiliateID() AffiliateID {
	return e.affiliateID
}

// OrderID 獲取訂單 ID
func (e *EarningRecordedEvent) OrderID() OrderID {
	return e.orderID
}

// Amount 獲取佣金總額
func (e *EarningRecordedEvent) Amount() decimal.Decimal {
	return e.amount
}

// ===========================
// EarningApproved 領域事件
// ===========================

// EarningApprovedEvent 佣金已確認事件（訂單送達）
type EarningApprovedEvent struct {
	eventID     string
	earningID   EarningID
	affiliateID AffiliateID
	amount      decimal.Decimal
	occurredAt  time.Time
}

// NewEarningApprovedEvent 創建佣金已確認事件
func NewEarningApprovedEvent(
	earningID EarningID,
	affiliateID AffiliateID,
	amount decimal.Decimal,
) *EarningApprovedEvent {
	return &EarningApprovedEvent{
		eventID:     uuid.New().String(),
		earningID:   earningID,
		affiliateID: affiliateID,
		amount:      amount,
		occurredAt:  time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *EarningApprovedEvent) EventID() string {
	return e.eventID
}

// EventType 實現 DomainEvent 介面
func (e *EarningApprovedEvent) EventType() string {
	return "commission.earning_approved"
}

// OccurredAt 實現 DomainEvent 介面
func (e *EarningApprovedEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// AggregateID 實現 DomainEvent 介面
func (e *EarningApprovedEvent) AggregateID() string {
	return e.earningID.String()
}

// AffiliateID 獲取聯盟夥伴 ID
func (e *EarningApprovedEvent) AffiliateID() AffiliateID {
	return e.affiliateID
}

// Amount 獲取佣金總額
func (e *EarningApprovedEvent) Amount() decimal.Decimal {
	return e.amount
}

// ===========================
// EarningPaid 領域事件
// ===========================

// EarningPaidEvent 佣金已撥付事件
type EarningPaidEvent struct {
	eventID     string
	earningID   EarningID
	affiliateID AffiliateID
	amount      decimal.Decimal
	occurredAt  time.Time
}

// NewEarningPaidEvent 創建佣金已撥付事件
func NewEarningPaidEvent(
	earningID EarningID,
	affiliateID AffiliateID,
	amount decimal.Decimal,
) *EarningPaidEvent {
	return &EarningPaidEvent{
		eventID:     uuid.New().String(),
		earningID:   earningID,
		affiliateID: affiliateID,
		amount:      amount,
		occurredAt:  time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *EarningPaidEvent) EventID() string {
	return e.eventID
}

// EventType 實現 DomainEvent 介面
func (e *EarningPaidEvent) EventType() string {
	return "commission.earning_paid"
}

// OccurredAt 實現 DomainEvent 介面
func (e *EarningPaidEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// AggregateID 實現 DomainEvent 介面
func (e *EarningPaidEvent) AggregateID() string {
	return e.earningID.String()
}

// AffiliateID 獲取聯盟夥伴 ID
func (e *EarningPaidEvent) AffiliateID() AffiliateID {
	return e.affiliateID
}

// Amount 獲取佣金總額
func (e *EarningPaidEvent) Amount() decimal.Decimal {
	return e.amount
}

// ===========================
// EarningCancelled 領域事件
// ===========================

// EarningCancelledEvent 佣金已作廢事件
type EarningCancelledEvent struct {
	eventID     string
	earningID   EarningID
	affiliateID AffiliateID
	reason      string
	occurredAt  time.Time
}

// NewEarningCancelledEvent 創建佣金已作廢事件
func NewEarningCancelledEvent(
	earningID EarningID,
	affiliateID AffiliateID,
	reason string,
) *EarningCancelledEvent {
	return &EarningCancelledEvent{
		eventID:     uuid.New().String(),
		earningID:   earningID,
		affiliateID: affiliateID,
		reason:      reason,
		occurredAt:  time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *EarningCancelledEvent) EventID() string {
	return e.eventID
}

// EventType 實現 DomainEvent 介面
func (e *EarningCancelledEvent) EventType() string {
	return "commission.earning_cancelled"
}

// OccurredAt 實現 DomainEvent 介面
func (e *EarningCancelledEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// AggregateID 實現 DomainEvent 介面
func (e *EarningCancelledEvent) AggregateID() string {
	return e.earningID.String()
}

// AffiliateID 獲取聯盟夥伴 ID
func (e *EarningCancelledEvent) AffiliateID() AffiliateID {
	return e.affiliateID
}

// Reason 獲取作廢原因
func (e *EarningCancelledEvent) Reason() string {
	return e.reason
}
