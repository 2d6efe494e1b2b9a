package commission

import (
	"strings"

	"github.com/google/uuid"
)

// ===========================
// ReferralCode Value Object
// ===========================

// referralCodePrefix 推薦碼固定前綴
const referralCodePrefix = "AF-"

// referralCodeSuffixLength 前綴後的英數字長度
const referralCodeSuffixLength = 8

// ReferralCode 聯盟夥伴推薦碼值對象
//
// 業務規則：
// 1. 格式："AF-" + 8 位大寫英數字（例："AF-3F9A27BC"）
// 2. 同一商店內唯一（由資料庫唯一索引保證）
// 3. 推薦碼一經發放不可變更（分享出去的連結必須永久有效）
//
// 設計原則：
// - 不可變性（Immutability）
// - 自我驗證（Self-validation）
// - 值相等（Value Equality）
type ReferralCode struct {
	value string
}

// NewReferralCode 創建推薦碼值對象（Checked Constructor）
//
// 輸入會先去空白並轉大寫，再驗證格式。
//
// 錯誤範例：
// - ""（空字串）→ ErrInvalidReferralCode
// - "XX-3F9A27BC"（前綴錯誤）→ ErrInvalidReferralCode
// - "AF-3F9A"（長度不足）→ ErrInvalidReferralCode
// - "AF-3F9A27B!"（非英數字）→ ErrInvalidReferralCode
func NewReferralCode(value string) (ReferralCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))

	if normalized == "" {
		return ReferralCode{}, ErrInvalidReferralCode.WithContext(
			"reason", "empty code",
		)
	}
	if !strings.HasPrefix(normalized, referralCodePrefix) {
		return ReferralCode{}, ErrInvalidReferralCode.WithContext(
			"input", value,
			"reason", "missing AF- prefix",
		)
	}

	suffix := strings.TrimPrefix(normalized, referralCodePrefix)
	if len(suffix) != referralCodeSuffixLength {
		return ReferralCode{}, ErrInvalidReferralCode.WithContext(
			"input", value,
			"reason", "suffix must be 8 characters",
		)
	}
	for _, r := range suffix {
		if !isUpperAlphanumeric(r) {
			return ReferralCode{}, ErrInvalidReferralCode.WithContext(
				"input", value,
				"reason", "suffix must be uppercase alphanumeric",
			)
		}
	}

	return ReferralCode{value: normalized}, nil
}

// GenerateReferralCode 生成新的隨機推薦碼
//
// 取 UUID v4 十六進制表示的前 8 位轉大寫。
// 唯一性最終由資料庫唯一索引保證，碰撞時由調用方重試。
func GenerateReferralCode() ReferralCode {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	suffix := strings.ToUpper(raw[:referralCodeSuffixLength])
	return ReferralCode{value: referralCodePrefix + suffix}
}

// Value 獲取推薦碼字串
func (c ReferralCode) Value() string {
	return c.value
}

// Equals 比較兩個推薦碼是否相等
func (c ReferralCode) Equals(other ReferralCode) bool {
	return c.value == other.value
}

// IsEmpty 判斷是否為零值（未初始化）
func (c ReferralCode) IsEmpty() bool {
	return c.value == ""
}

// isUpperAlphanumeric 判斷字符是否為大寫英文字母或數字
func isUpperAlphanumeric(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
