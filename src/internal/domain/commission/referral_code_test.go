package commission_test

import (
	"testing"

	"github.com/jackyeh168/shop_crm/src/internal/domain/commission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== ReferralCode 值對象測試 =====

// Test 1: 格式驗證
func TestNewReferralCode_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expectErr bool
		expected  string
	}{
		{"標準格式", "AF-3F9A27BC", false, "AF-3F9A27BC"},
		{"小寫輸入轉大寫", "af-3f9a27bc", false, "AF-3F9A27BC"},
		{"前後空白被去除", "  AF-3F9A27BC  ", false, "AF-3F9A27BC"},
		{"空字串", "", true, ""},
		{"前綴錯誤", "XX-3F9A27BC", true, ""},
		{"長度不足", "AF-3F9A", true, ""},
		{"長度超過", "AF-3F9A27BC1", true, ""},
		{"含非英數字字符", "AF-3F9A27B!", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			code, err := commission.NewReferralCode(tt.input)

			// Assert
			if tt.expectErr {
				assert.ErrorIs(t, err, commission.ErrInvalidReferralCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, code.Value())
		})
	}
}

// Test 2: 隨機生成的推薦碼總是通過自身驗證
func TestGenerateReferralCode_ProducesValidCodes(t *testing.T) {
	for i := 0; i < 20; i++ {
		generated := commission.GenerateReferralCode()

		parsed, err := commission.NewReferralCode(generated.Value())
		require.NoError(t, err, "generated code %q failed validation", generated.Value())
		assert.True(t, generated.Equals(parsed))
	}
}

// Test 3: 值相等語義
func TestReferralCode_Equals(t *testing.T) {
	a, err := commission.NewReferralCode("AF-3F9A27BC")
	require.NoError(t, err)
	b, err := commission.NewReferralCode("af-3f9a27bc") // 正規化後相同
	require.NoError(t, err)
	c, err := commission.NewReferralCode("AF-00000000")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.IsEmpty())
	assert.True(t, commission.ReferralCode{}.IsEmpty())
}
