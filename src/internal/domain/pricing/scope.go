package pricing

import (
	"strings"
)

// ===========================
// Scope 適用範圍值對象
// ===========================

// ScopeType 適用範圍類型
type ScopeType string

// 適用範圍類型常量
const (
	ScopeAll      ScopeType = "all"      // 所有品項
	ScopeCategory ScopeType = "category" // 指定分類
	ScopeProduct  ScopeType = "product"  // 指定商品
)

// Scope 優惠券適用範圍值對象
//
// 業務規則：
// 1. appliesTo = all：所有品項皆符合，忽略分類 / 商品清單
// 2. appliesTo = category：品項必須有分類，且分類（去空白、不分大小寫）
//    在清單內
// 3. appliesTo = product：品項的 ProductID 精確匹配清單內任一 ID
// 4. 無法識別的範圍類型：一律不符合（fail closed，寧可少折扣不可多折扣）
//
// 設計原則：
// - 不可變、自我驗證（建構時正規化分類名稱）
// - 零值 Scope 的 appliesTo 為空字串 → 所有品項不符合
type Scope struct {
	appliesTo  ScopeType
	categories map[string]struct{} // 正規化後的分類名稱集合
	productIDs map[string]struct{}
}

// NewScope 創建適用範圍值對象（Checked Constructor）
//
// 參數：
//   appliesTo - 範圍類型（all / category / product）
//   categoryNames - 分類名稱清單（appliesTo = category 時有效）
//   productIDs - 商品 ID 清單（appliesTo = product 時有效）
//
// 驗證規則：
// - appliesTo 必須為已知類型，否則返回 ErrInvalidScopeType
// - 分類名稱在此正規化（去空白 + 轉小寫），空字串項被忽略
func NewScope(appliesTo ScopeType, categoryNames []string, productIDs []string) (Scope, error) {
	switch appliesTo {
	case ScopeAll, ScopeCategory, ScopeProduct:
		// 已知類型
	default:
		return Scope{}, ErrInvalidScopeType.WithContext(
			"applies_to", string(appliesTo),
		)
	}

	categories := make(map[string]struct{}, len(categoryNames))
	for _, name := range categoryNames {
		normalized := NormalizeCategory(name)
		if normalized == "" {
			continue
		}
		categories[normalized] = struct{}{}
	}

	ids := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		if id == "" {
			continue
		}
		ids[id] = struct{}{}
	}

	return Scope{
		appliesTo:  appliesTo,
		categories: categories,
		productIDs: ids,
	}, nil
}

// ScopeAllItems 創建「全品項適用」範圍（便捷建構函數）
func ScopeAllItems() Scope {
	scope, _ := NewScope(ScopeAll, nil, nil) // ScopeAll 永遠有效
	return scope
}

// AppliesTo 獲取範圍類型
func (s Scope) AppliesTo() ScopeType {
	return s.appliesTo
}

// CategoryNames 獲取正規化後的分類名稱清單（持久化用）
func (s Scope) CategoryNames() []string {
	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	return names
}

// ProductIDs 獲取商品 ID 清單（持久化用）
func (s Scope) ProductIDs() []string {
	ids := make([]string, 0, len(s.productIDs))
	for id := range s.productIDs {
		ids = append(ids, id)
	}
	return ids
}

// IsItemEligible 判斷品項是否在適用範圍內
//
// 業務規則（spec 核心資格判定）：
// - all → 永遠符合
// - product → ProductID 精確匹配
// - category → 品項有分類且正規化後在集合內
// - 其他（含零值 Scope）→ 不符合（fail closed）
func (s Scope) IsItemEligible(item LineItem) bool {
	switch s.appliesTo {
	case ScopeAll:
		return true
	case ScopeProduct:
		_, ok := s.productIDs[item.ProductID]
		return ok
	case ScopeCategory:
		if !item.HasCategory() {
			return false
		}
		_, ok := s.categories[NormalizeCategory(item.Category)]
		return ok
	default:
		return false
	}
}

// NormalizeCategory 正規化分類名稱（去前後空白 + 轉小寫）
//
// 業務規則："Categoria1"、"CATEGORIA1"、"categoria1 " 視為同一分類。
// 所有分類比對（範圍判定、規則匹配、佣金層級）都必須經過此函數。
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
