package domain

import (
	"fmt"
	"strings"
)

// ExtensionID 是扩展在商店中的标识（对 Chrome 是 32 位小写字母，对 Edge 同样是不透明串）。
//
// 约束：不做格式校验，只保证非空（去除首尾空白后）。
type ExtensionID string

// ParseExtensionID 去除首尾空白；空串返回 false。
func ParseExtensionID(s string) (ExtensionID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return ExtensionID(s), true
}

// Store 标记名称来自哪个商店。零值 "" 表示未解析到（哨兵结果）。
type Store string

const (
	StoreChrome Store = "Chrome"
	StoreEdge   Store = "Edge"
)

// ParseStore 把 CLI/配置中的小写取值（chrome/edge）映射为 Store。
// 空串合法，表示“不限定商店”。
func ParseStore(s string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "chrome":
		return StoreChrome, nil
	case "edge":
		return StoreEdge, nil
	default:
		return "", fmt.Errorf("browser 只能是 chrome 或 edge，实际是 %q", s)
	}
}

// Key 返回小写形式（用于 registry 查找与日志字段）。
func (s Store) Key() string { return strings.ToLower(string(s)) }
