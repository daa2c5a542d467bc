package domain

// NameNotFound 是所有候选商店都失败时替代名称的哨兵字符串（导出文件里原样出现）。
const NameNotFound = "Extension name not found"

// Resolution 是一次解析的结果：展示名 + 来源商店。
type Resolution struct {
	Name  string
	Store Store
}

// NotFound 返回哨兵结果 ("Extension name not found", "")。
func NotFound() Resolution {
	return Resolution{Name: NameNotFound}
}

// Found 报告该结果是否来自某个商店（哨兵结果的 Store 为空）。
func (r Resolution) Found() bool { return r.Store != "" }
