package domain

// Batch 是 ExtensionID -> Resolution 的有序映射。
//
// 不变量：
// - 迭代顺序 = key 第一次写入的顺序（即输入顺序）
// - 重复 key 不新增条目，后写覆盖先写
type Batch struct {
	order []ExtensionID
	byID  map[ExtensionID]Resolution
}

func NewBatch(capacity int) *Batch {
	if capacity < 0 {
		capacity = 0
	}
	return &Batch{
		order: make([]ExtensionID, 0, capacity),
		byID:  make(map[ExtensionID]Resolution, capacity),
	}
}

// Set 写入一条结果；key 已存在时只覆盖值，不改变位置。
func (b *Batch) Set(id ExtensionID, r Resolution) {
	if _, ok := b.byID[id]; !ok {
		b.order = append(b.order, id)
	}
	b.byID[id] = r
}

func (b *Batch) Get(id ExtensionID) (Resolution, bool) {
	r, ok := b.byID[id]
	return r, ok
}

func (b *Batch) Len() int { return len(b.order) }

// IDs 返回按插入顺序排列的 key（副本）。
func (b *Batch) IDs() []ExtensionID {
	return append([]ExtensionID(nil), b.order...)
}

// Entry 是 Batch 的一条记录，用于按顺序遍历与导出。
type Entry struct {
	ID ExtensionID
	Resolution
}

// Entries 按插入顺序返回全部记录。
func (b *Batch) Entries() []Entry {
	out := make([]Entry, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, Entry{ID: id, Resolution: b.byID[id]})
	}
	return out
}

// Summary 统计解析成功与失败（哨兵）的条目数。
func (b *Batch) Summary() (found, missing int) {
	for _, id := range b.order {
		if b.byID[id].Found() {
			found++
		} else {
			missing++
		}
	}
	return found, missing
}
