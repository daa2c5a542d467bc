package batch

import (
	"time"

	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/storefront"
)

// Observer 把“批量进度/单条结果”从执行流程中解耦出来。
//
// 约束：
// - batch 包只发事件，不做任何输出（stdout 只留给最终结果）
// - 实现必须并发安全：OnItemDone 来自多个 goroutine
type Observer interface {
	// OnStart 在任何请求发出之前调用一次。
	OnStart(total int)
	// OnItemDone 在某个 ID 解析结束时调用；done 是已完成数（1..total），按完成先后递增。
	// err 非 nil 时 res 已经是哨兵结果。
	OnItemDone(done, total int, id domain.ExtensionID, res domain.Resolution, attempts []storefront.Attempt, err error, dur time.Duration)
}
