package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/storefront"
)

// ResolveAll 为每个 ID 启动一个 goroutine 并发解析（不设并发上限），等待全部结束后
// 按输入顺序组装 Batch。
//
// - 单条失败（含 panic）替换为哨兵结果，不影响其他条目
// - 所有 goroutine 共享同一个 client（同一连接池）
// - 每个 goroutine 只写自己的下标，无需加锁
func ResolveAll(ctx context.Context, reg storefront.Registry, ids []domain.ExtensionID, hint domain.Store, c *resty.Client, obs Observer) *domain.Batch {
	total := len(ids)
	if obs != nil {
		obs.OnStart(total)
	}

	results := make([]domain.Resolution, total)
	var (
		done atomic.Int64
		g    errgroup.Group
	)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			started := time.Now()
			res, attempts, err := resolveOne(ctx, reg, id, hint, c)
			if err != nil {
				res = domain.NotFound()
			}
			results[i] = res
			if obs != nil {
				obs.OnItemDone(int(done.Add(1)), total, id, res, attempts, err, time.Since(started))
			}
			return nil
		})
	}
	_ = g.Wait()

	b := domain.NewBatch(total)
	for i, id := range ids {
		b.Set(id, results[i])
	}
	return b
}

func resolveOne(ctx context.Context, reg storefront.Registry, id domain.ExtensionID, hint domain.Store, c *resty.Client) (res domain.Resolution, attempts []storefront.Attempt, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", storefront.ErrNotFound, id, r)
		}
	}()
	return storefront.ResolveTrace(ctx, reg, id, hint, c)
}
