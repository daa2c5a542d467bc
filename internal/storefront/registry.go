package storefront

import (
	"fmt"

	"github.com/John-Robertt/extname/internal/domain"
)

// Registry 是商店实现的只读注册表（按 Store 索引）。
type Registry struct {
	byStore map[domain.Store]Storefront
}

func NewRegistry(fronts ...Storefront) (Registry, error) {
	byStore := make(map[domain.Store]Storefront, len(fronts))
	for _, f := range fronts {
		if f == nil {
			return Registry{}, fmt.Errorf("storefront 不能为空")
		}
		s := f.Store()
		if s == "" {
			return Registry{}, fmt.Errorf("storefront.Store 不能为空")
		}
		if _, ok := byStore[s]; ok {
			return Registry{}, fmt.Errorf("重复的 storefront：%q", s)
		}
		byStore[s] = f
	}
	return Registry{byStore: byStore}, nil
}

func (r Registry) Get(s domain.Store) (Storefront, bool) {
	if r.byStore == nil {
		return nil, false
	}
	f, ok := r.byStore[s]
	return f, ok
}
