package storefront

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/John-Robertt/extname/internal/domain"
)

// Storefront 把“商店页面结构”限制在各自的子包内部；解析流程只依赖统一接口。
//
// 约束：
// - Fetch 不做缓存、不做重试、不做限速（本工具明确不需要这些能力）
// - Parse 必须是纯函数：相同输入 => 相同输出
// - pageURL 是实际请求的详情页 URL（用于日志追溯）
type Storefront interface {
	Store() domain.Store
	Fetch(ctx context.Context, id domain.ExtensionID, c *resty.Client) (html []byte, pageURL string, err error)
	Parse(html []byte) (name string, err error)
}
