package chrome

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/storefront"
)

// DefaultBaseURL 是 Chrome Web Store 的默认域名。
const DefaultBaseURL = "https://chromewebstore.google.com"

// Storefront 实现 Chrome Web Store 的详情页抓取与名称解析。
//
// 详情页：<base>/detail/<id>；名称取第一个 <h1> 的文本。
type Storefront struct {
	// BaseURL 允许替换域名（镜像或测试服务器）；为空时使用 DefaultBaseURL。
	BaseURL string
}

func (Storefront) Store() domain.Store { return domain.StoreChrome }

func (s Storefront) baseURL() string {
	u := strings.TrimSpace(s.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

// DetailURL 返回 id 对应的详情页 URL。
func (s Storefront) DetailURL(id domain.ExtensionID) string {
	return s.baseURL() + "/detail/" + url.PathEscape(string(id))
}

func (s Storefront) Fetch(ctx context.Context, id domain.ExtensionID, c *resty.Client) ([]byte, string, error) {
	if id == "" {
		return nil, "", errors.New("extension id 不能为空")
	}
	pageURL := s.DetailURL(id)
	b, err := storefront.FetchHTML(ctx, c, pageURL)
	return b, pageURL, err
}

func (Storefront) Parse(html []byte) (string, error) {
	doc, err := storefront.ParseDocument(html)
	if err != nil {
		return "", err
	}
	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return "", storefront.ErrElementMissing
	}
	name := strings.TrimSpace(h1.Text())
	if name == "" {
		return "", storefront.ErrElementMissing
	}
	return name, nil
}
