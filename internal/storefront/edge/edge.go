package edge

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/storefront"
)

// DefaultBaseURL 是 Microsoft Edge Add-ons 的默认域名。
const DefaultBaseURL = "https://microsoftedge.microsoft.com"

// titleSep 是 Edge 详情页 <title> 中“名称 - 站点名”的分隔符。
const titleSep = " - "

// Storefront 实现 Edge Add-ons 的详情页抓取与名称解析。
//
// 详情页：<base>/addons/detail/<id>；名称取 <title> 中第一个连字符分隔符之前的部分。
type Storefront struct {
	BaseURL string
}

func (Storefront) Store() domain.Store { return domain.StoreEdge }

func (s Storefront) baseURL() string {
	u := strings.TrimSpace(s.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

func (s Storefront) DetailURL(id domain.ExtensionID) string {
	return s.baseURL() + "/addons/detail/" + url.PathEscape(string(id))
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
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return "", storefront.ErrElementMissing
	}
	name := nameFromTitle(title.Text())
	if name == "" {
		return "", storefront.ErrElementMissing
	}
	return name, nil
}

// nameFromTitle 取第一个 " - " 之前的文本；标题里没有带空格的分隔符时退化为第一个 '-'。
// 名称本身含连字符（例如 Picture-in-Picture）时，只有带空格的分隔符才会截断。
func nameFromTitle(title string) string {
	title = storefront.NormSpace(title)
	if before, _, ok := strings.Cut(title, titleSep); ok {
		return strings.TrimSpace(before)
	}
	before, _, _ := strings.Cut(title, "-")
	return strings.TrimSpace(before)
}
