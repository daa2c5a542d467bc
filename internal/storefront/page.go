package storefront

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// FetchHTML 对 pageURL 发起一次 GET，返回转码为 UTF-8 的页面内容。
//
// 非 2xx 返回 *HTTPStatusError；网络错误/超时原样返回。不重试。
func FetchHTML(ctx context.Context, c *resty.Client, pageURL string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}
	resp, err := c.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8").
		Get(pageURL)
	if err != nil {
		return nil, err
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return nil, &HTTPStatusError{URL: pageURL, StatusCode: code, Location: resp.Header().Get("Location")}
	}
	return toUTF8(resp.Body(), resp.Header().Get("Content-Type"))
}

// toUTF8 按 Content-Type / <meta charset> 把页面转为 UTF-8。
func toUTF8(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		// 无法识别的编码：按原样交给解析器（goquery 会按 UTF-8 处理）。
		return body, nil
	}
	return io.ReadAll(r)
}

// ParseDocument 把 HTML 解析为 goquery 文档；空输入视为错误。
func ParseDocument(html []byte) (*goquery.Document, error) {
	if len(html) == 0 {
		return nil, errors.New("html 为空")
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(html))
}

// NormSpace 折叠连续空白并去掉首尾空白。
func NormSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
