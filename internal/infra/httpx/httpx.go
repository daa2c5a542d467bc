package httpx

import (
	"crypto/tls"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// DefaultTimeout 是单次请求的总超时（连接 + 读完响应）。
const DefaultTimeout = 10 * time.Second

// Options 描述商店抓取客户端的网络策略。
type Options struct {
	// ProxyURL 非空时所有请求走该代理（http/https/socks5）。
	ProxyURL string
	// Timeout <= 0 时使用 DefaultTimeout。
	Timeout time.Duration
	// InsecureSkipVerify 关闭 TLS 证书校验。
	InsecureSkipVerify bool
}

// Transport 在底层 *http.Transport 之上补齐内容协商：
// 主动声明 br/gzip，并在返回前解码，让上层拿到的永远是明文 body。
//
// 不做重试：一次 RoundTrip 对应一次真实请求。
type Transport struct {
	// Base 是最底层的连接池（代理/TLS 在这里配置）。
	Base *http.Transport

	next http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.next == nil {
		return nil, errors.New("nil base transport")
	}

	r := req.Clone(req.Context())
	negotiated := false
	if r.Header.Get("Accept-Encoding") == "" && r.Method != http.MethodHead {
		r.Header.Set("Accept-Encoding", acceptEncoding)
		negotiated = true
	}

	resp, err := t.next.RoundTrip(r)
	if err != nil {
		return nil, err
	}
	if !negotiated {
		return resp, nil
	}
	if err := decodeBody(resp); err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// CloseIdleConnections 让 http.Client.CloseIdleConnections 能关闭底层连接池。
func (t *Transport) CloseIdleConnections() {
	if t.Base != nil {
		t.Base.CloseIdleConnections()
	}
}

// NewStoreClient 构造用于商店详情页抓取的 resty client。
//
// 规则：
// - 所有请求共享同一个连接池（批量模式下并发请求复用连接）
// - proxyURL 非空：全部走代理
// - 每个请求随机桌面 UA
// - 固定总超时，不重试
func NewStoreClient(opts Options) (*resty.Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := &http.Transport{
		Proxy:                 nil,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}

	if p := strings.TrimSpace(opts.ProxyURL); p != "" {
		u, err := ParseProxyURL(p)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
	}

	// cloudflarebp 会替换 base.TLSClientConfig（曲线偏好），证书策略必须在它之后设置。
	next := cloudflarebp.AddCloudFlareByPass(base)
	if base.TLSClientConfig == nil {
		base.TLSClientConfig = &tls.Config{}
	}
	base.TLSClientConfig.InsecureSkipVerify = opts.InsecureSkipVerify

	hc := &http.Client{
		Transport: &Transport{Base: base, next: next},
		Timeout:   timeout,
	}

	c := resty.NewWithClient(hc).
		SetTimeout(timeout).
		SetRetryCount(0)
	c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		// resty 会在之后补默认 UA（go-resty/x.y），这里抢先设置。
		if r.Header.Get("User-Agent") == "" {
			r.SetHeader("User-Agent", globalUA.random())
		}
		return nil
	})
	return c, nil
}

// ParseProxyURL 校验代理地址：必须带 scheme 与 host。
func ParseProxyURL(s string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("proxy 无效：%w", err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("proxy 只支持 http/https/socks5，实际是 %q", s)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy 缺少 host：%q", s)
	}
	return u, nil
}

type uaPool struct {
	mu  sync.Mutex
	rnd *rand.Rand
	uas []string
}

func (p *uaPool) random() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uas[p.rnd.Intn(len(p.uas))]
}

var globalUA = newUAPool()

func newUAPool() *uaPool {
	uas := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36 Edg/129.0.0.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	}
	return &uaPool{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		uas: uas,
	}
}
