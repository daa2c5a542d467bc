package main

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/John-Robertt/extname/internal/app/batch"
	"github.com/John-Robertt/extname/internal/config"
	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/storefront"
)

var _ batch.Observer = (*logObserver)(nil)

// logObserver 把批量进度写成结构化日志（stderr），stdout 不受影响。
type logObserver struct {
	log *zap.Logger

	mu        sync.Mutex
	startedAt time.Time
	ok        int
	fail      int
}

func newLogObserver(log *zap.Logger) *logObserver {
	return &logObserver{log: log}
}

func (o *logObserver) OnStart(total int) {
	o.mu.Lock()
	o.startedAt = time.Now()
	o.mu.Unlock()
	o.log.Info("开始批量查询", zap.Int("total", total))
}

func (o *logObserver) OnItemDone(done, total int, id domain.ExtensionID, res domain.Resolution, attempts []storefront.Attempt, err error, dur time.Duration) {
	o.mu.Lock()
	if err != nil {
		o.fail++
	} else {
		o.ok++
	}
	ok, fail := o.ok, o.fail
	elapsed := time.Since(o.startedAt)
	o.mu.Unlock()

	progress := fmt.Sprintf("%d/%d", done, total)
	if err != nil {
		o.log.Warn("未找到",
			zap.String("progress", progress),
			zap.String("id", string(id)),
			zap.String("attempts", formatAttemptChain(attempts)),
			zap.String("took", formatShortDuration(dur)),
		)
	} else {
		o.log.Debug("完成",
			zap.String("progress", progress),
			zap.String("id", string(id)),
			zap.String("store", string(res.Store)),
			zap.String("name", truncate(res.Name, 120)),
			zap.String("took", formatShortDuration(dur)),
		)
	}

	if done == total {
		o.log.Info("批量查询结束",
			zap.Int("total", total),
			zap.Int("ok", ok),
			zap.Int("not_found", fail),
			zap.String("elapsed", formatShortDuration(elapsed)),
		)
	}
}

// logEffective 在 debug 级别记录生效配置，代理里的账号信息不落日志。
func logEffective(log *zap.Logger, eff config.EffectiveConfig) {
	mode := "single"
	if eff.Batch() {
		mode = "batch"
	}
	browser := string(eff.Browser)
	if browser == "" {
		browser = "chrome -> edge"
	}
	log.Debug("配置（生效）",
		zap.String("mode", mode),
		zap.String("browser", browser),
		zap.String("proxy", formatProxy(eff.ProxyURL)),
		zap.Duration("timeout", eff.Timeout),
		zap.Bool("insecure_skip_verify", eff.InsecureSkipVerify),
		zap.String("config_file", eff.ConfigFile),
	)
}

func formatProxy(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "off"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "on"
	}
	auth := "off"
	if u.User != nil {
		auth = "on"
	}
	return fmt.Sprintf("on (%s://%s, auth=%s)", u.Scheme, u.Host, auth)
}

// formatAttemptChain 把尝试轨迹压成一行：chrome:fetch:HTTP 404;edge:ok。
func formatAttemptChain(attempts []storefront.Attempt) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		s := a.Store.Key() + ":" + a.Stage
		if a.Err != nil {
			s += ":" + truncate(a.Err.Error(), 80)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ";")
}

// truncate 按字符（rune）截断，超出部分以 "..." 结尾。
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
