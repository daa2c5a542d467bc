package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/infra/httpx"
)

const (
	// ErrCodeNotFound 表示 --config 显式指定的文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingInput 表示既没有给扩展 ID，也没有给 ID 文件。
	ErrCodeMissingInput = "config_missing_input"
)

const (
	// FileName 是配置文件名（不含扩展名，支持 yaml/json/toml）。
	FileName = "extname"
	// EnvPrefix 是环境变量前缀，例如 EXTNAME_PROXY、EXTNAME_CHROME_BASE_URL。
	EnvPrefix = "EXTNAME"

	DefaultTimeout   = httpx.DefaultTimeout
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// CLIArgs 是命令行入口，保留“是否显式指定”的信息，
// 让 --browser= 这类显式空值也能覆盖配置文件。
type CLIArgs struct {
	ConfigFile string

	ID   string
	File string

	Proxy    string
	ProxySet bool

	Browser    string
	BrowserSet bool

	Timeout    time.Duration
	TimeoutSet bool

	LogLevel    string
	LogLevelSet bool

	LogFormat    string
	LogFormatSet bool

	CSV   string
	Excel string
	JSON  string
}

// Outputs 是导出目标路径；空串表示不导出该格式。
type Outputs struct {
	CSV   string
	Excel string
	JSON  string
}

func (o Outputs) Any() bool { return o.CSV != "" || o.Excel != "" || o.JSON != "" }

type LogConfig struct {
	Level      string
	Format     string // "console" | "json"
	File       string // 非空时额外写入滚动日志文件（JSON）
	MaxSizeMB  int
	MaxBackups int
}

// EffectiveConfig 是合并并规范化后的最终配置（实现层直接消费）。
type EffectiveConfig struct {
	// 二选一：ID 非空为单条模式，File 非空为批量模式。
	ID   domain.ExtensionID
	File string
	// IgnoredID 是与 File 同时给出、因此被忽略的扩展 ID。
	IgnoredID domain.ExtensionID

	Browser            domain.Store
	ProxyURL           string
	Timeout            time.Duration
	InsecureSkipVerify bool

	ChromeBaseURL string
	EdgeBaseURL   string

	Outputs Outputs
	Log     LogConfig

	// ConfigFile 是实际读取的配置文件；未找到时为空。
	ConfigFile string
}

// Batch 报告是否为批量模式。
func (e EffectiveConfig) Batch() bool { return e.File != "" }

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingInput:
		return fmt.Sprintf("%s：请提供扩展 ID 或包含扩展 ID 的文件（-f）", e.Code)
	case ErrCodeInvalid:
		if e.Path != "" && e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取配置文件与环境变量，再与 CLI 参数合并为最终配置。
//
// 发现规则：
// 1) --config 显式指定：必须存在
// 2) 否则依次查找 <cwd>/extname.{yaml,json,toml}、~/.config/extname/extname.*（可选）
//
// 覆盖优先级：CLI > 环境变量 EXTNAME_* > 配置文件 > 默认值。
// ID/文件/导出路径只来自 CLI。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	v := newViper()

	cfgPath, err := readConfig(v, cwd, cli.ConfigFile)
	if err != nil {
		return EffectiveConfig{}, err
	}
	return merge(v, cwd, cli, cfgPath)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("proxy", "")
	v.SetDefault("browser", "")
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("insecure_skip_verify", true)
	v.SetDefault("chrome.base_url", "")
	v.SetDefault("edge.base_url", "")
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// readConfig 返回实际读取的配置文件路径；没有找到（且未显式指定）时返回空串。
func readConfig(v *viper.Viper, cwd, explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		p, err := absPath(cwd, explicit)
		if err != nil {
			return "", &Error{Code: ErrCodeInvalid, Path: explicit, Err: err}
		}
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return "", &Error{Code: ErrCodeNotFound, Path: p, Err: os.ErrNotExist}
			}
			return "", &Error{Code: ErrCodeInvalid, Path: p, Err: err}
		}
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return "", &Error{Code: ErrCodeInvalid, Path: p, Err: err}
		}
		return p, nil
	}

	v.SetConfigName(FileName)
	v.AddConfigPath(cwd)
	if home, err := homedir.Dir(); err == nil && home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", FileName))
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return "", nil
		}
		return "", &Error{Code: ErrCodeInvalid, Path: v.ConfigFileUsed(), Err: err}
	}
	return v.ConfigFileUsed(), nil
}

func merge(v *viper.Viper, cwd string, cli CLIArgs, cfgPath string) (EffectiveConfig, error) {
	invalid := func(err error) error { return &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err} }

	eff := EffectiveConfig{ConfigFile: cfgPath}

	// 输入：ID 或文件；两者都有时按文件（批量模式）处理。
	id := strings.TrimSpace(cli.ID)
	file := strings.TrimSpace(cli.File)
	switch {
	case file != "":
		// 同时给了 ID 与文件：文件优先，ID 记下来交给 CLI 提示。
		if id != "" {
			eff.IgnoredID = domain.ExtensionID(id)
		}
		p, err := absPath(cwd, file)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("文件路径无效：%w", err)}
		}
		eff.File = p
	case id != "":
		eff.ID = domain.ExtensionID(id)
	default:
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingInput}
	}

	browser := v.GetString("browser")
	if cli.BrowserSet {
		browser = cli.Browser
	}
	store, err := domain.ParseStore(browser)
	if err != nil {
		return EffectiveConfig{}, invalid(err)
	}
	eff.Browser = store

	proxy := v.GetString("proxy")
	if cli.ProxySet {
		proxy = cli.Proxy
	}
	proxy = strings.TrimSpace(proxy)
	if proxy != "" {
		if _, err := httpx.ParseProxyURL(proxy); err != nil {
			return EffectiveConfig{}, invalid(err)
		}
	}
	eff.ProxyURL = proxy

	timeout := v.GetDuration("timeout")
	if cli.TimeoutSet {
		timeout = cli.Timeout
	}
	if timeout <= 0 {
		return EffectiveConfig{}, invalid(fmt.Errorf("timeout 必须大于 0，实际是 %s", timeout))
	}
	eff.Timeout = timeout
	eff.InsecureSkipVerify = v.GetBool("insecure_skip_verify")

	for _, b := range []struct {
		key string
		dst *string
	}{
		{"chrome.base_url", &eff.ChromeBaseURL},
		{"edge.base_url", &eff.EdgeBaseURL},
	} {
		raw := strings.TrimSpace(v.GetString(b.key))
		if raw == "" {
			continue
		}
		if err := validateBaseURL(raw); err != nil {
			return EffectiveConfig{}, invalid(fmt.Errorf("%s 无效：%w", b.key, err))
		}
		*b.dst = raw
	}

	for _, o := range []struct {
		raw string
		dst *string
	}{
		{cli.CSV, &eff.Outputs.CSV},
		{cli.Excel, &eff.Outputs.Excel},
		{cli.JSON, &eff.Outputs.JSON},
	} {
		if strings.TrimSpace(o.raw) == "" {
			continue
		}
		p, err := absPath(cwd, o.raw)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("导出路径无效：%w", err)}
		}
		*o.dst = p
	}

	logCfg := LogConfig{
		Level:      v.GetString("log.level"),
		Format:     v.GetString("log.format"),
		File:       strings.TrimSpace(v.GetString("log.file")),
		MaxSizeMB:  v.GetInt("log.max_size_mb"),
		MaxBackups: v.GetInt("log.max_backups"),
	}
	if cli.LogLevelSet {
		logCfg.Level = cli.LogLevel
	}
	if cli.LogFormatSet {
		logCfg.Format = cli.LogFormat
	}
	if _, err := zapcore.ParseLevel(logCfg.Level); err != nil {
		return EffectiveConfig{}, invalid(fmt.Errorf("log.level 无效：%q", logCfg.Level))
	}
	switch logCfg.Format {
	case "console", "json":
	default:
		return EffectiveConfig{}, invalid(fmt.Errorf("log.format 只能是 console 或 json，实际是 %q", logCfg.Format))
	}
	if logCfg.File != "" {
		p, err := absPath(cwd, logCfg.File)
		if err != nil {
			return EffectiveConfig{}, invalid(fmt.Errorf("log.file 无效：%w", err))
		}
		logCfg.File = p
	}
	eff.Log = logCfg

	return eff, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q 不是合法 URL", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("必须是 http/https：%q", raw)
	}
	return nil
}

// absPath 展开 ~ 后以 base 为基准转为 clean + absolute 路径。
func absPath(base, p string) (string, error) {
	p, err := homedir.Expand(strings.TrimSpace(p))
	if err != nil {
		return "", err
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Clean(filepath.Join(base, p)), nil
}
