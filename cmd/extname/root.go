package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/John-Robertt/extname/internal/app/batch"
	"github.com/John-Robertt/extname/internal/config"
	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/export"
	"github.com/John-Robertt/extname/internal/idfile"
	"github.com/John-Robertt/extname/internal/infra/httpx"
	"github.com/John-Robertt/extname/internal/infra/logx"
	"github.com/John-Robertt/extname/internal/storefront"
	"github.com/John-Robertt/extname/internal/storefront/chrome"
	"github.com/John-Robertt/extname/internal/storefront/edge"
)

// errReported 表示错误信息已经输出过，execute 只需要返回退出码。
var errReported = errors.New("reported")

// app 收拢 CLI 的外部依赖，测试里可以替换输出与 logger。
type app struct {
	stdout io.Writer
	stderr io.Writer

	newLogger func(cfg config.LogConfig, w io.Writer) (*zap.Logger, error)
	isTTY     func(w io.Writer) bool
	getwd     func() (string, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		newLogger: func(cfg config.LogConfig, w io.Writer) (*zap.Logger, error) {
			return logx.New(cfg, zapcore.AddSync(w))
		},
		isTTY: isTTY,
		getwd: os.Getwd,
	}
}

func execute(ctx context.Context, args []string, a *app) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(a.stderr, "错误：%v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	var cli config.CLIArgs

	cmd := &cobra.Command{
		Use:   "extname [extension-id]",
		Short: "根据扩展 ID 查询 Chrome / Edge 商店中的扩展名称",
		Long: `根据扩展 ID 查询 Chrome Web Store / Microsoft Edge Add-ons 中的扩展名称。

单条模式：extname <id>，stdout 输出名称。
批量模式：extname -f ids.txt，所有 ID 并发查询，stdout 按输入顺序输出 "ID: Name"。
--csv / --excel / --json 可任意组合，把结果导出到文件。`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cli.ID = args[0]
			}
			flags := cmd.Flags()
			cli.ProxySet = flags.Changed("proxy")
			cli.BrowserSet = flags.Changed("browser")
			cli.TimeoutSet = flags.Changed("timeout")
			cli.LogLevelSet = flags.Changed("log-level")
			cli.LogFormatSet = flags.Changed("log-format")
			return a.run(cmd.Context(), cli)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	f := cmd.Flags()
	f.StringVarP(&cli.File, "file", "f", "", "ID 文件（每行一个扩展 ID），启用批量模式")
	f.StringVarP(&cli.Proxy, "proxy", "p", "", "代理地址（http/https/socks5）")
	f.StringVar(&cli.Browser, "browser", "", "只查询指定商店：chrome|edge（默认先 chrome 后 edge）")
	f.StringVar(&cli.CSV, "csv", "", "导出 CSV 文件路径")
	f.StringVar(&cli.Excel, "excel", "", "导出 Excel 文件路径")
	f.StringVar(&cli.JSON, "json", "", "导出 JSON 文件路径")
	f.StringVarP(&cli.ConfigFile, "config", "c", "", "配置文件路径（默认 ./extname.yaml，其次 ~/.config/extname/）")
	f.DurationVar(&cli.Timeout, "timeout", config.DefaultTimeout, "单次请求超时")
	f.StringVar(&cli.LogLevel, "log-level", config.DefaultLogLevel, "日志级别：debug|info|warn|error")
	f.StringVar(&cli.LogFormat, "log-format", config.DefaultLogFormat, "日志格式：console|json")

	return cmd
}

func (a *app) run(ctx context.Context, cli config.CLIArgs) error {
	cwd, err := a.getwd()
	if err != nil {
		return fmt.Errorf("读取当前目录失败：%w", err)
	}

	eff, err := config.LoadEffective(cwd, cli)
	if err != nil {
		return fmt.Errorf("配置错误（%s）：%w", config.Code(err), err)
	}

	log, err := a.newLogger(eff.Log, a.stderr)
	if err != nil {
		return fmt.Errorf("初始化日志失败：%w", err)
	}
	defer func() { _ = log.Sync() }()
	logEffective(log, eff)

	c, err := httpx.NewStoreClient(httpx.Options{
		ProxyURL:           eff.ProxyURL,
		Timeout:            eff.Timeout,
		InsecureSkipVerify: eff.InsecureSkipVerify,
	})
	if err != nil {
		return fmt.Errorf("初始化 HTTP 客户端失败：%w", err)
	}
	defer c.GetClient().CloseIdleConnections()

	reg, err := storefront.NewRegistry(
		chrome.Storefront{BaseURL: eff.ChromeBaseURL},
		edge.Storefront{BaseURL: eff.EdgeBaseURL},
	)
	if err != nil {
		return fmt.Errorf("初始化 storefront registry 失败：%w", err)
	}

	if eff.Batch() {
		return a.runBatch(ctx, log, eff, reg, c)
	}
	return a.runSingle(ctx, log, eff, reg, c)
}

func (a *app) runSingle(ctx context.Context, log *zap.Logger, eff config.EffectiveConfig, reg storefront.Registry, c *resty.Client) error {
	res, attempts, err := storefront.ResolveTrace(ctx, reg, eff.ID, eff.Browser, c)
	if err != nil {
		if !errors.Is(err, storefront.ErrNotFound) {
			return err
		}
		log.Warn("未找到扩展名称",
			zap.String("id", string(eff.ID)),
			zap.String("attempts", formatAttemptChain(attempts)),
		)
		fmt.Fprintln(a.stdout, domain.NameNotFound)
		return errReported
	}

	log.Debug("解析成功",
		zap.String("id", string(eff.ID)),
		zap.String("store", string(res.Store)),
		zap.String("attempts", formatAttemptChain(attempts)),
	)
	fmt.Fprintln(a.stdout, res.Name)

	b := domain.NewBatch(1)
	b.Set(eff.ID, res)
	return writeExports(log, b, eff.Outputs)
}

func (a *app) runBatch(ctx context.Context, log *zap.Logger, eff config.EffectiveConfig, reg storefront.Registry, c *resty.Client) error {
	if eff.IgnoredID != "" {
		log.Warn("同时指定了扩展 ID 与 ID 文件，按文件批量查询，忽略该 ID",
			zap.String("id", string(eff.IgnoredID)),
			zap.String("file", eff.File),
		)
	}

	ids, err := idfile.ReadFile(eff.File)
	if err != nil {
		return fmt.Errorf("读取 ID 文件失败：%w", err)
	}

	b := batch.ResolveAll(ctx, reg, ids, eff.Browser, c, newLogObserver(log))

	// 导出失败也先把结果打到 stdout，避免整批请求白跑。
	exportErr := writeExports(log, b, eff.Outputs)
	emitBatch(a.stdout, b, a.isTTY(a.stdout))
	return exportErr
}

func writeExports(log *zap.Logger, b *domain.Batch, out config.Outputs) error {
	if !out.Any() {
		return nil
	}
	written, err := export.Write(b, out)
	for _, w := range written {
		log.Info("已导出", zap.String("format", string(w.Format)), zap.String("path", w.Path))
	}
	return err
}
