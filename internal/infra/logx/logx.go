package logx

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/John-Robertt/extname/internal/config"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// New 按配置构造 logger。
//
// - console 输出写到 w（CLI 传入 stderr，保证 stdout 只承载结果）
// - cfg.File 非空时额外写一份 JSON 到滚动文件（lumberjack）
func New(cfg config.LogConfig, w zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level 无效：%w", err)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder(cfg.Format, isTerminal(w)), w, level),
	}
	if cfg.File != "" {
		fw := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
		cores = append(cores, zapcore.NewCore(encoder("json", false), fw, level))
	}

	return zap.New(zapcore.NewTee(cores...)).Named("extname"), nil
}

func encoder(format string, color bool) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	// 只有直接输出到终端时才带 ANSI 颜色，重定向到文件/管道时保持纯文本。
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

func isTerminal(w zapcore.WriteSyncer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
