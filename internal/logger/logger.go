package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// Logger 全局日志实例，其他包可直接使用
	Logger = log.Logger
)

// Config 日志配置。
type Config struct {
	Level        string `json:"level" yaml:"level"`                 // debug, info, warn, error
	Format       string `json:"format" yaml:"format"`               // json（机器可读）或 pretty（控制台格式）
	TimeFormat   string `json:"time_format" yaml:"time_format"`     // 时间戳格式
	ReportCaller bool   `json:"report_caller" yaml:"report_caller"` // 是否记录调用位置
}

// Init 按配置初始化日志系统并替换全局实例。
func Init(config Config) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	var output io.Writer = os.Stdout
	if config.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: config.TimeFormat,
		}
	}

	builder := zerolog.New(output).Level(level).With().Timestamp()
	if config.ReportCaller {
		builder = builder.Caller()
	}

	Logger = builder.Logger()
	log.Logger = Logger
}

// Debug 开始一条调试级别的日志事件。
func Debug() *zerolog.Event { return Logger.Debug() }

// Info 开始一条信息级别的日志事件。
func Info() *zerolog.Event { return Logger.Info() }

// Warn 开始一条警告级别的日志事件。
func Warn() *zerolog.Event { return Logger.Warn() }

// Error 开始一条错误级别的日志事件。
func Error() *zerolog.Event { return Logger.Error() }

// Fatal 开始一条致命级别的日志事件，记录后进程退出。
func Fatal() *zerolog.Event { return Logger.Fatal() }

// Ctx 从上下文中取日志记录器。
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext 把全局日志记录器放入上下文。
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
