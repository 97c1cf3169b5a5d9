package logger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = newConsoleLogger(zapcore.InfoLevel)

func newConsoleLogger(level zapcore.Level) *zap.SugaredLogger {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// InitLogger 初始化全局日志
// maxAge、rotationTime 单位为小时, rotationSize 单位为MB, path 为空时只输出到控制台
func InitLogger(level, name, path string, maxAge, rotationTime, rotationSize int64, sentryDsn string) error {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if path != "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			return err
		}
		options := []rotatelogs.Option{rotatelogs.WithLinkName(filepath.Join(path, name+".log"))}
		if maxAge > 0 {
			options = append(options, rotatelogs.WithMaxAge(time.Duration(maxAge)*time.Hour))
		}
		if rotationTime > 0 {
			options = append(options, rotatelogs.WithRotationTime(time.Duration(rotationTime)*time.Hour))
		}
		if rotationSize > 0 {
			options = append(options, rotatelogs.WithRotationSize(rotationSize*1024*1024))
		}
		writer, err := rotatelogs.New(filepath.Join(path, name+".%Y%m%d%H.log"), options...)
		if err != nil {
			return err
		}
		syncers = append(syncers, zapcore.AddSync(writer))
	}

	zapOptions := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if sentryDsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: sentryDsn, ServerName: name}); err != nil {
			return err
		}
		zapOptions = append(zapOptions, zap.Hooks(sentryHook))
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.NewMultiWriteSyncer(syncers...), lvl)
	sugar = zap.New(core, zapOptions...).Sugar().Named(name)
	return nil
}

// error 级别以上的日志同步到 sentry
func sentryHook(entry zapcore.Entry) error {
	if entry.Level < zapcore.ErrorLevel {
		return nil
	}
	sentry.CaptureMessage(entry.Message)
	return nil
}

func Sync() {
	_ = sugar.Sync()
	sentry.Flush(2 * time.Second)
}

func Debug(args ...interface{}) {
	sugar.Debug(args...)
}

func Info(args ...interface{}) {
	sugar.Info(args...)
}

func Warn(args ...interface{}) {
	sugar.Warn(args...)
}

func Error(args ...interface{}) {
	sugar.Error(args...)
}

func Debugf(template string, args ...interface{}) {
	sugar.Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	sugar.Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	sugar.Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	sugar.Errorf(template, args...)
}
