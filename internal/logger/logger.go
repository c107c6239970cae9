package logger

import (
	"os"
	"path/filepath"

	"github.com/MirrorChyan/dxvk-manager/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() {
	config.RegisterKeyListener(config.KeyListener{
		Key: config.LogLevelKey,
		Listener: func(l any) {
			val, ok := l.(string)
			if !ok {
				return
			}
			SetLevel(val)
		},
	})
}

func SetLevel(l string) {
	level.SetLevel(getLevel(l))
}

func Level() zapcore.Level {
	return level.Level()
}

// New writes to stdout and, when log.file is set, to a rotating file.
func New(conf *config.Config) *zap.Logger {
	SetLevel(conf.Log.Level)
	var (
		encoder = getConsoleEncoder()
		cores   = []zapcore.Core{
			zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
		}
	)

	if conf.Log.File != "" {
		cores = append(cores, zapcore.NewCore(
			getFileEncoder(),
			zapcore.AddSync(getLumberjackLogger(conf)),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func getLevel(l string) zapcore.Level {
	switch l {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func getLumberjackLogger(conf *config.Config) *lumberjack.Logger {
	path := conf.Log.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(conf.Storage.Root, path)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    conf.Log.MaxSize,
		MaxBackups: conf.Log.MaxBackups,
		MaxAge:     conf.Log.MaxAge,
		Compress:   conf.Log.Compress,
	}
}

func getConsoleEncoder() zapcore.Encoder {
	conf := zap.NewProductionEncoderConfig()
	conf.TimeKey = "time"
	conf.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewConsoleEncoder(conf)
}

func getFileEncoder() zapcore.Encoder {
	conf := zap.NewProductionEncoderConfig()
	conf.TimeKey = "time"
	conf.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(conf)
}
