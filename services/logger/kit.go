package logsvc

import (
	"fmt"
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/session"
)

// KitLogger writes logfmt lines, used in DEV & TEST instead of Rollbar.
type KitLogger struct {
	logger kitlog.Logger
	exit   func(code int)
}

var _ core.Logger = (*KitLogger)(nil)

func NewKitLogger(logger kitlog.Logger) *KitLogger {
	return &KitLogger{logger: logger, exit: os.Exit}
}

// NewConsoleLogger logs to stdout with a timestamp, the caller and `prefix` as "app".
func NewConsoleLogger(prefix string) *KitLogger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.Caller(4), "app", prefix)
	return NewKitLogger(logger)
}

// keyvals flattens args into logfmt pairs.
func (l KitLogger) keyvals(msg string, args []interface{}) []interface{} {
	kv := []interface{}{"msg", msg}
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			kv = append(kv, "err", fmt.Sprintf("%+v", a))
		case map[string]interface{}:
			for k, v := range a {
				kv = append(kv, k, v)
			}
		case session.Session:
			kv = append(kv, "session", a.ID)
		default:
			kv = append(kv, fmt.Sprintf("arg%d", i), a)
		}
	}
	return kv
}

func (l KitLogger) Debug(msg string, args ...interface{}) {
	_ = level.Debug(l.logger).Log(l.keyvals(msg, args)...)
}

func (l KitLogger) Info(msg string, args ...interface{}) {
	_ = level.Info(l.logger).Log(l.keyvals(msg, args)...)
}

func (l KitLogger) Warn(msg string, args ...interface{}) {
	_ = level.Warn(l.logger).Log(l.keyvals(msg, args)...)
}

func (l KitLogger) Error(msg string, args ...interface{}) {
	_ = level.Error(l.logger).Log(l.keyvals(msg, args)...)
}

func (l KitLogger) Fatal(msg string, args ...interface{}) {
	_ = level.Error(l.logger).Log(append(l.keyvals(msg, args), "fatal", true)...)
	l.exit(1)
}
