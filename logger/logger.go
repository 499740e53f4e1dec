package logger

import "go.uber.org/zap"

// Log is the process-wide logger. It defaults to a no-op logger so packages
// can log unconditionally before Init runs (and in tests).
var Log = zap.NewNop()

func Init() {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	Log = l
}
