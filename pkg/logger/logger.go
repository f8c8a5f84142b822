package logger

import (
	"go.uber.org/zap"
)

var l *zap.Logger

// Init builds the process-wide logger. Dev mode gets the human console
// encoder, everything else the JSON production config.
func Init(isDev bool) error {
	var (
		log *zap.Logger
		err error
	)
	if isDev {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	l = log
	return nil
}

func L() *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func Sync() {
	if l != nil {
		_ = l.Sync()
	}
}
