package server

import (
	"meetgrid/core/logger"

	"github.com/robfig/cron/v3"
)

// cronLogger routes cron's own messages into the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("Cron:"+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("Cron:"+msg, append(keysAndValues, "error", err)...)
}

// cronWrappers applies to every scheduled job. A tick that fires while the
// previous run of the same job is still going is dropped. Recover sits
// inside the skip guard so a panicking run still releases it.
func cronWrappers() []cron.JobWrapper {
	return []cron.JobWrapper{
		cron.SkipIfStillRunning(cronLogger{}),
		cron.Recover(cronLogger{}),
	}
}

func newCron() *cron.Cron {
	return cron.New(cron.WithLogger(cronLogger{}), cron.WithChain(cronWrappers()...))
}
