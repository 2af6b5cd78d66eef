package logging

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the process-wide logrus logger. Production gets JSON
// output for log shippers; everything else keeps the human-readable
// text formatter. Level comes from LOG_LEVEL when parsable.
func Init(env, level string) {
	if strings.EqualFold(env, "prod") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(level); err == nil {
		logrus.SetLevel(lvl)
	}
}

// L returns a context-bound log entry from the standard logger.
func L(ctx context.Context) *logrus.Entry {
	return logrus.WithContext(ctx)
}
