package marketplace

import (
	logger "github.com/sirupsen/logrus"
)

// leveledLogger routes retryablehttp diagnostics to logrus.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...any) {
	logger.WithFields(fields(keysAndValues)).Error(msg)
}

func (leveledLogger) Info(msg string, keysAndValues ...any) {
	logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (leveledLogger) Debug(msg string, keysAndValues ...any) {
	logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (leveledLogger) Warn(msg string, keysAndValues ...any) {
	logger.WithFields(fields(keysAndValues)).Warn(msg)
}

func fields(keysAndValues []any) logger.Fields {
	result := make(logger.Fields, len(keysAndValues)/2) //nolint:mnd // key/value pairs
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		result[key] = keysAndValues[i+1]
	}
	return result
}
