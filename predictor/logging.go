package predictor

import "github.com/sirupsen/logrus"

// NewLogger builds the process logger from the configured level and format.
// An unknown level falls back to info.
func NewLogger(cfg Config) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.LogJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
