package logger_test

import (
	"errors"

	"github.com/wonny/tripsampler/pkg/config"
	"github.com/wonny/tripsampler/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	log := logger.New(cfg)

	log.Debug("This won't appear (level is info)")
	log.Info("Sampling started")
	log.Infof("Loaded %d rows", 1200)
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg).WithRun("3f1c2a9e-5b7d-4e0a-9c61-2d8e4f7a1b03")

	log.WithFields(map[string]interface{}{
		"buckets": 744,
		"drawn":   731,
		"seed":    42,
	}).Info("Sampling complete")

	// stderr:
	// {"level":"info","env":"production","run_id":"3f1c...","buckets":744,"drawn":731,"seed":42,"message":"Sampling complete",...}
}

// Example_withError demonstrates error logging
func Example_withError() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	err := errors.New("column \"tpep_pickup_datetime\" not found")
	log.WithError(err).WithField("input", "converted.csv").Error("Sampling failed")
}
