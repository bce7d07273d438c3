package logger

import (
	"go.uber.org/zap"
)

const serviceName = "quiz-bank-bot"

// New builds a JSON production logger for the "production" environment and a
// console development logger otherwise.
func New(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return l.With(zap.String("service", serviceName), zap.String("env", env)), nil
}
