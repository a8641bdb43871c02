package logging

import (
	"go.uber.org/zap"
)

var log *zap.Logger = zap.NewNop()

// Init builds the global logger. Dev mode gets the console encoder.
func Init(dev bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	log = l
	return nil
}

func L() *zap.Logger { return log }

func Sync() { _ = log.Sync() }
