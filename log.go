package main

import (
	"os"

	charmlog "github.com/charmbracelet/log"
)

type logger struct {
	*charmlog.Logger
}

var log = logger{charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
})}

func (l logger) Debug(format string, value ...any) {
	l.Logger.Debugf(format, value...)
}

func (l logger) Warn(format string, value ...any) {
	l.Logger.Warnf(format, value...)
}

func (l logger) Err(format string, value ...any) {
	l.Logger.Errorf(format, value...)
}

func (l logger) Info(format string, value ...any) {
	l.Logger.Infof(format, value...)
}

func (l logger) Fatal(format string, value ...any) {
	l.Logger.Fatalf(format, value...)
}

func setVerbose(verbose bool) {
	if verbose {
		log.SetLevel(charmlog.DebugLevel)
	} else {
		log.SetLevel(charmlog.InfoLevel)
	}
}
