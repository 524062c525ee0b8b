// Package tislog wraps logrus with the fields a grid driver's per-tick
// trace needs. The engine packages (node, asm, port, cpu) never import
// this — they stay side-effect-free libraries; only grid and the CLI
// harness log.
package tislog

import "github.com/sirupsen/logrus"

// Logger is a thin alias so callers don't need to import logrus directly
// just to hold a reference.
type Logger = logrus.Logger

// New returns a text-formatted logger at Info level, suitable for a CLI's
// stderr trace output.
func New() *Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Tick logs one node's state transition for a given grid tick.
func Tick(l *Logger, tick int, row, col int, mode string) {
	l.WithFields(logrus.Fields{
		"tick": tick,
		"node": [2]int{row, col},
		"mode": mode,
	}).Debug("node tick")
}
