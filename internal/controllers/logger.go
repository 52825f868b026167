package controllers

import (
	"context"
	"log/slog"

	"github.com/san-kum/tgsim/internal/logging"
	"github.com/san-kum/tgsim/internal/model"
)

// Logger reports every notification. Steps are logged at trace level every
// Every frames; zero logs them all.
type Logger struct {
	log   *slog.Logger
	Every int
	steps int
}

func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		l = logging.Discard()
	}
	return &Logger{log: l}
}

func (l *Logger) OnSetup(m *model.Model) {
	l.log.Info("model setup", "model", m.Name(), "bodies", len(m.Bodies()))
}

func (l *Logger) OnStep(m *model.Model, dt float64) {
	l.steps++
	if l.Every > 1 && l.steps%l.Every != 0 {
		return
	}
	l.log.Log(context.Background(), logging.LevelTrace, "model step", "model", m.Name(), "step", l.steps, "dt", dt)
}

func (l *Logger) OnTeardown(m *model.Model) {
	l.log.Info("model teardown", "model", m.Name(), "steps", l.steps)
}
