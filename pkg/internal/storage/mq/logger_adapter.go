package mq

import (
	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// zerologAdapter 将 zerolog 适配为 watermill.LoggerAdapter.
type zerologAdapter struct {
	l *zerolog.Logger
}

// NewLoggerAdapter 创建 watermill 日志适配器，组件字段固定为 mq.
func NewLoggerAdapter(l *zerolog.Logger) watermill.LoggerAdapter {
	sub := l.With().Str("component", "mq").Logger()

	return &zerologAdapter{l: &sub}
}

func withFields(ev *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}

	return ev
}

func (z *zerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	withFields(z.l.Error().Err(err), fields).Msg(msg)
}

func (z *zerologAdapter) Info(msg string, fields watermill.LogFields) {
	withFields(z.l.Info(), fields).Msg(msg)
}

func (z *zerologAdapter) Debug(msg string, fields watermill.LogFields) {
	withFields(z.l.Debug(), fields).Msg(msg)
}

func (z *zerologAdapter) Trace(msg string, fields watermill.LogFields) {
	withFields(z.l.Trace(), fields).Msg(msg)
}

func (z *zerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	l := z.l.With()

	for k, v := range fields {
		l = l.Interface(k, v)
	}

	logger := l.Logger()

	return &zerologAdapter{l: &logger}
}
