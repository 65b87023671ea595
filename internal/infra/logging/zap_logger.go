package logging

import "go.uber.org/zap"

// ZapLogger adapts a zap logger to the Logger port.
type ZapLogger struct {
	l *zap.SugaredLogger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.Sugar()}
}

func NewProduction() (*ZapLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l), nil
}

func (z *ZapLogger) log(fn func(string, ...any), msg string, fields map[string]any) {
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	fn(msg, kv...)
}

func (z *ZapLogger) Info(msg string, fields map[string]any) {
	z.log(z.l.Infow, msg, fields)
}

func (z *ZapLogger) Error(msg string, fields map[string]any) {
	z.log(z.l.Errorw, msg, fields)
}
