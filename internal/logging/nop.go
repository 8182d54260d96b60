package logging

import "context"

// NopLogger discards everything. Useful in tests and as a default before
// configuration is loaded.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (n *NopLogger) Debug(context.Context, string, ...any) {}
func (n *NopLogger) Info(context.Context, string, ...any)  {}
func (n *NopLogger) Warn(context.Context, string, ...any)  {}
func (n *NopLogger) Error(context.Context, string, ...any) {}
func (n *NopLogger) With(...any) Logger                    { return n }
