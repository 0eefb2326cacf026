package log

import (
	"context"
	"log/slog"
)

// Discard returns a Logger that drops every entry. Maps created without
// WithLogger use it.
func Discard() Logger { return discard{} }

type discard struct{}

func (discard) Debugf(string, ...interface{})                              {}
func (discard) Infof(string, ...interface{})                               {}
func (discard) Warnf(string, ...interface{})                               {}
func (discard) Errorf(string, ...interface{})                              {}
func (discard) Log(slog.Level, string, ...interface{})                     {}
func (discard) LogCtx(context.Context, slog.Level, string, ...interface{}) {}
func (d discard) With(...interface{}) Logger                               { return d }
func (discard) IsEnabled(slog.Level) bool                                  { return false }
