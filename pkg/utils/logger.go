package utils

import (
	"context"
	"log/slog"
	"os"

	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/term"
)

// ContextLogger returns the logger carried by ctx, with args attached.
func ContextLogger(ctx context.Context, args ...any) *slog.Logger {
	return slogctx.FromCtx(ctx).With(args...)
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
