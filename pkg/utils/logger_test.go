package utils

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	slogctx "github.com/veqryn/slog-context"
)

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := slogctx.NewCtx(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	ContextLogger(ctx, slog.String("command", "check")).Info("checked fields")

	assert.Contains(t, buf.String(), "command=check")
	assert.Contains(t, buf.String(), `msg="checked fields"`)
}
