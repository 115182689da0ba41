package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrom_DefaultWhenEmpty(t *testing.T) {
	require.Same(t, slog.Default(), From(context.Background()))
}

func TestInto_From_RoundTrip(t *testing.T) {
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := Into(context.Background(), l)

	require.Same(t, l, From(ctx))
}

func TestWith_AddsAttrsAndStoresLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx, l := With(Into(context.Background(), base), slog.String("cycle_id", "c-1"))
	require.Same(t, l, From(ctx))

	From(ctx).Info("tick")
	require.Contains(t, buf.String(), "cycle_id=c-1")
	require.Contains(t, buf.String(), "msg=tick")
}
