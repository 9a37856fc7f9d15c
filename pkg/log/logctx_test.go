package log

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// Тесты меняют slog.Default(), поэтому намеренно без t.Parallel().

func newSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// From без логгера в контексте возвращает slog.Default().
func TestFrom_ReturnsDefault_WhenNoLoggerInContext(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	require.Equal(t, def, From(context.Background()))
}

// Into кладёт логгер в контекст, From извлекает его 1:1.
func TestIntoAndFrom_RoundTrip(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	l := newSilent()
	ctx := Into(context.Background(), l)

	require.Equal(t, l, From(ctx))
	require.Equal(t, def, From(context.Background()))
}

// From устойчив к мусорным значениям и *slog.Logger(nil) в контексте.
func TestFrom_ReturnsDefault_WhenStoredValueIsWrongTypeOrNil(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })
	def := newSilent()
	slog.SetDefault(def)

	ctxWrong := context.WithValue(context.Background(), ctxKey{}, "not-a-logger")
	require.Equal(t, def, From(ctxWrong))

	var nilLogger *slog.Logger
	ctxNil := context.WithValue(context.Background(), ctxKey{}, nilLogger)
	require.Equal(t, def, From(ctxNil))
}

// Дочерний контекст может перекрыть логгер родителя, не влияя на него.
func TestInto_ShadowParentLogger(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	parentL := newSilent()
	childL := newSilent()

	parent := Into(context.Background(), parentL)
	child := Into(parent, childL)

	require.Equal(t, childL, From(child))
	require.Equal(t, parentL, From(parent))
}
