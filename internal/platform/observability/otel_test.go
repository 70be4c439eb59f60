package observability

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), in)
	}
}

func TestInstrumentsFallbacks(t *testing.T) {
	var instruments *Instruments
	require.NotNil(t, instruments.Tracer("storefront"))
	require.NotNil(t, instruments.Meter("storefront"))
}
