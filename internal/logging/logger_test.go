package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	assert.NotPanics(t, func() {
		l.Debug("d", "k", 1)
		l.Info("i")
		l.Warn("w")
		l.Error("e")
		l.With("k", "v").Info("after with")
	})
	assert.IsType(t, NopLogger{}, l.With("k", "v"))
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := NewSlogAdapter(slog.New(handler))

	l.With("class", "Items").Warn("read-only", "code", "ReadOnlyCapabilityOnly")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "class=Items")
	assert.Contains(t, out, "code=ReadOnlyCapabilityOnly")
}

func TestNewSlogAdapterNil(t *testing.T) {
	assert.NotNil(t, NewSlogAdapter(nil).logger)
}

func TestNewText(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewText(&buf, tt.verbose)
			l.Debug("debug line")
			l.Info("info line")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Contains(t, buf.String(), "info line")
		})
	}
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, NopLogger{}, OrNop(nil))
	l := NewSlogAdapter(nil)
	assert.Same(t, l, OrNop(l))
}
