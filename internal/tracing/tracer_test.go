package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProvider_DisabledIsNoop(t *testing.T) {
	p, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)

	require.False(t, p.Enabled())
	require.NotNil(t, p.Tracer())
	require.NoError(t, p.Shutdown(context.Background()))

	// The no-op tracer must accept spans without a provider behind it.
	_, span := p.Tracer().Start(context.Background(), "test")
	span.End()
}

func TestNewProvider_FileExporterRequiresPath(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "file_path")
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "carrier-pigeon"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported exporter")
}

func TestNewProvider_FileExporterWritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "spans.jsonl")

	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.FilePath = path

	p, err := NewProvider(cfg)
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "test.operation")
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))

	f, err := os.Open(path) //nolint:gosec
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan(), "expected at least one span line")

	var record SpanRecord
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
	require.Equal(t, "test.operation", record.Name)
	require.Equal(t, "INTERNAL", record.Kind)
	require.NotEmpty(t, record.TraceID)
	require.NotEmpty(t, record.SpanID)
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.jsonl")

	e, err := NewFileExporter(path)
	require.NoError(t, err)
	require.NoError(t, e.Shutdown(context.Background()))

	err = e.ExportSpans(context.Background(), nil)
	require.NoError(t, err, "empty batch is a no-op even after shutdown")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled)
	require.Equal(t, "file", cfg.Exporter)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
}
