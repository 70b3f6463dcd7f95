package exporters

import (
	"context"
	"testing"
)

func TestNewTracingExporterNone(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "none")
	if err != nil {
		t.Fatalf("NewTracingExporter(none) error = %v", err)
	}
	if exp != nil {
		t.Error("NewTracingExporter(none) should return nil exporter")
	}
}

func TestNewTracingExporterStdout(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "stdout")
	if err != nil {
		t.Fatalf("NewTracingExporter(stdout) error = %v", err)
	}
	if exp == nil {
		t.Error("NewTracingExporter(stdout) returned nil exporter")
	}
}

func TestNewTracingExporterUnknown(t *testing.T) {
	if _, err := NewTracingExporter(context.Background(), "jaeger"); err == nil {
		t.Error("NewTracingExporter(jaeger) should fail")
	}
}

func TestNewMetricsReaderNone(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "none")
	if err != nil {
		t.Fatalf("NewMetricsReader(none) error = %v", err)
	}
	if reader != nil {
		t.Error("NewMetricsReader(none) should return nil reader")
	}
}

func TestNewMetricsReaderPrometheus(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "prometheus")
	if err != nil {
		t.Fatalf("NewMetricsReader(prometheus) error = %v", err)
	}
	if reader == nil {
		t.Error("NewMetricsReader(prometheus) returned nil reader")
	}
}

func TestNewMetricsReaderUnknown(t *testing.T) {
	if _, err := NewMetricsReader(context.Background(), "statsd"); err == nil {
		t.Error("NewMetricsReader(statsd) should fail")
	}
}
