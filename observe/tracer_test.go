package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestCommandMeta_SpanNameWithNamespace verifies span name includes namespace.
func TestCommandMeta_SpanNameWithNamespace(t *testing.T) {
	meta := CommandMeta{
		Namespace: "gh",
		Name:      "issue",
	}

	expected := "command.exec.gh.issue"
	if got := meta.SpanName(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// TestCommandMeta_SpanNameWithoutNamespace verifies span name without namespace.
func TestCommandMeta_SpanNameWithoutNamespace(t *testing.T) {
	meta := CommandMeta{
		Namespace: "",
		Name:      "read",
	}

	expected := "command.exec.read"
	if got := meta.SpanName(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// TestCommandMeta_ID verifies ID generation with and without namespace.
func TestCommandMeta_ID(t *testing.T) {
	tests := []struct {
		name     string
		meta     CommandMeta
		expected string
	}{
		{
			name:     "with namespace",
			meta:     CommandMeta{Namespace: "github", Name: "create_issue"},
			expected: "github.create_issue",
		},
		{
			name:     "without namespace",
			meta:     CommandMeta{Namespace: "", Name: "read_file"},
			expected: "read_file",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.meta.CommandID(); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

// TestTracer_SpanAttributes verifies all attributes are present on span.
func TestTracer_SpanAttributes(t *testing.T) {
	// Set up in-memory span recorder
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := CommandMeta{
		ID:        "github.create_issue",
		Namespace: "github",
		Name:      "create_issue",
		Version:   "1.0.0",
		Tags:      []string{"api", "github"},
		Category:  "integration",
	}

	ctx, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)
	_ = ctx // Suppress unused warning

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	// Verify span name
	if s.Name() != "command.exec.github.create_issue" {
		t.Errorf("expected span name 'command.exec.github.create_issue', got %q", s.Name())
	}

	// Verify attributes
	attrs := s.Attributes()
	attrMap := make(map[string]attribute.Value)
	for _, a := range attrs {
		attrMap[string(a.Key)] = a.Value
	}

	// Required attributes
	if v, ok := attrMap["command.id"]; !ok || v.AsString() != "github.create_issue" {
		t.Errorf("expected command.id='github.create_issue', got %v", v)
	}
	if v, ok := attrMap["command.namespace"]; !ok || v.AsString() != "github" {
		t.Errorf("expected command.namespace='github', got %v", v)
	}
	if v, ok := attrMap["command.name"]; !ok || v.AsString() != "create_issue" {
		t.Errorf("expected command.name='create_issue', got %v", v)
	}
	if v, ok := attrMap["command.error"]; !ok || v.AsBool() != false {
		t.Errorf("expected command.error=false, got %v", v)
	}

	// Optional attributes
	if v, ok := attrMap["command.version"]; !ok || v.AsString() != "1.0.0" {
		t.Errorf("expected command.version='1.0.0', got %v", v)
	}
	if v, ok := attrMap["command.category"]; !ok || v.AsString() != "integration" {
		t.Errorf("expected command.category='integration', got %v", v)
	}
}

// TestTracer_SpanAttributesMinimal verifies only required attributes when minimal meta.
func TestTracer_SpanAttributesMinimal(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := CommandMeta{
		Name: "read_file",
	}

	ctx, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]
	attrs := s.Attributes()
	attrMap := make(map[string]attribute.Value)
	for _, a := range attrs {
		attrMap[string(a.Key)] = a.Value
	}

	// Required attributes should be present
	if _, ok := attrMap["command.id"]; !ok {
		t.Error("expected command.id attribute")
	}
	if _, ok := attrMap["command.name"]; !ok {
		t.Error("expected command.name attribute")
	}
	if _, ok := attrMap["command.error"]; !ok {
		t.Error("expected command.error attribute")
	}

	// Optional attributes should NOT be present when empty
	if v, ok := attrMap["command.version"]; ok && v.AsString() != "" {
		t.Errorf("expected no command.version, got %v", v)
	}
	if v, ok := attrMap["command.category"]; ok && v.AsString() != "" {
		t.Errorf("expected no command.category, got %v", v)
	}
}

// TestTracer_ContextPropagation verifies parent span is propagated.
func TestTracer_ContextPropagation(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := CommandMeta{Name: "child_cmd"}

	// Create parent span
	parentCtx, parentSpan := tracer.Start(context.Background(), "parent")

	// Create child span through our tracer
	childCtx, childSpan := tr.StartSpan(parentCtx, meta)
	tr.EndSpan(childSpan, nil)
	parentSpan.End()
	_ = childCtx

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	// Find the child span (the one with command.exec prefix)
	var child sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == "command.exec.child_cmd" {
			child = s
			break
		}
	}
	if child == nil {
		t.Fatal("child span not found")
	}

	// Verify parent-child relationship
	if child.Parent().TraceID() != parentSpan.SpanContext().TraceID() {
		t.Error("child span should have same trace ID as parent")
	}
	if !child.Parent().SpanID().IsValid() {
		t.Error("child span should have valid parent span ID")
	}
}

// TestTracer_ErrorRecording verifies error sets span status and attribute.
func TestTracer_ErrorRecording(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := CommandMeta{Name: "failing_cmd"}

	ctx, span := tr.StartSpan(context.Background(), meta)
	testErr := errors.New("execution failed")
	tr.EndSpan(span, testErr)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	// Verify error status
	if s.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status().Code)
	}

	// Verify command.error attribute
	attrs := s.Attributes()
	var cmdError bool
	for _, a := range attrs {
		if string(a.Key) == "command.error" {
			cmdError = a.Value.AsBool()
			break
		}
	}
	if !cmdError {
		t.Error("expected command.error=true")
	}
}
