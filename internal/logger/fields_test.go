package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestStringFieldsSkipsBlankEntries(t *testing.T) {
	t.Parallel()

	fields := StringFields(
		StringField{Key: FieldProvider, Value: "gemini"},
		StringField{Key: "", Value: "dropped"},
		StringField{Key: FieldModel, Value: "   "},
		StringField{Key: "  spaced  ", Value: "  kept  "},
	)

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(fields), fields)
	}
	if fields[0].Key != FieldProvider || fields[0].String != "gemini" {
		t.Fatalf("unexpected first field: %+v", fields[0])
	}
	if fields[1].Key != "spaced" || fields[1].String != "kept" {
		t.Fatalf("expected trimmed key and value, got %+v", fields[1])
	}
}

func TestWithFieldsHandlesNilLogger(t *testing.T) {
	t.Parallel()

	if got := WithFields(nil); got == nil {
		t.Fatalf("expected a usable logger for nil input")
	}
	if got := WithAIFields(nil, "gemini", "model"); got == nil {
		t.Fatalf("expected a usable logger for nil input")
	}
}

func TestWithFieldsReturnsSameLoggerWhenEmpty(t *testing.T) {
	t.Parallel()

	base := zap.NewNop()
	if got := WithFields(base); got != base {
		t.Fatalf("expected the input logger back when no fields are supplied")
	}
}
