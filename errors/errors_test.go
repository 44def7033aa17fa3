package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInsufficientBytes,
				Path:   []string{"user", "balances", "[2]"},
				Type:   "u64",
				Offset: 24,
				Detail: "need 8 bytes, have 2",
			},
			contains: []string{"[decode]", "insufficient_bytes", "user.balances.[2]", "offset 24", "u64", "need 8 bytes, have 2"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindOverflow,
				Offset: -1,
			},
			contains: []string{"[encode]", "encoding_overflow"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindInvalidData,
				Offset: -1,
				Detail: "bad payload",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[encode]", "invalid_data", "bad payload", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseDecode, KindInvalidData, cause, "wrapping")

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not match the cause through the chain")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownVariant,
		Path:   []string{"color"},
		Offset: 8,
	}

	if !errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindUnknownVariant}) {
		t.Error("expected match on same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseEncode, Kind: KindUnknownVariant}) {
		t.Error("unexpected match on different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindMismatch}) {
		t.Error("unexpected match on different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("inner")
	err := New(PhaseEncode, KindMismatch).
		Path("point", "x").
		Type("u64").
		Value("not a number").
		Detail("value is %s", "string").
		Cause(cause).
		Build()

	if err.Phase != PhaseEncode || err.Kind != KindMismatch {
		t.Errorf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if len(err.Path) != 2 || err.Path[0] != "point" {
		t.Errorf("unexpected path: %v", err.Path)
	}
	if err.Offset != -1 {
		t.Errorf("builder should default offset to -1, got %d", err.Offset)
	}
	if err.Detail != "value is string" {
		t.Errorf("unexpected detail: %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not wired through builder")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"unresolved generic", UnresolvedGeneric(nil, "T"), PhaseResolve, KindUnresolvedGeneric},
		{"unknown type", UnknownType(nil, "MissingStruct"), PhaseResolve, KindUnknownType},
		{"mismatch", Mismatch(PhaseEncode, nil, "bool value", "u64"), PhaseEncode, KindMismatch},
		{"overflow", Overflow(nil, "offset", 1<<63), PhaseEncode, KindOverflow},
		{"depth", DepthExceeded(PhaseDecode, nil, 64), PhaseDecode, KindDepthExceeded},
		{"size", SizeExceeded(PhaseEncode, nil, 2048, 1024), PhaseEncode, KindSizeExceeded},
		{"insufficient", InsufficientBytes(nil, "u64", 8, 8, 0), PhaseDecode, KindInsufficientBytes},
		{"variant", UnknownVariant(nil, "enum Color", 0, 9, 3), PhaseDecode, KindUnknownVariant},
		{"registration", Registration("vec<u8>", "dynamic descriptors cannot be overridden"), PhaseEncode, KindRegistration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("phase = %s, want %s", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty error message")
			}
		})
	}
}
