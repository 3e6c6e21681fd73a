package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/command_router/pkg/validate"
)

func TestTenantID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "DEFAULT_TENANT", false},
		{"dots and dashes", "acme.prod-1", false},
		{"empty", "", true},
		{"space", "my tenant", true},
		{"slash", "a/b", true},
		{"unicode", "тенант", true},
		{"too long", strings.Repeat("a", 201), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validate.TenantID(tt.id)
			if tt.wantErr {
				if !errors.Is(err, validate.ErrInvalidIdentifier) {
					t.Fatalf("want ErrInvalidIdentifier, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDeviceID(t *testing.T) {
	t.Parallel()

	if err := validate.DeviceID("4711:sensor/1"); err != nil {
		t.Fatalf("device id with punctuation must be accepted: %v", err)
	}
	if err := validate.DeviceID(""); !errors.Is(err, validate.ErrInvalidIdentifier) {
		t.Fatalf("empty device id: want ErrInvalidIdentifier, got %v", err)
	}
	if err := validate.DeviceID("dev\n1"); !errors.Is(err, validate.ErrInvalidIdentifier) {
		t.Fatalf("control char: want ErrInvalidIdentifier, got %v", err)
	}
}

func TestTopicName(t *testing.T) {
	t.Parallel()

	if err := validate.TopicName("hono.command.DEFAULT_TENANT"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", ".", "..", "a b", strings.Repeat("x", 250)} {
		if err := validate.TopicName(bad); !errors.Is(err, validate.ErrInvalidIdentifier) {
			t.Fatalf("topic %q: want ErrInvalidIdentifier, got %v", bad, err)
		}
	}
}
