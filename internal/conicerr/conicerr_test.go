package conicerr

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMarshalJSON(t *testing.T) {
	err := ChecksumMismatch("https://example.com/a.jar")
	raw, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Marshal: %v", marshalErr)
	}

	var decoded wireForm
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Kind != KindChecksumMismatch {
		t.Errorf("kind = %q, want %q", decoded.Kind, KindChecksumMismatch)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := IO(cause)
	if !errors.Is(wrapped, cause) {
		t.Errorf("expected errors.Is to find the cause")
	}
}

func TestAs(t *testing.T) {
	err := AlreadyInstalling()
	if !As(err, KindAlreadyInstalling) {
		t.Errorf("expected As to match KindAlreadyInstalling")
	}
	if As(err, KindAborted) {
		t.Errorf("expected As to not match KindAborted")
	}
	if As(errors.New("plain"), KindAborted) {
		t.Errorf("expected As to return false for a non-conicerr error")
	}
}
