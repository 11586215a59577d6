package encoding

import (
	"errors"
	"strings"
	"testing"
)

type testState struct {
	ID   int64  `msgpack:"id"`
	Name string `msgpack:"name"`
	Flag bool   `msgpack:"flag"`
}

func TestMsgpackRoundTrip(t *testing.T) {
	var c MsgpackCodec

	original := testState{ID: 12345, Name: "Spider-Man", Flag: true}
	encoded, err := c.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.ContainsAny(encoded, `"<>&+/= `) {
		t.Errorf("Serialize() = %q, want attribute-safe output", encoded)
	}

	var decoded testState
	if err := c.Deserialize(encoded, &decoded); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if decoded != original {
		t.Errorf("Deserialize() = %+v, want %+v", decoded, original)
	}
}

func TestMsgpackPrimitives(t *testing.T) {
	var c MsgpackCodec

	encoded, err := c.Serialize("hello")
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	var s string
	if err := c.Deserialize(encoded, &s); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if s != "hello" {
		t.Errorf("Deserialize() = %q, want %q", s, "hello")
	}
}

func TestMsgpackInvalidInput(t *testing.T) {
	var c MsgpackCodec
	var s testState
	if err := c.Deserialize("not base64!", &s); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Deserialize() error = %v, want ErrInvalidFormat", err)
	}
}

func TestSignedRoundTrip(t *testing.T) {
	c, err := NewSignedCodec([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewSignedCodec failed: %v", err)
	}

	original := testState{ID: 12345, Name: "test-file.txt", Flag: true}
	encoded, err := c.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(encoded, ".") {
		t.Errorf("Serialize() = %q, want base64.signature", encoded)
	}

	var decoded testState
	if err := c.Deserialize(encoded, &decoded); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if decoded != original {
		t.Errorf("Deserialize() = %+v, want %+v", decoded, original)
	}
}

func TestSealedRoundTrip(t *testing.T) {
	c, err := NewSealedCodec([]byte("this-is-a-32-byte-key-for-aes!!!"))
	if err != nil {
		t.Fatalf("NewSealedCodec failed: %v", err)
	}
	if !c.Sealed() {
		t.Error("Sealed() = false, want true")
	}

	original := testState{ID: 67890, Name: "secret-file.txt"}
	encoded, err := c.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var decoded testState
	if err := c.Deserialize(encoded, &decoded); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if decoded != original {
		t.Errorf("Deserialize() = %+v, want %+v", decoded, original)
	}
}

func TestSignatureVerificationFailure(t *testing.T) {
	c, err := NewSignedCodec([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewSignedCodec failed: %v", err)
	}

	encoded, err := c.Serialize(testState{ID: 123, Name: "test"})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	parts := strings.SplitN(encoded, ".", 2)
	forged, err := MsgpackCodec{}.Serialize(testState{ID: 999, Name: "test"})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var decoded testState
	err = c.Deserialize(forged+"."+parts[1], &decoded)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Deserialize() error = %v, want ErrSignatureInvalid", err)
	}
}

func TestDecryptionFailure(t *testing.T) {
	c, err := NewSealedCodec([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewSealedCodec failed: %v", err)
	}

	encoded, err := c.Serialize(testState{ID: 123, Name: "test"})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	tampered := []byte(encoded)
	if tampered[len(tampered)/2] == 'A' {
		tampered[len(tampered)/2] = 'B'
	} else {
		tampered[len(tampered)/2] = 'A'
	}

	var decoded testState
	if err := c.Deserialize(string(tampered), &decoded); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Deserialize() error = %v, want ErrDecryptFailed", err)
	}
}

func TestInvalidFormat(t *testing.T) {
	c, err := NewSignedCodec([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewSignedCodec failed: %v", err)
	}

	var decoded testState
	if err := c.Deserialize("invalidbase64withoutseparator", &decoded); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Deserialize() error = %v, want ErrInvalidFormat", err)
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	c1, _ := NewSignedCodec([]byte("key-one"))
	c2, _ := NewSignedCodec([]byte("key-two"))

	encoded, err := c1.Serialize(testState{ID: 123, Name: "test"})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var decoded testState
	if err := c2.Deserialize(encoded, &decoded); err == nil {
		t.Error("expected error when decoding with a different key")
	}
}
