package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	h := Header{Type: 30, Length: 10}
	buf := EncodeHeader(nil, h)
	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader error: %v", err)
	}
	if got != h {
		t.Fatalf("DecodeHeader = %+v, want %+v", got, h)
	}
}

func TestEncodeMsgPrivateFrame(t *testing.T) {
	// character_id = 0x00010203, text = "hi", extra = ""
	body := []byte{0x00, 0x01, 0x02, 0x03, 0x00, 0x02, 'h', 'i', 0x00, 0x00}
	frm, err := Encode(30, body)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want := []byte{0x00, 0x1E, 0x00, 0x0A, 0x00, 0x01, 0x02, 0x03, 0x00, 0x02, 'h', 'i', 0x00, 0x00}
	if !bytes.Equal(frm, want) {
		t.Fatalf("Encode = % x, want % x", frm, want)
	}
}

func TestEncodeTooLarge(t *testing.T) {
	body := make([]byte, MaxBodyLen+1)
	if _, err := Encode(1, body); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestDecodeHeaderShort(t *testing.T) {
	if _, err := DecodeHeader([]byte{0x00, 0x01}); err == nil {
		t.Fatal("expected error for short header")
	}
}
