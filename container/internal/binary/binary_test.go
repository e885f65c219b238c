package binary

import (
	"bytes"
	"errors"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	_, err := r.ReadByte()
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReaderReadU32(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    uint32
	}{
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0},
		{[]byte{0x00, 0x00, 0x00, 0x01}, 1},
		{[]byte{0x00, 0x00, 0x01, 0x00}, 256},
		{[]byte{0xde, 0xad, 0xbe, 0xef}, 0xdeadbeef},
		{[]byte{0xff, 0xff, 0xff, 0xff}, 0xffffffff},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded)
		got, err := r.ReadU32()
		if err != nil {
			t.Errorf("ReadU32(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadU32(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadU32Truncated(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01})
	if _, err := r.ReadU32(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReaderReadName(t *testing.T) {
	w := NewWriter()
	w.WriteName("pages/index.wxml")
	r := NewReader(w.Bytes())

	got, err := r.ReadName()
	if err != nil {
		t.Fatalf("ReadName: %v", err)
	}
	if got != "pages/index.wxml" {
		t.Errorf("ReadName: got %q, want %q", got, "pages/index.wxml")
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining: got %d, want 0", r.Remaining())
	}
}

func TestReaderReadNameInvalidUTF8(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x00, 0x02, 0xff, 0xfe})
	if _, err := r.ReadName(); err == nil {
		t.Error("expected error for invalid UTF-8 name")
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Byte(0xbe)
	w.WriteU32(1234)
	w.WriteBytes([]byte{0x0a, 0x0b})

	want := []byte{0xbe, 0x00, 0x00, 0x04, 0xd2, 0x0a, 0x0b}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes: got %v, want %v", w.Bytes(), want)
	}
	if w.Len() != len(want) {
		t.Errorf("Len: got %d, want %d", w.Len(), len(want))
	}
}
