package common

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInt32Encoding(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInt32(&buf, 1); err != nil {
		t.Fatal(err)
	}

	want := []byte{1, 0, 0, 0}
	if !cmp.Equal(buf.Bytes(), want) {
		t.Fatalf("int32 not little-endian: %v", buf.Bytes())
	}

	got, err := ReadInt32(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Fatalf("got %v, want 1", got)
	}
}

func TestInt32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2222, 1 << 30, -(1 << 30)} {
		var buf bytes.Buffer
		if err := WriteInt32(&buf, v); err != nil {
			t.Fatal(err)
		}
		got, err := ReadInt32(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("got %v, want %v", got, v)
		}
	}
}

func TestBoolEncoding(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBool(&buf, true); err != nil {
		t.Fatal(err)
	}
	if err := WriteBool(&buf, false); err != nil {
		t.Fatal(err)
	}

	if !cmp.Equal(buf.Bytes(), []byte{1, 0}) {
		t.Fatalf("unexpected bool encoding: %v", buf.Bytes())
	}

	for _, want := range []bool{true, false} {
		got, err := ReadBool(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a.txt", "some longer file name.bin", "päivää.txt"} {
		var buf bytes.Buffer
		if err := WriteString(&buf, s); err != nil {
			t.Fatal(err)
		}
		got, err := ReadString(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Fatalf("got %q, want %q", got, s)
		}
	}
}

func TestStringListRoundTrip(t *testing.T) {
	lists := [][]string{
		{},
		{"a.txt"},
		{"a.txt", "b.txt", "c.txt"},
	}
	for _, want := range lists {
		var buf bytes.Buffer
		if err := WriteStringList(&buf, want); err != nil {
			t.Fatal(err)
		}
		got, err := ReadStringList(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.Equal(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, want := range [][]byte{{}, []byte("hello"), bytes.Repeat([]byte{0xab}, 1<<16)} {
		var buf bytes.Buffer
		if err := WriteBytes(&buf, want); err != nil {
			t.Fatal(err)
		}
		got, err := ReadBytes(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("payload mismatch: got %v bytes, want %v bytes", len(got), len(want))
		}
	}
}

func TestReadFullShortStream(t *testing.T) {
	_, err := ReadFull(bytes.NewReader([]byte{1, 2}), 5)
	if err == nil {
		t.Fatal("expected error on short stream")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadStringInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInt32(&buf, 2); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0xff, 0xfe})

	_, err := ReadString(&buf)
	if !errors.Is(err, ErrInvalidString) {
		t.Fatalf("got %v, want ErrInvalidString", err)
	}
}

func TestReadStringNegativeLength(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInt32(&buf, -4); err != nil {
		t.Fatal(err)
	}

	_, err := ReadString(&buf)
	if !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("got %v, want ErrNegativeLength", err)
	}
}

func TestReadStringListNegativeCount(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInt32(&buf, -1); err != nil {
		t.Fatal(err)
	}

	_, err := ReadStringList(&buf)
	if !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("got %v, want ErrNegativeLength", err)
	}
}
