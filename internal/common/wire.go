package common

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// The wire format is little-endian throughout. Every variable-length
// field is prefixed with its byte count as an int32.

// ReadFull reads exactly n bytes from the stream. A stream that closes
// early is an error, never a short result.
func ReadFull(r io.Reader, n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read %v bytes: %w", n, err)
	}
	return buf, nil
}

func ReadInt32(r io.Reader) (int32, error) {
	buf, err := ReadFull(r, LengthSize)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf)), nil
}

func WriteInt32(w io.Writer, v int32) error {
	buf := make([]byte, LengthSize)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write int32: %w", err)
	}
	return nil
}

func ReadBool(r io.Reader) (bool, error) {
	buf, err := ReadFull(r, BoolSize)
	if err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

func WriteBool(w io.Writer, b bool) error {
	buf := []byte{0}
	if b {
		buf[0] = 1
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write bool: %w", err)
	}
	return nil
}

// ReadString reads an int32 byte count followed by that many bytes of
// UTF-8 text.
func ReadString(r io.Reader) (string, error) {
	length, err := ReadInt32(r)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", ErrNegativeLength
	}
	buf, err := ReadFull(r, int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidString
	}
	return string(buf), nil
}

func WriteString(w io.Writer, s string) error {
	if err := WriteInt32(w, int32(len(s))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("write string: %w", err)
	}
	return nil
}

// ReadStringList reads an int32 count followed by that many strings,
// in order.
func ReadStringList(r io.Reader) ([]string, error) {
	count, err := ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, ErrNegativeLength
	}
	list := make([]string, 0, count)
	for i := int32(0); i < count; i++ {
		s, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

func WriteStringList(w io.Writer, list []string) error {
	if err := WriteInt32(w, int32(len(list))); err != nil {
		return err
	}
	for _, s := range list {
		if err := WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// ReadBytes reads an int32 byte count followed by the raw payload. File
// contents travel as one of these, whole.
func ReadBytes(r io.Reader) ([]byte, error) {
	length, err := ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, ErrNegativeLength
	}
	return ReadFull(r, int(length))
}

func WriteBytes(w io.Writer, data []byte) error {
	if err := WriteInt32(w, int32(len(data))); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}
