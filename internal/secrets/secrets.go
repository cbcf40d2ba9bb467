// Package secrets reads and writes benchmark secret files.
//
// The format is a big-endian uint64 count followed, for every secret, by a
// big-endian uint64 byte length and the big-endian magnitude bytes.
package secrets

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
)

// Ext is the required file extension.
const Ext = ".bin"

// maxSecretBytes bounds the length field so corrupt files cannot force huge
// allocations.
const maxSecretBytes = 64

// ErrMalformed is returned for truncated or inconsistent files.
var ErrMalformed = errors.New("malformed secrets file")

// Generate returns amount uniform secrets in [0, 2^size).
func Generate(size, amount int) ([]*big.Int, error) {
	if size <= 0 {
		return nil, errors.New("secret size should be more than 0")
	}
	if amount <= 0 {
		return nil, errors.New("amount of secrets should be more than 0")
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(size))
	out := make([]*big.Int, amount)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return nil, fmt.Errorf("failed to generate a random number: %w", err)
		}
		out[i] = n
	}
	return out, nil
}

// Write encodes secrets to w.
func Write(w io.Writer, secrets []*big.Int) error {
	if err := binary.Write(w, binary.BigEndian, uint64(len(secrets))); err != nil {
		return fmt.Errorf("failed to write number of secrets: %w", err)
	}
	for _, s := range secrets {
		b := s.Bytes()
		if err := binary.Write(w, binary.BigEndian, uint64(len(b))); err != nil {
			return fmt.Errorf("failed to write secret size: %w", err)
		}
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("failed to write secret: %w", err)
		}
	}
	return nil
}

// Read decodes a secrets stream.
func Read(r io.Reader) ([]*big.Int, error) {
	var count uint64
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading count: %v", ErrMalformed, err)
	}
	out := make([]*big.Int, 0, min(count, 1<<16))
	for i := uint64(0); i < count; i++ {
		var size uint64
		if err := binary.Read(r, binary.BigEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: secret %d size: %v", ErrMalformed, i, err)
		}
		if size > maxSecretBytes {
			return nil, fmt.Errorf("%w: secret %d is %d bytes", ErrMalformed, i, size)
		}
		b := make([]byte, size)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, fmt.Errorf("%w: secret %d: %v", ErrMalformed, i, err)
		}
		out = append(out, new(big.Int).SetBytes(b))
	}
	return out, nil
}

// WriteFile writes secrets to a .bin file.
func WriteFile(path string, secrets []*big.Int) error {
	if filepath.Ext(path) != Ext {
		return fmt.Errorf("secrets filename extension should be %s", Ext)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	w := bufio.NewWriter(file)
	if err := Write(w, secrets); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadFile reads a secrets file.
func ReadFile(path string) ([]*big.Int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(bufio.NewReader(file))
}
