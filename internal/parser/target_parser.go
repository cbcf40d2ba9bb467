// Package parser reads benchmark targets: secrets to solve for and/or the
// public points derived from them.
package parser

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/mahdiidarabi/kangaroo/pkg/group"
)

// ErrEmptyTarget is returned for an entry without secret and public key.
var ErrEmptyTarget = errors.New("target needs a secret or a public key")

// Target is one discrete log problem. At least one field is set.
type Target struct {
	Secret    *big.Int // Known answer, optional
	PublicKey []byte   // Encoded point, optional
}

// Point returns the public point, deriving it from the secret when no public
// key was given. When both are present they must agree.
func (t *Target) Point(g group.Group) (group.Point, error) {
	var fromSecret group.Point
	if t.Secret != nil {
		s, err := group.ScalarFromBig(t.Secret)
		if err != nil {
			return nil, err
		}
		fromSecret, err = g.ScalarBaseMult(s)
		if err != nil {
			return nil, err
		}
	}
	if len(t.PublicKey) == 0 {
		if fromSecret == nil {
			return nil, ErrEmptyTarget
		}
		return fromSecret, nil
	}
	p, err := g.Decode(t.PublicKey)
	if err != nil {
		return nil, err
	}
	if fromSecret != nil && !fromSecret.Equal(p) {
		return nil, fmt.Errorf("public key does not match secret %s", t.Secret)
	}
	return p, nil
}

// ParseTargetsFromJSON parses targets from a JSON file.
//
// Expected format:
// [
//
//	{"secret": "313249263"},
//	{"public_key": "5866...66"},
//	{"secret": "0x12ab", "public_key": "..."}
//
// ]
func ParseTargetsFromJSON(jsonFile string, secretField, publicKeyField string) ([]*Target, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()
	return ParseTargetsJSON(file, secretField, publicKeyField)
}

// ParseTargetsJSON parses the JSON target list from a reader.
func ParseTargetsJSON(r io.Reader, secretField, publicKeyField string) ([]*Target, error) {
	if secretField == "" {
		secretField = "secret"
	}
	if publicKeyField == "" {
		publicKeyField = "public_key"
	}

	decoder := json.NewDecoder(r)
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	targets := make([]*Target, 0, len(items))
	for i, item := range items {
		t := &Target{}
		if v, ok := item[secretField]; ok {
			secret, err := parseBigInt(v)
			if err != nil {
				return nil, fmt.Errorf("entry %d: failed to parse secret: %w", i, err)
			}
			t.Secret = secret
		}
		if v, ok := item[publicKeyField]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d: public key must be a hex string", i)
			}
			pk, err := parseHex(s)
			if err != nil {
				return nil, fmt.Errorf("entry %d: failed to parse public key: %w", i, err)
			}
			t.PublicKey = pk
		}
		if t.Secret == nil && t.PublicKey == nil {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyTarget)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// ParseTargetsFromCSV parses targets from a CSV file with a header row.
func ParseTargetsFromCSV(csvFile string, secretCol, publicKeyCol string) ([]*Target, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ParseTargetsCSV(file, secretCol, publicKeyCol)
}

// ParseTargetsCSV parses the CSV target list from a reader.
func ParseTargetsCSV(r io.Reader, secretCol, publicKeyCol string) ([]*Target, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if secretCol == "" {
		secretCol = "secret"
	}
	if publicKeyCol == "" {
		publicKeyCol = "public_key"
	}

	// Find column indices
	secretIdx, publicKeyIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case secretCol:
			secretIdx = i
		case publicKeyCol:
			publicKeyIdx = i
		}
	}
	if secretIdx == -1 && publicKeyIdx == -1 {
		return nil, fmt.Errorf("missing required columns: %s or %s", secretCol, publicKeyCol)
	}

	targets := make([]*Target, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		t := &Target{}
		if secretIdx >= 0 && secretIdx < len(record) && record[secretIdx] != "" {
			secret, err := parseBigInt(record[secretIdx])
			if err != nil {
				return nil, fmt.Errorf("line %d: failed to parse secret: %w", line, err)
			}
			t.Secret = secret
		}
		if publicKeyIdx >= 0 && publicKeyIdx < len(record) && record[publicKeyIdx] != "" {
			pk, err := parseHex(record[publicKeyIdx])
			if err != nil {
				return nil, fmt.Errorf("line %d: failed to parse public key: %w", line, err)
			}
			t.PublicKey = pk
		}
		if t.Secret == nil && t.PublicKey == nil {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyTarget)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	return hex.DecodeString(s)
}

// parseBigInt parses a non-negative integer: 0x-prefixed or letter-bearing
// strings are hex, other strings and JSON numbers are decimal.
func parseBigInt(val interface{}) (*big.Int, error) {
	var z *big.Int
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s = s[2:]
			base = 16
		} else if strings.ContainsAny(s, "abcdefABCDEF") {
			base = 16
		}
		var ok bool
		if z, ok = new(big.Int).SetString(s, base); !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}

	case json.Number:
		// json.Number preserves precision for large integers
		var ok bool
		if z, ok = new(big.Int).SetString(string(v), 10); !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}

	case int64:
		z = big.NewInt(v)

	case int:
		z = big.NewInt(int64(v))

	default:
		return nil, fmt.Errorf("unsupported type: %T", val)
	}
	if z.Sign() < 0 {
		return nil, fmt.Errorf("negative number: %s", z)
	}
	return z, nil
}
