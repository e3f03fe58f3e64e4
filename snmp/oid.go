package snmp

import (
	"fmt"
	"strconv"
	"strings"
)

// OID is an SNMP object identifier as a sequence of sub-identifiers.
type OID []uint32

// ParseError reports the first component of a dotted OID that could not be
// parsed.
type ParseError struct {
	Component string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid OID component %q", e.Component)
}

// ParseOID parses dot-separated text such as "1.3.6.1.2.1.1.1.0". Empty
// components are skipped, so a leading dot is tolerated. A wholly empty
// input or a non-numeric component is an error.
func ParseOID(text string) (OID, error) {
	var oid OID
	for _, part := range strings.Split(text, ".") {
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, &ParseError{Component: part}
		}
		oid = append(oid, uint32(n))
	}
	if len(oid) == 0 {
		return nil, &ParseError{Component: text}
	}
	return oid, nil
}

// MustOID parses text and panics on failure. For package constants only.
func MustOID(text string) OID {
	oid, err := ParseOID(text)
	if err != nil {
		panic(err)
	}
	return oid
}

func (o OID) String() string {
	parts := make([]string, len(o))
	for i, n := range o {
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	return strings.Join(parts, ".")
}

func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether o sits at or below root in the OID tree.
func (o OID) HasPrefix(root OID) bool {
	if len(o) < len(root) {
		return false
	}
	for i := range root {
		if o[i] != root[i] {
			return false
		}
	}
	return true
}

// Compare orders OIDs lexicographically by component.
func (o OID) Compare(other OID) int {
	n := len(o)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		switch {
		case o[i] < other[i]:
			return -1
		case o[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(o) < len(other):
		return -1
	case len(o) > len(other):
		return 1
	}
	return 0
}

func (o OID) Clone() OID {
	if o == nil {
		return nil
	}
	dup := make(OID, len(o))
	copy(dup, o)
	return dup
}

func (o OID) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *OID) UnmarshalText(text []byte) error {
	parsed, err := ParseOID(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
