package snmp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosnmp/gosnmp"
)

// DecodeOctetString renders SNMP octet string bytes as text. Valid UTF-8
// passes through; anything else is decoded as ISO-8859-1 so vendor strings
// with high bytes stay readable. Control characters are stripped.
func DecodeOctetString(b []byte) string {
	var s string
	if utf8.Valid(b) {
		s = string(b)
	} else {
		runes := make([]rune, len(b))
		for i, c := range b {
			runes[i] = rune(c)
		}
		s = string(runes)
	}
	return sanitize(s)
}

func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// varbindFromPDU maps a gosnmp PDU to the engine's value model. An
// unparsable name yields an empty OID, which walk loops treat as a stop
// marker.
func varbindFromPDU(pdu gosnmp.SnmpPDU) VarBind {
	var vb VarBind
	if oid, err := ParseOID(strings.TrimPrefix(pdu.Name, ".")); err == nil {
		vb.OID = oid
	}
	vb.Value = valueFromPDU(pdu)
	return vb
}

func valueFromPDU(pdu gosnmp.SnmpPDU) Value {
	switch pdu.Type {
	case gosnmp.Null:
		return Null()
	case gosnmp.Integer:
		if n, ok := pdu.Value.(int); ok {
			return Integer(int64(n))
		}
	case gosnmp.Gauge32, gosnmp.Uinteger32:
		if n, ok := pdu.Value.(uint); ok {
			return Unsigned32(uint32(n))
		}
	case gosnmp.Counter32:
		if n, ok := pdu.Value.(uint); ok {
			return Counter32(uint32(n))
		}
	case gosnmp.Counter64:
		if n, ok := pdu.Value.(uint64); ok {
			return Counter64(n)
		}
	case gosnmp.TimeTicks:
		if n, ok := pdu.Value.(uint32); ok {
			return TimeTicks(n)
		}
		if n, ok := pdu.Value.(uint); ok {
			return TimeTicks(uint32(n))
		}
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return OctetString(b)
		}
	case gosnmp.Opaque:
		if b, ok := pdu.Value.([]byte); ok {
			return Opaque(b)
		}
	case gosnmp.ObjectIdentifier:
		if s, ok := pdu.Value.(string); ok {
			if oid, err := ParseOID(strings.TrimPrefix(s, ".")); err == nil {
				return ObjectIdentifier(oid)
			}
		}
	case gosnmp.IPAddress:
		if s, ok := pdu.Value.(string); ok {
			return IPAddress(s)
		}
	case gosnmp.NoSuchObject:
		return NoSuchObject()
	case gosnmp.NoSuchInstance:
		return NoSuchInstance()
	case gosnmp.EndOfMibView:
		return EndOfMibView()
	}
	return Other(fmt.Sprintf("%v(%v)", pdu.Type, pdu.Value))
}
