package snmp

import "fmt"

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindUnsigned32
	KindCounter32
	KindCounter64
	KindTimeTicks
	KindOctetString
	KindOpaque
	KindObjectIdentifier
	KindIPAddress
	KindNoSuchObject
	KindNoSuchInstance
	KindEndOfMibView
	KindOther
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindInteger:
		return "Integer"
	case KindUnsigned32:
		return "Unsigned32"
	case KindCounter32:
		return "Counter32"
	case KindCounter64:
		return "Counter64"
	case KindTimeTicks:
		return "TimeTicks"
	case KindOctetString:
		return "OctetString"
	case KindOpaque:
		return "Opaque"
	case KindObjectIdentifier:
		return "ObjectIdentifier"
	case KindIPAddress:
		return "IPAddress"
	case KindNoSuchObject:
		return "NoSuchObject"
	case KindNoSuchInstance:
		return "NoSuchInstance"
	case KindEndOfMibView:
		return "EndOfMibView"
	default:
		return "Other"
	}
}

// Value is a decoded SNMP variable value. Exactly the fields implied by
// Kind are meaningful.
type Value struct {
	Kind  ValueKind
	Int   int64  // Integer
	Uint  uint64 // Unsigned32, Counter32, Counter64, TimeTicks
	Bytes []byte // OctetString, Opaque
	OID   OID    // ObjectIdentifier
	Str   string // IPAddress text, or a diagnostic tag for Other
}

func Null() Value { return Value{Kind: KindNull} }

func Integer(v int64) Value { return Value{Kind: KindInteger, Int: v} }

func Unsigned32(v uint32) Value { return Value{Kind: KindUnsigned32, Uint: uint64(v)} }

func Counter32(v uint32) Value { return Value{Kind: KindCounter32, Uint: uint64(v)} }

func Counter64(v uint64) Value { return Value{Kind: KindCounter64, Uint: v} }

func TimeTicks(v uint32) Value { return Value{Kind: KindTimeTicks, Uint: uint64(v)} }

func OctetString(b []byte) Value { return Value{Kind: KindOctetString, Bytes: b} }

func Opaque(b []byte) Value { return Value{Kind: KindOpaque, Bytes: b} }

func IPAddress(s string) Value { return Value{Kind: KindIPAddress, Str: s} }

func NoSuchObject() Value { return Value{Kind: KindNoSuchObject} }

func NoSuchInstance() Value { return Value{Kind: KindNoSuchInstance} }

func EndOfMibView() Value { return Value{Kind: KindEndOfMibView} }

func Other(tag string) Value { return Value{Kind: KindOther, Str: tag} }

func ObjectIdentifier(o OID) Value {
	return Value{Kind: KindObjectIdentifier, OID: o}
}

// AsUint64 coerces counter-like values to uint64. Integers coerce only when
// non-negative. TimeTicks are durations, not page counts, so they do not
// coerce.
func (v Value) AsUint64() (uint64, bool) {
	switch v.Kind {
	case KindUnsigned32, KindCounter32, KindCounter64:
		return v.Uint, true
	case KindInteger:
		if v.Int >= 0 {
			return uint64(v.Int), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsText extracts a display string from the byte-string variants, decoded
// with the UTF-8 then Latin-1 fallback. Other kinds have no text form;
// object identifier values render through Response.ObjectIDAt.
func (v Value) AsText() (string, bool) {
	switch v.Kind {
	case KindOctetString, KindOpaque:
		return DecodeOctetString(v.Bytes), true
	default:
		return "", false
	}
}

// IsMissing reports whether the value is an absence marker rather than
// data: Null or one of the v2c exception sentinels.
func (v Value) IsMissing() bool {
	switch v.Kind {
	case KindNull, KindNoSuchObject, KindNoSuchInstance, KindEndOfMibView:
		return true
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", v.Int)
	case KindUnsigned32, KindCounter32, KindCounter64, KindTimeTicks:
		return fmt.Sprintf("%s(%d)", v.Kind, v.Uint)
	case KindOctetString, KindOpaque:
		return fmt.Sprintf("%s(%q)", v.Kind, DecodeOctetString(v.Bytes))
	case KindObjectIdentifier:
		return fmt.Sprintf("ObjectIdentifier(%s)", v.OID)
	case KindIPAddress:
		return fmt.Sprintf("IPAddress(%s)", v.Str)
	case KindOther:
		return fmt.Sprintf("Other(%s)", v.Str)
	default:
		return v.Kind.String()
	}
}
