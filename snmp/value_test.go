package snmp

import "testing"

func TestAsUint64(t *testing.T) {
	cases := []struct {
		name  string
		value Value
		want  uint64
		ok    bool
	}{
		{"counter32", Counter32(150), 150, true},
		{"counter64", Counter64(1 << 40), 1 << 40, true},
		{"unsigned32", Unsigned32(42), 42, true},
		{"positive integer", Integer(7), 7, true},
		{"zero integer", Integer(0), 0, true},
		{"negative integer", Integer(-1), 0, false},
		{"timeticks", TimeTicks(100), 0, false},
		{"octet string", OctetString([]byte("150")), 0, false},
		{"null", Null(), 0, false},
		{"no such instance", NoSuchInstance(), 0, false},
	}
	for _, tc := range cases {
		got, ok := tc.value.AsUint64()
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: AsUint64() = (%d, %v), want (%d, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAsText(t *testing.T) {
	if s, ok := OctetString([]byte("  RICOH IM C3000  ")).AsText(); !ok || s != "RICOH IM C3000" {
		t.Errorf("octet string text = (%q, %v)", s, ok)
	}
	if s, ok := Opaque([]byte("raw")).AsText(); !ok || s != "raw" {
		t.Errorf("opaque text = (%q, %v)", s, ok)
	}
	// Only byte-string variants carry text.
	if _, ok := IPAddress("10.0.0.5").AsText(); ok {
		t.Error("ip addresses should not have text")
	}
	if _, ok := ObjectIdentifier(MustOID("1.3.6.1.4.1.367")).AsText(); ok {
		t.Error("object identifiers should not have text")
	}
	if _, ok := Counter32(5).AsText(); ok {
		t.Error("counters should not have text")
	}
}

func TestDecodeOctetStringLatin1Fallback(t *testing.T) {
	// 0xE9 is "e" with acute accent in ISO-8859-1 and invalid alone in UTF-8.
	got := DecodeOctetString([]byte{'c', 'a', 'f', 0xE9})
	if got != "café" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeOctetStringStripsControlChars(t *testing.T) {
	got := DecodeOctetString([]byte("IM\x00 C300\x07"))
	if got != "IM C300" {
		t.Errorf("got %q", got)
	}
}

func TestIsMissing(t *testing.T) {
	for _, v := range []Value{Null(), NoSuchObject(), NoSuchInstance(), EndOfMibView()} {
		if !v.IsMissing() {
			t.Errorf("%s should be missing", v)
		}
	}
	for _, v := range []Value{Counter32(1), OctetString(nil), Integer(-1), Other("x")} {
		if v.IsMissing() {
			t.Errorf("%s should not be missing", v)
		}
	}
}
