package snmp

import (
	"fmt"
	"time"
)

// DefaultPort is the standard SNMP agent port.
const DefaultPort uint16 = 161

// Address is an SNMP endpoint.
type Address struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

// NewAddress builds an address, substituting DefaultPort for a zero port.
func NewAddress(host string, port uint16) Address {
	if port == 0 {
		port = DefaultPort
	}
	return Address{Host: host, Port: port}
}

// DefaultAddress builds an address on the standard port.
func DefaultAddress(host string) Address {
	return Address{Host: host, Port: DefaultPort}
}

func (a Address) String() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// VarBind pairs an OID with its decoded value.
type VarBind struct {
	OID   OID   `json:"oid"`
	Value Value `json:"-"`
}

// Request is a GET for one or more OIDs. An empty Community falls back to
// the client's configured default.
type Request struct {
	Address   Address
	Community string
	OIDs      []OID
}

// WalkRequest enumerates the subtree below Root. MaxResults of zero means
// unbounded.
type WalkRequest struct {
	Address    Address
	Community  string
	Root       OID
	MaxResults int
}

// Response carries the varbinds returned for a request, in wire order.
type Response struct {
	Address  Address
	VarBinds []VarBind
}

// Lookup returns the value bound to oid, if the response contains it.
func (r *Response) Lookup(oid OID) (Value, bool) {
	for _, vb := range r.VarBinds {
		if vb.OID.Equal(oid) {
			return vb.Value, true
		}
	}
	return Value{}, false
}

// TextAt extracts a trimmed display string for oid. Missing markers and
// empty strings yield "".
func (r *Response) TextAt(oid OID) string {
	v, ok := r.Lookup(oid)
	if !ok || v.IsMissing() {
		return ""
	}
	s, ok := v.AsText()
	if !ok {
		return ""
	}
	return s
}

// Uint64At extracts a numeric value for oid if one is present and
// coercible.
func (r *Response) Uint64At(oid OID) (uint64, bool) {
	v, ok := r.Lookup(oid)
	if !ok {
		return 0, false
	}
	return v.AsUint64()
}

// ObjectIDAt extracts an object identifier value for oid as dotted text.
func (r *Response) ObjectIDAt(oid OID) string {
	v, ok := r.Lookup(oid)
	if !ok || v.Kind != KindObjectIdentifier {
		return ""
	}
	return v.OID.String()
}

// ClientConfig holds the transport defaults shared by all requests.
type ClientConfig struct {
	Community string
	Timeout   time.Duration
	Retries   int
}

// DefaultClientConfig mirrors the common agent defaults: public community,
// two second attempts, one retry.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Community: "public",
		Timeout:   2 * time.Second,
		Retries:   1,
	}
}
