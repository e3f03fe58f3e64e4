// Package fault defines the error taxonomy shared by every layer of the
// engine. Each fault carries enough structure to render a short operator
// summary and a technical detail string without the caller formatting
// anything itself.
package fault

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies the failure class. Callers branch on kinds, never on
// message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindTimeout
	KindTransport
	KindUnsupportedModel
	KindMissingCounters
	KindCounterRegression
	KindDiscovery
	KindStorageLoad
	KindStorageSave
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindUnsupportedModel:
		return "unsupported-model"
	case KindMissingCounters:
		return "missing-counters"
	case KindCounterRegression:
		return "counter-regression"
	case KindDiscovery:
		return "discovery"
	case KindStorageLoad:
		return "storage-load"
	case KindStorageSave:
		return "storage-save"
	default:
		return "unknown"
	}
}

// Error is the concrete fault value. Only the fields relevant to its Kind
// are populated.
type Error struct {
	Kind        Kind
	Address     string
	Timeout     time.Duration
	Detail      string
	Model       string
	SysObjectID string
	DeviceID    string
	Categories  []string
	Previous    uint64
	Current     uint64
	Range       string
	Path        string
	Err         error
}

func (e *Error) Error() string { return e.TechnicalDetail() }

func (e *Error) Unwrap() error { return e.Err }

// UserSummary is a one line message suitable for an operator facing surface.
func (e *Error) UserSummary() string {
	switch e.Kind {
	case KindAuth:
		return fmt.Sprintf("SNMP authentication failed for %s.", e.Address)
	case KindTimeout:
		return fmt.Sprintf("SNMP timeout after %dms for %s.", e.Timeout.Milliseconds(), e.Address)
	case KindTransport:
		return fmt.Sprintf("SNMP communication failed for %s.", e.Address)
	case KindUnsupportedModel:
		return fmt.Sprintf("Printer model %q is not supported yet.", e.Model)
	case KindMissingCounters:
		return fmt.Sprintf("Counters unavailable: %s.", strings.Join(e.Categories, ", "))
	case KindCounterRegression:
		return "Counter value went backwards; device may have been reset."
	case KindDiscovery:
		return fmt.Sprintf("Discovery failed for range %s.", e.Range)
	case KindStorageLoad:
		return "Could not load saved device data."
	case KindStorageSave:
		return "Could not save device data."
	default:
		return "Unexpected error."
	}
}

// TechnicalDetail carries the full context for logs and diagnostics.
func (e *Error) TechnicalDetail() string {
	switch e.Kind {
	case KindAuth:
		return fmt.Sprintf("snmp auth failure for %s: %s", e.Address, e.Detail)
	case KindTimeout:
		return fmt.Sprintf("snmp timeout after %dms for %s", e.Timeout.Milliseconds(), e.Address)
	case KindTransport:
		if e.Err != nil {
			return fmt.Sprintf("snmp transport failure for %s: %s: %v", e.Address, e.Detail, e.Err)
		}
		return fmt.Sprintf("snmp transport failure for %s: %s", e.Address, e.Detail)
	case KindUnsupportedModel:
		return fmt.Sprintf("unsupported model %q (sysObjectID %s)", e.Model, e.SysObjectID)
	case KindMissingCounters:
		return fmt.Sprintf("missing counters for device %s: %s", e.DeviceID, strings.Join(e.Categories, ", "))
	case KindCounterRegression:
		return fmt.Sprintf("counter regression for device %s: previous=%d current=%d", e.DeviceID, e.Previous, e.Current)
	case KindDiscovery:
		if e.Err != nil {
			return fmt.Sprintf("discovery failure for range %s: %s: %v", e.Range, e.Detail, e.Err)
		}
		return fmt.Sprintf("discovery failure for range %s: %s", e.Range, e.Detail)
	case KindStorageLoad:
		return fmt.Sprintf("load failure for %s: %v", e.Path, e.Err)
	case KindStorageSave:
		return fmt.Sprintf("save failure for %s: %v", e.Path, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("unexpected error: %v", e.Err)
		}
		return "unexpected error"
	}
}

// NewAuth reports a community or authentication rejection. Auth faults are
// never retried.
func NewAuth(address, detail string) *Error {
	return &Error{Kind: KindAuth, Address: address, Detail: detail}
}

// NewTimeout reports an exhausted per-attempt deadline.
func NewTimeout(address string, timeout time.Duration) *Error {
	return &Error{Kind: KindTimeout, Address: address, Timeout: timeout}
}

// NewTransport reports a socket or wire level failure.
func NewTransport(address, detail string, err error) *Error {
	return &Error{Kind: KindTransport, Address: address, Detail: detail, Err: err}
}

// NewUnsupportedModel reports a device whose counter layout is unknown.
func NewUnsupportedModel(model, sysObjectID string) *Error {
	return &Error{Kind: KindUnsupportedModel, Model: model, SysObjectID: sysObjectID}
}

// NewMissingCounters reports categories that resolved to no value at all.
func NewMissingCounters(deviceID string, categories []string) *Error {
	return &Error{Kind: KindMissingCounters, DeviceID: deviceID, Categories: categories}
}

// NewCounterRegression reports a lifetime counter moving backwards.
func NewCounterRegression(deviceID string, previous, current uint64) *Error {
	return &Error{Kind: KindCounterRegression, DeviceID: deviceID, Previous: previous, Current: current}
}

// NewDiscovery reports a scan level failure such as an unparsable range.
func NewDiscovery(rangeSpec, detail string, err error) *Error {
	return &Error{Kind: KindDiscovery, Range: rangeSpec, Detail: detail, Err: err}
}

// NewStorageLoad reports a failure reading persisted state.
func NewStorageLoad(path string, err error) *Error {
	return &Error{Kind: KindStorageLoad, Path: path, Err: err}
}

// NewStorageSave reports a failure writing persisted state.
func NewStorageSave(path string, err error) *Error {
	return &Error{Kind: KindStorageSave, Path: path, Err: err}
}

// KindOf extracts the fault kind from any error chain. Non-fault errors
// report KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
