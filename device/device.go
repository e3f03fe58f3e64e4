// Package device holds the printer inventory record and the merge and
// naming rules applied when discovery and polling report back.
package device

import (
	"strings"

	"github.com/google/uuid"

	"pagemeter/snmp"
)

// Status is the device's last known reachability.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusError   Status = "error"
)

// ID prefixes. Discovered records key on the probed host so repeat sweeps
// converge on one record per device; manual records get a random identity.
const (
	discoveredIDPrefix = "snmp-"
	manualIDPrefix     = "manual-"
)

// Record is one tracked printer. Host is the probed host text and is kept
// separately from Address so it survives interchange even when no resolved
// address is attached.
type Record struct {
	ID          string        `json:"id"`
	Host        string        `json:"host,omitempty"`
	Model       string        `json:"model,omitempty"`
	SysObjectID string        `json:"sys_object_id,omitempty"`
	Address     *snmp.Address `json:"address,omitempty"`
	Community   string        `json:"community,omitempty"`
	Status      Status        `json:"status"`
	LastSeen    int64         `json:"last_seen,omitempty"`
}

// NewDiscovered builds a record for a host found by a sweep.
func NewDiscovered(address snmp.Address) Record {
	return Record{
		ID:      discoveredIDPrefix + address.Host,
		Host:    address.Host,
		Address: &address,
		Status:  StatusUnknown,
	}
}

// NewManual builds an operator-entered record with a random identity.
func NewManual(address snmp.Address, model string) Record {
	return Record{
		ID:      manualIDPrefix + uuid.NewString(),
		Host:    address.Host,
		Model:   model,
		Address: &address,
		Status:  StatusUnknown,
	}
}

// IsManual reports whether the record was entered by hand. Manual model
// names are never overwritten by polled values.
func (r *Record) IsManual() bool {
	return strings.HasPrefix(r.ID, manualIDPrefix)
}

// hostKey is the merge key: the stored host text, falling back to the
// resolved address for records predating the Host field.
func (r *Record) hostKey() string {
	if r.Host != "" {
		return r.Host
	}
	if r.Address != nil {
		return r.Address.Host
	}
	return ""
}

// MergeByHost folds rec into records. A record with the same host is
// updated in place, keeping its identity; otherwise rec is appended.
func MergeByHost(records []Record, rec Record) []Record {
	host := rec.hostKey()
	if host != "" {
		for i := range records {
			if records[i].hostKey() == host {
				id := records[i].ID
				records[i] = rec
				records[i].ID = id
				return records
			}
		}
	}
	return append(records, rec)
}

// ApplyNameBackfill updates rec.Model from a freshly polled name.
//
// The rules: an empty polled name never changes anything; an empty model is
// always filled; manual records are otherwise untouched; and an existing
// model is replaced only when allowOverride is set and the current model is
// a placeholder, meaning it equals the device's sysDescr or its host.
func ApplyNameBackfill(rec *Record, name string, allowOverride bool, sysDescr string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	existing := strings.TrimSpace(rec.Model)
	if existing == "" {
		rec.Model = name
		return
	}
	if rec.IsManual() || !allowOverride {
		return
	}
	host := rec.hostKey()
	placeholder := (sysDescr != "" && existing == strings.TrimSpace(sysDescr)) ||
		(host != "" && existing == host)
	if placeholder && existing != name {
		rec.Model = name
	}
}
