// Package poll reads counters and identity from known printers and folds
// the results back into their inventory records.
package poll

import (
	"context"
	"time"

	"pagemeter/counters"
	"pagemeter/device"
	"pagemeter/fault"
	"pagemeter/logger"
	"pagemeter/mib"
	"pagemeter/snmp"
)

// TonerLevels are the Ricoh cartridge gauges, nil when the device does not
// report a color.
type TonerLevels struct {
	Black   *uint64 `json:"black,omitempty"`
	Cyan    *uint64 `json:"cyan,omitempty"`
	Magenta *uint64 `json:"magenta,omitempty"`
	Yellow  *uint64 `json:"yellow,omitempty"`
}

// Result is one completed poll.
type Result struct {
	Resolution counters.Resolution
	Toner      TonerLevels
	ReceivedAt int64
}

type Poller struct {
	client snmp.Client
	log    *logger.Logger
}

func New(client snmp.Client, log *logger.Logger) *Poller {
	return &Poller{client: client, log: log}
}

// OIDs builds the union of everything one poll asks for: identity objects
// for name backfill, the mapping's counter candidates, and the toner
// gauges. Duplicates are removed, order is preserved.
func OIDs(m counters.Mapping) []snmp.OID {
	fixed := []snmp.OID{
		mib.SysDescr,
		mib.SysObjectID,
		mib.SysName,
		mib.SysUpTime,
		mib.PrtGeneralPrinterName,
		mib.RicohBWCopies,
		mib.RicohColorCopies,
		mib.RicohBWPrints,
		mib.RicohColorPrints,
	}
	toner := []snmp.OID{
		mib.RicohTonerBlack,
		mib.RicohTonerCyan,
		mib.RicohTonerMagenta,
		mib.RicohTonerYellow,
	}

	seen := make(map[string]bool)
	var out []snmp.OID
	add := func(oids []snmp.OID) {
		for _, oid := range oids {
			key := oid.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, oid)
		}
	}
	add(fixed)
	add(m.OIDs())
	add(toner)
	return out
}

// Poll reads the device once. On success the record's status, last seen
// time, identity, and model backfill are updated in place; on failure the
// record is marked errored and the fault returned.
func (p *Poller) Poll(ctx context.Context, rec *device.Record, m counters.Mapping) (*Result, error) {
	if rec.Address == nil {
		rec.Status = device.StatusError
		return nil, fault.NewTransport(rec.ID, "device has no SNMP address", nil)
	}

	resp, err := p.client.Get(ctx, snmp.Request{
		Address:   *rec.Address,
		Community: rec.Community,
		OIDs:      OIDs(m),
	})
	now := time.Now().Unix()
	if err != nil {
		rec.Status = device.StatusError
		p.log.Warn("poll failed", "device", rec.ID, "error", err)
		return nil, err
	}

	sysDescr := resp.TextAt(mib.SysDescr)
	if oid := resp.ObjectIDAt(mib.SysObjectID); oid != "" {
		rec.SysObjectID = oid
	}

	// The printer name is the best model source, then sysName, then the
	// description. Overriding an existing model is only allowed when the
	// device actually answered an identity object this cycle.
	name := resp.TextAt(mib.PrtGeneralPrinterName)
	sysName := resp.TextAt(mib.SysName)
	candidate := firstNonEmpty(name, sysName, sysDescr)
	if candidate != "" {
		allowOverride := name != "" || sysName != ""
		device.ApplyNameBackfill(rec, candidate, allowOverride, sysDescr)
	}

	rec.Status = device.StatusOnline
	rec.LastSeen = now

	res := counters.Resolve(now, m, resp.VarBinds)
	for _, w := range res.Warnings {
		p.log.Debug("counter warning", "device", rec.ID, "warning", w.String())
	}

	return &Result{
		Resolution: res,
		Toner:      tonerLevels(resp),
		ReceivedAt: now,
	}, nil
}

// LearnMapping walks the known counter subtrees and derives a device
// specific mapping. An empty walk falls back to the defaults.
func (p *Poller) LearnMapping(ctx context.Context, rec *device.Record) (counters.Mapping, error) {
	if rec.Address == nil {
		return counters.Mapping{}, fault.NewTransport(rec.ID, "device has no SNMP address", nil)
	}
	var all []snmp.VarBind
	for _, root := range mib.CrawlRoots {
		resp, err := p.client.Walk(ctx, snmp.WalkRequest{
			Address:   *rec.Address,
			Community: rec.Community,
			Root:      root,
		})
		if err != nil {
			return counters.Mapping{}, err
		}
		all = append(all, resp.VarBinds...)
	}
	m := MappingFromWalkOrDefault(all)
	p.log.Debug("mapping learned", "device", rec.ID, "candidates", len(m.Total))
	return m, nil
}

// MappingFromWalkOrDefault derives a mapping from walked varbinds, falling
// back to the default ladder when the walk found nothing numeric.
func MappingFromWalkOrDefault(varbinds []snmp.VarBind) counters.Mapping {
	m := counters.MappingFromWalk(varbinds)
	if len(m.BW) == 0 && len(m.Color) == 0 && len(m.Total) == 0 {
		return counters.DefaultMapping()
	}
	return m
}

func tonerLevels(resp *snmp.Response) TonerLevels {
	return TonerLevels{
		Black:   uintAt(resp, mib.RicohTonerBlack),
		Cyan:    uintAt(resp, mib.RicohTonerCyan),
		Magenta: uintAt(resp, mib.RicohTonerMagenta),
		Yellow:  uintAt(resp, mib.RicohTonerYellow),
	}
}

func uintAt(resp *snmp.Response, oid snmp.OID) *uint64 {
	if n, ok := resp.Uint64At(oid); ok {
		return &n
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
