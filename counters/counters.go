// Package counters turns raw SNMP varbinds into lifetime page counter
// snapshots. Each counter category has an ordered candidate OID list; the
// first candidate present and numeric in a response wins.
package counters

import (
	"fmt"
	"sort"

	"pagemeter/fault"
	"pagemeter/mib"
	"pagemeter/snmp"
)

// Category names a counter slot.
type Category string

const (
	CategoryBW    Category = "bw"
	CategoryColor Category = "color"
	CategoryTotal Category = "total"
)

// Mapping is the per-device candidate OID list for each category, in
// preference order.
type Mapping struct {
	BW    []snmp.OID `json:"bw"`
	Color []snmp.OID `json:"color"`
	Total []snmp.OID `json:"total"`
}

// DefaultMapping prefers the Ricoh private counters and falls back to the
// standard Printer MIB marker life counts.
func DefaultMapping() Mapping {
	return Mapping{
		BW:    []snmp.OID{mib.RicohBWCopies, mib.RicohBWPrints, mib.PrtMarkerLifeCount1},
		Color: []snmp.OID{mib.RicohColorCopies, mib.RicohColorPrints, mib.PrtMarkerLifeCount2},
		Total: []snmp.OID{mib.PrtMarkerLifeCount3},
	}
}

// MappingFromWalk derives a mapping from a counter subtree walk. Standard
// marker rows claim their categories when present; every numeric OID found
// becomes a total candidate so unknown layouts still produce something.
func MappingFromWalk(varbinds []snmp.VarBind) Mapping {
	seen := make(map[string]bool)
	var candidates []snmp.OID
	for _, vb := range varbinds {
		if _, ok := vb.Value.AsUint64(); !ok {
			continue
		}
		key := vb.OID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, vb.OID.Clone())
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Compare(candidates[j]) < 0
	})

	var m Mapping
	if seen[mib.PrtMarkerLifeCount1.String()] {
		m.BW = []snmp.OID{mib.PrtMarkerLifeCount1}
	}
	if seen[mib.PrtMarkerLifeCount2.String()] {
		m.Color = []snmp.OID{mib.PrtMarkerLifeCount2}
	}
	if seen[mib.PrtMarkerLifeCount3.String()] {
		m.Total = []snmp.OID{mib.PrtMarkerLifeCount3}
	}
	for _, oid := range candidates {
		if oid.Equal(mib.PrtMarkerLifeCount3) {
			continue
		}
		m.Total = append(m.Total, oid)
	}
	return m
}

// OIDs returns every candidate across categories, deduplicated, in
// category order. Useful for building poll requests.
func (m Mapping) OIDs() []snmp.OID {
	seen := make(map[string]bool)
	var out []snmp.OID
	for _, group := range [][]snmp.OID{m.BW, m.Color, m.Total} {
		for _, oid := range group {
			key := oid.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, oid)
		}
	}
	return out
}

// SourceOIDs records which candidate supplied each resolved value. A
// derived total has no source.
type SourceOIDs struct {
	BW    string `json:"bw,omitempty"`
	Color string `json:"color,omitempty"`
	Total string `json:"total,omitempty"`
}

// Snapshot is one resolved reading. Absent categories stay nil.
type Snapshot struct {
	BW         *uint64    `json:"bw,omitempty"`
	Color      *uint64    `json:"color,omitempty"`
	Total      *uint64    `json:"total,omitempty"`
	Timestamp  int64      `json:"timestamp"`
	SourceOIDs SourceOIDs `json:"source_oids"`
}

// Mode classifies how complete a snapshot is.
type Mode int

const (
	ModeMissing Mode = iota
	ModePartial
	ModeTotalOnly
	ModeBWColor
)

func (m Mode) String() string {
	switch m {
	case ModeBWColor:
		return "bw+color"
	case ModeTotalOnly:
		return "total-only"
	case ModePartial:
		return "partial"
	default:
		return "missing"
	}
}

// WarningKind classifies resolution warnings.
type WarningKind int

const (
	WarnMissing WarningKind = iota
	WarnNonNumeric
	WarnTotalFallback
	WarnDerivedTotal
)

// Warning annotates a snapshot without failing the poll.
type Warning struct {
	Kind     WarningKind
	Category Category
	OID      string
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnMissing:
		return fmt.Sprintf("no value for %s counter", w.Category)
	case WarnNonNumeric:
		return fmt.Sprintf("non-numeric value at %s for %s counter", w.OID, w.Category)
	case WarnTotalFallback:
		return "bw and color unavailable; reporting total only"
	case WarnDerivedTotal:
		return "derived total from bw+color"
	default:
		return "unknown warning"
	}
}

// Resolution is the outcome of resolving one response against a mapping.
type Resolution struct {
	Snapshot Snapshot
	Mode     Mode
	Warnings []Warning
}

// Resolve applies the category ladder to varbinds.
//
// Both bw and color present is the full mode; a missing total is then
// derived as their sum and flagged, with no source OID since no single
// object reported it. Otherwise a resolved total takes precedence over a
// lone bw or color reading: the mode is total-only even when one split
// category answered. One of bw or color alone, with no total, is a
// partial read.
func Resolve(timestamp int64, m Mapping, varbinds []snmp.VarBind) Resolution {
	res := Resolution{Snapshot: Snapshot{Timestamp: timestamp}}

	bw, bwOID := findValue(m.BW, varbinds, CategoryBW, &res.Warnings)
	color, colorOID := findValue(m.Color, varbinds, CategoryColor, &res.Warnings)
	total, totalOID := findValue(m.Total, varbinds, CategoryTotal, &res.Warnings)

	res.Snapshot.BW = bw
	res.Snapshot.Color = color
	res.Snapshot.Total = total
	res.Snapshot.SourceOIDs = SourceOIDs{BW: bwOID, Color: colorOID, Total: totalOID}

	switch {
	case bw != nil && color != nil:
		res.Mode = ModeBWColor
		if total == nil {
			derived := *bw + *color
			res.Snapshot.Total = &derived
			res.Snapshot.SourceOIDs.Total = ""
			res.Warnings = append(res.Warnings, Warning{Kind: WarnDerivedTotal, Category: CategoryTotal})
		}
	case total != nil:
		res.Mode = ModeTotalOnly
		if bw == nil {
			res.Warnings = append(res.Warnings, Warning{Kind: WarnMissing, Category: CategoryBW})
		}
		if color == nil {
			res.Warnings = append(res.Warnings, Warning{Kind: WarnMissing, Category: CategoryColor})
		}
		res.Warnings = append(res.Warnings, Warning{Kind: WarnTotalFallback, Category: CategoryTotal, OID: totalOID})
	case bw != nil || color != nil:
		// total is always absent here; the previous case claims it.
		res.Mode = ModePartial
		if bw == nil {
			res.Warnings = append(res.Warnings, Warning{Kind: WarnMissing, Category: CategoryBW})
		}
		if color == nil {
			res.Warnings = append(res.Warnings, Warning{Kind: WarnMissing, Category: CategoryColor})
		}
		res.Warnings = append(res.Warnings, Warning{Kind: WarnMissing, Category: CategoryTotal})
	default:
		res.Mode = ModeMissing
		res.Warnings = append(res.Warnings,
			Warning{Kind: WarnMissing, Category: CategoryBW},
			Warning{Kind: WarnMissing, Category: CategoryColor},
			Warning{Kind: WarnMissing, Category: CategoryTotal},
		)
	}
	return res
}

// MissingFault converts a fully missing resolution into a fault, or nil.
func (r Resolution) MissingFault(deviceID string) error {
	if r.Mode != ModeMissing {
		return nil
	}
	return fault.NewMissingCounters(deviceID, []string{
		string(CategoryBW), string(CategoryColor), string(CategoryTotal),
	})
}

// findValue scans candidates in order. A candidate bound to an absence
// marker is skipped; a present but non-numeric candidate warns and the
// scan continues with the next candidate.
func findValue(candidates []snmp.OID, varbinds []snmp.VarBind, category Category, warnings *[]Warning) (*uint64, string) {
	for _, oid := range candidates {
		value, present := lookup(varbinds, oid)
		if !present || value.IsMissing() {
			continue
		}
		if n, ok := value.AsUint64(); ok {
			return &n, oid.String()
		}
		*warnings = append(*warnings, Warning{Kind: WarnNonNumeric, Category: category, OID: oid.String()})
	}
	return nil, ""
}

func lookup(varbinds []snmp.VarBind, oid snmp.OID) (snmp.Value, bool) {
	for _, vb := range varbinds {
		if vb.OID.Equal(oid) {
			return vb.Value, true
		}
	}
	return snmp.Value{}, false
}

// CheckRegression compares two snapshots of the same device and reports a
// fault when any shared category moved backwards. Lifetime counters only
// ever grow; a drop usually means a board swap or factory reset.
func CheckRegression(deviceID string, previous, current Snapshot) error {
	pairs := []struct {
		prev, cur *uint64
	}{
		{previous.Total, current.Total},
		{previous.BW, current.BW},
		{previous.Color, current.Color},
	}
	for _, p := range pairs {
		if p.prev != nil && p.cur != nil && *p.cur < *p.prev {
			return fault.NewCounterRegression(deviceID, *p.prev, *p.cur)
		}
	}
	return nil
}
