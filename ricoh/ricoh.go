// Package ricoh profiles Ricoh devices from their SNMP identity strings
// and predicts which counter categories the device exposes.
package ricoh

import (
	"strings"

	"pagemeter/device"
	"pagemeter/fault"
)

// enterpriseOIDPrefix is the Ricoh arc of the enterprises subtree.
const enterpriseOIDPrefix = "1.3.6.1.4.1.367"

// Match is how confidently a device was placed.
type Match int

const (
	MatchNone Match = iota
	MatchUnmapped
	MatchKnown
)

func (m Match) String() string {
	switch m {
	case MatchKnown:
		return "known"
	case MatchUnmapped:
		return "unmapped"
	default:
		return "not-ricoh"
	}
}

// Strategy tells the poller how to read counters from this device.
type Strategy int

const (
	StrategyUnknown Strategy = iota
	StrategyPreferSplit
	StrategyBWOnly
	StrategyTotalOnly
)

func (s Strategy) String() string {
	switch s {
	case StrategyPreferSplit:
		return "prefer-split"
	case StrategyBWOnly:
		return "bw-only"
	case StrategyTotalOnly:
		return "total-only"
	default:
		return "unknown"
	}
}

// Availability flags which counter categories the model family exposes.
type Availability struct {
	BW    bool `json:"bw"`
	Color bool `json:"color"`
	Total bool `json:"total"`
}

// Profile is the identification result for one device.
type Profile struct {
	Match    Match
	Model    string
	Counters Availability
	Strategy Strategy
	Notes    []string
}

// Model family prefixes, matched against the lowercased model string.
// Longer spaced forms come first so "im c" wins over "im ".
var colorPrefixes = []string{"im c", "mp c", "sp c", "mpcw", "imc", "mpc", "spc"}
var monoPrefixes = []string{"im ", "mp ", "sp "}

// Identify profiles a device from its sysObjectID and sysDescr. A device
// counts as Ricoh when its sysObjectID sits under the Ricoh enterprise arc
// or its description mentions the brand.
func Identify(sysObjectID, sysDescr string) Profile {
	sysObjectID = strings.TrimSpace(sysObjectID)
	sysDescr = strings.TrimSpace(sysDescr)

	byOID := strings.HasPrefix(sysObjectID, enterpriseOIDPrefix)
	byDescr := strings.Contains(strings.ToLower(sysDescr), "ricoh")

	var p Profile
	switch {
	case !byOID && !byDescr:
		p.Match = MatchNone
		p.Strategy = StrategyUnknown
		return p
	// With both signals firing the identification is unambiguous and no
	// note is worth recording.
	case byOID && !byDescr:
		p.Notes = append(p.Notes, "Ricoh identified via sysObjectID.")
	case byDescr && !byOID:
		p.Notes = append(p.Notes, "Ricoh identified via sysDescr.")
	}

	model := extractModel(sysDescr)
	if model == "" {
		p.Match = MatchUnmapped
		p.Strategy = StrategyUnknown
		p.Notes = append(p.Notes, "Ricoh model string not found.")
		return p
	}
	p.Model = model

	lower := strings.ToLower(model)
	for _, prefix := range colorPrefixes {
		if strings.HasPrefix(lower, prefix) {
			p.Match = MatchKnown
			p.Counters = Availability{BW: true, Color: true, Total: true}
			p.Strategy = StrategyPreferSplit
			return p
		}
	}
	for _, prefix := range monoPrefixes {
		if strings.HasPrefix(lower, prefix) {
			p.Match = MatchKnown
			p.Counters = Availability{BW: true, Total: true}
			p.Strategy = StrategyBWOnly
			return p
		}
	}

	p.Match = MatchUnmapped
	p.Strategy = StrategyUnknown
	p.Notes = append(p.Notes, "Unmapped Ricoh model; counter availability unknown.")
	return p
}

// FromRecord profiles an inventory record using its stored identity.
func FromRecord(rec *device.Record) Profile {
	return Identify(rec.SysObjectID, rec.Model)
}

// UnsupportedFault converts an unmapped profile into a fault, or nil for
// known and non-Ricoh devices.
func (p Profile) UnsupportedFault(sysObjectID string) error {
	if p.Match != MatchUnmapped {
		return nil
	}
	return fault.NewUnsupportedModel(p.Model, sysObjectID)
}

// extractModel pulls the model designation out of a description string:
// everything after the brand keyword, trimmed.
func extractModel(sysDescr string) string {
	lower := strings.ToLower(sysDescr)
	idx := strings.Index(lower, "ricoh")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(sysDescr[idx+len("ricoh"):])
}
