// Package discovery finds printers on the network: a single-host prober
// and a concurrent range scanner built on top of it.
package discovery

import (
	"context"
	"strings"
	"time"

	"pagemeter/device"
	"pagemeter/logger"
	"pagemeter/mib"
	"pagemeter/snmp"
)

// printerKeywords classify a device from its sysDescr when neither the
// printer name object nor a marker counter answers.
var printerKeywords = []string{
	"printer", "mfp", "ricoh", "xerox", "canon", "hp", "hewlett",
	"lexmark", "konica", "kyocera", "brother", "epson", "sharp", "samsung",
}

// Probe checks one host. A reachable SNMP agent that looks like a printer
// yields a record; a reachable non-printer yields (nil, nil); an
// unreachable or failing host yields the transport error.
//
// The decision runs in steps: the system group must answer, then the
// standard printer name object, then a marker life counter, then a keyword
// match on the description. Any one positive signal is enough.
func Probe(ctx context.Context, client snmp.Client, address snmp.Address, community string, log *logger.Logger) (*device.Record, error) {
	resp, err := client.Get(ctx, snmp.Request{
		Address:   address,
		Community: community,
		OIDs:      []snmp.OID{mib.SysDescr, mib.SysObjectID},
	})
	if err != nil {
		return nil, err
	}
	sysDescr := resp.TextAt(mib.SysDescr)
	sysObjectID := resp.ObjectIDAt(mib.SysObjectID)

	name := probeName(ctx, client, address, community)
	markerAnswers := false
	if name == "" {
		markerAnswers = probeMarker(ctx, client, address, community)
	}
	keyword := matchesPrinterKeyword(sysDescr)

	if name == "" && !markerAnswers && !keyword {
		log.Trace("host is not a printer", "host", address.Host, "sysDescr", sysDescr)
		return nil, nil
	}

	rec := device.NewDiscovered(address)
	rec.Model = name
	if rec.Model == "" {
		rec.Model = sysDescr
	}
	rec.SysObjectID = sysObjectID
	rec.Community = community
	rec.Status = device.StatusOnline
	rec.LastSeen = time.Now().Unix()
	log.Debug("printer found", "host", address.Host, "model", rec.Model)
	return &rec, nil
}

// probeName asks for the standard printer name object. Failures mean "no
// answer", not "host down"; the system group already proved reachability.
func probeName(ctx context.Context, client snmp.Client, address snmp.Address, community string) string {
	resp, err := client.Get(ctx, snmp.Request{
		Address:   address,
		Community: community,
		OIDs:      []snmp.OID{mib.PrtGeneralPrinterName},
	})
	if err != nil {
		return ""
	}
	return resp.TextAt(mib.PrtGeneralPrinterName)
}

// probeMarker checks whether the first marker life count answers with a
// number. Only presence matters here.
func probeMarker(ctx context.Context, client snmp.Client, address snmp.Address, community string) bool {
	resp, err := client.Get(ctx, snmp.Request{
		Address:   address,
		Community: community,
		OIDs:      []snmp.OID{mib.PrtMarkerLifeCount1},
	})
	if err != nil {
		return false
	}
	_, ok := resp.Uint64At(mib.PrtMarkerLifeCount1)
	return ok
}

func matchesPrinterKeyword(sysDescr string) bool {
	lower := strings.ToLower(sysDescr)
	for _, kw := range printerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
