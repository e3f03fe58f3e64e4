// Package mib centralizes every OID the engine touches. Names follow the
// MIB objects they point at; Ricoh private OIDs come from the enterprise
// subtree 1.3.6.1.4.1.367.
package mib

import "pagemeter/snmp"

// MIB-2 system group.
var (
	SysDescr    = snmp.MustOID("1.3.6.1.2.1.1.1.0")
	SysObjectID = snmp.MustOID("1.3.6.1.2.1.1.2.0")
	SysUpTime   = snmp.MustOID("1.3.6.1.2.1.1.3.0")
	SysName     = snmp.MustOID("1.3.6.1.2.1.1.5.0")
)

// Printer MIB (RFC 3805).
var (
	PrinterMIBRoot        = snmp.MustOID("1.3.6.1.2.1.43")
	PrtGeneralPrinterName = snmp.MustOID("1.3.6.1.2.1.43.5.1.1.16.1")

	// prtMarkerLifeCount rows. Vendors disagree on row meaning; the
	// conventional Ricoh reading is 1=bw, 2=color, 3=total.
	PrtMarkerLifeCount1 = snmp.MustOID("1.3.6.1.2.1.43.10.2.1.4.1.1")
	PrtMarkerLifeCount2 = snmp.MustOID("1.3.6.1.2.1.43.10.2.1.4.1.2")
	PrtMarkerLifeCount3 = snmp.MustOID("1.3.6.1.2.1.43.10.2.1.4.1.3")
)

// Ricoh enterprise subtree.
var (
	RicohMIBRoot     = snmp.MustOID("1.3.6.1.4.1.367")
	RicohCounterRoot = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.19")
	RicohTonerRoot   = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.24")

	RicohColorCopies = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.19.5.1.9.17")
	RicohBWCopies    = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.19.5.1.9.18")
	RicohColorPrints = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.19.5.1.9.60")
	RicohBWPrints    = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.19.5.1.9.61")

	RicohTonerBlack   = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.24.1.1.5.1")
	RicohTonerCyan    = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.24.1.1.5.2")
	RicohTonerMagenta = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.24.1.1.5.3")
	RicohTonerYellow  = snmp.MustOID("1.3.6.1.4.1.367.3.2.1.2.24.1.1.5.4")
)

// CrawlRoots are the subtrees worth walking when learning an unknown
// device's counter layout.
var CrawlRoots = []snmp.OID{PrinterMIBRoot, RicohCounterRoot}
