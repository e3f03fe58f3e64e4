package device

import (
	"encoding/json"
	"strings"
	"testing"

	"pagemeter/snmp"
)

func TestNewDiscoveredID(t *testing.T) {
	rec := NewDiscovered(snmp.DefaultAddress("192.168.1.50"))
	if rec.ID != "snmp-192.168.1.50" {
		t.Errorf("ID = %q", rec.ID)
	}
	if rec.Host != "192.168.1.50" {
		t.Errorf("Host = %q", rec.Host)
	}
	if rec.IsManual() {
		t.Error("discovered record must not be manual")
	}
	if rec.Status != StatusUnknown {
		t.Errorf("status = %q", rec.Status)
	}
}

func TestNewManualID(t *testing.T) {
	a := NewManual(snmp.DefaultAddress("10.0.0.9"), "Front desk MFP")
	b := NewManual(snmp.DefaultAddress("10.0.0.9"), "Front desk MFP")
	if !a.IsManual() || !strings.HasPrefix(a.ID, "manual-") {
		t.Errorf("ID = %q", a.ID)
	}
	if a.Host != "10.0.0.9" {
		t.Errorf("Host = %q", a.Host)
	}
	if a.ID == b.ID {
		t.Error("manual IDs must be unique")
	}
}

func TestMergeByHostUpdatesInPlace(t *testing.T) {
	existing := NewDiscovered(snmp.DefaultAddress("10.0.0.5"))
	existing.Model = "old"
	records := []Record{existing}

	fresh := NewDiscovered(snmp.DefaultAddress("10.0.0.5"))
	fresh.ID = "snmp-should-not-win"
	fresh.Model = "RICOH IM C3000"
	fresh.Status = StatusOnline

	records = MergeByHost(records, fresh)
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	if records[0].ID != existing.ID {
		t.Errorf("identity changed to %q", records[0].ID)
	}
	if records[0].Model != "RICOH IM C3000" || records[0].Status != StatusOnline {
		t.Errorf("fields not updated: %+v", records[0])
	}
}

func TestMergeByHostAppendsNewHost(t *testing.T) {
	records := []Record{NewDiscovered(snmp.DefaultAddress("10.0.0.5"))}
	records = MergeByHost(records, NewDiscovered(snmp.DefaultAddress("10.0.0.6")))
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
}

func TestRecordHostSurvivesInterchange(t *testing.T) {
	rec := Record{ID: "snmp-10.0.0.5", Host: "10.0.0.5", Status: StatusUnknown}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Host != "10.0.0.5" {
		t.Errorf("Host = %q after round trip", back.Host)
	}
	if back.Address != nil {
		t.Error("no address should appear from nothing")
	}
}

func TestApplyNameBackfill(t *testing.T) {
	addr := snmp.DefaultAddress("10.0.0.5")
	cases := []struct {
		name          string
		rec           Record
		polled        string
		allowOverride bool
		sysDescr      string
		want          string
	}{
		{
			name:   "empty model is always filled",
			rec:    Record{ID: "snmp-10.0.0.5", Address: &addr},
			polled: "RICOH IM C3000",
			want:   "RICOH IM C3000",
		},
		{
			name:   "empty polled name is a no-op",
			rec:    Record{ID: "snmp-10.0.0.5", Model: "kept", Address: &addr},
			polled: "   ",
			want:   "kept",
		},
		{
			name:          "manual records keep their model",
			rec:           Record{ID: "manual-abc", Model: "Front desk", Address: &addr},
			polled:        "RICOH IM C3000",
			allowOverride: true,
			sysDescr:      "Front desk",
			want:          "Front desk",
		},
		{
			name:          "manual record with empty model still fills",
			rec:           Record{ID: "manual-abc", Address: &addr},
			polled:        "RICOH IM C3000",
			allowOverride: true,
			want:          "RICOH IM C3000",
		},
		{
			name:          "sysDescr placeholder is replaced",
			rec:           Record{ID: "snmp-10.0.0.5", Model: "RICOH IM C3000 1.2 / generic descr", Address: &addr},
			polled:        "Accounting MFP",
			allowOverride: true,
			sysDescr:      "RICOH IM C3000 1.2 / generic descr",
			want:          "Accounting MFP",
		},
		{
			name:          "host placeholder is replaced",
			rec:           Record{ID: "snmp-10.0.0.5", Host: "10.0.0.5", Model: "10.0.0.5", Address: &addr},
			polled:        "Accounting MFP",
			allowOverride: true,
			want:          "Accounting MFP",
		},
		{
			name:          "host placeholder works without an address",
			rec:           Record{ID: "snmp-10.0.0.5", Host: "10.0.0.5", Model: "10.0.0.5"},
			polled:        "Accounting MFP",
			allowOverride: true,
			want:          "Accounting MFP",
		},
		{
			name:     "real model kept without override",
			rec:      Record{ID: "snmp-10.0.0.5", Model: "descr text", Address: &addr},
			polled:   "Accounting MFP",
			sysDescr: "descr text",
			want:     "descr text",
		},
		{
			name:          "non-placeholder model kept even with override",
			rec:           Record{ID: "snmp-10.0.0.5", Model: "RICOH IM C3000", Address: &addr},
			polled:        "Accounting MFP",
			allowOverride: true,
			sysDescr:      "different descr",
			want:          "RICOH IM C3000",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := tc.rec
			ApplyNameBackfill(&rec, tc.polled, tc.allowOverride, tc.sysDescr)
			if rec.Model != tc.want {
				t.Errorf("model = %q, want %q", rec.Model, tc.want)
			}
		})
	}
}
