package poll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagemeter/counters"
	"pagemeter/device"
	"pagemeter/fault"
	"pagemeter/logger"
	"pagemeter/mib"
	"pagemeter/snmp"
)

func onlineRecord(host string) device.Record {
	rec := device.NewDiscovered(snmp.DefaultAddress(host))
	rec.Community = "public"
	return rec
}

func TestOIDsIncludeMappingAndDeduplicate(t *testing.T) {
	oids := OIDs(counters.DefaultMapping())

	count := func(target snmp.OID) int {
		n := 0
		for _, oid := range oids {
			if oid.Equal(target) {
				n++
			}
		}
		return n
	}
	// RicohBWCopies is both a fixed identity OID and a bw candidate.
	assert.Equal(t, 1, count(mib.RicohBWCopies))
	assert.Equal(t, 1, count(mib.SysDescr))
	assert.Equal(t, 1, count(mib.PrtMarkerLifeCount3))
	assert.Equal(t, 1, count(mib.RicohTonerYellow))
}

func TestPollResolvesCountersAndToner(t *testing.T) {
	mock := snmp.NewMockClient()
	black := uint64(80)
	mock.PushResponse(
		snmp.VarBind{OID: mib.SysDescr, Value: snmp.OctetString([]byte("RICOH IM C3000"))},
		snmp.VarBind{OID: mib.PrtGeneralPrinterName, Value: snmp.OctetString([]byte("Accounting MFP"))},
		snmp.VarBind{OID: mib.RicohBWCopies, Value: snmp.Counter32(100)},
		snmp.VarBind{OID: mib.RicohColorCopies, Value: snmp.Counter32(50)},
		snmp.VarBind{OID: mib.RicohTonerBlack, Value: snmp.Integer(int64(black))},
	)

	rec := onlineRecord("10.0.0.5")
	result, err := New(mock, logger.Nop()).Poll(context.Background(), &rec, counters.DefaultMapping())
	require.NoError(t, err)

	assert.Equal(t, device.StatusOnline, rec.Status)
	assert.NotZero(t, rec.LastSeen)
	assert.Equal(t, "Accounting MFP", rec.Model)

	assert.Equal(t, counters.ModeBWColor, result.Resolution.Mode)
	require.NotNil(t, result.Resolution.Snapshot.Total)
	assert.Equal(t, uint64(150), *result.Resolution.Snapshot.Total)

	require.NotNil(t, result.Toner.Black)
	assert.Equal(t, black, *result.Toner.Black)
	assert.Nil(t, result.Toner.Cyan)
}

func TestPollBackfillReplacesPlaceholderModel(t *testing.T) {
	mock := snmp.NewMockClient()
	mock.PushResponse(
		snmp.VarBind{OID: mib.SysDescr, Value: snmp.OctetString([]byte("generic descr"))},
		snmp.VarBind{OID: mib.PrtGeneralPrinterName, Value: snmp.OctetString([]byte("Front Office"))},
	)

	rec := onlineRecord("10.0.0.5")
	rec.Model = "generic descr" // placeholder from discovery
	_, err := New(mock, logger.Nop()).Poll(context.Background(), &rec, counters.DefaultMapping())
	require.NoError(t, err)
	assert.Equal(t, "Front Office", rec.Model)
}

func TestPollKeepsManualModel(t *testing.T) {
	mock := snmp.NewMockClient()
	mock.PushResponse(
		snmp.VarBind{OID: mib.PrtGeneralPrinterName, Value: snmp.OctetString([]byte("Polled Name"))},
	)

	rec := device.NewManual(snmp.DefaultAddress("10.0.0.5"), "Lobby printer")
	_, err := New(mock, logger.Nop()).Poll(context.Background(), &rec, counters.DefaultMapping())
	require.NoError(t, err)
	assert.Equal(t, "Lobby printer", rec.Model)
}

func TestPollFailureMarksRecordErrored(t *testing.T) {
	mock := snmp.NewMockClient()
	mock.PushError(fault.NewTimeout("10.0.0.5:161", 2*time.Second))

	rec := onlineRecord("10.0.0.5")
	_, err := New(mock, logger.Nop()).Poll(context.Background(), &rec, counters.DefaultMapping())
	require.Error(t, err)
	assert.Equal(t, device.StatusError, rec.Status)
	assert.Equal(t, fault.KindTimeout, fault.KindOf(err))
}

func TestPollWithoutAddress(t *testing.T) {
	rec := device.Record{ID: "snmp-ghost"}
	_, err := New(snmp.NewMockClient(), logger.Nop()).Poll(context.Background(), &rec, counters.DefaultMapping())
	require.Error(t, err)
	assert.Equal(t, fault.KindTransport, fault.KindOf(err))
	assert.Equal(t, device.StatusError, rec.Status)
}

func TestLearnMappingFromWalk(t *testing.T) {
	mock := snmp.NewMockClient()
	// One queued response per crawl root.
	mock.PushResponse(
		snmp.VarBind{OID: mib.PrtMarkerLifeCount1, Value: snmp.Counter32(10)},
		snmp.VarBind{OID: mib.PrtMarkerLifeCount3, Value: snmp.Counter32(30)},
	)
	mock.PushResponse()

	rec := onlineRecord("10.0.0.5")
	m, err := New(mock, logger.Nop()).LearnMapping(context.Background(), &rec)
	require.NoError(t, err)
	require.Len(t, m.BW, 1)
	assert.True(t, m.BW[0].Equal(mib.PrtMarkerLifeCount1))
	require.NotEmpty(t, m.Total)
	assert.True(t, m.Total[0].Equal(mib.PrtMarkerLifeCount3))
}

func TestLearnMappingEmptyWalkFallsBack(t *testing.T) {
	mock := snmp.NewMockClient()
	mock.PushResponse()
	mock.PushResponse()

	rec := onlineRecord("10.0.0.5")
	m, err := New(mock, logger.Nop()).LearnMapping(context.Background(), &rec)
	require.NoError(t, err)
	assert.Equal(t, counters.DefaultMapping(), m)
}
