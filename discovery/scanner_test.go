package discovery

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagemeter/logger"
	"pagemeter/mib"
	"pagemeter/snmp"
)

// hostClient answers probes deterministically per host. Hosts listed in
// printers answer the printer name object; everything else looks like a
// plain network device.
type hostClient struct {
	mu       sync.Mutex
	printers map[string]bool
	blocked  chan struct{} // when set, Get waits here first
	entered  chan string   // when set, Get announces its host
	current  int
	maxSeen  int
}

func (c *hostClient) Get(ctx context.Context, req snmp.Request) (*snmp.Response, error) {
	c.mu.Lock()
	c.current++
	if c.current > c.maxSeen {
		c.maxSeen = c.current
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.current--
		c.mu.Unlock()
	}()

	// Signal only on the system group request, once per probe.
	if c.entered != nil && len(req.OIDs) > 0 && req.OIDs[0].Equal(mib.SysDescr) {
		c.entered <- req.Address.Host
	}
	if c.blocked != nil {
		select {
		case <-c.blocked:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	resp := &snmp.Response{Address: req.Address}
	for _, oid := range req.OIDs {
		switch {
		case oid.Equal(mib.SysDescr):
			resp.VarBinds = append(resp.VarBinds, snmp.VarBind{
				OID: oid, Value: snmp.OctetString([]byte("device at " + req.Address.Host)),
			})
		case oid.Equal(mib.PrtGeneralPrinterName) && c.printers[req.Address.Host]:
			resp.VarBinds = append(resp.VarBinds, snmp.VarBind{
				OID: oid, Value: snmp.OctetString([]byte("Printer " + req.Address.Host)),
			})
		}
	}
	return resp, nil
}

func (c *hostClient) Walk(ctx context.Context, req snmp.WalkRequest) (*snmp.Response, error) {
	return &snmp.Response{Address: req.Address}, nil
}

func hosts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("10.0.0.%d", i+1)
	}
	return out
}

func TestScannerSweep(t *testing.T) {
	client := &hostClient{printers: map[string]bool{"10.0.0.3": true}}
	s := NewScanner(client, Config{Concurrency: 4, Community: "public"}, logger.Nop())

	found := 0
	for out := range s.Start(context.Background(), hosts(5)) {
		require.NoError(t, out.Err)
		if out.Record != nil {
			found++
			assert.Equal(t, "snmp-10.0.0.3", out.Record.ID)
		}
	}

	assert.Equal(t, 1, found)
	stats := s.Stats()
	assert.Equal(t, 5, stats.Scanned)
	assert.Equal(t, 1, stats.Found)
	assert.Equal(t, 0, stats.Errors)
	assert.False(t, s.Running())
}

func TestScannerConcurrencyCeiling(t *testing.T) {
	client := &hostClient{printers: map[string]bool{}}
	s := NewScanner(client, Config{Concurrency: 4}, logger.Nop())

	for range s.Start(context.Background(), hosts(30)) {
	}
	if client.maxSeen > 4 {
		t.Errorf("in-flight probes peaked at %d, ceiling is 4", client.maxSeen)
	}
}

func TestScannerEmptyHostListCompletesImmediately(t *testing.T) {
	s := NewScanner(&hostClient{}, Config{}, logger.Nop())
	ch := s.Start(context.Background(), nil)
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should close with no outcomes")
	case <-time.After(time.Second):
		t.Fatal("channel never closed")
	}
	assert.False(t, s.Running())
}

func TestScannerStopDiscardsStaleResults(t *testing.T) {
	client := &hostClient{
		printers: map[string]bool{},
		blocked:  make(chan struct{}),
		entered:  make(chan string, 1),
	}
	s := NewScanner(client, Config{Concurrency: 1}, logger.Nop())

	ch := s.Start(context.Background(), []string{"10.0.0.1"})

	// Wait until the probe is inside the client, then stop the run.
	select {
	case <-client.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("probe never started")
	}
	s.Stop()
	assert.False(t, s.Running())

	// The run's channel closes without delivering anything.
	select {
	case out, ok := <-ch:
		require.False(t, ok, "unexpected outcome after stop: %+v", out)
	case <-time.After(2 * time.Second):
		t.Fatal("channel never closed after stop")
	}

	// Let the in-flight probe finish; its result must be discarded.
	close(client.blocked)
	deadline := time.Now().Add(2 * time.Second)
	for s.Stats().Dropped == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stale result was never counted as dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 0, s.Stats().Scanned)
}

func TestScannerRestartSupersedesPreviousRun(t *testing.T) {
	client := &hostClient{
		printers: map[string]bool{},
		blocked:  make(chan struct{}),
		entered:  make(chan string, 4),
	}
	s := NewScanner(client, Config{Concurrency: 1}, logger.Nop())

	first := s.Start(context.Background(), []string{"10.0.0.1"})
	select {
	case <-client.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first probe never started")
	}

	second := s.Start(context.Background(), []string{"10.0.0.2"})

	// Starting again closes the first run's channel.
	select {
	case _, ok := <-first:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("first channel never closed")
	}

	close(client.blocked)
	count := 0
	for out := range second {
		require.NoError(t, out.Err)
		assert.Equal(t, "10.0.0.2", out.Host)
		count++
	}
	assert.Equal(t, 1, count)
}

func TestScanRangeRejectsBadInput(t *testing.T) {
	s := NewScanner(&hostClient{}, Config{}, logger.Nop())
	_, err := s.ScanRange(context.Background(), "10.0.0.0/99")
	require.Error(t, err)
}

func TestScanRangeSweepsBlock(t *testing.T) {
	client := &hostClient{printers: map[string]bool{"10.0.0.1": true}}
	s := NewScanner(client, Config{Concurrency: 2}, logger.Nop())

	ch, err := s.ScanRange(context.Background(), "10.0.0.0/30")
	require.NoError(t, err)
	scanned := 0
	for range ch {
		scanned++
	}
	assert.Equal(t, 2, scanned, "/30 sweeps the two host addresses")
}
