package discovery

import (
	"context"
	"sync"

	"pagemeter/device"
	"pagemeter/fault"
	"pagemeter/iprange"
	"pagemeter/logger"
	"pagemeter/snmp"
)

// DefaultConcurrency is the in-flight probe ceiling for a sweep.
const DefaultConcurrency = 24

// Config tunes a Scanner.
type Config struct {
	Concurrency int
	Community   string
	Port        uint16
}

// Outcome is the result of probing one host. Record is nil for reachable
// non-printers; Err is set when the probe itself failed.
type Outcome struct {
	Host   string
	Record *device.Record
	Err    error
}

// Stats is a snapshot of scanner progress. Dropped counts results from
// superseded runs and accumulates across runs.
type Stats struct {
	Scanned int
	Found   int
	Errors  int
	Dropped int
}

// Scanner sweeps host lists with bounded concurrency. Every sweep gets a
// run identifier; results from a superseded run are compared against the
// current identifier and discarded, so Stop and back-to-back Starts never
// interleave stale results into a fresh sweep.
type Scanner struct {
	client snmp.Client
	log    *logger.Logger
	cfg    Config

	mu       sync.Mutex
	runID    uint64
	running  bool
	queue    []string
	inFlight int
	out      chan Outcome
	stats    Stats
}

func NewScanner(client snmp.Client, cfg Config, log *logger.Logger) *Scanner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Port == 0 {
		cfg.Port = snmp.DefaultPort
	}
	return &Scanner{client: client, log: log, cfg: cfg}
}

// Start begins sweeping hosts and returns the outcome channel for this
// run. The channel is buffered for the whole host list and closes when the
// run completes or is stopped. Any previous run is aborted first.
func (s *Scanner) Start(ctx context.Context, hosts []string) <-chan Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abortLocked()
	s.runID++
	s.stats = Stats{Dropped: s.stats.Dropped}
	s.queue = append([]string(nil), hosts...)
	s.out = make(chan Outcome, len(hosts))
	s.inFlight = 0
	s.running = true
	s.log.Info("discovery started", "hosts", len(hosts), "run", s.runID)

	out := s.out
	s.launchLocked(ctx)
	if len(s.queue) == 0 && s.inFlight == 0 {
		s.finishLocked()
	}
	return out
}

// ScanRange parses a CIDR range and sweeps its hosts.
func (s *Scanner) ScanRange(ctx context.Context, rangeSpec string) (<-chan Outcome, error) {
	r, err := iprange.Parse(rangeSpec)
	if err != nil {
		return nil, fault.NewDiscovery(rangeSpec, "invalid range", err)
	}
	return s.Start(ctx, r.Hosts()), nil
}

// Stop aborts the current run. In-flight probes finish in the background
// and their results are discarded.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abortLocked()
}

// Running reports whether a sweep is in progress.
func (s *Scanner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stats returns a snapshot of progress counters.
func (s *Scanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scanner) abortLocked() {
	s.runID++
	s.queue = nil
	s.inFlight = 0
	if s.out != nil {
		close(s.out)
		s.out = nil
	}
	s.running = false
}

// launchLocked admits queued hosts up to the concurrency ceiling.
func (s *Scanner) launchLocked(ctx context.Context) {
	for s.inFlight < s.cfg.Concurrency && len(s.queue) > 0 {
		host := s.queue[0]
		s.queue = s.queue[1:]
		s.inFlight++
		go s.probeHost(ctx, s.runID, host)
	}
}

func (s *Scanner) probeHost(ctx context.Context, runID uint64, host string) {
	addr := snmp.NewAddress(host, s.cfg.Port)
	rec, err := Probe(ctx, s.client, addr, s.cfg.Community, s.log)
	s.complete(ctx, runID, Outcome{Host: host, Record: rec, Err: err})
}

// complete folds one probe result into the run it belongs to. The outcome
// channel is buffered for the full host list, so the send cannot block
// while the lock is held.
func (s *Scanner) complete(ctx context.Context, runID uint64, out Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID != s.runID {
		s.stats.Dropped++
		s.log.Trace("stale probe result discarded", "host", out.Host)
		return
	}
	s.inFlight--
	s.stats.Scanned++
	switch {
	case out.Err != nil:
		s.stats.Errors++
	case out.Record != nil:
		s.stats.Found++
	}
	s.out <- out

	s.launchLocked(ctx)
	if len(s.queue) == 0 && s.inFlight == 0 {
		s.finishLocked()
	}
}

func (s *Scanner) finishLocked() {
	close(s.out)
	s.out = nil
	s.running = false
	s.log.Info("discovery finished", "scanned", s.stats.Scanned, "found", s.stats.Found, "errors", s.stats.Errors)
}
