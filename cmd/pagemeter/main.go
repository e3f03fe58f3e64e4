// Command pagemeter discovers printers on a network range and reads their
// page counters over SNMP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pagemeter/config"
	"pagemeter/counters"
	"pagemeter/device"
	"pagemeter/discovery"
	"pagemeter/fault"
	"pagemeter/iprange"
	"pagemeter/logger"
	"pagemeter/poll"
	"pagemeter/ricoh"
	"pagemeter/snmp"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to pagemeter.toml")
		rangeSpec  = flag.String("range", "", "CIDR range to sweep, e.g. 10.0.0.0/24")
		pollHost   = flag.String("poll", "", "poll a single host instead of sweeping")
		community  = flag.String("community", "", "SNMP community override")
		logLevel   = flag.String("log-level", "", "error, warn, info, debug or trace")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
	if *community != "" {
		cfg.Community = *community
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr)
	client := snmp.NewNetClient(cfg.ClientConfig(), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *pollHost != "" {
		if err := pollOnce(ctx, client, log, cfg, *pollHost); err != nil {
			fmt.Fprintln(os.Stderr, userMessage(err))
			os.Exit(1)
		}
		return
	}

	if err := sweep(ctx, client, log, cfg, *rangeSpec); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

func sweep(ctx context.Context, client snmp.Client, log *logger.Logger, cfg config.Config, rangeSpec string) error {
	if rangeSpec == "" {
		rangeSpec = cfg.DefaultRange
	}
	if rangeSpec == "" {
		guessed, ok := iprange.DefaultRange()
		if !ok {
			return fault.NewDiscovery("", "no range given and no local network found", nil)
		}
		log.Info("using local network range", "range", guessed)
		rangeSpec = guessed
	}

	scanner := discovery.NewScanner(client, discovery.Config{
		Concurrency: cfg.Concurrency,
		Community:   cfg.Community,
		Port:        cfg.Port,
	}, log)

	outcomes, err := scanner.ScanRange(ctx, rangeSpec)
	if err != nil {
		return err
	}

	var records []device.Record
	for out := range outcomes {
		if out.Err != nil {
			log.Debug("probe failed", "host", out.Host, "error", out.Err)
			continue
		}
		if out.Record != nil {
			records = device.MergeByHost(records, *out.Record)
		}
	}

	stats := scanner.Stats()
	fmt.Printf("scanned %d hosts, found %d printers (%d errors)\n", stats.Scanned, stats.Found, stats.Errors)
	for _, rec := range records {
		profile := ricoh.FromRecord(&rec)
		fmt.Printf("  %-18s %-30s match=%s strategy=%s\n", rec.Host, rec.Model, profile.Match, profile.Strategy)
	}
	return nil
}

func pollOnce(ctx context.Context, client snmp.Client, log *logger.Logger, cfg config.Config, host string) error {
	rec := device.NewDiscovered(snmp.NewAddress(host, cfg.Port))
	rec.Community = cfg.Community

	poller := poll.New(client, log)
	mapping, err := poller.LearnMapping(ctx, &rec)
	if err != nil {
		log.Warn("mapping walk failed, using defaults", "host", host, "error", err)
		mapping = counters.DefaultMapping()
	}

	result, err := poller.Poll(ctx, &rec, mapping)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", rec.Model, rec.ID)
	fmt.Printf("  mode: %s\n", result.Resolution.Mode)
	printCounter("bw", result.Resolution.Snapshot.BW, result.Resolution.Snapshot.SourceOIDs.BW)
	printCounter("color", result.Resolution.Snapshot.Color, result.Resolution.Snapshot.SourceOIDs.Color)
	printCounter("total", result.Resolution.Snapshot.Total, result.Resolution.Snapshot.SourceOIDs.Total)
	for _, w := range result.Resolution.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	printToner(result.Toner)
	return nil
}

func printCounter(name string, value *uint64, source string) {
	if value == nil {
		fmt.Printf("  %-6s -\n", name)
		return
	}
	if source == "" {
		source = "derived"
	}
	fmt.Printf("  %-6s %d (%s)\n", name, *value, source)
}

func printToner(t poll.TonerLevels) {
	levels := []struct {
		name  string
		value *uint64
	}{
		{"black", t.Black}, {"cyan", t.Cyan}, {"magenta", t.Magenta}, {"yellow", t.Yellow},
	}
	for _, l := range levels {
		if l.value != nil {
			fmt.Printf("  toner %-8s %d%%\n", l.name, *l.value)
		}
	}
}

// userMessage prefers the fault's operator summary when one exists.
func userMessage(err error) string {
	var fe *fault.Error
	if errors.As(err, &fe) {
		return fe.UserSummary()
	}
	return err.Error()
}
