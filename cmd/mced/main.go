// Command mced is the per-page corrected-memory-error accounting
// daemon. It resolves configuration, wires the core components
// together, and runs the event-ingestion loop until asked to stop.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/jacobsa/daemonize"

	"github.com/mced-project/mced/accountant"
	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/dbdriver"
	"github.com/mced-project/mced/dimm"
	"github.com/mced-project/mced/memsys"
	"github.com/mced-project/mced/offline"
	"github.com/mced-project/mced/setup"
	"github.com/mced-project/mced/trigger"
)

var (
	flagConfig      = flag.String("config", "/etc/mced/mced.yaml", "path to the resolved configuration file")
	flagDaemonize   = flag.Bool("daemonize", false, "re-exec as a background daemon")
	flagMaxAsync    = flag.Int64("max-async-triggers", 8, "upper bound on concurrently running asynchronous triggers")
	flagDrainOnStop = flag.Duration("drain-timeout", cmn.DefaultDrainTimeout, "how long to wait for outstanding triggers at shutdown")
	flagStateFile   = flag.String("state-file", "", "path to a state file the accounting table is periodically snapshotted to (disabled if empty)")
	flagStateEvery  = flag.Duration("state-snapshot-interval", 30*time.Second, "how often to snapshot the accounting table to -state-file")
)

func main() {
	flag.Parse()

	if *flagDaemonize {
		runAsParent()
		return
	}

	err := run()
	daemonize.SignalOutcome(err) // no-op when this process wasn't forked by runAsParent
	if err != nil {
		glog.Fatalf("mced: %v", err)
	}
}

// runAsParent re-execs the current binary without -daemonize, handing
// off through daemonize.Run the way jacobsa's own daemonizing tools
// do: the parent blocks until the child reports its own outcome back
// over the status pipe, then exits.
func runAsParent() {
	args := make([]string, 0, len(os.Args[1:]))
	for _, a := range os.Args[1:] {
		if a != "-daemonize" && a != "--daemonize" {
			args = append(args, a)
		}
	}
	if err := daemonize.Run(os.Args[0], args, os.Environ(), os.Stdout); err != nil {
		glog.Fatalf("mced: daemonize: %v", err)
	}
}

func run() error {
	params, err := loadConfigFile(*flagConfig)
	if err != nil {
		return err
	}

	pageSize := memsys.ResolvePageSize()
	idx := memsys.NewAddrIndex()
	pool := memsys.NewClusterPool(pageSize, idx)
	monitor := setup.NewReplacementMonitor()
	offliner := offline.New(offline.DefaultWriter)

	cfg := setup.Setup(params, pool.N(), offliner)
	cmn.GCO.BeginUpdate()
	cmn.GCO.CommitUpdate(cfg)

	runner := trigger.NewTriggerRunner(trigger.DefaultSpawner, *flagMaxAsync)

	topology := dimm.NewTopology() // real topology source is out of the core's scope (spec.md §1)

	acc := &accountant.Accountant{
		Pool:     pool,
		Index:    idx,
		Monitor:  monitor,
		Offliner: offliner,
		Triggers: runner,
		Dimms:    topology,
		Config:   cmn.GCO.Get,
		PageSize: pageSize,
	}

	stop := cmn.NewStopCh()
	installSignalHandler(stop)

	var stateDriver dbdriver.Driver
	if *flagStateFile != "" {
		bd, err := dbdriver.Open(*flagStateFile)
		if err != nil {
			glog.Warningf("mced: state file %s unavailable, snapshotting disabled: %v", *flagStateFile, err)
		} else {
			stateDriver = bd
			defer bd.Close()
			go snapshotLoop(bd, idx, cfg.PageTrigger, *flagStateEvery, stop.Listen())
		}
	}

	glog.Infof("mced: started, max_corr_err_counters=%d action=%s page_size=%s", cfg.MaxCorrErrCounters, cfg.Action, cmn.B2S(pageSize, 0))
	ingestLoop(os.Stdin, stop.Listen(), acc.Handle)

	if runner.Drain(*flagDrainOnStop) {
		glog.Warningf("mced: drain timed out after %s, exiting with triggers still outstanding", *flagDrainOnStop)
	}
	if stateDriver != nil {
		if err := accountant.SaveSnapshot(stateDriver, idx, cfg.PageTrigger); err != nil {
			glog.Warningf("mced: final state snapshot failed: %v", err)
		}
	}
	return nil
}

func installSignalHandler(stop *cmn.StopCh) {
	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)
	go func() {
		<-sigCh
		glog.Infof("mced: received shutdown signal")
		stop.Close()
		time.AfterFunc(5*time.Second, func() {
			glog.Fatalf("mced: shutdown did not complete in time")
		})
	}()
}
