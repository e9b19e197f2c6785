package main

// ---------------------------------------------------------------------------
// cmd_watch.go — follow ingest reports on the notification bus
// ---------------------------------------------------------------------------

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pidws-project/pidws/internal/core"
)

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Config file path")
	durable := fs.String("durable", "", "Durable consumer name (resume across restarts)")
	fs.Parse(args)

	cfg, err := core.LoadConfig(envConfig(*configPath))
	if err != nil {
		errorf("%v", err)
	}
	logger := newLogger(cfg)

	if !cfg.Bus.Enabled {
		errorf("notification bus is disabled (set bus.enabled: true)")
	}

	bus, err := core.NewNotifyBus(&cfg.Bus, logger)
	if err != nil {
		errorf("connecting to notification bus: %v", err)
	}
	defer bus.Close()

	err = bus.SubscribeReports(*durable, func(r *core.IngestReport) {
		if r.Accepted {
			fmt.Printf("%s %s  %s  %d events, %d dropped\n",
				r.Timestamp.Format("15:04:05"), green("accepted"), bold(r.SourceFile),
				r.Events, r.Dropped)
			return
		}
		fmt.Printf("%s %s  %s  %s\n",
			r.Timestamp.Format("15:04:05"), red("rejected"), bold(r.SourceFile), dim(r.Reason))
	})
	if err != nil {
		errorf("%v", err)
	}

	fmt.Printf("%s watching ingest reports (ctrl-c to stop)\n", cyan("▸"))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	fmt.Println()
}
