package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"golang.org/x/sync/errgroup"

	"polylife/src/config"
	"polylife/src/universe"
	"polylife/src/view"
)

func main() {
	cfg := initOptions()

	//the only place where the seed comes from the clock
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	uo := cfg.UniverseOptions()

	var stateCh chan universe.Status

	if !cfg.Interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u, err := universe.NewBaseUniverse(&uo, stateCh)
	if err != nil {
		log.Fatalf("polylife: %v", err)
	}
	defer u.Close()

	if cfg.Random {
		u.SettleWithRandomData()
	} else {
		u.SettleTemplate(cfg.Template, 1)
	}

	if cfg.Interactive {
		v, err := view.NewViewTerminal(view.DefaultPalette())
		if err != nil {
			log.Fatalf("polylife: %v", err)
		}
		u.RegisterViewer(v)
		v.Start()
		return
	}

	out := view.NewConsoleOut(os.Stdout, view.DefaultPalette(), cfg.PrintField)
	u.RegisterViewer(out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runHeadless(ctx, u, out); err != nil {
		log.Fatalf("polylife: %v", err)
	}
}

//runHeadless runs the universe until it finishes or ctx is cancelled, then prints the summary
func runHeadless(ctx context.Context, u universe.Universe, out *view.ConsoleOut) error {
	stateCh := u.StateCh()
	finished := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)

	out.Start()
	u.Run()

	g.Go(func() error {
		defer close(finished)
		for st := range stateCh {
			if st.RunningMode == universe.RunningStateFinished {
				return nil
			}
			//Stop switches a running universe back to manual mode
			if st.RunningMode == universe.RunningStateManual && ctx.Err() != nil {
				return nil
			}
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			u.Stop()
		case <-finished:
		}
		return nil
	})

	err := g.Wait()
	out.Summary()
	return err
}

func initOptions() config.Config {
	defaults := config.DefaultConfig()
	flags := defaults
	configPath := ""

	flaggy.SetName("polylife")
	flaggy.SetDescription("\"The Life\" game simulation with competing species")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&flags.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&flags.Height, "y", "height", "Height of a simulation field")
	flaggy.Int(&flags.CellTypes, "c", "cellTypes", "Number of competing species [1..3]")
	flaggy.Bool(&flags.Bordered, "b", "bordered", "Treat cells outside the field as dead instead of wrapping around")
	flaggy.Duration(&flags.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&flags.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 means no limit")
	flaggy.Int(&flags.HistoryDepth, "d", "historyDepth", "Stop on cycles up to this period, 0 disables cycle detection")
	flaggy.Int64(&flags.Seed, "", "seed", "Seed for random data, 0 picks one from the clock")
	flaggy.Bool(&flags.Interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&flags.Random, "r", "random", "Settle with random data")
	flaggy.String(&flags.Template, "t", "template", "Template to settle with when random data is not used")
	flaggy.Bool(&flags.PrintField, "p", "print", "Print the field when a headless run finishes")
	flaggy.String(&configPath, "f", "config", "JSON configuration file, explicit flags take precedence")

	flaggy.Parse()

	cfg := flags
	if configPath != "" {
		file, err := config.LoadConfig(configPath)
		if err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
		cfg = file.Merge(flags, defaults)
	}

	if err := cfg.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	return cfg
}
