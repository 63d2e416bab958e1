package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/milk9111/sentry/config"
	"github.com/milk9111/sentry/logging"
	"github.com/milk9111/sentry/prefabs"
	"github.com/milk9111/sentry/sim"
)

func main() {
	configDir := flag.String("config", ".", "directory holding sentry.yaml")
	watch := flag.Bool("watch", false, "rerun whenever a prefab or script changes")
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *watch {
		settings.Watch = true
	}

	logger := logging.New(logging.Options{Level: settings.LogLevel, Console: settings.LogConsole})
	prefabs.Dir = settings.PrefabDir

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, settings, logger, os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("enemysim failed")
	}
}

func run(ctx context.Context, s config.Settings, logger zerolog.Logger, out io.Writer) error {
	if !s.Watch {
		return simulate(s, logger, out)
	}

	w, err := prefabs.NewWatcher()
	if err != nil {
		return fmt.Errorf("enemysim: watch %s: %w", prefabs.Dir, err)
	}
	defer w.Close()

	for {
		if err := simulate(s, logger, out); err != nil {
			// A half-edited prefab should not end the session.
			logger.Error().Err(err).Msg("simulation failed, waiting for changes")
		}
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-w.Events:
			if !ok {
				return nil
			}
			logger.Info().Str("file", ch.Path).Bool("script", ch.Script).Msg("prefab changed, rerunning")
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func simulate(s config.Settings, logger zerolog.Logger, out io.Writer) error {
	world, err := sim.Load(s.EnemyPrefab, s.ArenaPrefab, logger)
	if err != nil {
		return err
	}
	world.Run(s.Duration.Seconds(), s.Tick())
	return report(world, out)
}

func report(w *sim.World, out io.Writer) error {
	if _, err := fmt.Fprintf(out, "arena %s, %.2fs simulated\n", w.Arena().Name, w.Time()); err != nil {
		return err
	}
	for _, t := range w.Transitions() {
		fmt.Fprintf(out, "%8.3fs  %-16s -> %s\n", t.Time, t.From, t.To)
	}

	shots := w.Shots()
	total := 0
	for _, s := range shots {
		total += s.Damage
	}
	snap := w.Snapshot()
	fmt.Fprintf(out, "shots fired: %d, damage dealt: %d, player health: %d\n", len(shots), total, snap.PlayerHealth)

	if w.Removed() {
		_, err := fmt.Fprintf(out, "enemy died at %.3fs in state %s\n", w.DiedAt(), snap.Enemy.State)
		return err
	}
	_, err := fmt.Fprintf(out, "enemy alive: state %s, health %d\n", snap.Enemy.State, snap.Enemy.Health)
	return err
}
