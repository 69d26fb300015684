// Command dirkeep copies an input directory into a timestamped folder inside
// a backup root, evicting the oldest backups first so the root stays under a
// kilobyte budget.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/avoicu/dirkeep/internal/backup"
	"github.com/avoicu/dirkeep/internal/config"
	"github.com/avoicu/dirkeep/internal/lock"
	"github.com/avoicu/dirkeep/internal/logging"
	"github.com/avoicu/dirkeep/internal/mailbox"
	"github.com/avoicu/dirkeep/internal/sched"
	"github.com/avoicu/dirkeep/internal/watcher"
)

const usageLine = "Usage: dirkeep [flags] input_folder backup_folder max_backup_size_in_kilobytes"

// Exit statuses: 0 success or graceful "too large" cancel, 1 usage or I/O
// error, 2 output folder name collision.
const (
	exitOK        = 0
	exitError     = 1
	exitCollision = 2
)

type options struct {
	configPath string
	watch      bool
	schedule   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run is the testable entry point: it parses argv, wires the collaborators
// and maps the outcome to an exit status.
func run(argv []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("dirkeep", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (watch, schedule, lock, logging)")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "keep running; back up whenever the input directory changes")
	flags.StringVarP(&opts.schedule, "schedule", "s", "", "keep running; back up on this cron expression")

	if err := flags.Parse(argv); err != nil {
		fmt.Fprintln(stdout, usageLine)
		return exitError
	}

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		cfg = loaded
	}

	if err := applyArgs(cfg, flags.Args()); err != nil {
		fmt.Fprintln(stdout, usageLine)
		return exitError
	}

	logg := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The lock file defaults to living inside the backup root. It is not a
	// backup, so its name must stay invisible to sizing and ranking.
	var skip []string
	if cfg.Lock.Enabled {
		lockPath := cfg.Lock.Path
		if lockPath == "" {
			lockPath = filepath.Join(cfg.Destination.Root, lock.DefaultName)
		}
		if filepath.Dir(lockPath) == filepath.Clean(cfg.Destination.Root) {
			skip = append(skip, filepath.Base(lockPath))
		}
		lk, err := lock.Acquire(lockPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		defer func() {
			if err := lk.Release(); err != nil {
				logg.Warn("releasing lock failed", "error", err)
			}
		}()
	}

	runner := backup.NewRunner(
		cfg.Source.Path,
		cfg.Destination.Root,
		cfg.Destination.BudgetKB,
		nil, // fs.FS (nil = OS filesystem)
		logg,
		nil, // clock (nil = time.Now)
		skip...,
	)

	schedule := opts.schedule
	if schedule == "" {
		schedule = cfg.Schedule.Cron
	}

	if opts.watch || schedule != "" {
		return runLoop(ctx, cfg, runner, logg, stdout, opts.watch, schedule)
	}

	res, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return report(res, stdout)
}

// applyArgs validates the three positional arguments and folds them into the
// config. Positional arguments always win over config file values.
func applyArgs(cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("expected 3 arguments, got %d", len(args))
	}

	input, root, budgetArg := args[0], args[1], args[2]

	if _, err := os.Lstat(input); err != nil {
		return fmt.Errorf("input folder: %w", err)
	}
	if _, err := os.Lstat(root); err != nil {
		return fmt.Errorf("backup folder: %w", err)
	}

	budget, err := strconv.ParseInt(budgetArg, 10, 64)
	if err != nil || budget < 0 {
		return fmt.Errorf("max backup size must be a non-negative integer, got %q", budgetArg)
	}

	cfg.Source.Path = input
	cfg.Destination.Root = root
	cfg.Destination.BudgetKB = budget
	return nil
}

// report prints the user-facing outcome of one run and returns its exit
// status.
func report(res backup.Result, stdout io.Writer) int {
	for _, p := range res.Evicted {
		fmt.Fprintf(stdout, "Purged old backup: %s\n", p)
	}

	switch res.Status {
	case backup.StatusCreated:
		fmt.Fprintf(stdout, "Backup created at '%s'.\n", res.Target)
		return exitOK
	case backup.StatusTooLarge:
		fmt.Fprintln(stdout, "New backup would be too large to fit at least one previous backup. Cancelling.")
		return exitOK
	case backup.StatusTargetExists:
		fmt.Fprintf(stdout, "Folder to backup to already exists ('%s'). Please wait a second and try again.\n", res.Target)
		return exitCollision
	}
	return exitOK
}

// runLoop drives watch and schedule modes: triggers land in a single-slot
// mailbox and are consumed one at a time until a shutdown signal arrives.
// Collisions and failures are logged and skipped; the next trigger retries.
func runLoop(ctx context.Context, cfg *config.Config, runner *backup.Runner, logg logging.Logger, stdout io.Writer, watch bool, schedule string) int {
	mb := mailbox.New[backup.Trigger]()

	if watch {
		w := watcher.New(cfg.Source, logg, mb)
		go func() {
			if err := w.Start(ctx); err != nil {
				logg.Error("watcher failed", "error", err)
			}
		}()
	}

	if schedule != "" {
		s, err := sched.New(schedule, logg, mb)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		go s.Start(ctx)
	}

	logg.Info("running", "watch", watch, "schedule", schedule)

	for {
		trig, ok := mb.Take(ctx)
		if !ok {
			logg.Info("shutting down")
			return exitOK
		}

		logg.Info("backup triggered", "reason", trig.Reason)
		res, err := runner.Run(ctx)
		if err != nil {
			logg.Error("backup failed", "error", err)
			continue
		}
		report(res, stdout)
	}
}
