// Package cli wires the cobra command tree. With no subcommand the binary
// starts the TUI; the subcommands record and inspect the ledger from scripts.
package cli

import (
	"fmt"
	"time"

	"github.com/sadopc/istighfar/internal/config"
	"github.com/sadopc/istighfar/internal/logging"
	"github.com/sadopc/istighfar/internal/store"
	"github.com/sadopc/istighfar/internal/tracker"
	"github.com/sadopc/istighfar/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runner holds the persistent flags and the injectable pieces of a run.
type runner struct {
	configPath string
	dbPath     string
	namespace  string
	verbose    bool

	now    func() time.Time
	runTUI func(*tracker.Tracker, *zap.Logger) error
}

// session is everything a command needs once flags are parsed.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	tracker *tracker.Tracker
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn("close store", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree using the wall clock and the real TUI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&runner{now: time.Now, runTUI: tui.Run})
}

func newRootCmd(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:   "istighfar",
		Short: "Daily istighfar counter with targets, streaks and plans",
		Long: `istighfar keeps a per-day count against a daily target.

Run it without arguments for the interactive counter, or use the
subcommands to record and inspect the ledger from scripts.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(func(s *session) error {
				return r.runTUI(s.tracker, s.log)
			})
		},
	}

	root.PersistentFlags().StringVar(&r.configPath, "config", "", "config file (default: <config dir>/istighfar/config.yaml)")
	root.PersistentFlags().StringVar(&r.dbPath, "db", "", "database path (overrides config)")
	root.PersistentFlags().StringVarP(&r.namespace, "namespace", "n", "", "ledger namespace (overrides config)")
	root.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAddCmd(r),
		newCountCmd(r),
		newTargetCmd(r),
		newPlanCmd(r),
		newStreakCmd(r),
		newStatsCmd(r),
		newExportCmd(r),
		newImportCmd(r),
		newLedgersCmd(r),
		newConfigCmd(r),
	)
	return root
}

// loadConfig resolves the config file and applies flag overrides.
func (r *runner) loadConfig() (*config.Config, string, error) {
	path := r.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, "", fmt.Errorf("locate config: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if r.dbPath != "" {
		cfg.DatabasePath = r.dbPath
	}
	if r.namespace != "" {
		cfg.Namespace = r.namespace
	}
	if r.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, path, cfg.Validate()
}

func (r *runner) openSession() (*session, error) {
	cfg, _, err := r.loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Logging.Path, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: log}

	st, err := store.New(cfg.DatabasePath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	s.store = st

	t, err := tracker.Open(st, cfg.Namespace, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	if r.now != nil {
		t.SetClock(r.now)
	}
	s.tracker = t

	log.Debug("session opened",
		zap.String("db", cfg.DatabasePath),
		zap.String("namespace", cfg.Namespace))
	return s, nil
}

func (r *runner) withSession(fn func(*session) error) error {
	s, err := r.openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
