package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/internal/backup"
	"github.com/protrack-ai/protrack/internal/tracker"
	"github.com/protrack-ai/protrack/internal/web"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ProTrack HTTP API server",
	Long: `Open the local store, restore cloud sync if configured, start the
backup scheduler, and serve the JSON API until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (default from config.yaml)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	st, err := openStore(log)
	if err != nil {
		return err
	}
	defer st.Close()

	tr := tracker.New(st, log)
	defer tr.Close()

	// A broken stored remote config must not block local editing.
	if err := tr.RestoreSync(); err != nil {
		log.Warn("cloud sync not restored", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start blocks on its ticker loop until ctx is cancelled.
	sched := backup.New(st, tr.Snapshot, log)
	go sched.Start(ctx)

	addr := flagListen
	if addr == "" {
		addr = cfg.GetString(cfgKeyListen)
	}

	srv := web.NewServer(tr, sched, st, cfg.GetString(cfgKeyModel), log)
	log.Info("serving", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(addr) }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}
