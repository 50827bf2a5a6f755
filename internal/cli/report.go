package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/protrack-ai/protrack/internal/report"
	"github.com/protrack-ai/protrack/internal/tracker"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the AI weekly report for the current week",
	Long: `Summarize this week's tasks and journal entries through the Gemini
API. Requires an API key stored via the settings API or the
GEMINI_API_KEY environment variable.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
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

	apiKey := st.LoadAPIKey()
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	ctx := cmd.Context()
	gen, err := report.New(ctx, apiKey, cfg.GetString(cfgKeyModel), log)
	if err != nil {
		if errors.Is(err, report.ErrCredentialMissing) {
			return errors.New("no AI API key configured; store one via the settings API or set GEMINI_API_KEY")
		}
		return err
	}

	text, err := gen.Weekly(ctx, tr.Snapshot(), st.LoadReportInstructions(), time.Now())
	if err != nil {
		return fmt.Errorf("weekly report: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
