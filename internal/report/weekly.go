// Package report generates natural-language weekly summaries of the current
// tasks and journal through the Gemini API. The call is treated as opaque:
// failures come back verbatim to the caller, with a distinguished
// credential-missing case the UI can route to the configuration screen.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/protrack-ai/protrack/pkg/types"
)

// ErrCredentialMissing is returned when no AI API key is configured.
var ErrCredentialMissing = errors.New("AI API key missing")

const defaultModel = "gemini-2.5-flash"

// Generator produces weekly reports.
type Generator struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// New creates a generator. A missing API key fails fast with
// ErrCredentialMissing before any client is built.
func New(ctx context.Context, apiKey, model string, log *zap.Logger) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrCredentialMissing
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Generator{client: client, model: model, log: log}, nil
}

// Weekly summarizes the tasks and logs of the current calendar week (week
// start = most recent Monday before now). instructions, when non-empty, is
// the user's stored custom report instruction appended to the prompt.
func (g *Generator) Weekly(ctx context.Context, agg types.Aggregate, instructions string, now time.Time) (string, error) {
	prompt := buildWeeklyPrompt(agg, instructions, now)
	g.log.Debug("requesting weekly report", zap.String("model", g.model), zap.Int("prompt_len", len(prompt)))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generating weekly report: %w", err)
	}
	return resp.Text(), nil
}

func buildWeeklyPrompt(agg types.Aggregate, instructions string, now time.Time) string {
	start := WeekStart(now)
	tasks := tasksForWeek(agg.Tasks, start)
	logs := logsForWeek(agg.Logs, start)

	var b strings.Builder
	fmt.Fprintf(&b, "Write a structured weekly status report for the week starting %s.\n", start.Format(types.DateLayout))
	b.WriteString("Summarize progress, blockers, and what is due next. Use short sections.\n\n")

	b.WriteString("Tasks this week:\n")
	if len(tasks) == 0 {
		b.WriteString("(none)\n")
	}
	for _, task := range tasks {
		fmt.Fprintf(&b, "- [%s] %s (status: %s, priority: %s", task.DisplayID, task.Description, task.Status, task.Priority)
		if task.DueDate != "" {
			fmt.Fprintf(&b, ", due: %s", task.DueDate)
		}
		b.WriteString(")\n")
		for _, u := range task.Updates {
			if !u.Timestamp.Before(start) && u.Timestamp.Before(start.AddDate(0, 0, 7)) {
				fmt.Fprintf(&b, "    update %s: %s\n", u.Timestamp.Format(types.DateLayout), u.Content)
			}
		}
	}

	b.WriteString("\nJournal this week:\n")
	if len(logs) == 0 {
		b.WriteString("(none)\n")
	}
	for _, l := range logs {
		fmt.Fprintf(&b, "- %s: %s\n", l.Date, l.Content)
	}

	if instructions != "" {
		b.WriteString("\nAdditional instructions from the user:\n")
		b.WriteString(instructions)
		b.WriteString("\n")
	}
	return b.String()
}
