package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smdata-dev/smdata/internal/config"
	"github.com/smdata-dev/smdata/internal/storage"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// NewSubmissionsCmd returns the "submissions" command group for inspecting
// stored contact submissions.
func NewSubmissionsCmd(cfg *config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submissions",
		Aliases: []string{"subs"},
		Short:   "Inspect stored contact form submissions",
	}
	cmd.AddCommand(newSubmissionsListCmd(cfg))
	cmd.AddCommand(newSubmissionsShowCmd(cfg))
	return cmd
}

func newSubmissionsListCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		pending  bool
		notified bool
		search   string
		limit    int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pending && notified {
				return fmt.Errorf("--pending and --notified are mutually exclusive")
			}
			filter := storage.ListFilter{Query: search, Limit: limit}
			switch {
			case pending:
				f := false
				filter.Notified = &f
			case notified:
				t := true
				filter.Notified = &t
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			store, closeStore, err := openStore(ctx, cfg, cliLogger(cfg))
			if err != nil {
				return err
			}
			defer closeStore()

			subs, err := store.List(ctx, filter)
			if err != nil {
				return fmt.Errorf("listing submissions: %w", err)
			}
			return renderSubmissions(cmd.OutOrStdout(), subs, output)
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Only submissions whose notification never succeeded")
	cmd.Flags().BoolVar(&notified, "notified", false, "Only submissions that were notified")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match name, email or message")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of submissions")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")
	return cmd
}

func newSubmissionsShowCmd(cfg *config.AppConfig) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			store, closeStore, err := openStore(ctx, cfg, cliLogger(cfg))
			if err != nil {
				return err
			}
			defer closeStore()

			sub, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return renderSubmission(cmd.OutOrStdout(), sub, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format: json or yaml")
	return cmd
}

func renderSubmissions(w io.Writer, subs []*storage.Submission, format string) error {
	switch format {
	case outputJSON:
		return writeJSONOut(w, subs)
	case outputYAML:
		return writeYAMLOut(w, subs)
	case outputTable, "":
		if len(subs) == 0 {
			_, err := fmt.Fprintln(w, "No submissions.")
			return err
		}
		_, err := fmt.Fprintln(w, submissionsTable(subs))
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderSubmission(w io.Writer, sub *storage.Submission, format string) error {
	return writeStructured(w, sub, format)
}

// writeStructured writes v as JSON or YAML (the default).
func writeStructured(w io.Writer, v any, format string) error {
	switch format {
	case outputJSON:
		return writeJSONOut(w, v)
	case outputYAML, "":
		return writeYAMLOut(w, v)
	}
	return fmt.Errorf("unknown output format %q", format)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func submissionsTable(subs []*storage.Submission) string {
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "CREATED", "NAME", "EMAIL", "NOTIFIED", "MESSAGE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cell
		})
	for _, s := range subs {
		notified := "no"
		if s.Notified {
			notified = "yes"
		}
		t.Row(
			s.ID,
			s.CreatedAt.Local().Format(time.DateTime),
			s.Name,
			s.Email,
			notified,
			oneLine(s.Message, 40),
		)
	}
	return t.Render()
}

// oneLine collapses whitespace and shortens s to at most n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func writeJSONOut(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAMLOut(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
