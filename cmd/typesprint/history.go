package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typesprint/internal/config"
	"github.com/verte-zerg/typesprint/internal/history"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/statsui"
)

var errNoResults = errors.New("no results to export")

var (
	historyWindow int
	historyPlain  bool
	exportOut     string
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent results",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyWindow, "window", stats.DefaultWindow, "number of recent results")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print to stdout instead of opening the TUI")
	cmd.AddCommand(newExportCmd())
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all results to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", "", "output .xlsx path")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "window", &historyWindow, fileCfg.History.Window)
	cfg := model.HistoryConfig{Window: historyWindow, Plain: historyPlain}
	if cfg.Window <= 0 {
		return fmt.Errorf("--window must be > 0")
	}

	medium, err := openMedium(false)
	if err != nil {
		return err
	}
	defer closeMedium(medium)
	results := history.NewStore(medium)

	if cfg.Plain {
		report := stats.BuildReport(commandContext(cmd), results, cfg.Window)
		return renderPlainHistory(cmd.OutOrStdout(), report)
	}

	program := tea.NewProgram(statsui.NewModel(results, cfg.Window), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func renderPlainHistory(w io.Writer, report stats.Report) error {
	if err := stats.RenderSummary(w, report); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := stats.RenderChart(w, report.Summary, 0, false); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	if err := stats.RenderResultTable(w, report.Summary.Recent); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	medium, err := openMedium(false)
	if err != nil {
		return err
	}
	defer closeMedium(medium)

	results := history.NewStore(medium).Load(commandContext(cmd))
	if len(results) == 0 {
		return errNoResults
	}
	if err := history.Export(exportOut, results); err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}
	logErrf("Wrote %d results to %s\n", len(results), exportOut)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
