package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/movwise/internal/config"
	"github.com/verte-zerg/movwise/internal/game"
	"github.com/verte-zerg/movwise/internal/logging"
	"github.com/verte-zerg/movwise/internal/model"
	"github.com/verte-zerg/movwise/internal/stats"
	"github.com/verte-zerg/movwise/internal/statsui"
	"github.com/verte-zerg/movwise/internal/store"
)

const defaultStatsWindow = 5

var (
	statsDifficulty string
	statsLast       int
	statsWindow     int
	statsPlain      bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show profile, history and achievements",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "moving average window for the score trend")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg := model.StatsConfig{Last: statsLast, Window: statsWindow}
	if statsDifficulty != "" {
		d, err := model.ParseDifficulty(statsDifficulty)
		if err != nil {
			return err
		}
		cfg.Difficulty = d
	}
	if cfg.Last < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if cfg.Window < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	g := game.New(game.WithStorage(st), game.WithLogger(logging.Setup(os.Stderr, "warn", defaultLogFormat)))
	if err := g.LoadProgress(context.Background()); err != nil {
		return err
	}

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return stats.RenderReport(cmd.OutOrStdout(), stats.BuildReport(g.GetStatistics(), cfg))
	}
	m := statsui.NewModel(g, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}
