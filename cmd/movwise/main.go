// Package main provides the CLI entrypoint for movwise.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/movwise/internal/audio"
	"github.com/verte-zerg/movwise/internal/config"
	"github.com/verte-zerg/movwise/internal/deck"
	"github.com/verte-zerg/movwise/internal/feedback"
	"github.com/verte-zerg/movwise/internal/game"
	"github.com/verte-zerg/movwise/internal/generator"
	"github.com/verte-zerg/movwise/internal/logging"
	"github.com/verte-zerg/movwise/internal/model"
	"github.com/verte-zerg/movwise/internal/store"
	"github.com/verte-zerg/movwise/internal/tui"
)

const (
	defaultVolume    = 0.7
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

var (
	playDifficulty   string
	playRoundSeconds int
	playLives        int
	playCountdown    int
	playDeck         string
	playSeed         int64

	audioEnabled bool
	audioVolume  float64
	audioMusic   bool
	audioPlayer  string

	feedbackVibration bool
	feedbackFlash     bool

	logLevel  string
	logFormat string
	logFile   string

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "movwise",
		Short:         "English practice minigame for young athletes",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", "", "easy, normal or hard (default: saved preference)")
	rootCmd.Flags().IntVar(&playRoundSeconds, "round-seconds", 0, "round length in seconds (0: difficulty default)")
	rootCmd.Flags().IntVar(&playLives, "lives", 0, "lives per round (0: difficulty default)")
	rootCmd.Flags().IntVar(&playCountdown, "countdown", 0, "countdown before the round in seconds (0: default)")
	rootCmd.Flags().StringVar(&playDeck, "deck", "", "prompt deck CSV (default: built-in deck)")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed for prompt order (0: random)")
	rootCmd.Flags().BoolVar(&audioEnabled, "sound", true, "play synthesized sound effects")
	rootCmd.Flags().Float64Var(&audioVolume, "volume", defaultVolume, "master volume (0-1)")
	rootCmd.Flags().BoolVar(&audioMusic, "music", false, "start with background music on")
	rootCmd.Flags().StringVar(&audioPlayer, "player", audio.DefaultPlayer, "command that plays raw PCM from stdin")
	rootCmd.Flags().BoolVar(&feedbackVibration, "vibration", true, "ring the terminal bell as vibration")
	rootCmd.Flags().BoolVar(&feedbackFlash, "flash", true, "flash the screen on feedback")
	rootCmd.Flags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", defaultLogFormat, "log format (text, json)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file (default: XDG data dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newSfxCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newSchemaCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Game.Difficulty)
	applyIntConfig(cmd, "round-seconds", &playRoundSeconds, fileCfg.Game.RoundSeconds)
	applyIntConfig(cmd, "lives", &playLives, fileCfg.Game.Lives)
	applyIntConfig(cmd, "countdown", &playCountdown, fileCfg.Game.CountdownSeconds)
	applyStringConfig(cmd, "deck", &playDeck, fileCfg.Game.Deck)
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Game.Seed)
	applyBoolConfig(cmd, "sound", &audioEnabled, fileCfg.Audio.Enabled)
	applyFloatConfig(cmd, "volume", &audioVolume, fileCfg.Audio.Volume)
	applyBoolConfig(cmd, "music", &audioMusic, fileCfg.Audio.Music)
	applyStringConfig(cmd, "player", &audioPlayer, fileCfg.Audio.Player)
	applyBoolConfig(cmd, "vibration", &feedbackVibration, fileCfg.Feedback.Vibration)
	applyBoolConfig(cmd, "flash", &feedbackFlash, fileCfg.Feedback.Flash)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logger, closeLog := setupFileLogger()
	defer closeLog()

	dk, err := loadDeck(cfg.DeckPath, logger)
	if err != nil {
		return err
	}

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewWithSeed(cfg.Seed)
	}

	storage, closeStore := openStorage(logger)
	defer closeStore()

	synth := newSynth(logger)
	var flash *tui.Flash
	var flasher feedback.Flasher
	if feedbackFlash {
		flash = tui.NewFlash(clockwork.NewRealClock())
		flasher = flash
	}
	var vibrator feedback.Vibrator
	if feedbackVibration {
		if bell, err := feedback.NewBellVibrator(os.Stdout); err == nil {
			vibrator = bell
		} else {
			logger.Info("terminal bell unavailable", "err", err)
		}
	}
	fb := feedback.New(synth, flasher, vibrator, logger)
	defer fb.Close()

	st := game.New(
		game.WithLogger(logger),
		game.WithFeedback(fb),
		game.WithPrompts(generator.NewSource(dk, gen)),
		game.WithStorage(storage),
		game.WithRules(func(d model.Difficulty) game.Rules {
			return game.RulesFor(d).Override(cfg)
		}),
	)
	unsubscribe := st.Subscribe(func(ev game.Event) {
		if ev.Kind == game.EventPreferencesChanged {
			fb.Configure(ev.Preferences.SoundEnabled && audioEnabled, ev.Preferences.VibrationEnabled && feedbackVibration)
		}
	})
	defer unsubscribe()

	if err := st.LoadProgress(context.Background()); err != nil {
		logErrf("warning: %v; progress will not be saved this run\n", err)
	}
	if cfg.Difficulty != "" {
		prefs := st.GetStatistics().Profile.Preferences
		if prefs.Difficulty != cfg.Difficulty {
			prefs.Difficulty = cfg.Difficulty
			st.SetPreferences(prefs)
		}
	}

	m := tui.NewModel(st, flash, synth, clockwork.NewRealClock(), audioMusic)
	defer m.Close()
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if ge := st.LastError(); ge != nil {
		logErrf("last error: %v\n", ge)
	}
	return nil
}

func buildConfig() (model.Config, error) {
	cfg := model.Config{
		RoundSeconds:     playRoundSeconds,
		Lives:            playLives,
		CountdownSeconds: playCountdown,
		DeckPath:         strings.TrimSpace(playDeck),
		Seed:             playSeed,
	}
	if strings.TrimSpace(playDifficulty) != "" {
		d, err := model.ParseDifficulty(playDifficulty)
		if err != nil {
			return model.Config{}, err
		}
		cfg.Difficulty = d
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.RoundSeconds < 0 {
		return fmt.Errorf("--round-seconds must be >= 0")
	}
	if cfg.Lives < 0 {
		return fmt.Errorf("--lives must be >= 0")
	}
	if cfg.CountdownSeconds < 0 {
		return fmt.Errorf("--countdown must be >= 0")
	}
	if audioVolume < 0 || audioVolume > 1 {
		return fmt.Errorf("--volume must be between 0 and 1")
	}
	return nil
}

func setupFileLogger() (*slog.Logger, func()) {
	path := logFile
	if path == "" {
		path = config.DefaultLogPath()
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		logErrf("warning: %v; logging disabled\n", err)
		return logging.Setup(io.Discard, logLevel, logFormat), func() {}
	}
	return logging.Setup(f, logLevel, logFormat), func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}
}

func loadDeck(path string, logger *slog.Logger) (*deck.Deck, error) {
	var (
		dk  *deck.Deck
		err error
	)
	if path == "" {
		dk, err = deck.Default()
	} else {
		dk, err = deck.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	for _, msg := range dk.Rejected {
		logger.Warn("deck row skipped", "deck", dk.Source, "reason", msg)
	}
	logger.Info("deck loaded", "deck", dk.Source, "prompts", len(dk.Prompts), "skipped", len(dk.Rejected))
	return dk, nil
}

// openStorage opens the profile database, falling back to memory so a broken
// data dir never blocks play.
func openStorage(logger *slog.Logger) (game.Storage, func()) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Warn("profile database unavailable; progress will not persist", "err", err)
		return store.NewMemory(), func() {}
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
}

func newSynth(logger *slog.Logger) *audio.Synth {
	opts := []audio.Option{audio.WithLogger(logger), audio.WithVolume(audioVolume)}
	if !audioEnabled {
		return audio.New(nil, opts...)
	}
	return audio.New(audio.ExecOpener(audioPlayer, audio.SampleRate, logger), opts...)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if _, err := config.EnsureFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear scores, history and achievements (preferences are kept)",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the reset")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to reset progress without --yes")
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
	ctx := context.Background()
	if err := g.LoadProgress(ctx); err != nil {
		return err
	}
	if err := g.ResetProgress(ctx); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Progress reset."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
