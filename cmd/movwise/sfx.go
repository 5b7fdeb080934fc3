package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/movwise/internal/audio"
	"github.com/verte-zerg/movwise/internal/feedback"
	"github.com/verte-zerg/movwise/internal/logging"
)

const defaultExportGain = 0.5

var (
	sfxPlayer string
	sfxVolume float64
	sfxOutput string
	sfxGain   float64
)

func newSfxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sfx",
		Short: "List, play or export feedback sound effects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List feedback effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listEffects(cmd.OutOrStdout())
		},
	}

	play := &cobra.Command{
		Use:   "play <effect>",
		Short: "Play an effect through the audio player",
		Args:  cobra.ExactArgs(1),
		RunE:  runSfxPlay,
	}
	play.Flags().StringVar(&sfxPlayer, "player", audio.DefaultPlayer, "command that plays raw PCM from stdin")
	play.Flags().Float64Var(&sfxVolume, "volume", defaultVolume, "master volume (0-1)")

	export := &cobra.Command{
		Use:   "export <effect>",
		Short: "Render an effect to a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if sfxOutput == "" {
				sfxOutput = args[0] + ".wav"
			}
			return exportEffect(args[0], sfxOutput, sfxGain)
		},
	}
	export.Flags().StringVarP(&sfxOutput, "output", "o", "", "output file (default: <effect>.wav)")
	export.Flags().Float64Var(&sfxGain, "gain", defaultExportGain, "peak gain (0-1)")

	cmd.AddCommand(list, play, export)
	return cmd
}

func listEffects(w io.Writer) error {
	out := bufio.NewWriter(w)
	for _, key := range feedback.Keys() {
		effect, _ := feedback.Lookup(key)
		line := fmt.Sprintf("%s %s %s\n", runewidth.FillRight(key, 12), runewidth.FillRight(effect.Sound.Kind(), 12), effect.Color)
		if _, err := out.WriteString(line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runSfxPlay(_ *cobra.Command, args []string) error {
	if sfxVolume < 0 || sfxVolume > 1 {
		return fmt.Errorf("--volume must be between 0 and 1")
	}
	if _, ok := feedback.Lookup(args[0]); !ok {
		return fmt.Errorf("unknown effect %q", args[0])
	}
	logger := logging.Setup(os.Stderr, "warn", defaultLogFormat)
	synth := audio.New(audio.ExecOpener(sfxPlayer, audio.SampleRate, logger), audio.WithLogger(logger), audio.WithVolume(sfxVolume))
	if !synth.Available() {
		return fmt.Errorf("audio player unavailable: %s", sfxPlayer)
	}
	gen := feedback.New(synth, nil, nil, logger)
	gen.Trigger(args[0])
	gen.Wait()
	return nil
}

func exportEffect(key, path string, gain float64) error {
	if gain <= 0 || gain > 1 {
		return fmt.Errorf("--gain must be in (0, 1]")
	}
	notes, err := feedback.Export(key, gain)
	if err != nil {
		return err
	}
	samples := audio.Mixdown(notes, audio.SampleRate)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := audio.WriteWAV(f, samples, audio.SampleRate); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	logErrf("Wrote %s\n", path)
	return nil
}
