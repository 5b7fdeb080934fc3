package audio

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// DefaultPlayer streams raw mono PCM to ALSA.
const DefaultPlayer = "aplay -q -t raw -f S16_LE -c 1 -r 44100"

const (
	streamChunk = 10 // milliseconds per write
	stopFade    = 20 // milliseconds of fade-out on Stop
)

// ExecSink plays each buffer by piping PCM into a player process.
type ExecSink struct {
	name   string
	args   []string
	rate   int
	logger *slog.Logger
}

// OpenExecSink resolves the player command. It fails when the player is not installed.
func OpenExecSink(command string, rate int, logger *slog.Logger) (*ExecSink, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("audio player command is empty")
	}
	path, err := exec.LookPath(parts[0])
	if err != nil {
		return nil, fmt.Errorf("audio player %q not available: %w", parts[0], err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecSink{name: path, args: parts[1:], rate: rate, logger: logger}, nil
}

// ExecOpener returns an Opener for OpenExecSink.
func ExecOpener(command string, rate int, logger *slog.Logger) Opener {
	return func() (Sink, error) {
		return OpenExecSink(command, rate, logger)
	}
}

// Play starts a player process and streams samples to it in the background.
func (s *ExecSink) Play(samples []float32) (Handle, error) {
	cmd := exec.Command(s.name, s.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open player stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start player: %w", err)
	}
	h := &execHandle{stop: make(chan struct{})}
	go s.stream(cmd, stdin, samples, h)
	return h, nil
}

func (s *ExecSink) stream(cmd *exec.Cmd, stdin io.WriteCloser, samples []float32, h *execHandle) {
	defer func() {
		if cerr := stdin.Close(); cerr != nil {
			// Best-effort close; the player may already have exited.
			_ = cerr
		}
		if err := cmd.Wait(); err != nil {
			s.logger.Debug("audio player exited", "err", err)
		}
	}()

	chunk := s.rate * streamChunk / 1000
	fade := s.rate * stopFade / 1000
	for pos := 0; pos < len(samples); pos += chunk {
		select {
		case <-h.stop:
			end := min(pos+fade, len(samples))
			tail := make([]float32, end-pos)
			for i := range tail {
				tail[i] = samples[pos+i] * float32(1-float64(i)/float64(len(tail)))
			}
			_, _ = stdin.Write(pcm16(tail))
			return
		default:
		}
		end := min(pos+chunk, len(samples))
		if _, err := stdin.Write(pcm16(samples[pos:end])); err != nil {
			s.logger.Debug("audio stream interrupted", "err", err)
			return
		}
	}
}

type execHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *execHandle) Stop() {
	h.once.Do(func() { close(h.stop) })
}
