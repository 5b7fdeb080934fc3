package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth = 16
	wavPCM      = 1
)

// sample16 scales a float sample in [-1, 1] to a signed 16-bit value, clipping outside it.
func sample16(s float32) int16 {
	v := math.Max(-1, math.Min(1, float64(s)))
	return int16(v * math.MaxInt16)
}

// pcm16 converts float samples to signed 16-bit little-endian PCM for player streams.
func pcm16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample16(s)))
	}
	return out
}

// WriteWAV encodes mono samples as a 16-bit PCM WAV file. The encoder patches the
// chunk sizes when it closes, so w must be seekable.
func WriteWAV(w io.WriteSeeker, samples []float32, rate int) error {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(sample16(s))
	}
	enc := wav.NewEncoder(w, rate, wavBitDepth, 1, wavPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish wav file: %w", err)
	}
	return nil
}
