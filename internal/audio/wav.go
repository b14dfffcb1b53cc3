package audio

import (
	"fmt"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVFormat describes the PCM layout of a WAV preview
type WAVFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// SaveWAV writes interleaved samples to a PCM WAV file so a recording or a
// dataset record can be auditioned in an ordinary audio player.
func SaveWAV(filePath string, samples []int32, format WAVFormat) error {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return fmt.Errorf("invalid WAV format: %d Hz, %d channels", format.SampleRate, format.Channels)
	}
	if format.BitDepth == 0 {
		format.BitDepth = 32
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	outFile, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer outFile.Close()

	enc := wav.NewEncoder(outFile, format.SampleRate, format.BitDepth, format.Channels, 1)

	// Drop any trailing partial frame; WAV data must be frame aligned.
	n := len(samples) - len(samples)%format.Channels
	data := make([]int, n)
	for i := 0; i < n; i++ {
		data[i] = int(samples[i])
	}

	buf := &goaudio.IntBuffer{
		Data: data,
		Format: &goaudio.Format{
			SampleRate:  format.SampleRate,
			NumChannels: format.Channels,
		},
		SourceBitDepth: format.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write to WAV encoder: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalise WAV file: %w", err)
	}
	return outFile.Close()
}
