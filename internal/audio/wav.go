package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"mixprep/internal/failure"
	"mixprep/internal/fileutil"
)

const (
	component = "audio"

	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xFFFE

	outputBitDepth = 16
)

// Load decodes a PCM WAV file into a mono signal at its native sample rate.
// Multichannel files are averaged down to mono.
func Load(path string) (Signal, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Signal{}, failure.MissingFile(component, "audio file not found", path)
		}
		return Signal{}, fmt.Errorf("open audio %s: %w", path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return Signal{}, failure.Wrap(failure.ErrInvalidAudio, component, "decode", path+" is not a valid WAV file", nil)
	}
	switch decoder.WavAudioFormat {
	case formatPCM, formatExtensible:
	case formatFloat:
		return Signal{}, failure.Wrap(failure.ErrInvalidAudio, component, "decode", path+" uses IEEE float samples; convert to PCM first", nil)
	default:
		return Signal{}, failure.Wrap(failure.ErrInvalidAudio, component, "decode", fmt.Sprintf("%s has unsupported WAV format %d", path, decoder.WavAudioFormat), nil)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Signal{}, failure.Wrap(failure.ErrInvalidAudio, component, "decode", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return Signal{}, failure.Wrap(failure.ErrInvalidAudio, component, "decode", path+" has no usable format header", nil)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(decoder.BitDepth)
	}
	return Signal{
		Samples:    downmix(buf.Data, buf.Format.NumChannels, bitDepth),
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// LoadAt decodes a WAV file to mono and resamples it to rate.
func LoadAt(path string, rate int) (Signal, error) {
	sig, err := Load(path)
	if err != nil {
		return Signal{}, err
	}
	if rate <= 0 || rate == sig.SampleRate {
		return sig, nil
	}
	return Signal{Samples: Resample(sig.Samples, sig.SampleRate, rate), SampleRate: rate}, nil
}

func downmix(data []int, channels, bitDepth int) []float64 {
	scale, offset := pcmScale(bitDepth)
	frames := len(data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += (float64(data[i*channels+c]) - offset) / scale
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// pcmScale returns the divisor and offset mapping integer PCM to [-1, 1].
// 8-bit WAV is unsigned and centred on 128.
func pcmScale(bitDepth int) (scale, offset float64) {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	if bitDepth == 8 {
		return 128, 128
	}
	return math.Ldexp(1, bitDepth-1), 0
}

// Write encodes sig as a mono 16-bit PCM WAV file. Samples outside [-1, 1] are
// clipped. The file is written to a temp path and renamed into place; parent
// directories are created as needed.
func Write(path string, sig Signal) error {
	if sig.SampleRate <= 0 {
		return failure.Wrap(failure.ErrInvalidAudio, component, "encode", fmt.Sprintf("invalid sample rate %d", sig.SampleRate), nil)
	}
	scale := math.Ldexp(1, outputBitDepth-1) - 1
	data := make([]int, len(sig.Samples))
	for i, sample := range sig.Samples {
		switch {
		case math.IsNaN(sample):
			sample = 0
		case sample > 1:
			sample = 1
		case sample < -1:
			sample = -1
		}
		data[i] = int(math.Round(sample * scale))
	}

	err := fileutil.WriteAtomicFile(path, 0o644, func(file *os.File) error {
		encoder := wav.NewEncoder(file, sig.SampleRate, outputBitDepth, 1, formatPCM)
		buf := &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: 1, SampleRate: sig.SampleRate},
			Data:           data,
			SourceBitDepth: outputBitDepth,
		}
		if err := encoder.Write(buf); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("finalize wav: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write audio %s: %w", path, err)
	}
	return nil
}
