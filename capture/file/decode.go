package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"github.com/cwbudde/algo-tuner/capture"
)

// Clip is a decoded, mono audio file.
type Clip struct {
	Samples    []float32
	SampleRate int
	// Channels is the channel count of the source before downmixing.
	Channels int
}

// Duration returns the playback length.
func (c *Clip) Duration() time.Duration {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// Decode reads the file at path, choosing the decoder by extension:
// .wav, .mp3, .ogg or .oga.
func Decode(path string) (*Clip, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".mp3", ".ogg", ".oga":
	default:
		return nil, fmt.Errorf("%w: %q", capture.ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file: open: %w", err)
	}
	defer f.Close()

	switch ext {
	case ".wav":
		return DecodeWAV(f)
	case ".mp3":
		return DecodeMP3(f)
	default:
		return DecodeOgg(f)
	}
}

// wavFormatPCM is the fmt chunk tag of integer PCM.
const wavFormatPCM = 1

// DecodeWAV decodes integer PCM WAV data. IEEE float and other encodings
// are rejected with ErrUnsupportedFormat.
func DecodeWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", capture.ErrUnsupportedFormat)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: WAV audio format %d, want integer PCM", capture.ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("file: wav: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: WAV without format", capture.ErrUnsupportedFormat)
	}

	channels := buf.Format.NumChannels
	interleaved, err := pcmToFloat(buf.Data, int(dec.BitDepth))
	if err != nil {
		return nil, err
	}
	return newClip(interleaved, buf.Format.SampleRate, channels)
}

// DecodeMP3 decodes MPEG-1/2 layer III data. The decoder always yields
// 16-bit little-endian stereo.
func DecodeMP3(r io.Reader) (*Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %v", capture.ErrUnsupportedFormat, err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("file: mp3: %w", err)
	}

	const channels = 2
	interleaved := make([]float32, len(raw)/2)
	for i := range interleaved {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		interleaved[i] = float32(v) / 32768
	}
	return newClip(interleaved, dec.SampleRate(), channels)
}

// DecodeOgg decodes Ogg Vorbis data.
func DecodeOgg(r io.Reader) (*Clip, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: ogg: %v", capture.ErrUnsupportedFormat, err)
	}
	return newClip(data, format.SampleRate, format.Channels)
}

func newClip(interleaved []float32, sampleRate, channels int) (*Clip, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d, channels %d", capture.ErrUnsupportedFormat, sampleRate, channels)
	}
	mono := make([]float32, len(interleaved)/channels)
	n := capture.Downmix(mono, interleaved, channels)
	return &Clip{Samples: mono[:n], SampleRate: sampleRate, Channels: channels}, nil
}

// pcmToFloat scales integer PCM to [-1, 1). 8-bit WAV data is unsigned.
func pcmToFloat(data []int, bitDepth int) ([]float32, error) {
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d-bit PCM", capture.ErrUnsupportedFormat, bitDepth)
	}
	scale := 1 / float64(int64(1)<<(bitDepth-1))
	out := make([]float32, len(data))
	for i, v := range data {
		if bitDepth == 8 {
			v -= 128
		}
		out[i] = float32(float64(v) * scale)
	}
	return out, nil
}
