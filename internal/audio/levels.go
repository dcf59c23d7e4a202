// Package audio measures signal levels in WAV files so mn can warn about
// recordings that are effectively silent before spending a transcription
// pass on them.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	ErrInvalidWAV     = errors.New("invalid wav file")
	ErrUnsupportedWAV = errors.New("unsupported wav format")
)

// Levels summarizes a WAV file's signal energy.
type Levels struct {
	RMSdBFS  float64
	PeakdBFS float64
	Samples  int64
}

// IsSilentWAV reports whether the file's levels fall below thresholdDBFS.
// The peak gets 6 dB of headroom over the threshold so a single click does
// not mark an otherwise silent recording as speech.
func IsSilentWAV(path string, thresholdDBFS float64) (bool, Levels, error) {
	levels, err := AnalyzeWAV(path)
	if err != nil {
		return false, Levels{}, err
	}

	if levels.Samples == 0 {
		return true, levels, nil
	}

	return levels.RMSdBFS <= thresholdDBFS && levels.PeakdBFS <= thresholdDBFS+6, levels, nil
}

// AnalyzeWAV computes RMS and peak levels for a PCM WAV file. mn records
// 16-bit PCM; 8-bit files are handled too since some capture tools fall
// back to them.
func AnalyzeWAV(path string) (Levels, error) {
	f, err := os.Open(path)
	if err != nil {
		return Levels{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	format, data, err := readWAV(f)
	if err != nil {
		return Levels{}, err
	}

	bytesPerSample := int(format.bitsPerSample / 8)
	var peak, sumSquares float64
	var samples int64
	for i := 0; i+bytesPerSample <= len(data); i += bytesPerSample {
		var value float64
		switch format.bitsPerSample {
		case 8:
			// 8-bit WAV is unsigned with 128 as zero.
			value = (float64(data[i]) - 128) / 128
		case 16:
			value = float64(int16(binary.LittleEndian.Uint16(data[i:]))) / 32768
		}

		abs := math.Abs(value)
		if abs > peak {
			peak = abs
		}
		sumSquares += value * value
		samples++
	}

	if samples == 0 {
		return Levels{RMSdBFS: math.Inf(-1), PeakdBFS: math.Inf(-1)}, nil
	}

	rms := math.Sqrt(sumSquares / float64(samples))
	return Levels{
		RMSdBFS:  toDBFS(rms),
		PeakdBFS: toDBFS(peak),
		Samples:  samples,
	}, nil
}

type wavFormat struct {
	audioFormat   uint16
	bitsPerSample uint16
}

func readWAV(f *os.File) (wavFormat, []byte, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return wavFormat{}, nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return wavFormat{}, nil, ErrInvalidWAV
	}

	var format wavFormat
	var data []byte
	var hasFmt, hasData bool

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(f, chunkHeader); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return wavFormat{}, nil, fmt.Errorf("read wav chunk header: %w", err)
		}

		chunkID := string(chunkHeader[:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		// RIFF chunks are word-aligned.
		readSize := int64(chunkSize)
		if chunkSize%2 != 0 {
			readSize++
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return wavFormat{}, nil, ErrInvalidWAV
			}
			buf := make([]byte, readSize)
			if _, err := io.ReadFull(f, buf); err != nil {
				return wavFormat{}, nil, fmt.Errorf("read wav fmt chunk: %w", err)
			}
			format.audioFormat = binary.LittleEndian.Uint16(buf[0:2])
			format.bitsPerSample = binary.LittleEndian.Uint16(buf[14:16])
			hasFmt = true
		case "data":
			buf := make([]byte, readSize)
			if _, err := io.ReadFull(f, buf); err != nil {
				return wavFormat{}, nil, fmt.Errorf("read wav data: %w", err)
			}
			data = buf[:chunkSize]
			hasData = true
		default:
			if _, err := f.Seek(readSize, io.SeekCurrent); err != nil {
				return wavFormat{}, nil, fmt.Errorf("seek wav chunk %s: %w", chunkID, err)
			}
		}
	}

	if !hasFmt || !hasData {
		return wavFormat{}, nil, ErrInvalidWAV
	}
	if format.audioFormat != 1 {
		return wavFormat{}, nil, ErrUnsupportedWAV
	}
	if format.bitsPerSample != 8 && format.bitsPerSample != 16 {
		return wavFormat{}, nil, ErrUnsupportedWAV
	}

	return format, data, nil
}

func toDBFS(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(amplitude)
}
