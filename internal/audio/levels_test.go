package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, samples []int16) string {
	t.Helper()

	bytesPerSample := 2
	dataSize := len(samples) * bytesPerSample
	out := make([]byte, 0, 44+dataSize)

	out = append(out, []byte("RIFF")...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+dataSize))
	out = append(out, []byte("WAVE")...)

	out = append(out, []byte("fmt ")...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, 1) // mono
	out = binary.LittleEndian.AppendUint32(out, 16000)
	out = binary.LittleEndian.AppendUint32(out, 16000*uint32(bytesPerSample))
	out = binary.LittleEndian.AppendUint16(out, uint16(bytesPerSample))
	out = binary.LittleEndian.AppendUint16(out, 16)

	out = append(out, []byte("data")...)
	out = binary.LittleEndian.AppendUint32(out, uint32(dataSize))
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}

	path := filepath.Join(t.TempDir(), "test.wav")
	require.NoError(t, os.WriteFile(path, out, 0o644))
	return path
}

func TestAnalyzeWAVSilence(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, make([]int16, 1600))
	levels, err := AnalyzeWAV(path)
	require.NoError(t, err)
	require.Equal(t, int64(1600), levels.Samples)
	require.True(t, math.IsInf(levels.RMSdBFS, -1))
}

func TestAnalyzeWAVFullScale(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 1600)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 32767
		} else {
			samples[i] = -32767
		}
	}

	path := writeWAV(t, samples)
	levels, err := AnalyzeWAV(path)
	require.NoError(t, err)
	require.InDelta(t, 0.0, levels.PeakdBFS, 0.01)
	require.InDelta(t, 0.0, levels.RMSdBFS, 0.01)
}

func TestIsSilentWAV(t *testing.T) {
	t.Parallel()

	quiet := writeWAV(t, make([]int16, 1600))
	silent, _, err := IsSilentWAV(quiet, -65)
	require.NoError(t, err)
	require.True(t, silent)

	loud := make([]int16, 1600)
	for i := range loud {
		loud[i] = 16000
	}
	loudPath := writeWAV(t, loud)
	silent, levels, err := IsSilentWAV(loudPath, -65)
	require.NoError(t, err)
	require.False(t, silent)
	require.Greater(t, levels.PeakdBFS, -10.0)
}

func TestAnalyzeWAVRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not audio"), 0o644))

	_, err := AnalyzeWAV(path)
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestAnalyzeWAVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := AnalyzeWAV(filepath.Join(t.TempDir(), "absent.wav"))
	require.Error(t, err)
}
