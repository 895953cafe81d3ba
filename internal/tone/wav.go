package tone

import (
	"bytes"
	"encoding/binary"
	"io"
)

// StreamDataSize is the data length advertised for endless streams.
const StreamDataSize = 0xFFFFFFFF - 36

// WriteWAVHeader writes a 44-byte PCM WAV header for 16-bit samples.
func WriteWAVHeader(w io.Writer, sampleRate, channels int, dataSize uint32) error {
	blockAlign := channels * 2
	header := struct {
		ChunkID       [4]byte
		ChunkSize     uint32
		Format        [4]byte
		Subchunk1ID   [4]byte
		Subchunk1Size uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte
		Subchunk2Size uint32
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
	return binary.Write(w, binary.LittleEndian, header)
}

// EncodeWAV encodes interleaved stereo float samples as a WAV file.
func EncodeWAV(samples []float32, sampleRate int) []byte {
	var buf bytes.Buffer
	dataSize := uint32(len(samples) * 2)
	buf.Grow(44 + int(dataSize))
	WriteWAVHeader(&buf, sampleRate, Channels, dataSize)
	pcm := make([]byte, 2)
	for _, s := range samples {
		binary.LittleEndian.PutUint16(pcm, uint16(toInt16(float64(s))))
		buf.Write(pcm)
	}
	return buf.Bytes()
}

// RenderChimeWAV renders kind as a standalone WAV file.
func RenderChimeWAV(kind Chime, sampleRate int) []byte {
	return EncodeWAV(RenderChime(kind, sampleRate), sampleRate)
}
