package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/go-mp3"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
)

var errUnknownFormat = errors.New("unrecognized audio container")

// AudioInfo is what a decode pass learned about a clip.
type AudioInfo struct {
	Format     models.AudioFormat
	Samples    int64 // frames, not interleaved values
	SampleRate int
}

func (i AudioInfo) Duration() time.Duration {
	if i.SampleRate <= 0 {
		return 0
	}
	return time.Duration(i.Samples) * time.Second / time.Duration(i.SampleRate)
}

// DetectFormat sniffs the container from the first bytes.
func DetectFormat(data []byte) models.AudioFormat {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return models.AudioFormatWAV
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return models.AudioFormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return models.AudioFormatMP3
	}
	return models.AudioFormatUnknown
}

// Decode fully decodes data and counts the samples it holds.
func Decode(data []byte) (AudioInfo, error) {
	if len(data) == 0 {
		return AudioInfo{}, models.ErrEmptyAudio
	}

	switch DetectFormat(data) {
	case models.AudioFormatWAV:
		return decodeWAV(data)
	case models.AudioFormatMP3:
		return decodeMP3(data)
	}
	return AudioInfo{}, errUnknownFormat
}

func decodeMP3(data []byte) (AudioInfo, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return AudioInfo{}, fmt.Errorf("decode mp3: %w", err)
	}
	n, err := io.Copy(io.Discard, dec)
	if err != nil {
		return AudioInfo{}, fmt.Errorf("decode mp3: %w", err)
	}
	// go-mp3 всегда отдаёт 16-bit stereo LE
	return AudioInfo{
		Format:     models.AudioFormatMP3,
		Samples:    n / 4,
		SampleRate: dec.SampleRate(),
	}, nil
}

func decodeWAV(data []byte) (AudioInfo, error) {
	info := AudioInfo{Format: models.AudioFormatWAV}

	var (
		channels      uint16
		bitsPerSample uint16
		haveFmt       bool
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return info, fmt.Errorf("decode wav: short fmt chunk")
			}
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true

		case "data":
			if !haveFmt {
				return info, fmt.Errorf("decode wav: data before fmt chunk")
			}
			frame := int(channels) * int(bitsPerSample) / 8
			if frame == 0 {
				return info, fmt.Errorf("decode wav: invalid format (channels=%d bits=%d)", channels, bitsPerSample)
			}
			// стриминговые энкодеры пишут в size мусор: верим только реальным байтам
			avail := len(data) - body
			if size > avail || size < 0 {
				size = avail
			}
			info.Samples = int64(size / frame)
			return info, nil
		}

		pos = body + size + size%2
	}

	return info, fmt.Errorf("decode wav: no data chunk")
}
