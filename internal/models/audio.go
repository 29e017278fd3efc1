package models

import (
	"path/filepath"
	"strings"
)

// AudioFormat is the container of an audio payload.
type AudioFormat string

const (
	AudioFormatUnknown AudioFormat = ""
	AudioFormatWAV     AudioFormat = "wav"
	AudioFormatMP3     AudioFormat = "mp3"
)

// Ext returns the file extension for the format, including the dot.
func (f AudioFormat) Ext() string {
	if f == AudioFormatUnknown {
		return ".bin"
	}
	return "." + string(f)
}

// ContentType is the MIME type used when the payload leaves the service.
func (f AudioFormat) ContentType() string {
	switch f {
	case AudioFormatWAV:
		return "audio/wav"
	case AudioFormatMP3:
		return "audio/mpeg"
	}
	return "application/octet-stream"
}

// AudioPayload holds the raw bytes of one clip. Single channel, fixed sample rate is
// implied by whoever produced it. Never mutated after creation.
type AudioPayload struct {
	Data   []byte
	Format AudioFormat
	Name   string // имя файла из загрузки, если было
}

func (a AudioPayload) Empty() bool { return len(a.Data) == 0 }

var inputExts = map[string]bool{
	".wav": true, ".mp3": true, ".ogg": true, ".oga": true, ".webm": true,
	".m4a": true, ".mp4": true, ".mpeg": true, ".mpga": true, ".flac": true,
}

// FileExt is the extension for the on-disk copy. Transcription engines pick
// the decoder by it, so unknown uploads fall back to .wav.
func (a AudioPayload) FileExt() string {
	if ext := strings.ToLower(filepath.Ext(a.Name)); inputExts[ext] {
		return ext
	}
	if a.Format != AudioFormatUnknown {
		return a.Format.Ext()
	}
	return ".wav"
}

// TranscriptionResult is valid only when Text holds at least two
// whitespace separated tokens.
type TranscriptionResult struct {
	Text string
}

// Below MinTranscriptTokens the clip counts as no speech.
const MinTranscriptTokens = 2

func (t TranscriptionResult) Valid() bool {
	return len(strings.Fields(t.Text)) >= MinTranscriptTokens
}

// ReplyText is the cleaned answer of the language model.
type ReplyText struct {
	Text string
	// MarkerFound is false when the model ignored the "Answer:" format and
	// the whole cleaned output was used instead.
	MarkerFound bool
	Truncated   bool
}
