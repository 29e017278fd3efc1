package delivery

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
	"github.com/Vovarama1992/voice_roundtrip/internal/ports"
	"github.com/Vovarama1992/voice_roundtrip/internal/speech"
)

type AudioHandler struct {
	pipeline       ports.PipelineService
	maxUploadBytes int64
	log            *logger.ZapLogger
}

func NewAudioHandler(pipeline ports.PipelineService, maxUploadBytes int64, log *logger.ZapLogger) *AudioHandler {
	return &AudioHandler{
		pipeline:       pipeline,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

type processAudioResponse struct {
	UserText     string `json:"user_text"`
	ResponseText string `json:"response_text"`
	Audio        string `json:"audio"`
	AudioFormat  string `json:"audio_format"`
	RequestID    string `json:"request_id"`
}

// ProcessAudio: POST /process-audio, multipart с полем "file"
func (h *AudioHandler) ProcessAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			h.log.Log(logger.LogEntry{Level: "warn", Message: "upload too large", Error: err})
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Error: err})
		writeError(w, http.StatusBadRequest, "invalid multipart: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "missing file", Error: err})
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "read upload", Error: err})
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	resp := h.pipeline.Process(r.Context(), models.AudioPayload{
		Data:   data,
		Format: speech.DetectFormat(data),
		Name:   header.Filename,
	})

	if !resp.OK() {
		status := http.StatusInternalServerError
		if resp.ErrorKind == models.ErrorKindInvalidInput {
			status = http.StatusBadRequest
		}
		writeError(w, status, resp.Message)
		return
	}

	writeJSON(w, http.StatusOK, processAudioResponse{
		UserText:     resp.Transcript,
		ResponseText: resp.ReplyText,
		Audio:        hex.EncodeToString(resp.ReplyAudio.Data),
		AudioFormat:  string(resp.ReplyAudio.Format),
		RequestID:    resp.RequestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
