// Package response writes the uniform {success, message, ...} JSON envelope.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelhub/reelhub/internal/model"
	"github.com/reelhub/reelhub/internal/service"
	"github.com/reelhub/reelhub/internal/storage"
)

// Codes emitted by middleware; they have no service Kind.
const (
	CodeRateLimited = "rate_limited"
	CodeCSRFFailed  = "csrf_failed"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`

	// videos is kept when empty so an empty feed still returns "videos": []
	Videos        []*model.Video `json:"videos,omitzero"`
	Video         *model.Video   `json:"video,omitempty"`
	UploadedVideo *model.Video   `json:"uploadedVideo,omitempty"`

	PublicKey                string                   `json:"publicKey,omitempty"`
	AuthenticationParameters *storage.UploadAuth      `json:"authenticationParameters,omitempty"`
	Upload                   *storage.PresignedUpload `json:"upload,omitempty"`

	Token     string      `json:"token,omitempty"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
	UserID    string      `json:"userId,omitempty"`
	User      *model.User `json:"user,omitempty"`
}

// JSON writes env with the given status code.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// Fail writes a failure envelope with an explicit code.
func Fail(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, Envelope{Success: false, Message: message, Code: code})
}

// Error maps err onto a status code and a failure envelope. Server-side
// failures are logged with their full cause; clients only see the message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind, message := service.Describe(err)
	status := StatusFor(kind)

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"kind", kind,
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	Fail(w, status, string(kind), message)
}

func StatusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized, service.KindInvalidCredentials:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
