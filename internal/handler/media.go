package handler

import (
	"net/http"

	"github.com/reelhub/reelhub/internal/response"
	"github.com/reelhub/reelhub/internal/service"
)

type mediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *mediaHandler {
	return &mediaHandler{mediaService: mediaService}
}

// UploadAuth hands the client uploader a signed ImageKit credential set.
func (h *mediaHandler) UploadAuth(w http.ResponseWriter, r *http.Request) {
	creds, err := h.mediaService.UploadCredentials()
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Envelope{
		Success:                  true,
		Message:                  "Authentication parameters generated successfully",
		PublicKey:                creds.PublicKey,
		AuthenticationParameters: creds.Auth,
	})
}

// UploadURL presigns a direct PUT to the S3-compatible host.
func (h *mediaHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	upload, err := h.mediaService.DirectUpload(r.Context(), query.Get("filename"), query.Get("contentType"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Envelope{
		Success: true,
		Message: "Upload URL generated successfully",
		Upload:  upload,
	})
}
