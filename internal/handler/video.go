package handler

import (
	"net/http"

	"github.com/reelhub/reelhub/internal/ctxkeys"
	"github.com/reelhub/reelhub/internal/response"
	"github.com/reelhub/reelhub/internal/service"
)

type videoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *videoHandler {
	return &videoHandler{videoService: videoService}
}

func (h *videoHandler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videoService.List(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Envelope{
		Success: true,
		Message: "Videos fetched successfully",
		Videos:  videos,
	})
}

func (h *videoHandler) Show(w http.ResponseWriter, r *http.Request) {
	video, err := h.videoService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Envelope{
		Success: true,
		Message: "Video fetched successfully",
		Video:   video,
	})
}

func (h *videoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var submission service.VideoSubmission
	if err := decodeJSON(w, r, &submission); err != nil {
		response.Error(w, r, err)
		return
	}

	video, err := h.videoService.Create(r.Context(), ctxkeys.UserID(r.Context()), submission)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Envelope{
		Success:       true,
		Message:       "Video uploaded successfully",
		UploadedVideo: video,
	})
}
