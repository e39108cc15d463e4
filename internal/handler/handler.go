package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/reelhub/reelhub/internal/response"
	"github.com/reelhub/reelhub/internal/service"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

var errInvalidBody = &service.Error{Kind: service.KindValidation, Message: "Invalid request body"}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	if err != nil {
		return &service.Error{Kind: service.KindValidation, Message: errInvalidBody.Message, Err: err}
	}
	return nil
}

// NotFound answers unmatched routes with a 404 envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	response.Fail(w, http.StatusNotFound, string(service.KindNotFound), "Not found")
}
