package handlers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"

	"github.com/samandartukhtayev/user-profile-service/response"
)

// errTrailingData is returned when a body holds more than one JSON value
var errTrailingData = errors.New("unexpected data after JSON body")

// decodeJSON applies the payload boundary shared by every endpoint: the
// content type must be JSON (415 otherwise), the body must fit in limit
// bytes, decode into dst and carry every required field (400 otherwise).
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst validation.Validatable) (*response.Error, error) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return response.NewError(http.StatusUnsupportedMediaType, response.UnsupportedMediaType),
			errors.Errorf("unsupported content type %q", r.Header.Get("Content-Type"))
	}

	badRequest := response.NewError(http.StatusBadRequest, response.BadClientData)
	if r.ContentLength > limit {
		return badRequest, errors.Errorf("content length %d exceeds limit %d", r.ContentLength, limit)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(dst); err != nil {
		return badRequest, errors.Wrap(err, "failed to decode body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return badRequest, errTrailingData
	}
	if err := dst.Validate(); err != nil {
		return badRequest, errors.Wrap(err, "missing required field")
	}
	return nil, nil
}

// isJSONContentType accepts */json and */*+json media types
func isJSONContentType(header string) bool {
	if header == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	_, subtype, ok := strings.Cut(mediaType, "/")
	if !ok {
		return false
	}
	return subtype == "json" || strings.HasSuffix(subtype, "+json")
}
