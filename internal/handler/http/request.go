package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/handler/http/middleware"
	"github.com/teraju-hris/leave-backend-go/internal/handler/http/response"
	"github.com/teraju-hris/leave-backend-go/internal/service/file"
)

// multipartMemory is how much of a multipart body is kept in memory; the rest
// spills to temp files. The attachment limit is enforced by the file service.
const multipartMemory = 10 << 20

var errMissingData = errors.New("field 'data' is required")

// decodeJSON decodes the body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// caller writes a 401 when the token claims cannot be read.
func caller(w http.ResponseWriter, r *http.Request) (middleware.Caller, bool) {
	c, err := middleware.CallerFromRequest(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return middleware.Caller{}, false
	}
	return c, true
}

// pagination reads page and limit, ignoring malformed values.
func pagination(r *http.Request) (page, limit int) {
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = l
	}
	return page, limit
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeLeavePayload reads a leave request body. Multipart bodies carry the JSON
// in the "data" field and an optional "attachment" file; anything else is plain
// JSON without an attachment.
func decodeLeavePayload(r *http.Request, files file.FileService, dst interface{}) (*leave.Attachment, error) {
	if !isMultipart(r) {
		return nil, json.NewDecoder(r.Body).Decode(dst)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, err
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		return nil, errMissingData
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		return nil, err
	}

	upload, header, err := r.FormFile("attachment")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer upload.Close()

	attachment, err := files.ReadLeaveAttachment(r.Context(), upload, header.Filename)
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func writePayloadError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, leave.ErrAttachmentTooLarge) || errors.Is(err, leave.ErrAttachmentTypeNotAllowed) {
		response.HandleError(w, err)
		return
	}
	slog.Error(op+" decode error", "error", err)
	if errors.Is(err, errMissingData) {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}
	response.BadRequest(w, "Invalid request format", nil)
}
