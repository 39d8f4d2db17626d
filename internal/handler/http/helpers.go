package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/auth"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/middleware"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

const maxJSONBody = 1 << 20

type validatable interface {
	Validate() error
}

// decodeAndValidate reads a JSON body into dst and runs its Validate method.
// It writes the error response itself and reports whether the handler may go on.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	if err := dst.Validate(); err != nil {
		response.HandleError(w, err)
		return false
	}
	return true
}

// currentUser returns the authenticated caller or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return middleware.Identity{}, false
	}
	return id, true
}

func sessionInfo(r *http.Request) auth.SessionInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return auth.SessionInfo{UserAgent: r.UserAgent(), IPAddress: ip}
}

// maxUploadBytes caps a multipart image request, form fields included.
const maxUploadBytes = 6 << 20

// formImage opens the multipart file in field. The content type comes from
// the part header and is sniffed when the client left it out.
func formImage(w http.ResponseWriter, r *http.Request, field string) (multipart.File, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RequestEntityTooLarge(w, "Upload exceeds the size limit")
			return nil, "", false
		}
		response.BadRequest(w, "Invalid multipart form", nil)
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		response.ValidationError(w, map[string]string{field: field + " is required"})
		return nil, "", false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := io.ReadFull(file, sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			file.Close()
			response.BadRequest(w, "Invalid multipart form", nil)
			return nil, "", false
		}
	}
	return file, contentType, true
}

// pathID returns the UUID route parameter name or writes a validation error.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if !validator.IsValidUUID(id) {
		response.ValidationError(w, map[string]string{name: name + " must be a valid UUID"})
		return "", false
	}
	return id, true
}
