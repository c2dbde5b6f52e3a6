package members

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/gymdesk/internal/httputil"
	"github.com/tendant/gymdesk/pkg/storage"
)

// UploadPhoto stores the request body as the member's photo and points the
// member record at it. A failure after the upload leaves the member without
// a photo reference.
// PUT /v1/members/{id}/photo
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.photos == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "photo storage is not configured")
		return
	}

	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	maxBytes := h.photos.MaxBytes()
	data, err := io.ReadAll(io.LimitReader(r.Body, int64(maxBytes)+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.Error(w, http.StatusRequestEntityTooLarge, "photo is too large")
			return
		}
		httputil.Error(w, http.StatusBadRequest, "failed to read photo")
		return
	}

	contentType, err := h.photos.Put(r.Context(), m.ID, data)
	switch {
	case errors.Is(err, storage.ErrEmptyPhoto):
		httputil.Error(w, http.StatusBadRequest, "photo is empty")
		return
	case errors.Is(err, storage.ErrPhotoTooLarge):
		httputil.Error(w, http.StatusRequestEntityTooLarge, "photo is too large")
		return
	case errors.Is(err, storage.ErrUnsupportedPhotoType):
		httputil.Error(w, http.StatusUnsupportedMediaType, "photo must be a JPEG, PNG, GIF or WebP image")
		return
	case err != nil:
		h.writeError(w, err, "failed to upload photo", "member_id", m.ID)
		return
	}

	url := photoURL(h.cfg.BaseURL, m.ID)
	if err := h.members.SetPhotoURL(r.Context(), m.ID, &url); err != nil {
		h.writeError(w, err, "failed to update member", "member_id", m.ID, "stage", "photo_url")
		return
	}

	h.logger.Info("member photo uploaded", "member_id", m.ID, "content_type", contentType, "bytes", len(data))
	h.respondMember(w, r, m.ID, http.StatusOK)
}

// Photo serves the member's photo. It is mounted both on the staff API and
// publicly for the checkpoint page.
// GET /v1/members/{id}/photo, GET /photos/{id}
func (h *Handler) Photo(w http.ResponseWriter, r *http.Request) {
	if h.photos == nil {
		httputil.Error(w, http.StatusNotFound, "photo not found")
		return
	}

	id, ok := memberID(w, r)
	if !ok {
		return
	}

	photo, err := h.photos.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to load photo", "member_id", id)
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(photo.Data)
}

func photoURL(baseURL string, id uuid.UUID) string {
	return baseURL + "/photos/" + id.String()
}
