package members

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers the staff member routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/v1/members", h.List)
	r.Post("/v1/members", h.Create)
	r.Get("/v1/members/expiring", h.Expiring)
	r.Get("/v1/members/{id}", h.Get)
	r.Put("/v1/members/{id}", h.Update)
	r.Delete("/v1/members/{id}", h.Delete)

	r.Post("/v1/members/{id}/renew", h.Renew)
	r.Post("/v1/members/{id}/cancel", h.Cancel)
	r.Post("/v1/members/{id}/toggle", h.Toggle)

	r.Get("/v1/members/{id}/vcard", h.VCard)
	r.Get("/v1/members/{id}/qr", h.QR)
	r.Get("/v1/members/{id}/qr.png", h.QRImage)
	r.Put("/v1/members/{id}/photo", h.UploadPhoto)
	r.Get("/v1/members/{id}/photo", h.Photo)

	r.Post("/v1/scan", h.Scan)
	r.Post("/v1/end-date", h.EndDate)
}
