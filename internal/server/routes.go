package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"website_revolution/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/api", func(r chi.Router) {
			r.Post("/businesses-review", handler(s.postAPIBusinessesReview))
			r.Post("/csv-file-export", handler(s.postAPICSVFileExport))

			r.Route("/searches", func(r chi.Router) {
				r.Get("/", handler(s.getAPISearches))
				r.Get("/{id}", handler(s.getAPISearch))
			})

			r.Get("/redesigns/{filename}", handler(s.getAPIRedesign))
		})

		r.Get("/redesigns/{filename}", handler(s.getRedesignPage))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
