package web

import (
	"bytes"
	"net/http"
)

type createdPage struct {
	Title   string
	Message string
}

type errorPage struct {
	Title   string
	Message string
}

// render executes a page template into a buffer first so a template error
// never leaks a half-written page.
func (h *Handlers) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) renderNotFound(w http.ResponseWriter) {
	h.render(w, http.StatusNotFound, "error.html", errorPage{
		Title:   "Not found",
		Message: "The page you asked for does not exist.",
	})
}

func (h *Handlers) renderUnavailable(w http.ResponseWriter) {
	h.render(w, http.StatusServiceUnavailable, "error.html", errorPage{
		Title:   "Unavailable",
		Message: "The quiz database is not available right now. Please try again later.",
	})
}

func (h *Handlers) renderFailure(w http.ResponseWriter, r *http.Request, err error, op string) {
	h.logger.Error().Err(err).Str("op", op).Str("path", r.URL.Path).Msg("request failed")
	h.render(w, http.StatusInternalServerError, "error.html", errorPage{
		Title:   "Something went wrong",
		Message: "An error came up while handling the request. Please try again.",
	})
}
