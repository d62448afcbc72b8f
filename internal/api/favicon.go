package api

import (
	"fmt"
	"net/http"
)

const (
	faviconLight = "#3b82f6"
	faviconDark  = "#1e3a8a"
)

// GenerateFaviconSVG renders the letter favicon, darker when dark is set.
func GenerateFaviconSVG(dark bool) string {
	bg := faviconLight
	if dark {
		bg = faviconDark
	}
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><rect width="32" height="32" rx="6" fill="%s"/>`+
			`<text x="50%%" y="50%%" dominant-baseline="central" text-anchor="middle" fill="white" `+
			`font-family="system-ui, -apple-system, sans-serif" font-weight="600" font-size="20">K</text></svg>`,
		bg,
	)
}

// GetFavicon serves the favicon for the current theme.
func (h *Handler) GetFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(GenerateFaviconSVG(h.theme.Dark())))
}
