package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/shorturl/internal/shortener"
)

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-short-url",
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short URL",
		Description: "Returns a short code for the URL, reusing an unexpired one when the URL was shortened before.",
		Tags:        []string{"URLs"},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "link-expired",
		Method:      http.MethodGet,
		Path:        DefaultExpiredPath,
		Summary:     "Link not found page",
		Tags:        []string{"URLs"},
	}, urlHandler.LinkExpired)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL, or to the link-expired page when the code is unknown or expired.",
		Tags:        []string{"URLs"},
		Responses: map[string]*huma.Response{
			"302": {Description: "Redirect to the original URL or the link-expired page"},
		},
	}, urlHandler.RedirectToURL)
}

// RegisterReservedPaths answers well-known file paths with a plain 404 so they never
// reach the code route.
func RegisterReservedPaths(router chi.Router) {
	for _, p := range shortener.ReservedPaths() {
		router.Get("/"+p, http.NotFound)
	}
}
