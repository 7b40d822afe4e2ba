package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorturl/internal/shortener"
	"go.uber.org/zap"
)

// User-facing messages. Internal error detail never reaches the client.
const (
	MsgInvalidURL    = "Please provide a valid URL."
	MsgNotConfigured = "URL store is not configured. Cannot create short URL."
	MsgTryAgain      = "Could not create short URL. Please try again later."
)

// DefaultExpiredPath is where unresolvable codes are redirected.
const DefaultExpiredPath = "/link-expired"

const linkExpiredPage = `<!DOCTYPE html>
<html>
<head><title>Link Not Found</title></head>
<body>
<h1>Link Not Found</h1>
<p>The link you are trying to access is either invalid, has expired, or has been deleted.</p>
<p><a href="/">Create a new short link</a></p>
</body>
</html>
`

// LinkService is the shortening and resolution core used by the handlers.
type LinkService interface {
	Shorten(ctx context.Context, longURL string) (*shortener.Record, error)
	Resolve(ctx context.Context, code string) (string, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service     LinkService
	baseURL     string
	expiredPath string
	logger      *zap.Logger
}

// NewURLHandler creates a new URL handler. Short URLs are built as baseURL + "/" + code.
func NewURLHandler(service LinkService, baseURL, expiredPath string, logger *zap.Logger) *URLHandler {
	if expiredPath == "" {
		expiredPath = DefaultExpiredPath
	}

	return &URLHandler{
		service:     service,
		baseURL:     strings.TrimRight(baseURL, "/"),
		expiredPath: expiredPath,
		logger:      logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	record, err := h.service.Shorten(ctx, req.Body.URL)
	if err != nil {
		return nil, h.shortenError(err)
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, record.Code)

	resp := &CreateShortURLResponse{}
	resp.Location = fullShortURL
	resp.Body.ShortCode = string(record.Code)
	resp.Body.ShortURL = fullShortURL
	resp.Body.OriginalURL = record.OriginalURL
	resp.Body.ExpiresAt = record.ExpiresAt

	return resp, nil
}

func (h *URLHandler) shortenError(err error) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest(MsgInvalidURL)
	case errors.Is(err, shortener.ErrNotConfigured):
		h.logger.Error("shorten rejected: store not configured")

		return huma.Error500InternalServerError(MsgNotConfigured)
	default:
		h.logger.Error("failed to shorten url", zap.Error(err))

		return huma.Error503ServiceUnavailable(MsgTryAgain)
	}
}

// RedirectToURL never fails with a server error: anything other than a live code
// redirects to the expired page.
func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	if shortener.IsReserved(req.Code) {
		return nil, huma.Error404NotFound("Not Found")
	}

	target, err := h.service.Resolve(ctx, req.Code)
	if err != nil {
		if !errors.Is(err, shortener.ErrNotFound) {
			h.logger.Warn("resolution failed",
				zap.String("code", req.Code),
				zap.Error(err),
			)
		}

		target = h.expiredPath
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: target,
	}, nil
}

func (h *URLHandler) LinkExpired(_ context.Context, _ *struct{}) (*LinkExpiredResponse, error) {
	return &LinkExpiredResponse{
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(linkExpiredPage),
	}, nil
}
