package handlers

import "time"

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
	}
}

// CreateShortURLResponse is the response for a successfully shortened URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		ShortCode   string    `doc:"The short code"             example:"1"                                  json:"shortCode"`
		ShortURL    string    `doc:"The full short URL"         example:"http://localhost:8888/1"            json:"shortUrl"`
		OriginalURL string    `doc:"The original URL"           example:"https://example.com/very/long/path" json:"originalUrl"`
		ExpiresAt   time.Time `doc:"When the short URL expires"                                              json:"expiresAt"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"1" path:"code"`
}

// RedirectResponse redirects the client.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// LinkExpiredResponse is the fixed page every failed resolution lands on.
type LinkExpiredResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
