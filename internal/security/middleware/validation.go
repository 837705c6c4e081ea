package middleware

import (
	"log/slog"
	"mime"
	"net/http"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
)

// ValidateJSONContentType ensures request bodies on POST are JSON.
// Requests without a body pass through so the handler can report the
// missing fields.
func ValidateJSONContentType(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			mediaType, _, err := mime.ParseMediaType(contentType)
			if err != nil || mediaType != "application/json" {
				log.Warn("invalid content type",
					slog.String("path", r.URL.Path),
					slog.String("content_type", contentType),
				)
				writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", domain.KindValidation)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
