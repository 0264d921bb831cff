package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/arko-chat/adbridge/internal/session"
)

type contextKey string

const hostKey = contextKey("host")

// HostSession makes sure every request carries a host session, issuing a
// cookie on first contact.
func HostSession(codec *session.Codec, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hostID, err := codec.Read(r)
			if err != nil {
				hostID, err = codec.Issue(w)
				if err != nil {
					logger.Error("failed to issue host session", "err", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				logger.Debug("host session issued", "host", hostID)
			}
			next.ServeHTTP(w, r.WithContext(setHostContext(r.Context(), hostID)))
		})
	}
}

// RequireHost rejects requests that do not already carry a valid host
// session.
func RequireHost(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hostID, err := codec.Read(r)
			if err != nil {
				http.Error(w, "missing host session", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(setHostContext(r.Context(), hostID)))
		})
	}
}

func GetHostID(ctx context.Context) string {
	if id, ok := ctx.Value(hostKey).(string); ok {
		return id
	}
	return ""
}

func setHostContext(ctx context.Context, hostID string) context.Context {
	return context.WithValue(ctx, hostKey, hostID)
}
