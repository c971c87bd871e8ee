package middleware

import (
	"context"
	"net/http"

	"taskboard/logging"
	"taskboard/repositories"
	"taskboard/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

type contextKey string

const userIDKey contextKey = "userID"

// UserID extracts the authenticated user's id from the request context. The
// second return is false when the request did not pass the auth gate.
func UserID(r *http.Request) (primitive.ObjectID, bool) {
	id, ok := r.Context().Value(userIDKey).(primitive.ObjectID)
	return id, ok
}

// ContextWithUserID stashes a resolved user id the way the auth gate does.
func ContextWithUserID(ctx context.Context, id primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// JWTAuthMiddleware is the access-control gate: it reads the session cookie,
// validates the token, and resolves the encoded user id against the user
// store. A token for a user that no longer exists is rejected the same as an
// invalid one.
func JWTAuthMiddleware(users repositories.UserRepository, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			logging.Logger.Warnf("Event ID: AUTH_MISSING_COOKIE, Description: Session cookie missing for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateToken(cookie.Value)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid session token for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_MALFORMED_SUBJECT, Description: Malformed user id in session token: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if _, err := users.GetByID(r.Context(), userID); err != nil {
			logging.Logger.Warnf("Event ID: AUTH_UNKNOWN_USER, Description: Session token references unknown user %s", claims.UserID)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
