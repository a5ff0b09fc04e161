package middleware

import (
	"context"
	"net/http"

	"petcast-web/internal/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionSource es lo que el middleware necesita del manager.
type SessionSource interface {
	Current() (session.Session, bool)
}

// SessionContext:
// - guarda en ctx la ruta del cliente (el hook de 401 la usa para no
//   redirigir en /login).
// - si hay sesión, la deja en ctx. No corta: los guards deciden.
func SessionContext(src SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := session.WithRoute(r.Context(), r.URL.Path)
			if s, ok := src.Current(); ok {
				ctx = context.WithValue(ctx, sessionKey, s)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentSession(ctx context.Context) (session.Session, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}

// RequireAuth redirige a /login si no hay sesión.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentSession(r.Context()); !ok {
			http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles deja pasar solo a los roles indicados. Un rol no permitido va
// a /unauthorized sin cerrar la sesión.
func RequireRoles(roles ...session.Role) func(http.Handler) http.Handler {
	allowed := make(map[session.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := CurrentSession(r.Context())
			if !ok {
				http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
				return
			}
			if _, ok := allowed[s.Role]; !ok {
				http.Redirect(w, r, session.UnauthorizedPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
