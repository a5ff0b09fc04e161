package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry lee el claim exp sin verificar la firma: la verificación es
// cosa del backend, acá solo evitamos restaurar un token ya vencido.
// ok=false si el token no es un JWT o no trae exp.
func tokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func tokenExpired(raw string, now time.Time) bool {
	exp, ok := tokenExpiry(raw)
	return ok && !now.Before(exp)
}
