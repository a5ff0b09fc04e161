package session

import (
	"context"
	"strings"
)

// Keys del storage persistente.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Rutas fijas del cliente.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Session es el usuario autenticado. Siempre con AccessToken no vacío.
type Session struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	Role         Role   `json:"role"`
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
}

func (s Session) Valid() bool {
	return strings.TrimSpace(s.AccessToken) != "" && s.Role.Valid()
}

// storedUser es lo que va bajo la key "user".
type storedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type State string

const (
	StateAnonymous      State = "ANONYMOUS"
	StateAuthenticating State = "AUTHENTICATING"
	StateAuthenticated  State = "AUTHENTICATED"
)

// Credentials es lo que envía el formulario de login.
type Credentials struct {
	Email    string
	Password string
}

// BackendUser es el usuario tal como lo devuelve /auth/login.
type BackendUser struct {
	ID        string
	Email     string
	Name      string
	FirstName string
	LastName  string
	Role      string
}

func (u BackendUser) DisplayName() string {
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Email
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         BackendUser
}

// Authenticator hace el intercambio de credenciales contra el user-service.
type Authenticator interface {
	Login(ctx context.Context, in Credentials) (LoginResult, error)
}

type routeKey struct{}

// WithRoute guarda en ctx la ruta del cliente que originó la llamada.
func WithRoute(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, routeKey{}, path)
}

func RouteFrom(ctx context.Context) string {
	v, _ := ctx.Value(routeKey{}).(string)
	return v
}

// IsLoginRoute cubre /login y sus subrutas (recuperación de contraseña).
func IsLoginRoute(path string) bool {
	return path == LoginPath || strings.HasPrefix(path, LoginPath+"/")
}
