package clinicapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"petcast-web/internal/domain/recovery"
	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/session"
)

var ErrMissingToken = errors.New("clinicapi: login response without access token")

// AuthClient implementa session.Authenticator contra POST /auth/login.
type AuthClient struct{ c *httpclient.Client }

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Nombre    string `json:"nombre"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Rol       string `json:"rol"`
}

// loginResponse tolera los nombres de campo de las distintas versiones del user-service.
type loginResponse struct {
	AccessToken       string     `json:"accessToken"`
	AccessTokenSnake  string     `json:"access_token"`
	Token             string     `json:"token"`
	RefreshToken      string     `json:"refreshToken"`
	RefreshTokenSnake string     `json:"refresh_token"`
	User              *loginUser `json:"user"`
	Usuario           *loginUser `json:"usuario"`
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (a *AuthClient) Login(ctx context.Context, in session.Credentials) (session.LoginResult, error) {
	var raw json.RawMessage
	body := loginRequest{Email: strings.TrimSpace(in.Email), Password: in.Password}
	if err := a.c.DoJSON(ctx, http.MethodPost, path("auth", "login"), nil, body, &raw); err != nil {
		return session.LoginResult{}, err
	}
	resp, err := decodeOne[loginResponse](raw)
	if err != nil {
		return session.LoginResult{}, err
	}

	out := session.LoginResult{
		AccessToken:  firstNonEmpty(resp.AccessToken, resp.AccessTokenSnake, resp.Token),
		RefreshToken: firstNonEmpty(resp.RefreshToken, resp.RefreshTokenSnake),
	}
	if out.AccessToken == "" {
		return session.LoginResult{}, ErrMissingToken
	}
	u := resp.User
	if u == nil {
		u = resp.Usuario
	}
	if u != nil {
		out.User = session.BackendUser{
			ID:        u.ID.String(),
			Email:     u.Email,
			Name:      firstNonEmpty(u.Name, u.Nombre),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      firstNonEmpty(u.Role, u.Rol),
		}
	}
	return out, nil
}

// RecoveryClient implementa recovery.API (recuperación por WhatsApp).
type RecoveryClient struct{ c *httpclient.Client }

var _ recovery.API = (*RecoveryClient)(nil)

type recoveryRequest struct {
	Phone       string `json:"telefono"`
	Code        string `json:"codigo,omitempty"`
	NewPassword string `json:"nuevaContrasena,omitempty"`
}

func (r *RecoveryClient) RequestCode(ctx context.Context, phone string) error {
	return r.c.Post(ctx, path("auth", "solicitar-codigo-whatsapp"), recoveryRequest{Phone: phone}, nil)
}

func (r *RecoveryClient) VerifyCode(ctx context.Context, phone, code string) (bool, error) {
	var out struct {
		Valid  *bool `json:"valid"`
		Valido *bool `json:"valido"`
	}
	if err := r.c.Post(ctx, path("auth", "verificar-codigo-whatsapp"), recoveryRequest{Phone: phone, Code: code}, &out); err != nil {
		return false, err
	}
	switch {
	case out.Valid != nil:
		return *out.Valid, nil
	case out.Valido != nil:
		return *out.Valido, nil
	}
	// Sin flag explícito, un 2xx es código válido.
	return true, nil
}

func (r *RecoveryClient) ResetPassword(ctx context.Context, in recovery.ResetInput) error {
	body := recoveryRequest{Phone: in.Phone, Code: in.Code, NewPassword: in.NewPassword}
	return r.c.Post(ctx, path("auth", "reset-contrasena-whatsapp"), body, nil)
}
