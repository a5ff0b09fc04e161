// Package recovery implementa la recuperación de contraseña por WhatsApp:
// pedir código, verificarlo y fijar la contraseña nueva.
package recovery

import "context"

type API interface {
	RequestCode(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) (bool, error)
	ResetPassword(ctx context.Context, in ResetInput) error
}

type ResetInput struct {
	Phone       string `json:"phone"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}
