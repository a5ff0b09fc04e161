package recovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"petcast-web/internal/domain/whatsapp"
	"petcast-web/internal/mutation"
	"petcast-web/internal/platform/apierror"
)

const MinPasswordLength = 6

var ErrInvalidCode = errors.New("código inválido o vencido")

type verifyInput struct {
	Phone string
	Code  string
}

// Service no toca el cache: ningún paso cambia datos que la sesión anónima lea.
type Service struct {
	request *mutation.Mutation[string, struct{}]
	verify  *mutation.Mutation[verifyInput, bool]
	reset   *mutation.Mutation[ResetInput, struct{}]
}

func NewService(api API, runner *mutation.Runner) *Service {
	return &Service{
		request: mutation.New(runner, mutation.Spec[string, struct{}]{
			Name: "recovery.request",
			Do: func(ctx context.Context, phone string) (struct{}, error) {
				return struct{}{}, api.RequestCode(ctx, phone)
			},
			Success: "Código enviado por WhatsApp",
			Failure: "Error al enviar el código",
		}),
		verify: mutation.New(runner, mutation.Spec[verifyInput, bool]{
			Name: "recovery.verify",
			Do: func(ctx context.Context, in verifyInput) (bool, error) {
				ok, err := api.VerifyCode(ctx, in.Phone, in.Code)
				if err == nil && !ok {
					err = &apierror.Error{Status: http.StatusBadRequest, Message: "Código inválido o vencido", Cause: ErrInvalidCode}
				}
				return ok, err
			},
			Success: "Código verificado",
			Failure: "Código inválido o vencido",
		}),
		reset: mutation.New(runner, mutation.Spec[ResetInput, struct{}]{
			Name: "recovery.reset",
			Do: func(ctx context.Context, in ResetInput) (struct{}, error) {
				return struct{}{}, api.ResetPassword(ctx, in)
			},
			Success: "Contraseña actualizada, ya puedes iniciar sesión",
			Failure: "Error al restablecer la contraseña",
		}),
	}
}

func (s *Service) RequestCode(ctx context.Context, phone string) error {
	if phone = whatsapp.NormalizePhone(phone); phone == "" {
		return fmt.Errorf("%w: teléfono requerido", apierror.ErrInvalidInput)
	}
	_, err := s.request.Mutate(ctx, phone)
	return err
}

func (s *Service) VerifyCode(ctx context.Context, phone, code string) error {
	in := verifyInput{Phone: whatsapp.NormalizePhone(phone), Code: strings.TrimSpace(code)}
	if in.Phone == "" || in.Code == "" {
		return fmt.Errorf("%w: teléfono y código son obligatorios", apierror.ErrInvalidInput)
	}
	_, err := s.verify.Mutate(ctx, in)
	return err
}

func (s *Service) ResetPassword(ctx context.Context, in ResetInput) error {
	in.Phone = whatsapp.NormalizePhone(in.Phone)
	in.Code = strings.TrimSpace(in.Code)
	if in.Phone == "" || in.Code == "" {
		return fmt.Errorf("%w: teléfono y código son obligatorios", apierror.ErrInvalidInput)
	}
	if len([]rune(in.NewPassword)) < MinPasswordLength {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", apierror.ErrInvalidInput, MinPasswordLength)
	}
	_, err := s.reset.Mutate(ctx, in)
	return err
}
