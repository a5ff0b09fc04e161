package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"petcast-web/internal/mutation"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

type Service struct {
	api   API
	cache *querycache.Cache
	send  *mutation.Mutation[SendInput, SendResult]
}

func NewService(api API, cache *querycache.Cache, runner *mutation.Runner) *Service {
	s := &Service{api: api, cache: cache}
	s.send = mutation.New(runner, mutation.Spec[SendInput, SendResult]{
		Name: "whatsapp.send",
		Do:   api.Send,
		Changes: func(SendInput, SendResult) []querykeys.Change {
			return []querykeys.Change{{Resource: querykeys.ResourceWhatsApp}}
		},
		Success: "Mensaje enviado exitosamente",
		Failure: "Error al enviar el mensaje",
	})
	return s
}

func (s *Service) Status(ctx context.Context) querycache.State[Status] {
	return querycache.Use(ctx, s.cache, querycache.Query[Status]{Key: querykeys.WhatsAppStatus(), Fetch: s.api.Status, Enabled: true})
}

// QR solo se pide mientras la conexión no esté lista.
func (s *Service) QR(ctx context.Context) querycache.State[QR] {
	connected := false
	if st, ok := querycache.Peek[Status](s.cache, querykeys.WhatsAppStatus()); ok {
		connected = st.Connected
	}
	return querycache.Use(ctx, s.cache, querycache.Query[QR]{Key: querykeys.WhatsAppQR(), Fetch: s.api.QR, Enabled: !connected})
}

func (s *Service) Send(ctx context.Context, in SendInput) (SendResult, error) {
	in.Phone = NormalizePhone(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	if in.Phone == "" || in.Message == "" {
		return SendResult{}, fmt.Errorf("%w: teléfono y mensaje son obligatorios", apierror.ErrInvalidInput)
	}
	return s.send.Mutate(ctx, in)
}

func (s *Service) Pending() bool { return s.send.IsPending() }

// NormalizePhone deja solo dígitos y un '+' inicial.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 && strings.HasPrefix(b.String(), "+") {
		return ""
	}
	return b.String()
}
