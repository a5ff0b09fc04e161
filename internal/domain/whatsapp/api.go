package whatsapp

import "context"

type API interface {
	Status(ctx context.Context) (Status, error)
	QR(ctx context.Context) (QR, error)
	Send(ctx context.Context, in SendInput) (SendResult, error)
}
