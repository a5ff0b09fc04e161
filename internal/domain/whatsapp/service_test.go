package whatsapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"petcast-web/internal/mutation"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

type fakeAPI struct {
	connected bool
	qrCalls   int
	sent      []SendInput
}

func (f *fakeAPI) Status(ctx context.Context) (Status, error) {
	if f.connected {
		return Status{Connected: true, State: "open"}, nil
	}
	return Status{State: "close"}, nil
}

func (f *fakeAPI) QR(ctx context.Context) (QR, error) {
	f.qrCalls++
	return QR{QR: "data:image/png;base64,AAA"}, nil
}

func (f *fakeAPI) Send(ctx context.Context, in SendInput) (SendResult, error) {
	f.sent = append(f.sent, in)
	return SendResult{Success: true, MessageID: "m1"}, nil
}

func newTestService(api API) (*Service, *querycache.Cache) {
	cache := querycache.New(querycache.Options{StaleTime: time.Minute})
	return NewService(api, cache, mutation.NewRunner(cache, nil, nil)), cache
}

func TestQR_SkippedWhenConnected(t *testing.T) {
	api := &fakeAPI{connected: true}
	svc, _ := newTestService(api)
	ctx := context.Background()

	svc.Status(ctx)
	if st := svc.QR(ctx); st.Status != querycache.StatusIdle || api.qrCalls != 0 {
		t.Fatalf("QR must not be requested while connected, got %+v calls=%d", st, api.qrCalls)
	}

	api.connected = false
	svc2, _ := newTestService(api)
	svc2.Status(ctx)
	if st := svc2.QR(ctx); st.Data.QR == "" || api.qrCalls != 1 {
		t.Fatalf("expected QR when disconnected, got %+v", st)
	}
}

func TestSend_NormalizesPhoneAndInvalidatesStatus(t *testing.T) {
	api := &fakeAPI{connected: true}
	svc, cache := newTestService(api)
	ctx := context.Background()
	svc.Status(ctx)

	if _, err := svc.Send(ctx, SendInput{Phone: "+57 300-123 4567", Message: " hola "}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := api.sent[0]; got.Phone != "+573001234567" || got.Message != "hola" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if info, _ := cache.Inspect(querykeys.WhatsAppStatus()); !info.Invalidated {
		t.Fatalf("status must be invalidated after a send")
	}
}

func TestSend_RequiresPhoneAndMessage(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newTestService(api)
	for _, in := range []SendInput{{Phone: "+", Message: "x"}, {Phone: "300", Message: "  "}} {
		if _, err := svc.Send(context.Background(), in); !errors.Is(err, apierror.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
	if len(api.sent) != 0 {
		t.Fatalf("invalid input must not reach the backend")
	}
}
