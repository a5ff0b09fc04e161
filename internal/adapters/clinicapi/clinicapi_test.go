package clinicapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"petcast-web/internal/domain/appointments"
	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/session"
)

func newBackend(t *testing.T, mux *http.ServeMux, token *atomic.Value, unauthorized *int32) *Backend {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	b, err := New(Config{
		UserURL:        srv.URL,
		PetURL:         srv.URL,
		AppointmentURL: srv.URL,
		StatisticsURL:  srv.URL,
		Timeout:        2 * time.Second,
		Token: func(context.Context) string {
			if token == nil {
				return ""
			}
			s, _ := token.Load().(string)
			return s
		},
		OnUnauthorized: func(context.Context) {
			if unauthorized != nil {
				atomic.AddInt32(unauthorized, 1)
			}
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestNew_RequiresEveryBaseURL(t *testing.T) {
	_, err := New(Config{UserURL: "http://user", PetURL: "http://pet", AppointmentURL: "http://appt"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestLogin_ToleratesFieldNames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "ana@vet.cl" || body.Password != "secreta" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"statusCode":401,"message":"Credenciales inválidas"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"tok-1","usuario":{"id":42,"email":"ana@vet.cl","nombre":"Ana Pérez","rol":"VETERINARIO"}}`)
	})
	b := newBackend(t, mux, nil, nil)

	res, err := b.Auth.Login(context.Background(), session.Credentials{Email: " ana@vet.cl ", Password: "secreta"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken != "tok-1" || res.User.ID != "42" || res.User.Role != "VETERINARIO" || res.User.Name != "Ana Pérez" {
		t.Fatalf("unexpected login result %+v", res)
	}

	_, err = b.Auth.Login(context.Background(), session.Credentials{Email: "ana@vet.cl", Password: "mala"})
	if httpclient.StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestPets_TokenReadPerRequestAndTolerantDecoding(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /pets/owner/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		_, _ = io.WriteString(w, `{"data":[{"id":7,"name":"Milo","species":"Perro","age":"3","weight":"12,5","sex":"MALE","qrCode":"QR-7","ownerId":3,"status":"ACTIVE"}]}`)
	})

	var token atomic.Value
	token.Store("a")
	b := newBackend(t, mux, &token, nil)

	list, err := b.Pets.ListByOwner(context.Background(), "3")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	p := list[0]
	if p.ID != "7" || p.OwnerID != "3" || *p.Age != 3 || *p.Weight != 12.5 {
		t.Fatalf("unexpected pet %+v", p)
	}

	token.Store("b")
	if _, err := b.Pets.ListByOwner(context.Background(), "3"); err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if seen[0] != "Bearer a" || seen[1] != "Bearer b" {
		t.Fatalf("token must be read on every request, got %v", seen)
	}
}

func TestUnauthorized_HookAndSentinel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /appointments/today", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	var hits int32
	b := newBackend(t, mux, nil, &hits)

	_, err := b.Appointments.Today(context.Background())
	if !errors.Is(err, httpclient.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("unauthorized hook must fire once, got %d", hits)
	}
}

func TestAppointments_CreateSendsNumericIDsAndTransitionPath(t *testing.T) {
	var mu sync.Mutex
	var created map[string]any
	var transitioned string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /appointments", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		_ = json.NewDecoder(r.Body).Decode(&created)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"a1","petId":7,"ownerId":3,"dateTime":"2026-11-02T09:30:00","reason":"Vacuna","status":"SCHEDULED"}`)
	})
	mux.HandleFunc("PATCH /appointments/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		transitioned = r.PathValue("id") + "/" + r.PathValue("action")
		mu.Unlock()
		_, _ = io.WriteString(w, `{"id":"a1","petId":7,"ownerId":3,"status":"CONFIRMED"}`)
	})
	b := newBackend(t, mux, nil, nil)
	ctx := context.Background()

	when := time.Date(2026, 11, 2, 9, 30, 0, 0, time.UTC)
	a, err := b.Appointments.Create(ctx, appointments.CreateInput{PetID: "7", OwnerID: "3", DateTime: when, Reason: "Vacuna"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	mu.Lock()
	got := created
	mu.Unlock()
	if got["petId"] != float64(7) || got["ownerId"] != float64(3) {
		t.Fatalf("ids must travel as numbers, got %v", got)
	}
	if _, ok := got["vetId"]; ok {
		t.Fatalf("empty vetId must be omitted")
	}
	if a.DateTime.Hour() != 9 || a.PetID != "7" {
		t.Fatalf("unexpected appointment %+v", a)
	}

	if _, err := b.Appointments.Transition(ctx, "a1", appointments.TransitionConfirm); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if transitioned != "a1/confirm" {
		t.Fatalf("unexpected transition path %q", transitioned)
	}
}

func TestStatistics_SpanishFieldsAndMonthMap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /statistics", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"totalMascotas":12,"totalDuenos":"8","totalCitas":30}`)
	})
	mux.HandleFunc("GET /statistics/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"totalPets":12,"citasPorEstado":[{"estado":"SCHEDULED","cantidad":4}],"petsBySpecies":{"Perro":9,"Gato":3}}`)
	})
	mux.HandleFunc("GET /statistics/citas-por-mes", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"2026-02":5,"2026-01":2}`)
	})
	b := newBackend(t, mux, nil, nil)
	ctx := context.Background()

	sum, err := b.Statistics.Summary(ctx)
	if err != nil || sum.TotalPets != 12 || sum.TotalOwners != 8 || sum.TotalAppointments != 30 {
		t.Fatalf("Summary = %+v, %v", sum, err)
	}

	dash, err := b.Statistics.Dashboard(ctx)
	if err != nil || dash.AppointmentsByStatus["SCHEDULED"] != 4 || dash.PetsBySpecies["Perro"] != 9 {
		t.Fatalf("Dashboard = %+v, %v", dash, err)
	}

	months, err := b.Statistics.AppointmentsPerMonth(ctx)
	if err != nil || len(months) != 2 || months[0].Month != "2026-01" || months[1].Count != 5 {
		t.Fatalf("AppointmentsPerMonth = %+v, %v", months, err)
	}
}
