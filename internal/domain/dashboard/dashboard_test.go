package dashboard

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"petcast-web/internal/domain/appointments"
	"petcast-web/internal/domain/medicalrecords"
	"petcast-web/internal/domain/pets"
	"petcast-web/internal/mutation"
	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// Los fakes embeben la interfaz: solo implementan lo que usa el dashboard.
type petsAPI struct {
	pets.API
	err error
}

func (f petsAPI) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []pets.Pet{{ID: "7", Name: "Milo", OwnerID: ownerID}}, nil
}

type appointmentsAPI struct{ appointments.API }

func (appointmentsAPI) ListByOwner(ctx context.Context, ownerID string) ([]appointments.Appointment, error) {
	return []appointments.Appointment{
		{ID: "1", OwnerID: ownerID, DateTime: now.Add(48 * time.Hour), Status: appointments.StatusScheduled},
		{ID: "2", OwnerID: ownerID, DateTime: now.Add(-time.Hour), Status: appointments.StatusScheduled},
		{ID: "3", OwnerID: ownerID, DateTime: now.Add(time.Hour), Status: appointments.StatusConfirmed},
		{ID: "4", OwnerID: ownerID, DateTime: now.Add(2 * time.Hour), Status: appointments.StatusCancelled},
	}, nil
}

func newOwnerDashboard(p pets.API) *Service {
	cache := querycache.New(querycache.Options{StaleTime: time.Minute})
	runner := mutation.NewRunner(cache, nil, nil)
	petSvc := pets.NewService(p, cache, runner)
	return &Service{
		Pets:         petSvc,
		Appointments: appointments.NewService(appointmentsAPI{}, cache, runner, petSvc),
		Now:          func() time.Time { return now },
	}
}

func TestOwner_UpcomingOnlyActiveAndSorted(t *testing.T) {
	home := newOwnerDashboard(petsAPI{}).Owner(context.Background(), "3")

	if len(home.Pets.Data) != 1 || home.Pets.Error != "" {
		t.Fatalf("unexpected pets section %+v", home.Pets)
	}
	got := home.Upcoming.Data
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "1" {
		t.Fatalf("unexpected upcoming %+v", got)
	}
	if home.Unauthorized() {
		t.Fatalf("no section failed with 401")
	}
}

func TestOwner_SectionErrorsAreIndependent(t *testing.T) {
	svc := newOwnerDashboard(petsAPI{err: &httpclient.HTTPError{StatusCode: http.StatusBadGateway}})
	home := svc.Owner(context.Background(), "3")

	if home.Pets.Error != "Error al cargar tus mascotas" {
		t.Fatalf("expected fallback message, got %q", home.Pets.Error)
	}
	if len(home.Upcoming.Data) != 2 {
		t.Fatalf("appointments must load even if pets failed")
	}
}

func TestOwner_UnauthorizedBubblesUp(t *testing.T) {
	svc := newOwnerDashboard(petsAPI{err: &httpclient.HTTPError{StatusCode: http.StatusUnauthorized}})
	if !svc.Owner(context.Background(), "3").Unauthorized() {
		t.Fatalf("a 401 in any section must mark the page unauthorized")
	}
}

type recordsAPI struct {
	medicalrecords.API
	calls *int32
}

func (f recordsAPI) ListByPet(ctx context.Context, petID string) ([]medicalrecords.Record, error) {
	atomic.AddInt32(f.calls, 1)
	return []medicalrecords.Record{{ID: "40", PetID: petID, Diagnosis: "Otitis"}}, nil
}

func TestOwner_PrefetchesPetHistory(t *testing.T) {
	cache := querycache.New(querycache.Options{StaleTime: time.Minute})
	runner := mutation.NewRunner(cache, nil, nil)
	petSvc := pets.NewService(petsAPI{}, cache, runner)
	var calls int32
	records := medicalrecords.NewService(recordsAPI{calls: &calls}, cache, runner)
	svc := &Service{
		Pets:           petSvc,
		MedicalRecords: records,
		Appointments:   appointments.NewService(appointmentsAPI{}, cache, runner, petSvc),
		Now:            func() time.Time { return now },
	}

	svc.Owner(context.Background(), "3")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := querycache.Peek[[]medicalrecords.Record](cache, querykeys.MedicalRecordsByPet("7")); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("history of pet 7 was not prefetched")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Abrir la ficha ya no va al backend.
	st := records.ByPet(context.Background(), "7")
	if n := atomic.LoadInt32(&calls); len(st.Data) != 1 || st.Data[0].Diagnosis != "Otitis" || n != 1 {
		t.Fatalf("history = %+v after %d calls", st.Data, n)
	}
}

func TestUpcoming_Limit(t *testing.T) {
	var list []appointments.Appointment
	for i := 0; i < 8; i++ {
		list = append(list, appointments.Appointment{DateTime: now.Add(time.Duration(8-i) * time.Hour), Status: appointments.StatusScheduled})
	}
	got := Upcoming(list, now, 3)
	if len(got) != 3 || !got[0].DateTime.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected %+v", got)
	}
	if !list[0].DateTime.Equal(now.Add(8 * time.Hour)) {
		t.Fatalf("input slice must not be reordered")
	}
}
