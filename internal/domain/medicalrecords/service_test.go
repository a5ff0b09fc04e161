package medicalrecords

import (
	"context"
	"sync"
	"testing"
	"time"

	"petcast-web/internal/mutation"
	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

type fakeAPI struct {
	mu      sync.Mutex
	records []Record
	calls   int
}

func (f *fakeAPI) List(ctx context.Context) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Record(nil), f.records...), nil
}

func (f *fakeAPI) Get(ctx context.Context, id string) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, nil
}

func (f *fakeAPI) ListByPet(ctx context.Context, petID string) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]Record, 0)
	for _, r := range f.records {
		if r.PetID == petID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAPI) Create(ctx context.Context, in CreateInput) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := Record{ID: "r-new", PetID: in.PetID, ConsultationDate: in.ConsultationDate, Diagnosis: in.Diagnosis}
	f.records = append(f.records, r)
	return r, nil
}

func (f *fakeAPI) Update(ctx context.Context, id string, in UpdateInput) (Record, error) {
	return Record{ID: id}, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.records[:0]
	for _, r := range f.records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	f.records = out
	return nil
}

func day(d int) time.Time { return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC) }

func newTestService(api API) (*Service, *querycache.Cache) {
	cache := querycache.New(querycache.Options{StaleTime: time.Minute})
	return NewService(api, cache, mutation.NewRunner(cache, nil, nil)), cache
}

func TestByPet_NewestFirstAndLatestDerived(t *testing.T) {
	api := &fakeAPI{records: []Record{
		{ID: "a", PetID: "7", ConsultationDate: day(1), Diagnosis: "Otitis"},
		{ID: "b", PetID: "7", ConsultationDate: day(20), Diagnosis: "Control"},
		{ID: "c", PetID: "7", ConsultationDate: day(5), Diagnosis: "Vacuna"},
	}}
	svc, _ := newTestService(api)
	ctx := context.Background()

	st := svc.ByPet(ctx, "7")
	if !st.Ok() || st.Data[0].ID != "b" || st.Data[2].ID != "a" {
		t.Fatalf("expected newest first, got %+v", st.Data)
	}

	latest := svc.Latest(ctx, "7")
	if latest.Data == nil || latest.Data.ID != "b" {
		t.Fatalf("expected latest record b, got %+v", latest.Data)
	}
	if api.calls != 1 {
		t.Fatalf("Latest must reuse the cached list, got %d calls", api.calls)
	}
}

func TestLatest_EmptyHistory(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{})
	if st := svc.Latest(context.Background(), "7"); !st.Ok() || st.Data != nil {
		t.Fatalf("expected success with no latest record, got %+v", st)
	}
}

func TestCreate_InvalidatesPetHistory(t *testing.T) {
	api := &fakeAPI{records: []Record{{ID: "a", PetID: "7", ConsultationDate: day(1), Diagnosis: "Otitis"}}}
	svc, cache := newTestService(api)
	ctx := context.Background()

	svc.ByPet(ctx, "7")
	svc.ByPet(ctx, "8")

	if _, err := svc.Create(ctx, CreateInput{PetID: "7", ConsultationDate: day(10), Diagnosis: "Control"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if info, _ := cache.Inspect(querykeys.MedicalRecordsByPet("7")); !info.Invalidated {
		t.Fatalf("pet 7 history must be invalidated")
	}
	if info, _ := cache.Inspect(querykeys.MedicalRecordsByPet("8")); info.Invalidated {
		t.Fatalf("pet 8 history must stay fresh")
	}
	if st := svc.Latest(ctx, "7"); st.Data == nil || st.Data.ID != "r-new" {
		t.Fatalf("expected the new record as latest, got %+v", st.Data)
	}
}

func TestDelete_FindsPetFromCachedList(t *testing.T) {
	api := &fakeAPI{records: []Record{{ID: "a", PetID: "7", ConsultationDate: day(1), Diagnosis: "Otitis"}}}
	svc, cache := newTestService(api)
	ctx := context.Background()

	svc.List(ctx)
	svc.ByPet(ctx, "7")

	if id, err := svc.Delete(ctx, "a"); err != nil || id != "a" {
		t.Fatalf("Delete = %q, %v", id, err)
	}
	if info, _ := cache.Inspect(querykeys.MedicalRecordsByPet("7")); !info.Invalidated {
		t.Fatalf("pet history must be invalidated after delete")
	}
}

func TestDelete_OnlyPetHistoryCached(t *testing.T) {
	api := &fakeAPI{records: []Record{
		{ID: "a", PetID: "7", ConsultationDate: day(1), Diagnosis: "Otitis"},
		{ID: "b", PetID: "7", ConsultationDate: day(2), Diagnosis: "Control"},
	}}
	svc, cache := newTestService(api)
	ctx := context.Background()

	svc.ByPet(ctx, "7")

	if _, err := svc.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if info, _ := cache.Inspect(querykeys.MedicalRecordsByPet("7")); !info.Invalidated {
		t.Fatalf("pet history must be invalidated even without the record cached")
	}
	if st := svc.ByPet(ctx, "7"); !st.Ok() || len(st.Data) != 1 || st.Data[0].ID != "b" {
		t.Fatalf("deleted record still in history: %+v", st.Data)
	}
}
