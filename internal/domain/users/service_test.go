package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"petcast-web/internal/mutation"
	"petcast-web/internal/notify"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/platform/respond"
	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"

	"github.com/go-chi/chi/v5"
)

type fakeAPI struct {
	mu      sync.Mutex
	users   map[string]User
	created []CreateInput
	calls   map[string]int
}

func newFakeAPI(seed ...User) *fakeAPI {
	f := &fakeAPI{users: map[string]User{}, calls: map[string]int{}}
	for _, u := range seed {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeAPI) filter(role Kind) []User {
	out := make([]User, 0)
	for _, u := range f.users {
		if role == "" || u.Role == string(role) {
			out = append(out, u)
		}
	}
	return out
}

func (f *fakeAPI) List(ctx context.Context) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	return f.filter(""), nil
}

func (f *fakeAPI) ListOwners(ctx context.Context) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["owners"]++
	return f.filter(KindOwner), nil
}

func (f *fakeAPI) ListVets(ctx context.Context) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["vets"]++
	return f.filter(KindVet), nil
}

func (f *fakeAPI) Get(ctx context.Context, id string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return User{}, &httpclient.HTTPError{StatusCode: http.StatusNotFound}
	}
	return u, nil
}

func (f *fakeAPI) Create(ctx context.Context, in CreateInput) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	u := User{ID: "new", FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Role: string(in.Role)}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeAPI) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return User{}, &httpclient.HTTPError{StatusCode: http.StatusNotFound}
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	f.users[id] = u
	return u, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return &httpclient.HTTPError{StatusCode: http.StatusNotFound, Body: `{"statusCode":404,"message":"Usuario no encontrado"}`}
	}
	delete(f.users, id)
	return nil
}

func newTestService(api API) (*Service, *querycache.Cache, *notify.Center) {
	cache := querycache.New(querycache.Options{StaleTime: time.Minute})
	notes := notify.NewCenter(0)
	return NewService(api, cache, mutation.NewRunner(cache, notes, nil)), cache, notes
}

func TestCreateVet_RequiresPasswordAndSetsRole(t *testing.T) {
	api := newFakeAPI()
	svc, _, _ := newTestService(api)
	ctx := context.Background()

	in := CreateInput{FirstName: "Vera", LastName: "Paz", Email: "vera@petcast.com"}
	if _, err := svc.CreateVet(ctx, in); !errors.Is(err, apierror.ErrInvalidInput) {
		t.Fatalf("expected missing password to be rejected, got %v", err)
	}
	if len(api.created) != 0 {
		t.Fatalf("no default password may be sent to the backend")
	}

	in.Password = "s3cret!"
	if _, err := svc.CreateVet(ctx, in); err != nil {
		t.Fatalf("CreateVet: %v", err)
	}
	if api.created[0].Role != KindVet || api.created[0].Password != "s3cret!" {
		t.Fatalf("unexpected payload %+v", api.created[0])
	}
}

func TestUpdateOwner_InvalidatesOwnerScopedKeys(t *testing.T) {
	api := newFakeAPI(User{ID: "3", FirstName: "Ana", Role: string(KindOwner)})
	svc, cache, _ := newTestService(api)
	ctx := context.Background()

	svc.Owners(ctx)
	svc.Vets(ctx)
	svc.Get(ctx, "3")

	phone := "+5491100000000"
	if _, err := svc.UpdateOwner(ctx, "3", UpdateInput{Phone: &phone}); err != nil {
		t.Fatalf("UpdateOwner: %v", err)
	}
	for _, k := range []querycache.Key{querykeys.Owners(), querykeys.User("3")} {
		if info, ok := cache.Inspect(k); !ok || !info.Invalidated {
			t.Fatalf("expected %s invalidated", k)
		}
	}
	if info, _ := cache.Inspect(querykeys.Vets()); info.Invalidated {
		t.Fatalf("vets list must not be touched by an owner update")
	}
}

func TestDeleteOwner12_RemovedFromNextList(t *testing.T) {
	api := newFakeAPI(
		User{ID: "12", FirstName: "Pablo", Role: string(KindOwner)},
		User{ID: "13", FirstName: "Sofía", Role: string(KindOwner)},
	)
	svc, _, notes := newTestService(api)

	r := chi.NewRouter()
	r.Use(respond.Notifications(notes))
	RegisterAdminRoutes(r, svc)

	listIDs := func() []string {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/owners", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("list status %d: %s", rr.Code, rr.Body.String())
		}
		var env struct {
			Data []User `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		ids := make([]string, 0, len(env.Data))
		for _, u := range env.Data {
			ids = append(ids, u.ID)
		}
		return ids
	}

	if ids := listIDs(); len(ids) != 2 {
		t.Fatalf("expected two owners, got %v", ids)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/owners/12", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"id":"12"`) {
		t.Fatalf("delete: %d %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Dueño eliminado exitosamente") {
		t.Fatalf("expected success notification in the response, got %s", rr.Body.String())
	}

	for _, id := range listIDs() {
		if id == "12" {
			t.Fatalf("owner 12 still listed after delete")
		}
	}

	// Repetir el delete falla en el backend; se informa el mensaje del servidor.
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/owners/12", nil))
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "Usuario no encontrado") {
		t.Fatalf("expected 404 with server message, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestAdminUsers_ListsEveryRole(t *testing.T) {
	api := newFakeAPI(
		User{ID: "1", FirstName: "Admin", Role: string(KindAdmin)},
		User{ID: "2", FirstName: "Laura", Role: string(KindVet)},
		User{ID: "3", FirstName: "Ana", Role: string(KindOwner)},
	)
	svc, _, _ := newTestService(api)

	r := chi.NewRouter()
	RegisterAdminRoutes(r, svc)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /users = %d", rr.Code)
	}
	var env struct {
		Data []User `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil || len(env.Data) != 3 {
		t.Fatalf("expected 3 users, got %+v (%v)", env.Data, err)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/2", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Laura") {
		t.Fatalf("GET /users/2 = %d %s", rr.Code, rr.Body.String())
	}
	if api.calls["list"] != 1 {
		t.Fatalf("expected one backend list call, got %d", api.calls["list"])
	}
}
