package mutation

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"petcast-web/internal/notify"
	"petcast-web/internal/platform/apierror"
	"petcast-web/internal/platform/httpclient"
	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

type updatePetInput struct {
	ID      string
	OwnerID string
	Name    string
}

func seed(t *testing.T, c *querycache.Cache, keys ...querycache.Key) {
	t.Helper()
	for _, k := range keys {
		st := querycache.Use(context.Background(), c, querycache.Query[string]{
			Key: k, Enabled: true,
			Fetch: func(context.Context) (string, error) { return "v1", nil },
		})
		if st.Err != nil {
			t.Fatalf("seed %s: %v", k, st.Err)
		}
	}
}

func petUpdate(r *Runner, do func(context.Context, updatePetInput) (string, error)) *Mutation[updatePetInput, string] {
	return New(r, Spec[updatePetInput, string]{
		Name: "pets.update",
		Do:   do,
		Changes: func(in updatePetInput, _ string) []querykeys.Change {
			return []querykeys.Change{{
				Resource: querykeys.ResourcePet,
				ID:       in.ID,
				Scopes:   map[string]string{querykeys.ScopeOwner: in.OwnerID},
			}}
		},
		Success: "Mascota actualizada exitosamente",
		Failure: "Error al actualizar la mascota",
	})
}

func TestMutate_SuccessInvalidatesDependentsAndNotifies(t *testing.T) {
	c := querycache.New(querycache.Options{StaleTime: time.Minute})
	notes := notify.NewCenter(10)
	seed(t, c, querykeys.Pets(), querykeys.Pet("7"), querykeys.PetsByOwner("3"), querykeys.PetsByOwner("4"))

	m := petUpdate(NewRunner(c, notes, nil), func(ctx context.Context, in updatePetInput) (string, error) {
		return in.ID, nil
	})

	out, err := m.Mutate(context.Background(), updatePetInput{ID: "7", OwnerID: "3", Name: "Milo"})
	if err != nil || out != "7" {
		t.Fatalf("unexpected result %q %v", out, err)
	}

	for _, k := range []querycache.Key{querykeys.Pets(), querykeys.Pet("7"), querykeys.PetsByOwner("3")} {
		if info, _ := c.Inspect(k); !info.Invalidated {
			t.Fatalf("%s should be invalidated", k)
		}
	}
	if info, _ := c.Inspect(querykeys.PetsByOwner("4")); info.Invalidated {
		t.Fatalf("other owner's list must stay fresh")
	}

	got := notes.Drain()
	if len(got) != 1 || got[0].Level != notify.LevelSuccess || got[0].Message != "Mascota actualizada exitosamente" {
		t.Fatalf("unexpected notifications %+v", got)
	}
}

func TestMutate_FailureLeavesCacheIntact(t *testing.T) {
	c := querycache.New(querycache.Options{StaleTime: time.Minute})
	notes := notify.NewCenter(10)
	seed(t, c, querykeys.Pets(), querykeys.Pet("7"))

	m := petUpdate(NewRunner(c, notes, nil), func(context.Context, updatePetInput) (string, error) {
		return "", &httpclient.HTTPError{
			StatusCode: http.StatusBadRequest,
			Body:       `{"statusCode":400,"message":["weight must be a positive number"],"error":"Bad Request"}`,
		}
	})

	_, err := m.Mutate(context.Background(), updatePetInput{ID: "7", OwnerID: "3"})
	var aerr *apierror.Error
	if !errors.As(err, &aerr) {
		t.Fatalf("expected *apierror.Error, got %T", err)
	}
	if aerr.Message != "weight must be a positive number" || aerr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error %+v", aerr)
	}

	for _, info := range c.Entries(querycache.Key{}) {
		if info.Invalidated {
			t.Fatalf("failed mutation invalidated %s", info.Key)
		}
	}
	if v, ok := querycache.Peek[string](c, querykeys.Pet("7")); !ok || v != "v1" {
		t.Fatalf("prior data must be intact")
	}

	got := notes.Drain()
	if len(got) != 1 || got[0].Level != notify.LevelError || got[0].Message != aerr.Message {
		t.Fatalf("unexpected notifications %+v", got)
	}
}

func TestMutate_GenericServerMessageFallsBack(t *testing.T) {
	notes := notify.NewCenter(10)
	m := petUpdate(NewRunner(nil, notes, nil), func(context.Context, updatePetInput) (string, error) {
		return "", &httpclient.HTTPError{StatusCode: 500, Body: `{"statusCode":500,"message":"Internal server error"}`}
	})

	_, err := m.Mutate(context.Background(), updatePetInput{ID: "7"})
	if err == nil || err.Error() != "Error al actualizar la mascota" {
		t.Fatalf("expected canned fallback, got %v", err)
	}
}

func TestMutate_UnauthorizedHasNoToast(t *testing.T) {
	notes := notify.NewCenter(10)
	m := petUpdate(NewRunner(nil, notes, nil), func(context.Context, updatePetInput) (string, error) {
		return "", &httpclient.HTTPError{StatusCode: http.StatusUnauthorized}
	})

	_, err := m.Mutate(context.Background(), updatePetInput{ID: "7"})
	if !errors.Is(err, httpclient.ErrUnauthorized) {
		t.Fatalf("expected unauthorized to stay matchable, got %v", err)
	}
	if notes.Len() != 0 {
		t.Fatalf("session expiry must not produce a toast")
	}
}

func TestMutate_IsPending(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	m := petUpdate(NewRunner(nil, nil, nil), func(context.Context, updatePetInput) (string, error) {
		close(entered)
		<-release
		return "ok", nil
	})

	done := make(chan struct{})
	go func() {
		_, _ = m.Mutate(context.Background(), updatePetInput{ID: "1"})
		close(done)
	}()

	<-entered
	if !m.IsPending() {
		t.Fatalf("expected pending while request in flight")
	}
	close(release)
	<-done
	if m.IsPending() {
		t.Fatalf("expected not pending after completion")
	}
}
