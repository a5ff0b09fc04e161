package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"petcast-web/internal/notify"
	"petcast-web/internal/platform/respond"
	"petcast-web/internal/querycache"
)

const heartbeatEvery = 25 * time.Second

func notificationsHandler(notes *notify.Center) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := notes.Drain()
		if list == nil {
			list = []notify.Notification{}
		}
		respond.JSON(w, http.StatusOK, respond.Envelope{Data: list})
	}
}

// eventsHandler godoc
// @Summary Cambios del cache (SSE)
// @Description Emite un evento por cada entrada actualizada, invalidada o desalojada. Con key, la vista abierta retiene esas entradas y recibe primero su estado actual.
// @Tags cache
// @Produce text/event-stream
// @Param key query string false "prefijo de la vista, ej. pets/owner/3"
// @Router /api/events [get]
func eventsHandler(cache *querycache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming no soportado", http.StatusInternalServerError)
			return
		}
		view, err := parseViewKey(r.URL.Query().Get("key"))
		if err != nil {
			respond.JSON(w, http.StatusBadRequest, respond.Envelope{Error: "key inválida"})
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		// Sin key el stream no frena el GC; con key la vista retiene sus
		// entradas mientras esté abierta.
		var events <-chan querycache.Event
		var cancel func()
		if len(view) == 0 {
			events, cancel = cache.Watch(querycache.Key{})
		} else {
			events, cancel = cache.Subscribe(view)
			writeEvent(w, "snapshot", viewSnapshot(cache, view))
		}
		defer cancel()
		flusher.Flush()

		ticker := time.NewTicker(heartbeatEvery)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				writeEvent(w, string(ev.Type), ev)
				flusher.Flush()
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

// snapshot es el estado de la key de la vista al abrir el stream.
type snapshot struct {
	Key        string            `json:"key"`
	Status     querycache.Status `json:"status"`
	IsLoading  bool              `json:"isLoading"`
	IsFetching bool              `json:"isFetching"`
	IsStale    bool              `json:"isStale"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Error      string            `json:"error,omitempty"`
}

func viewSnapshot(cache *querycache.Cache, key querycache.Key) snapshot {
	st := querycache.Snapshot[any](cache, key)
	out := snapshot{
		Key:        key.String(),
		Status:     st.Status,
		IsLoading:  st.IsLoading,
		IsFetching: st.IsFetching,
		IsStale:    st.IsStale,
		UpdatedAt:  st.UpdatedAt,
	}
	if st.Err != nil {
		out.Error = st.Err.Error()
	}
	return out
}

func writeEvent(w io.Writer, name string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, b)
}

// parseViewKey lee la forma serializada de una key ("pets/owner/3").
func parseViewKey(raw string) (querycache.Key, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "/")
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, "/")
	key := make(querycache.Key, len(parts))
	for i, p := range parts {
		seg, err := url.PathUnescape(p)
		if err != nil || seg == "" {
			return nil, fmt.Errorf("segmento %d inválido", i)
		}
		key[i] = seg
	}
	return key, nil
}
