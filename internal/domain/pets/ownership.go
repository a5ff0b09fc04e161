package pets

import (
	"context"

	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

// OwnerOf devuelve el dueño de una mascota. Primero mira el cache; si no
// está, la lee (y queda cacheada).
// Lo usan otros módulos (citas, fichas) para saber a qué dueño afecta un cambio.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, bool) {
	if p, ok := s.cached(petID); ok {
		return p.OwnerID, p.OwnerID != ""
	}
	st := s.Get(ctx, petID)
	if !st.Ok() {
		return "", false
	}
	return st.Data.OwnerID, st.Data.OwnerID != ""
}

// cached busca la mascota en el detalle o en la lista general, sin request.
func (s *Service) cached(id string) (Pet, bool) {
	if p, ok := querycache.Peek[Pet](s.cache, querykeys.Pet(id)); ok {
		return p, true
	}
	if all, ok := querycache.Peek[[]Pet](s.cache, querykeys.Pets()); ok {
		for _, p := range all {
			if p.ID == id {
				return p, true
			}
		}
	}
	return Pet{}, false
}
