package statistics

import (
	"context"
	"sort"

	"petcast-web/internal/querycache"
	"petcast-web/internal/querykeys"
)

// Service no tiene mutaciones; sus keys las invalidan las mutaciones de
// dueños, vets, mascotas y citas.
type Service struct {
	api   API
	cache *querycache.Cache
}

func NewService(api API, cache *querycache.Cache) *Service {
	return &Service{api: api, cache: cache}
}

func (s *Service) Summary(ctx context.Context) querycache.State[Summary] {
	return querycache.Use(ctx, s.cache, querycache.Query[Summary]{Key: querykeys.StatisticsSummary(), Fetch: s.api.Summary, Enabled: true})
}

func (s *Service) Dashboard(ctx context.Context) querycache.State[Dashboard] {
	return querycache.Use(ctx, s.cache, querycache.Query[Dashboard]{Key: querykeys.StatisticsDashboard(), Fetch: s.api.Dashboard, Enabled: true})
}

// PerMonth devuelve los meses en orden cronológico.
func (s *Service) PerMonth(ctx context.Context) querycache.State[[]MonthCount] {
	return querycache.Use(ctx, s.cache, querycache.Query[[]MonthCount]{
		Key: querykeys.AppointmentsPerMonth(),
		Fetch: func(ctx context.Context) ([]MonthCount, error) {
			out, err := s.api.AppointmentsPerMonth(ctx)
			if err != nil {
				return nil, err
			}
			sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })
			return out, nil
		},
		Enabled: true,
	})
}
