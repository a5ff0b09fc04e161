package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"petcast-web/internal/domain/statistics"
	"petcast-web/internal/platform/httpclient"
)

type StatisticsClient struct{ c *httpclient.Client }

var _ statistics.API = (*StatisticsClient)(nil)

// El statistics-service mezcla nombres en inglés y castellano según versión.
var summaryFields = map[string][]string{
	"pets":         {"totalPets", "totalMascotas", "mascotas", "pets"},
	"owners":       {"totalOwners", "totalDuenos", "duenos", "owners"},
	"vets":         {"totalVets", "totalVeterinarios", "veterinarios", "vets"},
	"appointments": {"totalAppointments", "totalCitas", "citas", "appointments"},
	"today":        {"appointmentsToday", "citasHoy", "today"},
	"reminders":    {"pendingReminders", "recordatoriosPendientes"},
}

type counters map[string]json.RawMessage

func (c counters) int(names ...string) int {
	for _, n := range names {
		raw, ok := c[n]
		if !ok {
			continue
		}
		var f Float
		if err := json.Unmarshal(raw, &f); err == nil {
			return int(f)
		}
	}
	return 0
}

func (c counters) breakdown(names ...string) map[string]int {
	out := map[string]int{}
	for _, n := range names {
		raw, ok := c[n]
		if !ok {
			continue
		}
		var m map[string]Float
		if err := json.Unmarshal(raw, &m); err == nil {
			for k, v := range m {
				out[k] = int(v)
			}
			return out
		}
		// también como lista [{"status":"X","count":N}]
		var list []counters
		if err := json.Unmarshal(raw, &list); err == nil {
			for _, item := range list {
				var label string
				for _, lk := range []string{"status", "estado", "species", "especie", "label", "name"} {
					if v, ok := item[lk]; ok && json.Unmarshal(v, &label) == nil && label != "" {
						break
					}
				}
				if label != "" {
					out[label] = item.int("count", "total", "cantidad")
				}
			}
			return out
		}
	}
	return out
}

func (c counters) summary() statistics.Summary {
	return statistics.Summary{
		TotalPets:         c.int(summaryFields["pets"]...),
		TotalOwners:       c.int(summaryFields["owners"]...),
		TotalVets:         c.int(summaryFields["vets"]...),
		TotalAppointments: c.int(summaryFields["appointments"]...),
		AppointmentsToday: c.int(summaryFields["today"]...),
		PendingReminders:  c.int(summaryFields["reminders"]...),
	}
}

func (s *StatisticsClient) counters(ctx context.Context, p string) (counters, error) {
	var raw json.RawMessage
	if err := s.c.Get(ctx, p, &raw); err != nil {
		return nil, err
	}
	return decodeOne[counters](raw)
}

func (s *StatisticsClient) Summary(ctx context.Context) (statistics.Summary, error) {
	c, err := s.counters(ctx, path("statistics"))
	if err != nil {
		return statistics.Summary{}, err
	}
	return c.summary(), nil
}

func (s *StatisticsClient) Dashboard(ctx context.Context) (statistics.Dashboard, error) {
	c, err := s.counters(ctx, path("statistics", "dashboard"))
	if err != nil {
		return statistics.Dashboard{}, err
	}
	return statistics.Dashboard{
		Summary:              c.summary(),
		AppointmentsByStatus: c.breakdown("appointmentsByStatus", "citasPorEstado"),
		PetsBySpecies:        c.breakdown("petsBySpecies", "mascotasPorEspecie"),
	}, nil
}

func (s *StatisticsClient) AppointmentsPerMonth(ctx context.Context) ([]statistics.MonthCount, error) {
	var raw json.RawMessage
	if err := s.c.Get(ctx, path("statistics", "citas-por-mes"), &raw); err != nil {
		return nil, err
	}
	// Lista de {month|mes, count|total|cantidad} o mapa mes -> cantidad.
	if !isMonthMap(raw) {
		items, err := decodeList[counters](raw)
		if err != nil {
			return nil, err
		}
		out := make([]statistics.MonthCount, 0, len(items))
		for _, it := range items {
			var month string
			for _, k := range []string{"month", "mes"} {
				if v, ok := it[k]; ok && json.Unmarshal(v, &month) == nil && month != "" {
					break
				}
			}
			out = append(out, statistics.MonthCount{Month: month, Count: it.int("count", "total", "cantidad")})
		}
		return out, nil
	}
	m, err := decodeOne[map[string]Float](raw)
	if err != nil {
		return nil, err
	}
	out := make([]statistics.MonthCount, 0, len(m))
	for k, v := range m {
		out = append(out, statistics.MonthCount{Month: k, Count: int(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func isMonthMap(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	return json.Unmarshal(raw, &env) != nil || len(env.Data) == 0
}
