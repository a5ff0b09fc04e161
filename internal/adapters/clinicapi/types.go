package clinicapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID acepta ids numéricos o string; al enviarlos, los que son solo dígitos
// viajan como número (los backends los tipan como int).
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("clinicapi: id inválido %s", b)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(id))
	if s != "" && allDigits(s) && len(s) < 16 {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func (id ID) String() string { return string(id) }

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func optID(s *string) *ID {
	if s == nil {
		return nil
	}
	id := ID(*s)
	return &id
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Time acepta RFC3339, fecha-hora sin zona (se toma como hora local) y solo fecha.
type Time struct{ time.Time }

func (t *Time) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		if string(bytes.TrimSpace(b)) == "null" {
			t.Time = time.Time{}
			return nil
		}
		return fmt.Errorf("clinicapi: fecha inválida %s", b)
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("clinicapi: fecha inválida %q", s)
}

func optTime(t *time.Time) *Time {
	if t == nil {
		return nil
	}
	return &Time{*t}
}

// Float acepta número o string numérico (columnas decimal serializadas como texto).
type Float float64

func (f *Float) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return fmt.Errorf("clinicapi: número inválido %q", s)
		}
		*f = Float(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("clinicapi: número inválido %s", b)
	}
	*f = Float(v)
	return nil
}

func floatPtr(f *Float) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

func intPtr(f *Float) *int {
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// decodeList acepta tanto [..] como {"data":[..]}.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	out := make([]T, 0)
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("clinicapi: decode list: %w", err)
		}
		return out, nil
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("clinicapi: decode list: %w", err)
	}
	if env.Data != nil {
		out = env.Data
	}
	return out, nil
}

// decodeOne acepta el objeto suelto o envuelto en {"data":{..}}.
func decodeOne[T any](raw json.RawMessage) (T, error) {
	var out T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && env.Data[0] == '{' {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("clinicapi: decode: %w", err)
	}
	return out, nil
}

func mapList[W, D any](ws []W, conv func(W) D) []D {
	out := make([]D, 0, len(ws))
	for _, w := range ws {
		out = append(out, conv(w))
	}
	return out
}
