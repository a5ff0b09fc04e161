package querycache

import (
	"net/url"
	"strings"
)

// Key identifica una query: recurso + parámetros, de lo general a lo
// específico. Ej: {"pets", "owner", "3"}.
type Key []string

// String serializa la key; cada segmento va escapado, así "/" dentro de un
// parámetro no rompe la jerarquía.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, seg := range k {
		parts[i] = url.PathEscape(seg)
	}
	return strings.Join(parts, "/")
}

// Target es una key a invalidar; con Prefix también cubre sus descendientes.
type Target struct {
	Key    Key
	Prefix bool
}

func Exact(k Key) Target { return Target{Key: k} }

func Prefix(k Key) Target { return Target{Key: k, Prefix: true} }

// matchesPrefix compara sobre la forma serializada.
func matchesPrefix(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	return len(key) == len(prefix) || key[len(prefix)] == '/'
}
