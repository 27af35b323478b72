package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/concsearch/internal/domain/query"
	domset "github.com/kailas-cloud/concsearch/internal/domain/settings"
)

const (
	fieldMode            = "mode"
	fieldKNN             = "knn"
	fieldDisabledClauses = "disabled_clauses"
)

// indexToHash converts index settings to a map for HSET.
// Every field is written so a Put fully replaces earlier values.
func indexToHash(idx domset.Index) map[string]string {
	kinds := make([]string, len(idx.DisabledClauses()))
	for i, k := range idx.DisabledClauses() {
		kinds[i] = string(k)
	}
	return map[string]string{
		fieldMode:            string(idx.Mode()),
		fieldKNN:             strconv.FormatBool(idx.KNNEnabled()),
		fieldDisabledClauses: strings.Join(kinds, ","),
	}
}

// indexFromHash hydrates index settings from an HGETALL result map.
func indexFromHash(name string, m map[string]string) (domset.Index, error) {
	knn := false
	if s := m[fieldKNN]; s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return domset.Index{}, fmt.Errorf("invalid knn flag %q: %w", s, err)
		}
		knn = v
	}

	var kinds []query.Kind
	if s := m[fieldDisabledClauses]; s != "" {
		for _, part := range strings.Split(s, ",") {
			kinds = append(kinds, query.Kind(strings.TrimSpace(part)))
		}
	}

	return domset.NewIndex(name, domset.Mode(m[fieldMode]), knn, kinds)
}
