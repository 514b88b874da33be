package provider

import (
	"context"
	"fmt"

	"apibridge/model"

	"github.com/sahilm/fuzzy"
)

// ListModels lists the models of h if its backend supports enumeration.
func ListModels(ctx context.Context, h model.Handler) ([]string, error) {
	lister, ok := h.(model.ModelLister)
	if !ok {
		return nil, fmt.Errorf("%T cannot list models", h)
	}
	return lister.ListModels(ctx)
}

// MatchModel resolves query against the available model names. An exact
// match wins; otherwise the best fuzzy match is returned.
func MatchModel(query string, models []string) (string, error) {
	for _, m := range models {
		if m == query {
			return m, nil
		}
	}

	matches := fuzzy.Find(query, models)
	if len(matches) == 0 {
		return "", fmt.Errorf("no model matches %q", query)
	}
	return matches[0].Str, nil
}
