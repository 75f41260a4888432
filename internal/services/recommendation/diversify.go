package recommendation

import (
	"github.com/shuv1824/weatherwise/internal/types"
)

// diversify expects recs sorted by descending score. It first takes up to
// perCategory entries from every category, in the order categories first
// appear, then backfills from recs until maxResults is reached.
// Entries are tracked by position because activity IDs may collide.
func (e *Engine) diversify(recs []types.Recommendation) []types.Recommendation {
	if len(recs) == 0 {
		return recs
	}

	limit := min(e.maxResults, len(recs))

	var order []string
	perCategory := make(map[string][]int)
	for i, rec := range recs {
		category := types.NormalizeCategory(rec.Activity.Category)
		if _, seen := perCategory[category]; !seen {
			order = append(order, category)
		}
		perCategory[category] = append(perCategory[category], i)
	}

	picked := make([]bool, len(recs))
	result := make([]types.Recommendation, 0, limit)

	for _, category := range order {
		indexes := perCategory[category]
		for _, idx := range indexes[:min(e.perCategory, len(indexes))] {
			if len(result) >= limit {
				return result
			}
			picked[idx] = true
			result = append(result, recs[idx])
		}
	}

	for i, rec := range recs {
		if len(result) >= limit {
			break
		}
		if picked[i] {
			continue
		}
		picked[i] = true
		result = append(result, rec)
	}

	return result
}
