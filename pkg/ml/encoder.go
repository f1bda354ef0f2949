package ml

import "sort"

// OneHotEncoder expands a categorical column into indicator columns.
// Categories are learned at fit time; a value never seen during fit maps
// to an all-zero row instead of failing, so scoring can handle segments
// that did not exist when the model was trained.
type OneHotEncoder struct {
	Categories []string
	index      map[string]int
}

// FitOneHot learns the sorted distinct categories of the training values.
func FitOneHot(values []string) *OneHotEncoder {
	seen := make(map[string]struct{})
	for _, v := range values {
		seen[v] = struct{}{}
	}
	cats := make([]string, 0, len(seen))
	for v := range seen {
		cats = append(cats, v)
	}
	sort.Strings(cats)

	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c] = i
	}
	return &OneHotEncoder{Categories: cats, index: index}
}

// Transform encodes values as indicator rows.
func (e *OneHotEncoder) Transform(values []string) [][]float64 {
	out := make([][]float64, len(values))
	for i, v := range values {
		row := make([]float64, len(e.Categories))
		if j, ok := e.index[v]; ok {
			row[j] = 1
		}
		out[i] = row
	}
	return out
}
