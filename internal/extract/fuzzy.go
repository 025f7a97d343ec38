package extract

import (
	"fmt"

	"github.com/agext/levenshtein"
)

// LevenshteinSimilarity scores strings by normalised edit distance.
// A nil Params uses the library defaults.
type LevenshteinSimilarity struct {
	Params *levenshtein.Params
}

func (l LevenshteinSimilarity) Similarity(a, b string) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("levenshtein similarity: %v", r)
		}
	}()
	return levenshtein.Similarity(a, b, l.Params), nil
}
