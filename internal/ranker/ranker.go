package ranker

import (
	"math"
	"sort"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 3

// Cosine returns the cosine similarity of a and b. A zero vector has no
// direction, so any pair involving one scores -Inf instead of NaN; such
// candidates always rank last.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	for i := n; i < len(a); i++ {
		na += a[i] * a[i]
	}
	for i := n; i < len(b); i++ {
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return math.Inf(-1)
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopK scores every candidate vector against the query and returns the
// indices of the min(k, len(vectors)) best matches, sorted by descending
// similarity. Equal scores are broken by ascending candidate index, so the
// result is deterministic for fixed inputs.
func TopK(vectors [][]float64, query []float64, k int) []int {
	if k <= 0 {
		k = DefaultTopK
	}
	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		scores[i] = Cosine(v, query)
	}
	idxs := make([]int, len(vectors))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool {
		return scores[idxs[i]] > scores[idxs[j]]
	})
	if k > len(idxs) {
		k = len(idxs)
	}
	return idxs[:k]
}
