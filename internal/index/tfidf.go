// Package index provides in-memory lexical retrieval over document chunks
// using TF-IDF weighting and cosine similarity. No vector database is
// involved; the index is rebuilt from scratch whenever the chunk set changes.
package index

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"docchat/internal/domain"
)

const (
	DefaultTopK     = 5
	DefaultMinScore = 0.05
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9'-]*`)

// Tokenize splits text into lowercase terms for indexing and querying.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// TfidfIndex holds TF-IDF vectors over a fixed chunk collection. It is
// immutable after construction; adding documents means building a new index.
type TfidfIndex struct {
	chunks  []domain.DocumentChunk
	idf     map[string]float64
	vectors []map[string]float64
	norms   []float64
}

// Build computes IDF values and per-chunk vectors for the given chunks.
// An empty chunk collection produces a valid index that never matches.
func Build(chunks []domain.DocumentChunk) *TfidfIndex {
	idx := &TfidfIndex{
		chunks: chunks,
		idf:    make(map[string]float64),
	}
	if len(chunks) == 0 {
		return idx
	}

	tokenized := make([][]string, len(chunks))
	docFreq := make(map[string]int)
	for i, chunk := range chunks {
		terms := Tokenize(chunk.Text)
		tokenized[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			docFreq[term]++
		}
	}

	// Smoothed IDF keeps every vocabulary term strictly positive, even
	// terms present in all chunks.
	n := float64(len(chunks))
	for term, df := range docFreq {
		idx.idf[term] = math.Log((n+1)/float64(df+1)) + 1.0
	}

	idx.vectors = make([]map[string]float64, len(chunks))
	idx.norms = make([]float64, len(chunks))
	for i, terms := range tokenized {
		vector := idx.vectorize(terms)
		idx.vectors[i] = vector
		idx.norms[i] = norm(vector)
	}
	return idx
}

// Chunks returns the chunk collection the index was built from.
func (idx *TfidfIndex) Chunks() []domain.DocumentChunk { return idx.chunks }

// Len reports the number of indexed chunks.
func (idx *TfidfIndex) Len() int { return len(idx.chunks) }

// vectorize converts a token sequence into a sparse TF-IDF vector. Term
// frequency is normalized by the most frequent term; terms outside the
// index vocabulary are dropped.
func (idx *TfidfIndex) vectorize(terms []string) map[string]float64 {
	if len(terms) == 0 {
		return map[string]float64{}
	}
	counts := make(map[string]int, len(terms))
	maxCount := 0
	for _, term := range terms {
		counts[term]++
		if counts[term] > maxCount {
			maxCount = counts[term]
		}
	}
	vector := make(map[string]float64, len(counts))
	for term, count := range counts {
		idf, ok := idx.idf[term]
		if !ok {
			continue
		}
		tf := float64(count) / float64(maxCount)
		vector[term] = tf * idf
	}
	return vector
}

func norm(vector map[string]float64) float64 {
	sum := 0.0
	for _, weight := range vector {
		sum += weight * weight
	}
	return math.Sqrt(sum)
}

// dot iterates over the smaller vector while probing the larger one.
func dot(left, right map[string]float64) float64 {
	if len(left) > len(right) {
		left, right = right, left
	}
	sum := 0.0
	for term, weight := range left {
		sum += weight * right[term]
	}
	return sum
}

// Search returns up to topK chunks whose cosine similarity to the query is
// at least minScore, ordered by descending score. Chunks with equal scores
// keep their original insertion order. Queries with no indexed terms return
// no results.
func (idx *TfidfIndex) Search(query string, topK int, minScore float64) []domain.SearchResult {
	if len(idx.chunks) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryVector := idx.vectorize(Tokenize(query))
	queryNorm := norm(queryVector)
	if queryNorm == 0 {
		return nil
	}

	var scored []domain.SearchResult
	for i, chunk := range idx.chunks {
		if idx.norms[i] == 0 {
			continue
		}
		score := dot(queryVector, idx.vectors[i]) / (queryNorm * idx.norms[i])
		if score >= minScore {
			scored = append(scored, domain.SearchResult{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
