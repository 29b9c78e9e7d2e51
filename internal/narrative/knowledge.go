package narrative

import (
	_ "embed"
	"math"
	"strings"
)

//go:embed knowledge.txt
var knowledgeText string

const (
	chunkSize    = 500
	chunkOverlap = 100
)

// chunkKnowledge splits the embedded guide into overlapping chunks of
// roughly chunkSize characters, breaking on paragraph boundaries.
func chunkKnowledge(text string) []string {
	paragraphs := strings.Split(strings.TrimSpace(text), "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(p) > chunkSize {
			chunk := current.String()
			chunks = append(chunks, chunk)
			current.Reset()

			// Carry the tail of the previous chunk for context.
			if len(chunk) > chunkOverlap {
				current.WriteString(chunk[len(chunk)-chunkOverlap:])
				current.WriteString("\n\n")
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has zero magnitude or the lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// topChunks returns the indices of the k chunks most similar to query,
// best first.
func topChunks(query []float32, vectors [][]float32, k int) []int {
	type scored struct {
		index int
		score float64
	}

	ranked := make([]scored, 0, len(vectors))
	for i, v := range vectors {
		ranked = append(ranked, scored{index: i, score: cosineSimilarity(query, v)})
	}

	// Selection sort is fine at this scale.
	for i := 0; i < len(ranked) && i < k; i++ {
		best := i
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].score > ranked[best].score {
				best = j
			}
		}
		ranked[i], ranked[best] = ranked[best], ranked[i]
	}

	if k > len(ranked) {
		k = len(ranked)
	}
	indices := make([]int, k)
	for i := 0; i < k; i++ {
		indices[i] = ranked[i].index
	}
	return indices
}
