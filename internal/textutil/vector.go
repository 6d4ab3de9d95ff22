package textutil

import (
	"math"
	"sort"
)

// Vector is a sparse row with strictly increasing column indices.
type Vector struct {
	Indices []int
	Values  []float64
}

// NewVector builds a sparse vector from a column→value map, dropping zeros.
func NewVector(entries map[int]float64) Vector {
	indices := make([]int, 0, len(entries))
	for idx, val := range entries {
		if val == 0 {
			continue
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = entries[idx]
	}
	return Vector{Indices: indices, Values: values}
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int { return len(v.Indices) }

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, val := range v.Values {
		sum += val * val
	}
	return math.Sqrt(sum)
}

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	norm := v.Norm()
	if norm == 0 {
		return v
	}
	values := make([]float64, len(v.Values))
	for i, val := range v.Values {
		values[i] = val / norm
	}
	return Vector{Indices: append([]int(nil), v.Indices...), Values: values}
}

// Dot returns the inner product of two sparse vectors.
func Dot(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Concat appends b's columns after a's, shifting b's indices by offset.
// offset must be at least the column count of a's space.
func Concat(a, b Vector, offset int) Vector {
	indices := make([]int, 0, len(a.Indices)+len(b.Indices))
	values := make([]float64, 0, len(a.Values)+len(b.Values))
	indices = append(indices, a.Indices...)
	values = append(values, a.Values...)
	for i, idx := range b.Indices {
		indices = append(indices, idx+offset)
		values = append(values, b.Values[i])
	}
	return Vector{Indices: indices, Values: values}
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 if either vector has zero norm.
func CosineSimilarity(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	dot := Dot(a, b)
	if dot == 0 {
		return 0
	}
	return dot / (na * nb)
}
