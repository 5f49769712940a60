// Package embedding turns recipe text into fixed-size vectors so similar recipes
// can be found with pgvector's distance operators.
package embedding

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// Dimensions is the vector size stored in recipes.embedding.
const Dimensions = 64

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "of": {}, "with": {}, "in": {}, "on": {},
	"to": {}, "for": {}, "or": {}, "is": {}, "it": {}, "into": {}, "until": {},
}

// Tokenize lower-cases text and splits it into words, dropping stop words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if _, skip := stopWords[f]; skip || len(f) < 2 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Generate hashes the words of text into a normalised bag-of-words vector.
// Empty text yields a vector with a single non-zero component so it always
// round-trips through the database.
func Generate(text string) pgvector.Vector {
	vec := make([]float32, Dimensions)
	for _, tok := range Tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()
		idx := sum % Dimensions
		if sum&(1<<31) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return pgvector.NewVector(vec)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return pgvector.NewVector(vec)
}

// Distance is the euclidean distance between two vectors, matching pgvector's <-> operator.
// Vectors of different length are treated as infinitely far apart.
func Distance(a, b pgvector.Vector) float64 {
	as, bs := a.Slice(), b.Slice()
	if len(as) != len(bs) {
		return math.Inf(1)
	}
	var sum float64
	for i := range as {
		d := float64(as[i]) - float64(bs[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
