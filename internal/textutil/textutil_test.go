package textutil

import (
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple words",
			input: "Hello World",
			want:  []string{"hello", "world"},
		},
		{
			name:  "drops stop words",
			input: "the quick fox and the dog",
			want:  []string{"quick", "fox", "dog"},
		},
		{
			name:  "drops single characters",
			input: "x y zz",
			want:  []string{"zz"},
		},
		{
			name:  "comma separated fields",
			input: "Tom Hanks,Drama,Comedy",
			want:  []string{"tom", "hanks", "drama", "comedy"},
		},
		{
			name:  "handles numbers and underscores",
			input: "test123 456test snake_case",
			want:  []string{"test123", "456test", "snake_case"},
		},
		{
			name:  "unicode letters",
			input: "Amélie Poulain",
			want:  []string{"amélie", "poulain"},
		},
		{
			name:  "empty string",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize() = %v (len %d), want %v (len %d)",
					got, len(got), tt.want, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStopWords(t *testing.T) {
	for _, word := range []string{"the", "and", "yourselves", "whereupon"} {
		if !IsStopWord(word) {
			t.Errorf("expected %q to be a stop word", word)
		}
	}
	if IsStopWord("drama") {
		t.Error("drama should not be a stop word")
	}
	if StopWordCount() < 300 {
		t.Errorf("stop word list looks truncated: %d", StopWordCount())
	}
}

func TestCountTerms(t *testing.T) {
	counts := CountTerms("space war, space station")
	if counts["space"] != 2 || counts["war"] != 1 || counts["station"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestCorpusVocabularyAndIDF(t *testing.T) {
	corpus := NewCorpus()
	corpus.Add(CountTerms("space war"))
	corpus.Add(CountTerms("space station"))

	vocab := corpus.Vocabulary()
	want := []string{"space", "station", "war"}
	if len(vocab) != len(want) {
		t.Fatalf("vocabulary = %v, want %v", vocab, want)
	}
	for i := range want {
		if vocab[i] != want[i] {
			t.Fatalf("vocabulary = %v, want %v", vocab, want)
		}
	}

	idf := corpus.IDF()
	if math.Abs(idf["space"]-1) > 1e-12 {
		t.Errorf("idf(space) = %v, want 1", idf["space"])
	}
	wantRare := math.Log(3.0/2.0) + 1
	if math.Abs(idf["war"]-wantRare) > 1e-12 {
		t.Errorf("idf(war) = %v, want %v", idf["war"], wantRare)
	}
	if corpus.Docs() != 2 {
		t.Errorf("Docs() = %d, want 2", corpus.Docs())
	}
}

func TestCorpusNil(t *testing.T) {
	var c *Corpus
	c.Add(map[string]int{"x": 1})
	if c.IDF() != nil || c.Vocabulary() != nil || c.Docs() != 0 {
		t.Fatal("nil corpus should be empty")
	}
}

func TestNewVectorSortsAndDropsZeros(t *testing.T) {
	v := NewVector(map[int]float64{5: 2, 1: 1, 3: 0})
	if v.Len() != 2 || v.Indices[0] != 1 || v.Indices[1] != 5 {
		t.Fatalf("unexpected vector: %+v", v)
	}
	if math.Abs(v.Norm()-math.Sqrt(5)) > 1e-12 {
		t.Errorf("norm = %v, want sqrt(5)", v.Norm())
	}
}

func TestNormalize(t *testing.T) {
	v := NewVector(map[int]float64{0: 3, 2: 4}).Normalize()
	if math.Abs(v.Norm()-1) > 1e-12 {
		t.Fatalf("normalized norm = %v", v.Norm())
	}
	zero := Vector{}.Normalize()
	if zero.Len() != 0 {
		t.Fatal("zero vector should stay empty")
	}
}

func TestConcatOffsetsColumns(t *testing.T) {
	a := NewVector(map[int]float64{0: 1, 2: 1})
	b := NewVector(map[int]float64{0: 0.5, 1: 0.5})
	got := Concat(a, b, 3)
	wantIdx := []int{0, 2, 3, 4}
	if len(got.Indices) != len(wantIdx) {
		t.Fatalf("indices = %v, want %v", got.Indices, wantIdx)
	}
	for i := range wantIdx {
		if got.Indices[i] != wantIdx[i] {
			t.Fatalf("indices = %v, want %v", got.Indices, wantIdx)
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := NewVector(map[int]float64{0: 1, 1: 1})
	b := NewVector(map[int]float64{1: 1, 2: 1})
	c := NewVector(map[int]float64{3: 1})

	if got := CosineSimilarity(a, a); math.Abs(got-1) > 1e-12 {
		t.Errorf("identical = %v, want 1", got)
	}
	if got := CosineSimilarity(a, b); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("partial = %v, want 0.5", got)
	}
	if got := CosineSimilarity(a, c); got != 0 {
		t.Errorf("disjoint = %v, want 0", got)
	}
	if got := CosineSimilarity(a, Vector{}); got != 0 {
		t.Errorf("zero norm = %v, want 0", got)
	}
	if CosineSimilarity(a, b) != CosineSimilarity(b, a) {
		t.Error("cosine similarity not symmetric")
	}
}
