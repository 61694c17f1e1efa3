package quality

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFleschReadingEaseOrdering(t *testing.T) {
	simple := "The cat sat. The dog ran. We had fun."
	complex := "Notwithstanding considerable organizational heterogeneity, interdepartmental collaboration necessitates comprehensive orchestration."

	require.Greater(t, FleschReadingEase(simple), FleschReadingEase(complex))
}

func TestFleschReadingEaseEmpty(t *testing.T) {
	require.Zero(t, FleschReadingEase(""))
	require.Zero(t, FleschReadingEase("<p></p>"))
}

func TestFleschReadingEaseIgnoresMarkup(t *testing.T) {
	plain := "Go makes concurrency simple. Channels help a lot."
	marked := "<h2>Go makes concurrency simple.</h2> <p>Channels help a lot.</p>"

	require.InDelta(t, FleschReadingEase(plain), FleschReadingEase(marked), 0.001)
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{word: "go", want: 1},
		{word: "data", want: 2},
		{word: "syllable", want: 2}, // silent-e adjustment
		{word: "rhythm", want: 1},
		{word: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			require.Equal(t, tt.want, countSyllables(tt.word))
		})
	}
}
