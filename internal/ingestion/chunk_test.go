package ingestion

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSplitter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"valid", 500, 50, false},
		{"zero overlap", 100, 0, false},
		{"zero size", 0, 0, true},
		{"negative size", -1, 0, true},
		{"negative overlap", 100, -1, true},
		{"overlap equals size", 100, 100, true},
		{"overlap exceeds size", 100, 150, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splitter, err := NewSplitter(tt.size, tt.overlap)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, splitter)
			}
		})
	}
}

func TestSplitText_ShortText(t *testing.T) {
	splitter, err := NewSplitter(500, 50)
	require.NoError(t, err)

	text := "A short piece of text."
	chunks := splitter.SplitText(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitText_Empty(t *testing.T) {
	splitter, err := NewSplitter(500, 50)
	require.NoError(t, err)

	assert.Nil(t, splitter.SplitText(""))
	assert.Nil(t, splitter.SplitText("   \n\n  "))
}

func TestSplitText_ParagraphBoundaries(t *testing.T) {
	splitter, err := NewSplitter(40, 0)
	require.NoError(t, err)

	para1 := "First paragraph with several words."
	para2 := "Second paragraph with more words."
	chunks := splitter.SplitText(para1 + "\n\n" + para2)

	require.Len(t, chunks, 2)
	assert.Equal(t, para1, chunks[0])
	assert.Equal(t, para2, chunks[1])
}

func TestSplitText_WordBoundariesWithOverlap(t *testing.T) {
	splitter, err := NewSplitter(5, 2)
	require.NoError(t, err)

	chunks := splitter.SplitText("aa bb cc dd ee")

	assert.Equal(t, []string{"aa bb", "bb cc", "cc dd", "dd ee"}, chunks)
}

func TestSplitText_LongWordFallsBackToRunes(t *testing.T) {
	splitter, err := NewSplitter(4, 1)
	require.NoError(t, err)

	chunks := splitter.SplitText("abcdefghij")

	assert.Equal(t, []string{"abcd", "defg", "ghij"}, chunks)
}

func TestSplitText_SizeRespected(t *testing.T) {
	splitter, err := NewSplitter(50, 10)
	require.NoError(t, err)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("some words in a long running sentence ")
	}

	chunks := splitter.SplitText(sb.String())
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 50)
	}
}

func TestSplitText_RuneSizes(t *testing.T) {
	splitter, err := NewSplitter(8, 0)
	require.NoError(t, err)

	// 8 runes but 24 bytes; sizes are measured in runes
	text := "日本語の文章です"
	chunks := splitter.SplitText(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])

	splitter, err = NewSplitter(4, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"日本語の", "文章です"}, splitter.SplitText(text))
}

func TestSplit_TagsSource(t *testing.T) {
	splitter, err := NewSplitter(20, 0)
	require.NoError(t, err)

	docs := []Document{
		{Content: "Resume content that needs more than one chunk to hold.", Source: SourceResume},
		{Content: "Job description content that also spans chunks.", Source: SourceJob},
	}

	chunks := splitter.Split(docs)
	require.NotEmpty(t, chunks)

	var resumeChunks, jobChunks int
	for _, chunk := range chunks {
		switch chunk.Source {
		case SourceResume:
			resumeChunks++
		case SourceJob:
			jobChunks++
		}
	}
	assert.Greater(t, resumeChunks, 1)
	assert.Greater(t, jobChunks, 1)
}

func TestSplit_EmptyDocuments(t *testing.T) {
	splitter, err := NewSplitter(100, 0)
	require.NoError(t, err)

	assert.Empty(t, splitter.Split(nil))
	assert.Empty(t, splitter.Split([]Document{{Content: "  ", Source: SourceResume}}))
}
