package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/autocomplete"
	"github.com/ledgermatch/ledgermatch/internal/common"
)

func testSearcher() *autocomplete.Searcher {
	items := autocomplete.ItemsFromLabels([]string{
		"Groceries",
		"Gas",
		"Gas & Electric",
		"Restaurants",
		"Travel",
	})
	return autocomplete.NewSearcher(autocomplete.BuildIndex(items), autocomplete.Config{})
}

func promptWith(t *testing.T, input string) (string, string, error) {
	t.Helper()

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(input), &out)
	category, err := p.PromptCategory(context.Background(), testSearcher(), "SAFEWAY #1138", 3)
	return category, out.String(), err
}

func TestPromptCategoryExactQuery(t *testing.T) {
	category, _, err := promptWith(t, "groceries\n")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", category)
}

func TestPromptCategoryPickByNumber(t *testing.T) {
	category, out, err := promptWith(t, "gas el\n1\n")
	require.NoError(t, err)
	assert.Equal(t, "Gas & Electric", category)
	assert.Contains(t, out, "[1] Gas & Electric")
}

func TestPromptCategoryNumberOutOfRange(t *testing.T) {
	category, out, err := promptWith(t, "gas el\n9\n1\n")
	require.NoError(t, err)
	assert.Equal(t, "Gas & Electric", category)
	assert.Contains(t, out, "no suggestion 9")
}

func TestPromptCategoryCreateNew(t *testing.T) {
	category, _, err := promptWith(t, "+Pet Supplies\n")
	require.NoError(t, err)
	assert.Equal(t, "Pet Supplies", category)
}

func TestPromptCategoryCreateNewEmptyName(t *testing.T) {
	category, out, err := promptWith(t, "+  \n+Pets\n")
	require.NoError(t, err)
	assert.Equal(t, "Pets", category)
	assert.Contains(t, out, "cannot be empty")
}

func TestPromptCategorySkip(t *testing.T) {
	for _, input := range []string{":s\n", "\n"} {
		_, _, err := promptWith(t, input)
		require.ErrorIs(t, err, ErrSkipped)
	}
}

func TestPromptCategoryAbort(t *testing.T) {
	_, _, err := promptWith(t, ":q\n")
	require.ErrorIs(t, err, common.ErrAborted)
}

func TestPromptCategoryNoMatches(t *testing.T) {
	category, out, err := promptWith(t, "zzzzqqq\ntravel\n")
	require.NoError(t, err)
	assert.Equal(t, "Travel", category)
	assert.Contains(t, out, "no categories match")
}

func TestPromptCategoryShowsTransactionCount(t *testing.T) {
	_, out, _ := promptWith(t, ":s\n")
	assert.Contains(t, out, "SAFEWAY #1138")
	assert.Contains(t, out, "3 transactions")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader(tt.input), &out)
		got, err := p.Confirm(context.Background(), "Save changes?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestConfirmAbort(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(":q\n"), &out)
	_, err := p.Confirm(context.Background(), "Save changes?")
	require.ErrorIs(t, err, common.ErrAborted)
}

func TestReadLineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewLineReader(blockingReader{})
	_, err := r.ReadLine(ctx)
	require.ErrorIs(t, err, ErrInputCancelled)
}

// blockingReader never returns, simulating an idle terminal.
type blockingReader struct{}

func (blockingReader) Read(_ []byte) (int, error) {
	select {}
}
