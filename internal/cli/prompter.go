package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/autocomplete"
	"github.com/ledgermatch/ledgermatch/internal/common"
)

// Quit and skip tokens accepted anywhere in the prompt loop.
const (
	quitToken = ":q"
	skipToken = ":s"
)

// ErrSkipped is returned when the user skips the current merchant.
var ErrSkipped = errors.New("merchant skipped")

// maxSuggestions is how many ranked categories one prompt round shows.
const maxSuggestions = 5

// Prompter runs the interactive categorization prompt for one merchant at a
// time.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter reading from reader and writing to writer.
// Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// PromptCategory asks the user to categorize one merchant. The user types a
// search query and picks from ranked category suggestions by number, creates
// a new category with "+Name", skips with ":s" (or an empty line), or aborts
// the whole session with ":q". Returns the chosen category name.
func (p *Prompter) PromptCategory(ctx context.Context, searcher *autocomplete.Searcher, merchant string, count int) (string, error) {
	header := MerchantStyle.Render(merchant)
	if count > 1 {
		header += SubtleStyle.Render(fmt.Sprintf(" (%d transactions)", count))
	}
	fmt.Fprintln(p.writer, header)

	var lastResults []autocomplete.Result

	for {
		fmt.Fprint(p.writer, FormatPrompt("Category"))

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		switch {
		case line == quitToken:
			return "", common.ErrAborted
		case line == skipToken, line == "":
			return "", ErrSkipped
		case strings.HasPrefix(line, "+"):
			name := strings.TrimSpace(strings.TrimPrefix(line, "+"))
			if name == "" {
				fmt.Fprintln(p.writer, FormatWarning("new category name cannot be empty"))
				continue
			}
			return name, nil
		}

		if n, convErr := strconv.Atoi(line); convErr == nil {
			if n < 1 || n > len(lastResults) {
				fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("no suggestion %d", n)))
				continue
			}
			return lastResults[n-1].Item.Label, nil
		}

		results := searcher.Search(line)
		if len(results) > maxSuggestions {
			results = results[:maxSuggestions]
		}
		if len(results) == 0 {
			fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("no categories match %q (use +%s to create it)", line, line)))
			lastResults = nil
			continue
		}

		// A query that lands exactly on a category needs no second step.
		if strings.EqualFold(results[0].Item.Label, line) {
			return results[0].Item.Label, nil
		}

		for i, r := range results {
			fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, r.Item.Label)
		}
		lastResults = results
	}
}

// Confirm asks a yes/no question, defaulting to no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprint(p.writer, FormatPrompt(question+" [y/N]"))

	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		return false, err
	}
	if line == quitToken {
		return false, common.ErrAborted
	}
	line = strings.ToLower(line)
	return line == "y" || line == "yes", nil
}
