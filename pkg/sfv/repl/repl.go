// Package repl provides an interactive shell for parsing and inspecting
// structured field values.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/k00ni/http-structured-fields/pkg/sfv"
	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

const PROMPT = ">> "

const LOGO = `
█▀ █▀▀ █░█
▄█ █▀░ ▀▄▀ `

// REPL commands and dialect names for tab completion
var completionWords = []string{
	":help", ":list", ":dict", ":item", ":auto", ":dialect", ":date",
	"rfc8941", "rfc9651",
	"exit", "quit",
}

// parseMode selects which top-level grammar production input is read as.
type parseMode int

const (
	modeAuto parseMode = iota // try dictionary, then list, then item
	modeList
	modeDictionary
	modeItem
)

func (m parseMode) String() string {
	switch m {
	case modeList:
		return "list"
	case modeDictionary:
		return "dictionary"
	case modeItem:
		return "item"
	}
	return "auto"
}

// Start runs the REPL with line editing, history, and tab completion.
func Start(in io.Reader, out io.Writer, version string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	line.SetCompleter(func(line string) []string {
		return filterCompletions(line)
	})

	historyFile := filepath.Join(os.TempDir(), ".sfv_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "%s", LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type a field value to parse it, 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	mode := modeAuto
	dialect := sfv.RFC9651

	for {
		input, err := line.Prompt(PROMPT)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "exit" || trimmed == "quit" {
			fmt.Fprintln(out, "Goodbye!")
			return
		}
		if trimmed == "" {
			continue
		}

		line.AppendHistory(input)

		if strings.HasPrefix(trimmed, ":") {
			mode, dialect = handleCommand(trimmed, mode, dialect, out)
			continue
		}

		evalInput(input, mode, dialect, out)
	}
}

// handleCommand handles REPL meta-commands that start with ':'.
func handleCommand(cmd string, mode parseMode, dialect sfv.Dialect, out io.Writer) (parseMode, sfv.Dialect) {
	word, rest, _ := strings.Cut(cmd, " ")
	rest = strings.TrimSpace(rest)

	switch word {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?      Show this help")
		fmt.Fprintln(out, "  :auto              Detect the field type (dictionary, list, then item)")
		fmt.Fprintln(out, "  :list              Parse input as a list")
		fmt.Fprintln(out, "  :dict              Parse input as a dictionary")
		fmt.Fprintln(out, "  :item              Parse input as a single item")
		fmt.Fprintln(out, "  :dialect [name]    Show or set the dialect (rfc8941, rfc9651)")
		fmt.Fprintln(out, "  :date <text>       Convert a human-readable date to a Date item")
		fmt.Fprintln(out, "  exit, quit         Exit the REPL")
		return mode, dialect

	case ":auto", ":list", ":item":
		switch word {
		case ":auto":
			mode = modeAuto
		case ":list":
			mode = modeList
		case ":item":
			mode = modeItem
		}
		fmt.Fprintf(out, "Parse mode: %s\n", mode)
		return mode, dialect

	case ":dict", ":dictionary":
		mode = modeDictionary
		fmt.Fprintf(out, "Parse mode: %s\n", mode)
		return mode, dialect

	case ":dialect":
		switch rest {
		case "":
			fmt.Fprintf(out, "Dialect: %s\n", dialect)
		case "rfc8941":
			dialect = sfv.RFC8941
			fmt.Fprintf(out, "Dialect: %s\n", dialect)
		case "rfc9651":
			dialect = sfv.RFC9651
			fmt.Fprintf(out, "Dialect: %s\n", dialect)
		default:
			fmt.Fprintf(out, "Unknown dialect: %s (rfc8941 or rfc9651)\n", rest)
		}
		return mode, dialect

	case ":date":
		if rest == "" {
			fmt.Fprintln(out, "Usage: :date <human-readable date>")
			return mode, dialect
		}
		item, err := sfv.ItemFromDateString(rest)
		if err != nil {
			printFieldError(out, rest, err)
			return mode, dialect
		}
		printRendered(out, item, dialect, rest)
		return mode, dialect

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", word)
		return mode, dialect
	}
}

// renderable is any parsed top-level structure.
type renderable interface {
	Render(sfv.Dialect) (string, error)
}

// evalInput parses a field value in the current mode and prints its
// canonical form.
func evalInput(input string, mode parseMode, dialect sfv.Dialect, out io.Writer) {
	var (
		value renderable
		kind  string
		err   error
	)

	switch mode {
	case modeList:
		value, kind, err = parseAsList(input, dialect)
	case modeDictionary:
		value, kind, err = parseAsDictionary(input, dialect)
	case modeItem:
		value, kind, err = parseAsItem(input, dialect)
	default:
		// Auto mode: a dictionary grammar accepts the most inputs, so
		// try it first, then fall back to list, then item.
		value, kind, err = parseAsDictionary(input, dialect)
		if err != nil {
			value, kind, err = parseAsList(input, dialect)
		}
		if err != nil {
			value, kind, err = parseAsItem(input, dialect)
		}
	}

	if err != nil {
		printFieldError(out, input, err)
		return
	}

	fmt.Fprintf(out, "%s: ", kind)
	printRendered(out, value, dialect, input)
}

func parseAsList(input string, d sfv.Dialect) (renderable, string, error) {
	v, err := sfv.ParseList(input, d)
	return v, "list", err
}

func parseAsDictionary(input string, d sfv.Dialect) (renderable, string, error) {
	v, err := sfv.ParseDictionary(input, d)
	return v, "dictionary", err
}

func parseAsItem(input string, d sfv.Dialect) (renderable, string, error) {
	v, err := sfv.ParseItem(input, d)
	return v, "item", err
}

func printRendered(out io.Writer, value renderable, dialect sfv.Dialect, input string) {
	text, err := value.Render(dialect)
	if err != nil {
		printFieldError(out, input, err)
		return
	}
	fmt.Fprintln(out, text)
}

// printFieldError prints a structured error, pointing a caret at the
// failing byte when the offset is known.
func printFieldError(out io.Writer, input string, err error) {
	var fe *errors.FieldError
	if !errors.As(err, &fe) {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}

	if fe.Offset >= 0 && fe.Offset <= len(input) {
		fmt.Fprintf(out, "  %s\n", input)
		fmt.Fprintf(out, "  %s^\n", strings.Repeat(" ", fe.Offset))
	}
	fmt.Fprintf(out, "%s error: %s\n", fe.Class, fe.Message)
	for _, hint := range fe.Hints {
		fmt.Fprintf(out, "  hint: %s\n", hint)
	}
}

// filterCompletions returns completion suggestions based on the word
// being typed.
func filterCompletions(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	lastWord := words[len(words)-1]

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, word)
		}
	}
	return matches
}
