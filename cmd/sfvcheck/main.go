package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/k00ni/http-structured-fields/pkg/sfv"
	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
	"github.com/k00ni/http-structured-fields/pkg/sfv/repl"
)

// Version is set at compile time via -ldflags
var Version = "0.3.0"

var (
	// Display flags
	helpFlag        = flag.Bool("h", false, "Show help message")
	helpLongFlag    = flag.Bool("help", false, "Show help message")
	versionFlag     = flag.Bool("V", false, "Show version information")
	versionLongFlag = flag.Bool("version", false, "Show version information")

	// Parsing flags
	typeFlag        = flag.String("t", "auto", "Field type: auto, list, dict, item")
	typeLongFlag    = flag.String("type", "", "Field type: auto, list, dict, item")
	dialectFlag     = flag.String("d", "rfc9651", "Dialect: rfc9651 or rfc8941")
	dialectLongFlag = flag.String("dialect", "", "Dialect: rfc9651 or rfc8941")

	// Evaluation flags
	evalFlag     = flag.String("e", "", "Canonicalize a field value string")
	evalLongFlag = flag.String("eval", "", "Canonicalize a field value string")
	checkFlag    = flag.Bool("check", false, "Validate without printing canonical forms")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag || *versionLongFlag {
		fmt.Printf("sfvcheck version %s\n", Version)
		os.Exit(0)
	}

	fieldType := *typeFlag
	if *typeLongFlag != "" {
		fieldType = *typeLongFlag
	}
	dialectName := *dialectFlag
	if *dialectLongFlag != "" {
		dialectName = *dialectLongFlag
	}

	dialect, err := parseDialect(dialectName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if !validFieldType(fieldType) {
		fmt.Fprintf(os.Stderr, "Error: unknown field type %q (auto, list, dict, item)\n", fieldType)
		os.Exit(2)
	}

	evalValue := *evalFlag
	if evalValue == "" {
		evalValue = *evalLongFlag
	}

	switch {
	case evalValue != "":
		os.Exit(evalInline(evalValue, fieldType, dialect, *checkFlag))
	case len(flag.Args()) > 0:
		os.Exit(processFiles(flag.Args(), fieldType, dialect, *checkFlag))
	case *checkFlag:
		fmt.Fprintln(os.Stderr, "Error: --check requires -e or at least one file")
		os.Exit(2)
	default:
		repl.Start(os.Stdin, os.Stdout, Version)
	}
}

func printHelp() {
	fmt.Printf(`sfvcheck - HTTP structured field value validator version %s

Usage:
  sfvcheck [options] [file]...
  sfvcheck -e "value"
  sfvcheck --check <file>...

Each input file holds one field value per line. Blank lines and lines
starting with '#' are skipped. Without --check, every valid line is
printed in its canonical serialization.

Display Options:
  -h, --help            Show this help message
  -V, --version         Show version information

Parsing Options:
  -t, --type <name>     Field type: auto, list, dict, item (default auto)
  -d, --dialect <name>  Grammar dialect: rfc9651 or rfc8941 (default rfc9651)

Evaluation Options:
  -e, --eval <value>    Canonicalize a single field value string
  --check               Validate only; print nothing for valid input

Examples:
  sfvcheck                          Start interactive REPL
  sfvcheck -e "a,  b;q=0.5"         Canonicalize (outputs: a, b;q=0.5)
  sfvcheck -t dict -e "a=1, b"      Parse as a dictionary
  sfvcheck -d rfc8941 -e "@1"       Reject RFC 9651-only values
  sfvcheck --check headers.txt      Validate a file of field values
  sfvcheck headers.txt              Canonicalize a file of field values

Exit status is 0 when every value is valid, 1 on invalid values, and 2
on usage or file errors.
`, Version)
}

func parseDialect(name string) (sfv.Dialect, error) {
	switch name {
	case "rfc9651", "":
		return sfv.RFC9651, nil
	case "rfc8941":
		return sfv.RFC8941, nil
	}
	return sfv.RFC9651, fmt.Errorf("unknown dialect %q (rfc9651 or rfc8941)", name)
}

func validFieldType(name string) bool {
	switch name {
	case "auto", "list", "dict", "item":
		return true
	}
	return false
}

// canonicalize parses one field value and returns its canonical text.
// In auto mode the dictionary grammar is tried first because it accepts
// the most inputs, then list, then item.
func canonicalize(value, fieldType string, dialect sfv.Dialect) (string, error) {
	switch fieldType {
	case "list":
		list, err := sfv.ParseList(value, dialect)
		if err != nil {
			return "", err
		}
		return list.Render(dialect)
	case "dict":
		dict, err := sfv.ParseDictionary(value, dialect)
		if err != nil {
			return "", err
		}
		return dict.Render(dialect)
	case "item":
		item, err := sfv.ParseItem(value, dialect)
		if err != nil {
			return "", err
		}
		return item.Render(dialect)
	}

	if out, err := canonicalize(value, "dict", dialect); err == nil {
		return out, nil
	}
	if out, err := canonicalize(value, "list", dialect); err == nil {
		return out, nil
	}
	return canonicalize(value, "item", dialect)
}

// evalInline canonicalizes a single value from the command line.
func evalInline(value, fieldType string, dialect sfv.Dialect, checkOnly bool) int {
	out, err := canonicalize(value, fieldType, dialect)
	if err != nil {
		printFieldError(os.Stderr, "<eval>", 0, value, err)
		return 1
	}
	if !checkOnly {
		fmt.Println(out)
	}
	return 0
}

// processFiles validates (and optionally canonicalizes) files of field
// values, one per line.
func processFiles(files []string, fieldType string, dialect sfv.Dialect, checkOnly bool) int {
	hasErrors := false

	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
			return 2
		}
		if !processLines(filename, string(content), fieldType, dialect, checkOnly, os.Stdout, os.Stderr) {
			hasErrors = true
		}
	}

	if hasErrors {
		return 1
	}
	return 0
}

// processLines handles one file's worth of input. Returns false when any
// line fails to parse.
func processLines(filename, content, fieldType string, dialect sfv.Dialect, checkOnly bool, out, errOut io.Writer) bool {
	ok := true
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		canonical, err := canonicalize(line, fieldType, dialect)
		if err != nil {
			printFieldError(errOut, filename, i+1, line, err)
			ok = false
			continue
		}
		if !checkOnly {
			fmt.Fprintln(out, canonical)
		}
	}
	return ok
}

// printFieldError prints a structured error with the input line and a
// pointer at the failing byte when the offset is known.
func printFieldError(out io.Writer, filename string, lineNum int, input string, err error) {
	var fe *errors.FieldError
	if !errors.As(err, &fe) {
		fmt.Fprintf(out, "%s: %v\n", filename, err)
		return
	}

	if lineNum > 0 {
		fmt.Fprintf(out, "%s: line %d: %s error: %s\n", filename, lineNum, fe.Class, fe.Message)
	} else {
		fmt.Fprintf(out, "%s: %s error: %s\n", filename, fe.Class, fe.Message)
	}
	for _, hint := range fe.Hints {
		fmt.Fprintf(out, "  hint: %s\n", hint)
	}
	if fe.Offset >= 0 && fe.Offset <= len(input) {
		fmt.Fprintf(out, "    %s\n", input)
		fmt.Fprintf(out, "    %s^\n", strings.Repeat(" ", fe.Offset))
	}
}
