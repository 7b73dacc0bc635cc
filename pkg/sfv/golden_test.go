package sfv

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// goldenCase is one fixture from testdata/. Cases without a canonical
// form must fail to parse; everything else must parse, serialize to the
// canonical text, and survive a second round trip unchanged.
type goldenCase struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Dialect   string `yaml:"dialect"`
	Input     string `yaml:"input"`
	Canonical string `yaml:"canonical"`
	Fail      bool   `yaml:"fail"`
}

func loadGolden(t *testing.T, path string) []goldenCase {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var cases []goldenCase
	if err := yaml.Unmarshal(raw, &cases); err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return cases
}

func (c goldenCase) dialect(t *testing.T) Dialect {
	t.Helper()
	switch c.Dialect {
	case "", "rfc9651":
		return RFC9651
	case "rfc8941":
		return RFC8941
	default:
		t.Fatalf("case %q: unknown dialect %q", c.Name, c.Dialect)
		return RFC9651
	}
}

func (c goldenCase) parse(d Dialect) (interface {
	Render(Dialect) (string, error)
}, error) {
	switch c.Type {
	case "list":
		return ParseList(c.Input, d)
	case "dictionary":
		return ParseDictionary(c.Input, d)
	case "item":
		return ParseItem(c.Input, d)
	}
	return nil, nil
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden fixtures found")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			for _, tc := range loadGolden(t, path) {
				t.Run(tc.Name, func(t *testing.T) {
					d := tc.dialect(t)
					switch tc.Type {
					case "list", "dictionary", "item":
					default:
						t.Fatalf("unknown type %q", tc.Type)
					}

					value, err := tc.parse(d)
					if tc.Fail {
						if err == nil {
							t.Fatalf("parse of %q succeeded, want failure", tc.Input)
						}
						return
					}
					if err != nil {
						t.Fatalf("parse of %q: %v", tc.Input, err)
					}

					got, err := value.Render(d)
					if err != nil {
						t.Fatalf("render of %q: %v", tc.Input, err)
					}
					if got != tc.Canonical {
						t.Fatalf("render of %q = %q, want %q", tc.Input, got, tc.Canonical)
					}

					again, err := tc.reparse(got, d)
					if err != nil {
						t.Fatalf("reparse of %q: %v", got, err)
					}
					if again != tc.Canonical {
						t.Errorf("round trip of %q not stable: %q", got, again)
					}
				})
			}
		})
	}
}

func (c goldenCase) reparse(text string, d Dialect) (string, error) {
	c.Input = text
	value, err := c.parse(d)
	if err != nil {
		return "", err
	}
	return value.Render(d)
}
