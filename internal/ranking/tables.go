package ranking

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unranked is the rank given to colors and sizes that are missing or not in
// the tables. It is larger than any table index.
const Unranked = 999

// Tables holds the priority lists the normalizer ranks against. The rank of a
// value is its index in the list.
type Tables struct {
	Products []string `yaml:"products"`
	Colors   []string `yaml:"colors"`
	Sizes    []string `yaml:"sizes"`
}

func DefaultTables() Tables {
	return Tables{
		Products: []string{"TA00", "TA01", "TA03", "TB00", "TB103"},
		Colors:   []string{"黑", "白", "灰", "藍", "粉", "綠", "卡其", "棕紅", "煙灰", "深灰", "淺灰", "深藍", "淺藍"},
		Sizes:    []string{"M", "L", "XL", "2XL", "3XL", "4XL", "5XL", "6XL", "7XL", "8XL", "9XL", "10XL"},
	}
}

// LoadTables reads a YAML rank file. Lists left out of the file keep their
// defaults.
func LoadTables(path string) (Tables, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTables(), nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read rank tables: %w", err)
	}
	return ParseTables(blob)
}

func ParseTables(blob []byte) (Tables, error) {
	var parsed Tables
	if err := yaml.Unmarshal(blob, &parsed); err != nil {
		return Tables{}, fmt.Errorf("parse rank tables: %w", err)
	}

	out := DefaultTables()
	if parsed.Products != nil {
		out.Products = parsed.Products
	}
	if parsed.Colors != nil {
		out.Colors = parsed.Colors
	}
	if parsed.Sizes != nil {
		out.Sizes = parsed.Sizes
	}
	if err := out.Validate(); err != nil {
		return Tables{}, err
	}
	return out, nil
}

func (t Tables) Validate() error {
	check := func(name string, values []string) error {
		if len(values) >= Unranked {
			return fmt.Errorf("rank table %s has %d entries, limit is %d", name, len(values), Unranked-1)
		}
		seen := map[string]struct{}{}
		for i, v := range values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("rank table %s: entry %d is empty", name, i)
			}
			if _, ok := seen[v]; ok {
				return fmt.Errorf("rank table %s: duplicate entry %q", name, v)
			}
			seen[v] = struct{}{}
		}
		return nil
	}
	if err := check("products", t.Products); err != nil {
		return err
	}
	if err := check("colors", t.Colors); err != nil {
		return err
	}
	return check("sizes", t.Sizes)
}

func (t Tables) Encode() ([]byte, error) {
	return yaml.Marshal(t)
}
