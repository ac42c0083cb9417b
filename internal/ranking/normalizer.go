package ranking

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"skusort/internal"
)

var productPattern = regexp.MustCompile(`^[A-Z]+\d+`)

type SortKey struct {
	ProductRank int
	Product     string
	ColorRank   int
	Color       string
	SizeRank    int
	Size        string
	Missing     bool
}

type Normalizer struct {
	tables      Tables
	colorRank   map[string]int
	sizeRank    map[string]int
	sizePattern *regexp.Regexp
}

func NewNormalizer(t Tables) *Normalizer {
	n := &Normalizer{
		tables:    t,
		colorRank: indexOf(t.Colors),
		sizeRank:  indexOf(t.Sizes),
	}

	sizes := append([]string(nil), t.Sizes...)
	sort.SliceStable(sizes, func(i, j int) bool { return len(sizes[i]) > len(sizes[j]) })
	alts := []string{`\d+XL`, `\d+`}
	for _, s := range sizes {
		alts = append(alts, regexp.QuoteMeta(s))
	}
	n.sizePattern = regexp.MustCompile(`(` + strings.Join(alts, "|") + `)$`)
	return n
}

func (n *Normalizer) Tables() Tables {
	return n.tables
}

// ExtractToken returns the candidate found at the leftmost position of text.
// When several candidates start at that position the earliest listed wins.
func ExtractToken(text string, candidates []string) (string, bool) {
	for i := range text {
		rest := text[i:]
		for _, c := range candidates {
			if c != "" && strings.HasPrefix(rest, c) {
				return c, true
			}
		}
	}
	return "", false
}

func (n *Normalizer) Product(name string) (string, int) {
	token := productPattern.FindString(name)
	if token == "" {
		token = name
	}
	for i, prefix := range n.tables.Products {
		if strings.HasPrefix(token, prefix) {
			return token, i
		}
	}
	return token, len(n.tables.Products)
}

func (n *Normalizer) Color(name string) (string, int) {
	token, ok := ExtractToken(name, n.tables.Colors)
	if !ok {
		return "", Unranked
	}
	return token, n.colorRank[token]
}

func (n *Normalizer) Size(name string) (string, int) {
	m := n.sizePattern.FindStringSubmatch(name)
	if len(m) < 2 {
		return "", Unranked
	}
	token := m[1]
	if rank, ok := n.sizeRank[token]; ok {
		return token, rank
	}
	value, err := strconv.Atoi(token)
	if err != nil || value < 0 {
		return token, Unranked
	}
	if value >= Unranked {
		value = Unranked - 1
	}
	return token, value
}

func (n *Normalizer) Key(name *string) SortKey {
	if name == nil || strings.TrimSpace(*name) == "" {
		return SortKey{
			ProductRank: len(n.tables.Products),
			ColorRank:   Unranked,
			SizeRank:    Unranked,
			Missing:     true,
		}
	}

	text := strings.TrimSpace(*name)
	key := SortKey{}
	key.Product, key.ProductRank = n.Product(text)
	key.Color, key.ColorRank = n.Color(text)
	key.Size, key.SizeRank = n.Size(text)
	return key
}

// Compare orders keys by product rank, then puts missing names after present
// ones, then product token, color rank and size rank.
func Compare(a, b SortKey) int {
	if a.ProductRank != b.ProductRank {
		return cmpInt(a.ProductRank, b.ProductRank)
	}
	if a.Missing != b.Missing {
		if a.Missing {
			return 1
		}
		return -1
	}
	if c := strings.Compare(a.Product, b.Product); c != 0 {
		return c
	}
	if a.ColorRank != b.ColorRank {
		return cmpInt(a.ColorRank, b.ColorRank)
	}
	return cmpInt(a.SizeRank, b.SizeRank)
}

type keyed struct {
	pos    int
	record internal.Record
	key    SortKey
}

// Sort returns the records in canonical order together with their keys.
// Records with equal keys keep their input order.
func (n *Normalizer) Sort(records []internal.Record) ([]internal.Record, []SortKey) {
	rows := make([]keyed, len(records))
	for i, r := range records {
		rows[i] = keyed{pos: i, record: r, key: n.Key(r.DisplayName)}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := Compare(rows[i].key, rows[j].key); c != 0 {
			return c < 0
		}
		return rows[i].pos < rows[j].pos
	})

	out := make([]internal.Record, len(rows))
	keys := make([]SortKey, len(rows))
	for i, row := range rows {
		out[i] = row.record
		keys[i] = row.key
	}
	return out, keys
}

func indexOf(values []string) map[string]int {
	out := make(map[string]int, len(values))
	for i, v := range values {
		if _, ok := out[v]; !ok {
			out[v] = i
		}
	}
	return out
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
