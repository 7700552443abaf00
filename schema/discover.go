package schema

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column classification
// ============================================================================
// Inspects raw CSV and generates a schema.Config automatically.
//
// Per column:
//   1. Sampled cells vote for a value type (bool, number, date, text)
//   2. Numbers become numeric columns; everything else is categorical
//   3. Cardinality decides the groupable / identifier hints
//
// Every column is kept: the data table view shows them all.
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize  int      // Max rows to inspect (0 = all). Default: 1000
	Name        string   // Dataset name override (otherwise "Auto-discovered Dataset")
	Categorical []string // Force these columns categorical (header or key)
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{SampleSize: 1000}
}

// maxSampleRows bounds discovery when SampleSize is 0.
const maxSampleRows = 100000

// DiscoverFromCSV generates a schema.Config by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV headers")
	}
	headers = trimHeaders(headers)
	if len(headers) == 0 || (len(headers) == 1 && headers[0] == "") {
		return nil, errors.New("CSV has no columns")
	}

	rows := readSample(reader, opt.SampleSize)
	if len(rows) == 0 {
		return nil, errors.New("CSV has no data rows")
	}

	forced := make(map[string]bool)
	for _, name := range opt.Categorical {
		forced[strings.ToLower(name)] = true
		forced[toSnakeCase(name)] = true
	}

	config := &Config{
		Name:           opt.Name,
		Version:        "1.0",
		RowCount:       len(rows),
		DiscoveredFrom: "CSV",
		DiscoveredAt:   time.Now().Format(time.RFC3339),
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	keys := make(map[string]bool)
	for i, header := range headers {
		p := profileColumn(header, i, rows)
		if forced[strings.ToLower(header)] || forced[p.key] {
			p.valueType = typeString
		}
		if keys[p.key] {
			p.key = fmt.Sprintf("%s_%d", p.key, i+1)
		}
		keys[p.key] = true
		config.Columns = append(config.Columns, p.meta())
	}

	return config, nil
}

// readSample reads up to limit records. Malformed records are skipped
// here; the loader is the one that rejects them.
func readSample(reader *csv.Reader, limit int) [][]string {
	if limit <= 0 {
		limit = maxSampleRows
	}

	var rows [][]string
	for len(rows) < limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// ============================================================================
// COLUMN PROFILE
// ============================================================================

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnProfile struct {
	header    string
	key       string
	valueType columnType

	rows     int
	distinct int
	nulls    int
	samples  []string
}

func profileColumn(header string, index int, rows [][]string) columnProfile {
	p := columnProfile{
		header: header,
		key:    toSnakeCase(header),
		rows:   len(rows),
	}
	if p.key == "" {
		p.key = fmt.Sprintf("column_%d", index+1)
	}

	cells := make([]string, 0, len(rows))
	distinct := make(map[string]struct{})
	for _, row := range rows {
		if index >= len(row) || IsNull(row[index]) {
			p.nulls++
			continue
		}
		cell := strings.TrimSpace(row[index])
		cells = append(cells, cell)
		distinct[cell] = struct{}{}
	}

	p.distinct = len(distinct)
	p.samples = firstSorted(distinct, 10)
	p.valueType = detectType(cells)
	return p
}

func (p columnProfile) meta() ColumnMeta {
	meta := ColumnMeta{
		Header:       p.header,
		Key:          p.key,
		DisplayName:  toDisplayName(p.header),
		Kind:         KindCategorical,
		SampleValues: p.samples,
		UniqueCount:  p.distinct,
		NullCount:    p.nulls,
		Identifier:   p.distinct == p.rows && p.rows > 10,
	}
	if p.valueType == typeNumeric {
		meta.Kind = KindNumeric
	}

	if p.distinct <= 10 {
		meta.CardinalityHint = "low"
	} else if p.distinct <= 100 {
		meta.CardinalityHint = "medium"
	} else {
		meta.CardinalityHint = "high"
	}

	switch {
	case meta.Identifier || p.distinct == 0:
	case meta.Kind == KindNumeric:
		// Coded numbers such as a generation 1-6. An absolute bound alone
		// fails on small files where 6/12 distinct values is half the rows.
		meta.Groupable = p.distinct < 20 && float64(p.distinct)/float64(p.rows) < 0.3
	default:
		meta.Groupable = p.distinct <= p.rows/2 || p.distinct <= 50
	}
	return meta
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// typeVotes counts how many cells parse as each candidate type.
type typeVotes struct {
	total, numbers, dates, bools int
}

func (v *typeVotes) add(cell string) {
	v.total++
	if _, ok := ParseNumber(cell); ok {
		v.numbers++
	}
	if isDate(cell) {
		v.dates++
	}
	if isBool(cell) {
		v.bools++
	}
}

// detectType classifies non-null cells. A type wins with 80% of the votes;
// bool words are checked first and numbers before dates (bare years parse
// as both).
func detectType(cells []string) columnType {
	var votes typeVotes
	for _, c := range cells {
		votes.add(c)
	}
	if votes.total == 0 {
		return typeString
	}

	needed := votes.total * 8 / 10
	if needed < 1 {
		needed = 1
	}
	switch {
	case votes.bools >= needed:
		return typeBool
	case votes.numbers >= needed:
		return typeNumeric
	case votes.dates >= needed:
		return typeDate
	}
	return typeString
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return true
		}
	}
	return false
}

// isBool accepts words only; 0/1 columns stay numeric.
func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name", "Sp. Atk" or "columnName" →
// "column_name", "sp_atk", "column_name".
func toSnakeCase(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsUpper(r):
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		prev = r
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '_' })
	return strings.Join(parts, "_")
}

// toDisplayName cleans a header for human display.
// "story_points" → "Story Points", "Sp. Atk" → "Sp. Atk"
func toDisplayName(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, " ") || !strings.ContainsAny(s, "_-") && s != strings.ToLower(s) {
		return s
	}
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// firstSorted returns up to n of the set's values in sorted order.
func firstSorted(set map[string]struct{}, n int) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func trimHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}
