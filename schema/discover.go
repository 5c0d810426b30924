package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spektr-org/derive/engine"
)

// ============================================================================
// AUTO-DISCOVERY — Column kind inference for CSV input
// ============================================================================
// Inspects raw CSV and generates a schema.Config automatically.
//
// Classification pipeline per column:
//   1. Header → snake_case key + display name
//   2. Sample values → drop nulls ("", null, NULL, N/A, n/a)
//   3. Remaining values → kind:
//        every value an int64            → int   (float if any nulls)
//        every value a float64           → float
//        anything else, or no values     → string
//   4. Duplicate or empty keys → skipped
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize int    // Max rows to inspect (0 = all). Default: 1000
	Name       string // Dataset name override (otherwise inferred)
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// DiscoverFromCSV generates a schema.Config by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))

	// 1. Read headers
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	// 2. Read sample rows
	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}

	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	// 3. Analyze each column
	config := &Config{
		Name:    opt.Name,
		Version: "1.0",
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	seen := make(map[string]bool)
	for i, header := range headers {
		col := analyzeColumn(header, i, rows)
		switch {
		case col.Key == "":
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column: header,
				Reason: "Header is empty",
			})
		case seen[col.Key]:
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column: header,
				Reason: fmt.Sprintf("Key %q already used by an earlier column", col.Key),
			})
		default:
			seen[col.Key] = true
			config.Columns = append(config.Columns, col)
		}
	}

	config.DiscoveredFrom = "CSV"
	config.DiscoveredAt = time.Now().Format(time.RFC3339)

	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

// analyzeColumn inspects all sampled values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string) ColumnMeta {
	key := toSnakeCase(strings.TrimSpace(header))
	col := ColumnMeta{
		Key:         key,
		Header:      header,
		DisplayName: toDisplayName(header),
		IsLabel:     engine.ValidLabel(key),
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) || IsNull(row[index]) {
			col.NullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		values = append(values, val)
		uniqueSet[val] = true
	}

	col.SampleValues = collectSamples(uniqueSet, 10)
	col.Kind = detectKind(values, col.NullCount).String()
	return col
}

// detectKind picks the narrowest kind that holds every non-null value.
// Ints are widened to float when nulls are present, since nulls read as NaN.
func detectKind(values []string, nulls int) engine.Kind {
	if len(values) == 0 {
		return engine.KindString
	}

	allInt := true
	for _, v := range values {
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				continue
			}
			allInt = false
		}
		if !isFiniteNumber(v) {
			return engine.KindString
		}
	}

	if allInt && nulls == 0 {
		return engine.KindInt
	}
	return engine.KindFloat
}

// isFiniteNumber reports whether v parses as a finite float64.
// ParseFloat also accepts "nan", "inf" and "infinity", which are words here.
func isFiniteNumber(v string) bool {
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsNull reports whether a raw cell counts as missing.
func IsNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "NULL", "N/A", "n/a":
		return true
	}
	return false
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	prev := rune(0)
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	return s
}

// ToKey exposes the header → key conversion used during discovery.
func ToKey(header string) string {
	return toSnakeCase(strings.TrimSpace(header))
}

// toDisplayName cleans a header for human display.
// "story_points" → "Story Points", "assignee" → "Assignee"
func toDisplayName(s string) string {
	// If already has spaces/mixed case, just trim
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	// Convert snake_case to Title Case
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples representative values.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}

	// Sort for deterministic output
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
