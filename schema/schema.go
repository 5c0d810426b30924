package schema

import "github.com/spektr-org/derive/engine"

// ============================================================================
// SCHEMA — Describes the columns of a dataset before it is loaded
// ============================================================================
// Auto-discovered from CSV (DiscoverFromCSV) or written by hand as JSON.
// helpers.ParseCSV uses it to build typed engine columns.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Columns []ColumnMeta `json:"columns" yaml:"columns"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty" yaml:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty" yaml:"discoveredAt,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty" yaml:"skippedColumns,omitempty"`
}

// ColumnMeta describes one source column.
type ColumnMeta struct {
	Key          string   `json:"key" yaml:"key"`       // column label in the dataset
	Header       string   `json:"header" yaml:"header"` // raw header text in the source
	DisplayName  string   `json:"displayName" yaml:"displayName"`
	Kind         string   `json:"kind" yaml:"kind"` // "int", "float", "string"
	SampleValues []string `json:"sampleValues,omitempty" yaml:"sampleValues,omitempty"`
	NullCount    int      `json:"nullCount,omitempty" yaml:"nullCount,omitempty"`
	IsLabel      bool     `json:"isLabel" yaml:"isLabel"` // usable as an expression operand
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column string `json:"column" yaml:"column"`
	Reason string `json:"reason" yaml:"reason"`
}

// DefaultColumn creates a ColumnMeta whose header and key are the same.
func DefaultColumn(key string, kind engine.Kind) ColumnMeta {
	return ColumnMeta{
		Key:         key,
		Header:      key,
		DisplayName: toDisplayName(key),
		Kind:        kind.String(),
		IsLabel:     engine.ValidLabel(key),
	}
}

// ColumnKeys returns all column keys in order.
func (c Config) ColumnKeys() []string {
	keys := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		keys[i] = col.Key
	}
	return keys
}

// Column finds a column by key.
func (c Config) Column(key string) (ColumnMeta, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return ColumnMeta{}, false
}

// EngineKind resolves the column's Kind string.
func (m ColumnMeta) EngineKind() (engine.Kind, error) {
	return engine.ParseKind(m.Kind)
}
