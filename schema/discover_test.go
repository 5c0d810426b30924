package schema

import (
	"testing"

	"github.com/spektr-org/derive/engine"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

// Sample Jira CSV export
var jiraCSV = []byte(`Issue Key,Summary,Status,Priority,Issue Type,Assignee,Component,Sprint,Story Points,Time Spent Hours,Created,Resolved
PROJ-101,Login timeout on mobile,In Progress,P1 - Critical,Bug,alice@corp.com,Backend,Sprint 17,5,12.5,2026-01-15,
PROJ-102,Dashboard crash on Safari,To Do,P2 - High,Bug,bob@corp.com,Frontend,Sprint 17,3,0,2026-01-16,
PROJ-103,Add dark mode toggle,Done,P3 - Medium,Story,charlie@corp.com,Frontend,Sprint 16,8,16,2026-01-10,2026-01-20
PROJ-104,Update user docs,In Review,P4 - Low,Task,alice@corp.com,Documentation,Sprint 17,2,4,2026-01-18,
PROJ-105,Payment fails with expired card,In Progress,P1 - Critical,Bug,dave@corp.com,Backend,Sprint 17,8,20,2026-01-12,
PROJ-106,Optimize DB queries,Done,P2 - High,Task,eve@corp.com,Backend,Sprint 16,5,10,2026-01-08,2026-01-15
PROJ-107,Mobile push notifications,To Do,P2 - High,Story,frank@corp.com,Mobile,Sprint 18,13,0,2026-01-20,
PROJ-108,Fix memory leak in worker,In Progress,P1 - Critical,Bug,alice@corp.com,Infrastructure,Sprint 17,5,8,2026-01-14,
PROJ-109,Redesign settings page,Done,P3 - Medium,Story,bob@corp.com,Frontend,Sprint 15,8,14,2026-01-05,2026-01-12
PROJ-110,API rate limiting,Done,P2 - High,Story,charlie@corp.com,Backend,Sprint 16,5,9,2026-01-09,2026-01-18
PROJ-111,Add export to CSV,To Do,P3 - Medium,Story,dave@corp.com,Backend,Sprint 18,3,0,2026-01-22,
PROJ-112,Update SSL certs,Done,P1 - Critical,Task,eve@corp.com,Infrastructure,Sprint 16,1,2,2026-01-07,2026-01-07
`)

// Sample Finance CSV (TPL-like)
var financeCSV = []byte(`Month,Location,Category,Field,Currency,Amount
Jan-2026,Singapore,Income,Salary,SGD,8500.00
Jan-2026,Singapore,Expense,Rent,SGD,2200.00
Jan-2026,Singapore,Expense,Groceries,SGD,450.00
Jan-2026,Singapore,Expense,Transport,SGD,120.00
Jan-2026,India,Income,Rental Income,INR,25000.00
Jan-2026,India,Expense,Property Tax,INR,5000.00
Feb-2026,Singapore,Income,Salary,SGD,8500.00
Feb-2026,Singapore,Expense,Rent,SGD,2200.00
Feb-2026,Singapore,Expense,Internet,SGD,49.90
Feb-2026,India,Transfer,ToIndia,INR,50000.00
`)

func TestDiscoverJiraCSV(t *testing.T) {
	config, err := DiscoverFromCSV(jiraCSV)
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}

	assertKind(t, config, "issue_key", engine.KindString)
	assertKind(t, config, "status", engine.KindString)
	assertKind(t, config, "story_points", engine.KindInt)
	assertKind(t, config, "time_spent_hours", engine.KindFloat)
	assertKind(t, config, "created", engine.KindString)
	assertKind(t, config, "resolved", engine.KindString)

	resolved, _ := config.Column("resolved")
	if resolved.NullCount != 7 {
		t.Errorf("resolved NullCount = %d, want 7", resolved.NullCount)
	}

	points, _ := config.Column("story_points")
	if points.Header != "Story Points" {
		t.Errorf("story_points Header = %q, want %q", points.Header, "Story Points")
	}
	if !points.IsLabel {
		t.Error("story_points should be usable as an expression operand")
	}

	if len(config.SkippedColumns) != 0 {
		t.Errorf("expected no skipped columns, got %v", config.SkippedColumns)
	}
	if config.DiscoveredFrom != "CSV" {
		t.Errorf("DiscoveredFrom = %q, want CSV", config.DiscoveredFrom)
	}
}

func TestDiscoverFinanceCSV(t *testing.T) {
	config, err := DiscoverFromCSV(financeCSV)
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}

	want := []string{"month", "location", "category", "field", "currency", "amount"}
	keys := config.ColumnKeys()
	if len(keys) != len(want) {
		t.Fatalf("ColumnKeys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("ColumnKeys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	// "8500.00" is not an int literal
	assertKind(t, config, "amount", engine.KindFloat)
	assertKind(t, config, "month", engine.KindString)

	currency, _ := config.Column("currency")
	assertContains(t, currency.SampleValues, "SGD", "currency samples")
	assertContains(t, currency.SampleValues, "INR", "currency samples")
}

func TestDiscoverNullsWidenInts(t *testing.T) {
	data := []byte("score,name\n1,a\n,b\n3,N/A\n")
	config, err := DiscoverFromCSV(data)
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}
	assertKind(t, config, "score", engine.KindFloat)
	assertKind(t, config, "name", engine.KindString)

	name, _ := config.Column("name")
	if name.NullCount != 1 {
		t.Errorf("name NullCount = %d, want 1", name.NullCount)
	}
}

func TestDiscoverNonFiniteWordsAreText(t *testing.T) {
	data := []byte("ratio,mode,mixed\n0.5,nan,1\n1.5,Inf,infinity\n2,infinity,2\n")
	config, err := DiscoverFromCSV(data)
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}
	assertKind(t, config, "ratio", engine.KindFloat)
	assertKind(t, config, "mode", engine.KindString)
	assertKind(t, config, "mixed", engine.KindString)
}

func TestIsFiniteNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"-2.5e3", true},
		{"nan", false},
		{"NaN", false},
		{"inf", false},
		{"-Infinity", false},
		{"1e400", false},
		{"abc", false},
	}
	for _, tt := range tests {
		if got := isFiniteNumber(tt.in); got != tt.want {
			t.Errorf("isFiniteNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDiscoverAllNullColumn(t *testing.T) {
	config, err := DiscoverFromCSV([]byte("a,b\n1,\n2,null\n"))
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}
	assertKind(t, config, "a", engine.KindInt)
	assertKind(t, config, "b", engine.KindString)
}

func TestDiscoverSkipsDuplicateAndEmptyKeys(t *testing.T) {
	data := []byte("Unit Price,unit_price,,qty\n1.5,2.5,x,3\n")
	config, err := DiscoverFromCSV(data)
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}

	keys := config.ColumnKeys()
	if len(keys) != 2 || keys[0] != "unit_price" || keys[1] != "qty" {
		t.Fatalf("ColumnKeys() = %v, want [unit_price qty]", keys)
	}
	if len(config.SkippedColumns) != 2 {
		t.Fatalf("SkippedColumns = %v, want 2 entries", config.SkippedColumns)
	}
	if config.SkippedColumns[0].Column != "unit_price" {
		t.Errorf("first skipped = %q, want unit_price", config.SkippedColumns[0].Column)
	}
	if config.SkippedColumns[1].Column != "" {
		t.Errorf("second skipped = %q, want empty header", config.SkippedColumns[1].Column)
	}
}

func TestDiscoverSampleSize(t *testing.T) {
	data := []byte("v\n1\n2\nnotanumber\n")

	config, err := DiscoverFromCSV(data, DiscoverOptions{SampleSize: 2, Name: "Sampled"})
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}
	assertKind(t, config, "v", engine.KindInt)
	if config.Name != "Sampled" {
		t.Errorf("Name = %q, want Sampled", config.Name)
	}

	config, err = DiscoverFromCSV(data)
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}
	assertKind(t, config, "v", engine.KindString)
	if config.Name != "Auto-discovered Dataset" {
		t.Errorf("Name = %q, want default", config.Name)
	}
}

func TestDiscoverErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty input", ""},
		{"header only", "a,b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DiscoverFromCSV([]byte(tt.data)); err == nil {
				t.Errorf("DiscoverFromCSV(%q) succeeded, want error", tt.data)
			}
		})
	}
}

func TestDiscoverLabelFlag(t *testing.T) {
	config, err := DiscoverFromCSV([]byte("Q1 Sales,Region\n10,EU\n"))
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}
	q1, _ := config.Column("q1_sales")
	if q1.IsLabel {
		t.Error("q1_sales contains a digit and should not be a label")
	}
	region, _ := config.Column("region")
	if !region.IsLabel {
		t.Error("region should be a label")
	}
}

func TestIsNull(t *testing.T) {
	for _, s := range []string{"", "  ", "null", "NULL", "N/A", "n/a", " n/a "} {
		if !IsNull(s) {
			t.Errorf("IsNull(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "none", "NaN", "x"} {
		if IsNull(s) {
			t.Errorf("IsNull(%q) = true, want false", s)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Story Points", "story_points"},
		{"Issue Key", "issue_key"},
		{"issueType", "issue_type"},
		{"StoryPoints", "story_points"},
		{"Time Spent Hours", "time_spent_hours"},
		{"ID", "id"},
		{"created_at", "created_at"},
		{"Sprint", "sprint"},
	}

	for _, tt := range tests {
		got := toSnakeCase(tt.input)
		if got != tt.expected {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"story_points", "Story Points"},
		{"Sprint", "Sprint"},
		{"Issue Type", "Issue Type"},
		{"time_spent_hours", "Time Spent Hours"},
	}

	for _, tt := range tests {
		got := toDisplayName(tt.input)
		if got != tt.expected {
			t.Errorf("toDisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDefaultColumn(t *testing.T) {
	col := DefaultColumn("unit_price", engine.KindFloat)
	if col.DisplayName != "Unit Price" || col.Kind != "float" || !col.IsLabel {
		t.Errorf("DefaultColumn = %+v", col)
	}
	kind, err := col.EngineKind()
	if err != nil || kind != engine.KindFloat {
		t.Errorf("EngineKind() = %v, %v", kind, err)
	}
}

func assertKind(t *testing.T, config *Config, key string, want engine.Kind) {
	t.Helper()
	col, ok := config.Column(key)
	if !ok {
		t.Errorf("column %q not found in %v", key, config.ColumnKeys())
		return
	}
	if col.Kind != want.String() {
		t.Errorf("%s kind = %q, want %q", key, col.Kind, want)
	}
}

func assertContains(t *testing.T, slice []string, item string, msg string) {
	t.Helper()
	for _, s := range slice {
		if s == item {
			return
		}
	}
	t.Errorf("%s: %q not found in %v", msg, item, slice)
}
