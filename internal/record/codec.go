package record

import (
	"encoding/json"
	"strings"
)

// Format tells which encoding a line was decoded from
type Format int

const (
	Blank       Format = iota // Empty or whitespace-only line
	Structured                // JSON object line
	Legacy                    // alias:secret:flag:algorithm
	Unparseable               // Non-blank line matching neither encoding
)

func (f Format) String() string {
	switch f {
	case Blank:
		return "blank"
	case Structured:
		return "structured"
	case Legacy:
		return "legacy"
	default:
		return "unparseable"
	}
}

// Result is the outcome of decoding one line
type Result struct {
	Record Record
	Format Format
}

// OK reports whether the line carried a record
func (r Result) OK() bool {
	return r.Format == Structured || r.Format == Legacy
}

// structuredKeys are the mandatory keys of a structured line. Keys match
// exactly, unlike encoding/json struct decoding which ignores case.
var structuredKeys = []string{"alias", "secret", "is_unencrypted", "algorithm", "created_at"}

// Parse decodes a line, trying the structured encoding first and the legacy
// delimited encoding second.
func Parse(line string) Result {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Result{Format: Blank}
	}

	if rec, ok := parseStructured(trimmed); ok {
		return Result{Record: rec, Format: Structured}
	}
	if rec, ok := parseLegacy(trimmed); ok {
		return Result{Record: rec, Format: Legacy}
	}
	return Result{Format: Unparseable}
}

// ParseAll decodes every line and returns only the records, in file order
func ParseAll(lines []string) []Record {
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		if res := Parse(line); res.OK() {
			records = append(records, res.Record)
		}
	}
	return records
}

func parseStructured(line string) (Record, bool) {
	if !strings.HasPrefix(line, "{") {
		return Record{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Record{}, false
	}
	for _, key := range structuredKeys {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			return Record{}, false
		}
	}

	var rec Record
	if json.Unmarshal(fields["alias"], &rec.Alias) != nil ||
		json.Unmarshal(fields["secret"], &rec.Secret) != nil ||
		json.Unmarshal(fields["is_unencrypted"], &rec.IsUnencrypted) != nil ||
		json.Unmarshal(fields["algorithm"], &rec.Algorithm) != nil ||
		json.Unmarshal(fields["created_at"], &rec.CreatedAt) != nil {
		return Record{}, false
	}
	if rec.CreatedAt < 0 {
		return Record{}, false
	}
	return rec, true
}

func parseLegacy(line string) (Record, bool) {
	parts := strings.Split(line, Delimiter)
	if len(parts) < 4 {
		return Record{}, false
	}
	return Record{
		Alias:         parts[0],
		Secret:        parts[1],
		IsUnencrypted: parts[2] == "1",
		Algorithm:     parts[3],
		CreatedAt:     0,
	}, true
}
