// Package config loads the rule configuration file and the runtime settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jonathan/excel-validator/internal/rules"
	"github.com/jonathan/excel-validator/internal/schemas"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Error reports a rule configuration file that cannot be read, parsed or
// does not match the rule schema.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := "config error"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Config is the decoded rule configuration.
type Config struct {
	Validators Validators `json:"validators"`
	Excludes   []string   `json:"excludes,omitempty"` // Column letters never read or marked
	Range      []string   `json:"range,omitempty"`    // Two column letters or cell references
	Header     *int       `json:"header,omitempty"`   // One-based logical header row
}

// Validators groups the rule chains of a configuration.
type Validators struct {
	Columns map[string]RuleList `json:"columns,omitempty"`
	Header  RuleList            `json:"header,omitempty"`
	Default RuleList            `json:"default,omitempty"`
}

// RuleEntry is one declared rule: its kind and parameters.
type RuleEntry struct {
	Kind   string
	Params map[string]any
}

// UnmarshalJSON accepts "Kind" or {"Kind": {params}}.
func (r *RuleEntry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Kind = name
		r.Params = nil
		return nil
	}

	var entry map[string]map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		return fmt.Errorf("rule must be a name or a single-key mapping: %w", err)
	}
	if len(entry) != 1 {
		return fmt.Errorf("rule must have exactly one kind, got %d", len(entry))
	}
	for kind, params := range entry {
		r.Kind = kind
		r.Params = params
	}
	return nil
}

func (r RuleEntry) MarshalJSON() ([]byte, error) {
	params := r.Params
	if params == nil {
		params = map[string]any{}
	}
	return json.Marshal(map[string]map[string]any{r.Kind: params})
}

// RuleList is an ordered rule chain declaration. A single rule is accepted
// where a list is expected.
type RuleList []RuleEntry

func (l *RuleList) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*l = nil
		return nil
	}
	var list []RuleEntry
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var single RuleEntry
	if err := single.UnmarshalJSON(data); err != nil {
		return err
	}
	*l = RuleList{single}
	return nil
}

// LoadConfig loads the rule configuration from a YAML or TOML file.
// The decoded document is checked against the embedded rule schema before
// it is mapped onto Config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, &Error{Message: "config path is empty"}
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: "failed to read config file", Cause: err}
	}

	cfg, err := Parse(data, detectFormat(path))
	if err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
			return nil, cfgErr
		}
		return nil, err
	}
	return cfg, nil
}

// Format is a rule configuration file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// detectFormat determines the configuration format from file extension
func detectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes configuration content of the given format.
func Parse(content []byte, format Format) (*Config, error) {
	doc, err := parseContent(content, format)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &Error{Message: "config file is empty"}
	}

	if err := schemas.ValidateDocument(schemas.RulesSchema, doc); err != nil {
		return nil, &Error{Message: "configuration does not match the rule schema", Cause: err}
	}

	// The schema-checked document is mapped onto Config through JSON so
	// YAML and TOML share one set of field rules.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &Error{Message: "failed to encode configuration", Cause: err}
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, &Error{Message: "failed to decode configuration", Cause: err}
	}
	return &cfg, nil
}

// parseContent parses configuration content based on format
func parseContent(content []byte, format Format) (map[string]any, error) {
	var data map[string]any

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &data); err != nil {
			return nil, &Error{Message: "TOML parse error", Cause: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, &Error{Message: "YAML parse error", Cause: err}
		}
	default:
		return nil, &Error{Message: fmt.Sprintf("unsupported format: %s", format)}
	}

	if data == nil {
		return nil, nil
	}
	normalized, ok := normalize(data).(map[string]any)
	if !ok {
		return nil, &Error{Message: "configuration root must be a mapping"}
	}
	return normalized, nil
}

// normalize converts YAML mappings with non-string keys into string-keyed
// maps so the document can be encoded as JSON.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}

// Validate checks the parts of the configuration that do not depend on
// building rules: column letters, the range and the header row.
func (c *Config) Validate() error {
	if _, err := c.excludes(); err != nil {
		return err
	}
	if _, err := c.scanRange(); err != nil {
		return err
	}
	if c.Header != nil && *c.Header < 1 {
		return &rules.ConfigError{Param: "header", Message: "header row must be 1 or greater"}
	}
	for column := range c.Validators.Columns {
		if _, err := excelize.ColumnNameToNumber(column); err != nil {
			return &rules.ConfigError{Message: fmt.Sprintf("column %q is not a valid column", column), Cause: err}
		}
	}
	return nil
}

// RuleSet builds the validators of every declared chain.
func (c *Config) RuleSet() (*rules.RuleSet, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rs := &rules.RuleSet{Columns: make(map[string]rules.Chain, len(c.Validators.Columns))}

	for column, entries := range c.Validators.Columns {
		key := strings.ToUpper(column)
		if _, dup := rs.Columns[key]; dup {
			return nil, &rules.ConfigError{Message: fmt.Sprintf("column %s is declared twice", key)}
		}
		chain, err := buildChain(entries, "column "+key)
		if err != nil {
			return nil, err
		}
		rs.Columns[key] = chain
	}

	var err error
	if rs.Header, err = buildChain(c.Validators.Header, "header"); err != nil {
		return nil, err
	}
	if rs.Default, err = buildChain(c.Validators.Default, "default"); err != nil {
		return nil, err
	}
	if rs.Excludes, err = c.excludes(); err != nil {
		return nil, err
	}
	if rs.Range, err = c.scanRange(); err != nil {
		return nil, err
	}
	if c.Header != nil {
		rs.HeaderRow = *c.Header
	}

	if err := rs.Check(); err != nil {
		return nil, err
	}
	return rs, nil
}

func buildChain(entries RuleList, where string) (rules.Chain, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	chain := make(rules.Chain, 0, len(entries))
	for i, entry := range entries {
		kind, err := rules.ParseKind(entry.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s rule %d: %w", where, i+1, err)
		}
		v, err := rules.New(kind, rules.Params(entry.Params))
		if err != nil {
			return nil, fmt.Errorf("%s rule %d: %w", where, i+1, err)
		}
		chain = append(chain, v)
	}
	return chain, nil
}

func (c *Config) excludes() (map[int]bool, error) {
	if len(c.Excludes) == 0 {
		return nil, nil
	}
	out := make(map[int]bool, len(c.Excludes))
	for _, column := range c.Excludes {
		n, err := excelize.ColumnNameToNumber(column)
		if err != nil {
			return nil, &rules.ConfigError{Param: "excludes", Message: fmt.Sprintf("%q is not a valid column", column), Cause: err}
		}
		out[n] = true
	}
	return out, nil
}

func (c *Config) scanRange() (rules.Range, error) {
	var r rules.Range
	if len(c.Range) == 0 {
		return r, nil
	}
	if len(c.Range) != 2 {
		return r, &rules.ConfigError{Param: "range", Message: fmt.Sprintf("expected two bounds, got %d", len(c.Range))}
	}

	var err error
	if r.FirstColumn, r.FirstRow, err = parseBound(c.Range[0]); err != nil {
		return r, err
	}
	if r.LastColumn, r.LastRow, err = parseBound(c.Range[1]); err != nil {
		return r, err
	}
	return r, nil
}

// parseBound reads "D" or "D50".
func parseBound(bound string) (col, row int, err error) {
	name := bound
	if strings.IndexAny(bound, "0123456789") >= 0 {
		name, row, err = excelize.SplitCellName(bound)
		if err != nil {
			return 0, 0, &rules.ConfigError{Param: "range", Message: fmt.Sprintf("%q is not a column or cell", bound), Cause: err}
		}
	}
	col, err = excelize.ColumnNameToNumber(name)
	if err != nil {
		return 0, 0, &rules.ConfigError{Param: "range", Message: fmt.Sprintf("%q is not a column or cell", bound), Cause: err}
	}
	return col, row, nil
}
