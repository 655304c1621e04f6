package schema

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	_ "embed"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

//go:embed resources/dialects.json
var dialectsJSON []byte

//go:embed resources/table.tmpl
var tableTmplText string

var tableTmpl = template.Must(template.New("table").Funcs(template.FuncMap{
	"plus1": func(i int) int { return i + 1 },
}).Parse(tableTmplText))

var ErrUnknownDialect = errors.New("unknown dialect")

// Dialects returns the names of the supported dialects. The names are the
// database/sql driver names.
func Dialects() []string {
	var names []string
	gjson.ParseBytes(dialectsJSON).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	sort.Strings(names)
	return names
}

func dialect(name string) (gjson.Result, error) {
	res := gjson.GetBytes(dialectsJSON, gjson.Escape(name))
	if !res.Exists() || name == "" {
		return gjson.Result{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownDialect, name, strings.Join(Dialects(), ", "))
	}
	return res, nil
}

// Placeholder returns the bind-parameter marker of a dialect: "?" for
// positional markers or "$" for numbered ones ($1, $2, ...).
func Placeholder(name string) (string, error) {
	d, err := dialect(name)
	if err != nil {
		return "", err
	}
	return d.Get("placeholder").String(), nil
}

// Returning reports whether the dialect can return rows from INSERT, UPDATE
// and DELETE statements.
func Returning(name string) (bool, error) {
	d, err := dialect(name)
	if err != nil {
		return false, err
	}
	return d.Get("returning").Bool(), nil
}

func columnType(d gjson.Result, c Column) (string, error) {
	res := d.Get("types." + string(c.Kind))
	if !res.Exists() {
		return "", fmt.Errorf("column %s: no %s type mapping", c.Name, c.Kind)
	}
	typ := strings.ReplaceAll(res.String(), "{size}", strconv.Itoa(c.Size))
	return strings.ReplaceAll(typ, "{scale}", strconv.Itoa(c.Scale)), nil
}

func columnLine(d gjson.Result, c Column) (string, error) {
	typ, err := columnType(d, c)
	if err != nil {
		return "", err
	}
	parts := []string{c.Name, typ}
	if c.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if c.Unique {
		parts = append(parts, "UNIQUE")
	}
	if c.Default != DefaultNone {
		res := d.Get("defaults." + string(c.Default))
		if !res.Exists() {
			return "", fmt.Errorf("column %s: no default mapping for %s", c.Name, c.Default)
		}
		parts = append(parts, "DEFAULT "+res.String())
	}
	return strings.Join(parts, " "), nil
}

func foreignKeyLine(table string, c Column) string {
	return fmt.Sprintf("CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE CASCADE",
		table, c.References.Table, c.Name, c.References.Table, c.References.Column)
}

// Render builds the CREATE TABLE IF NOT EXISTS statement of t for a dialect.
func Render(dialectName string, t Table) (string, error) {
	d, err := dialect(dialectName)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		line, err := columnLine(d, c)
		if err != nil {
			return "", fmt.Errorf("table %s: %w", t.Name, err)
		}
		lines = append(lines, line)
	}
	lines = append(lines, lo.Map(t.ForeignKeys(), func(c Column, _ int) string {
		return foreignKeyLine(t.Name, c)
	})...)

	var buf bytes.Buffer
	data := struct {
		Name  string
		Lines []string
	}{Name: t.Name, Lines: lines}
	if err := tableTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render table %s: %w", t.Name, err)
	}
	return buf.String(), nil
}

// Statements renders every table of the registry in dependency order.
func Statements(dialectName string) ([]string, error) {
	return RenderAll(dialectName, Tables())
}

// RenderAll renders the given tables in order.
func RenderAll(dialectName string, tables []Table) ([]string, error) {
	stmts := make([]string, 0, len(tables))
	for _, t := range tables {
		stmt, err := Render(dialectName, t)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
