package schema

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tidwall/match"
)

// Kind is the logical type of a column. Each dialect maps it to a SQL type.
type Kind string

const (
	KindPK        Kind = "pk"
	KindInt       Kind = "int"
	KindString    Kind = "string"
	KindDate      Kind = "date"
	KindTimestamp Kind = "timestamp"
	KindBool      Kind = "bool"
	KindDecimal   Kind = "decimal"
)

// Default is a logical column default, rendered per dialect.
type Default string

const (
	DefaultNone  Default = ""
	DefaultNow   Default = "now"
	DefaultToday Default = "today"
	DefaultTrue  Default = "true"
)

// Reference is a foreign key. Deleting the referenced row always cascades.
type Reference struct {
	Table  string
	Column string
}

// Column describes one column of a table.
type Column struct {
	Name       string
	Kind       Kind
	Size       int // length for strings, precision for decimals
	Scale      int
	NotNull    bool
	Unique     bool
	Default    Default
	References *Reference
}

// Table is an ordered column list. The order is the declaration order of the
// CREATE TABLE statement.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	return lo.Map(t.Columns, func(c Column, _ int) string { return c.Name })
}

// Column looks up a column by name.
func (t Table) Column(name string) (Column, bool) {
	return lo.Find(t.Columns, func(c Column) bool { return c.Name == name })
}

// ForeignKeys returns the columns that reference another table.
func (t Table) ForeignKeys() []Column {
	return lo.Filter(t.Columns, func(c Column, _ int) bool { return c.References != nil })
}

// withStaticFields wraps entity columns with the id primary key and the
// updated_at timestamp every table carries.
func withStaticFields(name string, cols ...Column) Table {
	columns := make([]Column, 0, len(cols)+2)
	columns = append(columns, Column{Name: ID, Kind: KindPK})
	columns = append(columns, cols...)
	columns = append(columns, Column{Name: UpdatedAt, Kind: KindTimestamp, Default: DefaultNow})
	return Table{Name: name, Columns: columns}
}

func usersTable() Table {
	return withStaticFields(Users.Table,
		Column{Name: Users.Name, Kind: KindString, Size: 50, NotNull: true},
		Column{Name: Users.Email, Kind: KindString, Size: 100, Unique: true},
		Column{Name: Users.RegistrationDate, Kind: KindDate, Default: DefaultToday},
		Column{Name: Users.IsActive, Kind: KindBool, Default: DefaultTrue},
	)
}

func ordersTable() Table {
	return withStaticFields(Orders.Table,
		Column{Name: Orders.UserID, Kind: KindInt, NotNull: true, References: &Reference{Table: Users.Table, Column: Users.ID}},
		Column{Name: Orders.OrderDate, Kind: KindTimestamp, Default: DefaultNow},
		Column{Name: Orders.TotalAmount, Kind: KindDecimal, Size: 10, Scale: 2},
		Column{Name: Orders.Status, Kind: KindInt},
	)
}

func paymentsTable() Table {
	return withStaticFields(Payments.Table,
		Column{Name: Payments.UserID, Kind: KindInt, NotNull: true, References: &Reference{Table: Users.Table, Column: Users.ID}},
		Column{Name: Payments.OrderID, Kind: KindInt, NotNull: true, References: &Reference{Table: Orders.Table, Column: Orders.ID}},
		Column{Name: Payments.PaymentDate, Kind: KindTimestamp, Default: DefaultNow},
		Column{Name: Payments.PaymentMethod, Kind: KindInt},
	)
}

// Tables returns every table in dependency order: a table only references
// tables listed before it.
func Tables() []Table {
	return []Table{usersTable(), ordersTable(), paymentsTable()}
}

// Lookup returns the table with the given name.
func Lookup(name string) (Table, bool) {
	return lo.Find(Tables(), func(t Table) bool { return t.Name == name })
}

// Select returns the tables whose name matches pattern, where `*` matches any
// run of characters and `?` a single one. An empty pattern selects all.
func Select(pattern string) ([]Table, error) {
	if pattern == "" {
		return Tables(), nil
	}
	if !match.IsPattern(pattern) {
		if t, ok := Lookup(pattern); ok {
			return []Table{t}, nil
		}
		return nil, fmt.Errorf("no table named %q", pattern)
	}
	return lo.Filter(Tables(), func(t Table, _ int) bool {
		return match.Match(t.Name, pattern)
	}), nil
}
