package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
)

// maxIdentifierLen is MySQL's limit for table and constraint names.
const maxIdentifierLen = 64

var (
	identCleaner = regexp.MustCompile(`[^A-Za-z0-9_]`)
	reserved     = map[string]bool{"DATE": true, "ORDER": true, "GROUP": true, "KEY": true, "INDEX": true}
)

// Ident turns a declared name into a safe unquoted identifier.
func Ident(name string) string {
	cleaned := identCleaner.ReplaceAllString(strings.TrimSpace(name), "_")
	upper := strings.ToUpper(cleaned)
	if reserved[upper] {
		return upper + "_COL"
	}
	return cleaned
}

// CreateTableSQL renders the bare table, without foreign keys.
func CreateTableSQL(t Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, Ident(c.Name)+" "+strings.TrimSpace(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", Ident(t.Name), strings.Join(defs, ",\n  "))
}

// ForeignKeySQL renders one ALTER TABLE statement per foreign key.
func ForeignKeySQL(t Table) ([]string, error) {
	table := Ident(t.Name)
	stmts := make([]string, 0, len(t.ForeignKeys))
	for i, fk := range t.ForeignKeys {
		refTable, refColumn, err := fk.Target()
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table, err)
		}
		col := Ident(fk.Column)
		name := fmt.Sprintf("FK_%s_%s_%d", table, col, i+1)
		if len(name) > maxIdentifierLen {
			name = name[:maxIdentifierLen]
		}
		stmts = append(stmts, fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
			table, name, col, refTable, refColumn,
		))
	}
	return stmts, nil
}

// Plan is the two-phase bootstrap: bare tables first, then every constraint.
type Plan struct {
	Order       []string
	Creates     []string
	Constraints []string
	// Cyclic is set when the tables could not be ordered and Order fell back
	// to declaration order.
	Cyclic bool
	Cycle  []string
}

// NewPlan orders tables with TopoSort, falling back to declaration order on a
// cycle. Constraints are always deferred, so either order can be applied.
func NewPlan(tables []Table) (Plan, error) {
	g, err := BuildGraph(tables)
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	order, err := TopoSort(g)
	var cycle *CycleError
	switch {
	case errors.As(err, &cycle):
		plan.Cyclic = true
		plan.Cycle = cycle.Tables
		order = slices.Clone(g.Nodes)
	case err != nil:
		return Plan{}, err
	}
	plan.Order = order

	byName := make(map[string]Table, len(tables))
	for _, t := range tables {
		byName[Ident(t.Name)] = t
	}
	for _, name := range order {
		plan.Creates = append(plan.Creates, CreateTableSQL(byName[name]))
	}
	for _, t := range tables {
		stmts, err := ForeignKeySQL(t)
		if err != nil {
			return Plan{}, err
		}
		plan.Constraints = append(plan.Constraints, stmts...)
	}
	return plan, nil
}

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx. Reset needs a single
// session, so pass a *sql.Conn when using it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Logger receives one line per executed statement.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Options tunes Apply.
type Options struct {
	// Reset drops the planned tables before creating them.
	Reset  bool
	Logger Logger
}

// Apply executes plan. MySQL commits DDL implicitly, so a failure leaves the
// statements before it applied.
func Apply(ctx context.Context, db Execer, plan Plan, opts Options) error {
	logf := func(format string, v ...interface{}) {
		if opts.Logger != nil {
			opts.Logger.Printf(format, v...)
		}
	}

	if opts.Reset {
		if _, err := db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
			return fmt.Errorf("disable foreign key checks: %w", err)
		}
		for i := len(plan.Order) - 1; i >= 0; i-- {
			if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+plan.Order[i]); err != nil {
				return fmt.Errorf("drop %s: %w", plan.Order[i], err)
			}
			logf("dropped table %s", plan.Order[i])
		}
		if _, err := db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1"); err != nil {
			return fmt.Errorf("enable foreign key checks: %w", err)
		}
	}

	for i, stmt := range plan.Creates {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", plan.Order[i], err)
		}
		logf("created table %s", plan.Order[i])
	}
	for _, stmt := range plan.Constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
		logf("%s", stmt)
	}
	return nil
}
