package seeder

import (
	"fmt"
	"sort"

	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
)

type DependencyGraph struct {
	tables map[string]types.SchemaTable
	order  []string
}

func NewDependencyGraph(tables ...types.SchemaTable) *DependencyGraph {
	g := &DependencyGraph{
		tables: make(map[string]types.SchemaTable),
	}
	for _, t := range tables {
		g.AddTable(t)
	}
	return g
}

func (g *DependencyGraph) AddTable(table types.SchemaTable) {
	g.tables[table.Name] = table
	g.order = nil
}

// BuildInsertionOrder sorts tables so every table follows the tables it
// references. Ties are broken by name so the order is stable.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("circular dependency detected involving table: %s", tableName)
		}
		if visited[tableName] {
			return nil
		}

		temp[tableName] = true
		if table, ok := g.tables[tableName]; ok {
			deps := append([]string(nil), table.Dependencies...)
			sort.Strings(deps)
			for _, dep := range deps {
				if dep == tableName {
					continue
				}
				if _, known := g.tables[dep]; !known {
					return fmt.Errorf("table %s depends on unknown table %s", tableName, dep)
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	names := make([]string, 0, len(g.tables))
	for name := range g.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	g.order = order
	return order, nil
}

// ClearOrder lists the tables scope wipes, dependents before the tables
// they reference.
func (g *DependencyGraph) ClearOrder(scope types.ClearScope) ([]string, error) {
	order := g.order
	if order == nil {
		var err error
		if order, err = g.BuildInsertionOrder(); err != nil {
			return nil, err
		}
	}

	var out []string
	for i := len(order) - 1; i >= 0; i-- {
		if scope.Covers(g.tables[order[i]].ClearedBy) {
			out = append(out, order[i])
		}
	}
	return out, nil
}
