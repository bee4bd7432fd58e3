package seeder

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
	"github.com/fatih/color"
)

// Clearer wipes previously generated rows inside the run's transaction.
type Clearer struct {
	tx    Tx
	graph *DependencyGraph
}

func NewClearer(tx Tx, graph *DependencyGraph) *Clearer {
	return &Clearer{tx: tx, graph: graph}
}

// Clear removes the tables covered by scope and returns them in the order
// they were cleared.
func (c *Clearer) Clear(ctx context.Context, scope types.ClearScope) ([]string, error) {
	if scope == types.ClearNone {
		color.Yellow("⏭️  Skipping clear")
		return nil, nil
	}

	tables, err := c.graph.ClearOrder(scope)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}

	color.Yellow("🗑️  Clearing (%s): %s", scope, strings.Join(tables, ", "))
	if err := c.tx.Truncate(ctx, tables); err != nil {
		return nil, fmt.Errorf("failed to clear tables: %w", err)
	}
	return tables, nil
}
