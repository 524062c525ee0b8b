// Package grid wires a rectangular array of cpu.Cpu nodes together
// through the port fabric and drives their two-phase ticks. It is the
// "grid orchestration seams" component: the rest of this module only
// specifies what a read/write handle between two adjacent nodes looks
// like, not how a whole grid is assembled and stepped — grid supplies
// that driver.
package grid

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tis100/core/asm"
	"github.com/tis100/core/cpu"
	"github.com/tis100/core/internal/tislog"
	"github.com/tis100/core/node"
	"github.com/tis100/core/port"
)

// Grid is an R×C array of nodes, each with its own Executable, its own
// outgoing Bank, and a Neighbors handle cross-wired into its four
// orthogonal neighbors' banks. Nodes at an edge have nil handles in the
// directions with no neighbor.
type Grid struct {
	rows, cols int
	banks      [][]*port.Bank
	cpus       [][]*cpu.Cpu
	logger     *tislog.Logger
}

// New parses one program per cell (row-major, programs[r][c]) and wires
// the grid. A parse failure at any cell is reported with its coordinates.
func New(rows, cols int, programs [][]string) (*Grid, error) {
	if len(programs) != rows {
		return nil, errors.Errorf("grid: expected %d program rows, got %d", rows, len(programs))
	}

	banks := make([][]*port.Bank, rows)
	for r := 0; r < rows; r++ {
		if len(programs[r]) != cols {
			return nil, errors.Errorf("grid: row %d: expected %d programs, got %d", r, cols, len(programs[r]))
		}
		banks[r] = make([]*port.Bank, cols)
		for c := 0; c < cols; c++ {
			banks[r][c] = port.NewBank()
		}
	}

	cpus := make([][]*cpu.Cpu, rows)
	for r := 0; r < rows; r++ {
		cpus[r] = make([]*cpu.Cpu, cols)
		for c := 0; c < cols; c++ {
			exe, err := asm.Parse(programs[r][c])
			if err != nil {
				return nil, errors.Wrapf(err, "grid: node (%d,%d)", r, c)
			}

			var up, down, left, right port.ReadPort
			if r > 0 {
				up = banks[r-1][c].ReadPortFor(node.Down)
			}
			if r < rows-1 {
				down = banks[r+1][c].ReadPortFor(node.Up)
			}
			if c > 0 {
				left = banks[r][c-1].ReadPortFor(node.Right)
			}
			if c < cols-1 {
				right = banks[r][c+1].ReadPortFor(node.Left)
			}

			neighbors := port.NewNeighbors(up, down, left, right)
			cpus[r][c] = cpu.New(exe, banks[r][c], neighbors)
		}
	}

	return &Grid{rows: rows, cols: cols, banks: banks, cpus: cpus, logger: tislog.New()}, nil
}

// At returns the node at (row, col), for inspection by a caller.
func (g *Grid) At(row, col int) *cpu.Cpu {
	return g.cpus[row][col]
}

// Dims returns the grid's row and column count.
func (g *Grid) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// Tick runs one tick across the whole grid: Execute on every node, then
// Commit on every node, matching §5's ordering guarantee that a write
// committed this tick is invisible to reads until the next tick's
// execute phase, regardless of the order nodes are visited.
func (g *Grid) Tick() {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			g.cpus[r][c].Execute()
		}
	}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			g.cpus[r][c].Commit()
		}
	}
}

// RunAsync runs ticks ticks, each phase spread across one goroutine per
// node via errgroup, synchronized so every node's Execute completes
// before any node's Commit begins. The port fabric's Bank is internally
// locked, so concurrent neighbors draining or writing the same bank
// across this barrier are safe.
func (g *Grid) RunAsync(ctx context.Context, ticks int) error {
	for t := 0; t < ticks; t++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		execGroup, _ := errgroup.WithContext(ctx)
		for r := 0; r < g.rows; r++ {
			for c := 0; c < g.cols; c++ {
				n := g.cpus[r][c]
				execGroup.Go(func() error {
					n.Execute()
					return nil
				})
			}
		}
		if err := execGroup.Wait(); err != nil {
			return err
		}

		commitGroup, _ := errgroup.WithContext(ctx)
		for r := 0; r < g.rows; r++ {
			for c := 0; c < g.cols; c++ {
				n := g.cpus[r][c]
				row, col := r, c
				commitGroup.Go(func() error {
					n.Commit()
					tislog.Tick(g.logger, t, row, col, n.State().Mode.String())
					return nil
				})
			}
		}
		if err := commitGroup.Wait(); err != nil {
			return err
		}
	}
	return nil
}
