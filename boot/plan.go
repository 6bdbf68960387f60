// Package boot orders and runs chip bring-up. Steps declare what they must
// follow and run in dependency order, so the oscillator always precedes the
// ICS and the ICS always precedes anything clocked from it.
package boot

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	ErrDuplicateStep = errors.New("duplicate boot step")
	ErrUnknownStep   = errors.New("unknown boot step")
	ErrCycle         = errors.New("boot steps form a cycle")
)

type Step struct {
	Name  string
	After []string
	Run   func() error
}

type stepNode struct {
	id   int64
	step *Step
}

func (n *stepNode) ID() int64 {
	return n.id
}

// Plan is a set of named steps with ordering constraints.
type Plan struct {
	nodes  []*stepNode
	byName map[string]*stepNode
}

func NewPlan() *Plan {
	return &Plan{byName: map[string]*stepNode{}}
}

func (p *Plan) Add(name string, run func() error, after ...string) error {
	if _, ok := p.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, name)
	}
	n := &stepNode{
		id:   int64(len(p.nodes)),
		step: &Step{Name: name, After: after, Run: run},
	}
	p.nodes = append(p.nodes, n)
	p.byName[name] = n
	return nil
}

// Order returns the steps in the order Run executes them. Steps with
// no constraint between them keep the order they were added in.
func (p *Plan) Order() ([]*Step, error) {
	g := multi.NewDirectedGraph()
	for _, n := range p.nodes {
		g.AddNode(n)
	}
	for _, n := range p.nodes {
		for _, dep := range n.step.After {
			before, ok := p.byName[dep]
			if !ok {
				return nil, fmt.Errorf("%w: %s after %s", ErrUnknownStep, n.step.Name, dep)
			}
			g.SetLine(g.NewLine(before, n))
		}
	}

	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(a, b graph.Node) bool {
			return a.ID() < b.ID()
		})
	})
	if err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) {
			return nil, fmt.Errorf("%w: %v", ErrCycle, p.describe(cycles))
		}
		return nil, err
	}

	steps := make([]*Step, len(sorted))
	for i, node := range sorted {
		steps[i] = node.(*stepNode).step
	}
	return steps, nil
}

func (p *Plan) describe(cycles topo.Unorderable) [][]string {
	var names [][]string
	for _, component := range cycles {
		var group []string
		for _, node := range component {
			group = append(group, node.(*stepNode).step.Name)
		}
		slices.Sort(group)
		names = append(names, group)
	}
	return names
}

// Run executes every step in order and stops at the first failure. Steps
// that block on hardware block Run with them.
func (p *Plan) Run() error {
	steps, err := p.Order()
	if err != nil {
		return err
	}
	for _, step := range steps {
		if step.Run == nil {
			continue
		}
		if err := step.Run(); err != nil {
			return fmt.Errorf("boot step %s: %w", step.Name, err)
		}
	}
	return nil
}
