// Package bodyplan decodes body plans: the normalized offsets of the atoms
// an agent's body is made of.
package bodyplan

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/riseabove/components"
)

//go:embed default.yaml
var defaultYAML []byte

// Plan is a decoded body plan.
type Plan struct {
	Name  string       `yaml:"name"`
	Nodes [][2]float64 `yaml:"nodes"`
}

// Load reads a body plan from a YAML file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading body plan: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a body plan.
func Parse(data []byte) (*Plan, error) {
	p := &Plan{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing body plan: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Default returns the built-in ring plan.
func Default() *Plan {
	p, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("bodyplan: embedded default is invalid: %v", err))
	}
	return p
}

func (p *Plan) validate() error {
	if len(p.Nodes) == 0 {
		return fmt.Errorf("body plan %q has no nodes", p.Name)
	}
	if len(p.Nodes) > components.MaxSubBodies {
		return fmt.Errorf("body plan %q has %d nodes, max %d", p.Name, len(p.Nodes), components.MaxSubBodies)
	}
	for i, n := range p.Nodes {
		for _, v := range n {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("body plan %q: node %d is not finite", p.Name, i)
			}
			if math.Abs(v) > 1 {
				return fmt.Errorf("body plan %q: node %d outside [-1,1]", p.Name, i)
			}
		}
	}
	return nil
}

// Vectors returns the nodes as vectors.
func (p *Plan) Vectors() []r2.Vec {
	out := make([]r2.Vec, len(p.Nodes))
	for i, n := range p.Nodes {
		out[i] = r2.Vec{X: n[0], Y: n[1]}
	}
	return out
}
