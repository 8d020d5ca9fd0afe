package featuremodel

import (
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

type modelSpec struct {
	Name        string           `json:"name"`
	Root        string           `json:"root"`
	Features    []nodeSpec       `json:"features,omitempty"`
	Constraints []constraintSpec `json:"constraints,omitempty"`
}

type nodeSpec struct {
	Name     string     `json:"name,omitempty"`
	Optional bool       `json:"optional,omitempty"`
	Numeric  []int      `json:"numeric,omitempty"`
	Features []nodeSpec `json:"features,omitempty"`

	Group   GroupKind  `json:"group,omitempty"`
	Members []nodeSpec `json:"members,omitempty"`
}

type constraintSpec struct {
	Excludes []string `json:"excludes,omitempty"`
	Implies  []string `json:"implies,omitempty"`
	Or       string   `json:"or,omitempty"`
}

// LoadFile reads a YAML feature model from path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open feature model %s", path)
	}
	defer f.Close()
	m, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load feature model %s", path)
	}
	return m, nil
}

// Load reads a YAML feature model:
//
//	name: ABC
//	root: root
//	features:
//	- name: A
//	  optional: true
//	- group: alternative
//	  members:
//	  - name: AA
//	  - name: AB
//	constraints:
//	- excludes: [AA, AB]
//	- implies: [A, AA]
//	- or: "(A | !AB)"
func Load(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var spec modelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(err, "error decoding feature model")
	}
	if spec.Root == "" {
		return nil, fmt.Errorf("feature model %q has no root", spec.Name)
	}

	b := NewBuilder(spec.Name, spec.Root)
	if err := addNodes(b, spec.Root, spec.Features); err != nil {
		return nil, err
	}
	for i, c := range spec.Constraints {
		switch {
		case len(c.Excludes) > 0:
			if len(c.Excludes) != 2 {
				return nil, fmt.Errorf("constraint %d: excludes takes exactly two features, got %v", i, c.Excludes)
			}
			b.Excludes(c.Excludes[0], c.Excludes[1])
		case len(c.Implies) > 0:
			if len(c.Implies) != 2 {
				return nil, fmt.Errorf("constraint %d: implies takes exactly two features, got %v", i, c.Implies)
			}
			b.Implies(c.Implies[0], c.Implies[1])
		case c.Or != "":
			b.Or(c.Or)
		default:
			return nil, fmt.Errorf("constraint %d is empty", i)
		}
	}
	return b.Build()
}

func addNodes(b *Builder, parent string, nodes []nodeSpec) error {
	for _, n := range nodes {
		if n.Group != "" {
			if n.Group != GroupAlternative && n.Group != GroupOr {
				return fmt.Errorf("unknown group kind %q below %s", n.Group, parent)
			}
			names := make([]string, len(n.Members))
			for i, m := range n.Members {
				if m.Name == "" {
					return fmt.Errorf("%s group below %s has a member with no name", n.Group, parent)
				}
				names[i] = m.Name
			}
			b.AddGroup(parent, n.Group, names)
			if b.err != nil {
				return b.err
			}
			for _, m := range n.Members {
				for _, opt := range m.options() {
					opt(b.byName[m.Name])
				}
				if err := addNodes(b, m.Name, m.Features); err != nil {
					return err
				}
			}
			continue
		}
		if n.Name == "" {
			return fmt.Errorf("feature below %s has no name", parent)
		}
		b.AddFeature(parent, n.Name, n.options()...)
		if b.err != nil {
			return b.err
		}
		if err := addNodes(b, n.Name, n.Features); err != nil {
			return err
		}
	}
	return nil
}

func (n nodeSpec) options() []FeatureOption {
	var opts []FeatureOption
	if n.Optional {
		opts = append(opts, Optional())
	}
	if len(n.Numeric) > 0 {
		opts = append(opts, Numeric(n.Numeric...))
	}
	return opts
}
