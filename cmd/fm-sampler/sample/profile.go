package sample

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// Profile is a reusable set of sample arguments read from YAML:
//
//	model: models/compression.yaml
//	strategy: diversified-distance
//	size: 20
//	seeds: [1, 2, 3]
//	distances: [2, 3]
//	features: [Gzip, Zstd, Cache]
//	output: out/sample.csv
type Profile struct {
	Model      string   `yaml:"model"`
	Strategy   string   `yaml:"strategy"`
	SampleSize int      `yaml:"size"`
	Seed       *int64   `yaml:"seed,omitempty"`
	Seeds      []int64  `yaml:"seeds,omitempty"`
	Distances  []int    `yaml:"distances,omitempty"`
	Features   []string `yaml:"features,omitempty"`
	Output     string   `yaml:"output,omitempty"`
}

func loadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read profile %s", path)
	}
	var p Profile
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return nil, errors.Wrapf(err, "failed to decode profile %s", path)
	}
	return &p, nil
}

// override replaces the fields of p whose flags were set explicitly
// on the command line.
func (p *Profile) override(flags *pflag.FlagSet, from *Profile) {
	if flags.Changed("model") {
		p.Model = from.Model
	}
	if flags.Changed("strategy") {
		p.Strategy = from.Strategy
	}
	if flags.Changed("size") {
		p.SampleSize = from.SampleSize
	}
	if flags.Changed("seed") {
		p.Seed = from.Seed
	}
	if flags.Changed("seeds") {
		p.Seeds = from.Seeds
	}
	if flags.Changed("distances") {
		p.Distances = from.Distances
	}
	if flags.Changed("features") {
		p.Features = from.Features
	}
	if flags.Changed("output") {
		p.Output = from.Output
	}
}

// defaults fills the fields p leaves unset with the values in from.
func (p *Profile) defaults(from *Profile) {
	if p.Model == "" {
		p.Model = from.Model
	}
	if p.Strategy == "" {
		p.Strategy = from.Strategy
	}
	if p.SampleSize == 0 {
		p.SampleSize = from.SampleSize
	}
	if p.Seed == nil {
		p.Seed = from.Seed
	}
	if p.Seeds == nil {
		p.Seeds = from.Seeds
	}
	if p.Distances == nil {
		p.Distances = from.Distances
	}
	if p.Features == nil {
		p.Features = from.Features
	}
	if p.Output == "" {
		p.Output = from.Output
	}
}
