package sampling

import (
	"fmt"
	"strings"
)

// Strategy names one of the ways of drawing configurations.
type Strategy string

const (
	// Solver takes models in the order the solver produces them.
	Solver Strategy = "solver"
	// Random enumerates every model and draws a uniform subset.
	Random Strategy = "random"
	// Distance draws models with a randomly chosen number of selected
	// features.
	Distance Strategy = "distance"
	// DiversifiedDistance is Distance, steering each draw towards the
	// features selected least often so far.
	DiversifiedDistance Strategy = "diversified-distance"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{Solver, Random, Distance, DiversifiedDistance}

func (s Strategy) String() string {
	return string(s)
}

func (s Strategy) validate() error {
	for _, known := range Strategies {
		if s == known {
			return nil
		}
	}
	names := make([]string, len(Strategies))
	for i, known := range Strategies {
		names[i] = string(known)
	}
	return ValidationError{
		Field:  "strategy",
		Reason: fmt.Sprintf("%q is not one of %s", string(s), strings.Join(names, ", ")),
	}
}

// ParseStrategy returns the strategy called name.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(name)
	if err := s.validate(); err != nil {
		return "", err
	}
	return s, nil
}

func validateSize(sampleSize int) error {
	if sampleSize <= 0 {
		return ValidationError{Field: "sample size", Reason: fmt.Sprintf("must be positive, got %d", sampleSize)}
	}
	return nil
}
