package sat

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func models(s *Session) []Model {
	var result []Model
	for e := s.EnumModels(); e.Next(); {
		result = append(result, e.Model())
	}
	return result
}

func positives(m Model, vars ...int) []int {
	var result []int
	for _, v := range vars {
		if m.Value(v) {
			result = append(result, v)
		}
	}
	return result
}

func TestSolve(t *testing.T) {
	type tc struct {
		Name        string
		Clauses     []Clause
		Satisfiable bool
	}

	for _, tt := range []tc{
		{
			Name:        "no clauses",
			Satisfiable: true,
		},
		{
			Name:        "unit clause",
			Clauses:     []Clause{{1}},
			Satisfiable: true,
		},
		{
			Name:        "contradiction",
			Clauses:     []Clause{{1}, {-1}},
			Satisfiable: false,
		},
		{
			Name:        "empty clause",
			Clauses:     []Clause{{1, 2}, {}},
			Satisfiable: false,
		},
		{
			Name:        "implication chain",
			Clauses:     []Clause{{1}, {-1, 2}, {-2, 3}},
			Satisfiable: true,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			s := NewSession(tt.Clauses)
			defer s.Dispose()
			assert.Equal(t, tt.Satisfiable, s.Solve())
			_, ok := s.Model()
			assert.Equal(t, tt.Satisfiable, ok)
		})
	}
}

func TestModel(t *testing.T) {
	s := NewSession([]Clause{{1}, {-1, 2}, {-2, -3}})
	defer s.Dispose()

	_, ok := s.Model()
	assert.False(t, ok, "no model before solve")

	require.True(t, s.Solve())
	m, ok := s.Model()
	require.True(t, ok)
	assert.Equal(t, Model{1, 2, -3}, m)

	s.AddClause(Clause{3, 1})
	_, ok = s.Model()
	assert.False(t, ok, "adding a clause invalidates the model")
}

func TestEnumModels(t *testing.T) {
	t.Run("all models of a disjunction", func(t *testing.T) {
		s := NewSession([]Clause{{1, 2}})
		defer s.Dispose()

		var found []string
		for _, m := range models(s) {
			var b strings.Builder
			for _, v := range positives(m, 1, 2) {
				b.WriteByte(byte('0' + v))
			}
			found = append(found, b.String())
		}
		sort.Strings(found)
		assert.Equal(t, []string{"1", "12", "2"}, found)
	})

	t.Run("projection ignores other variables", func(t *testing.T) {
		// Five full models, but only three distinct assignments
		// of 1 and 2.
		s := NewSession([]Clause{{1, 2}, {2, 3}}, WithProjection([]int{1, 2}))
		defer s.Dispose()
		assert.Len(t, models(s), 3)
	})

	t.Run("projection onto unconstrained variable", func(t *testing.T) {
		s := NewSession([]Clause{{1}}, WithProjection([]int{1, 2}))
		defer s.Dispose()
		assert.Len(t, models(s), 2)
	})

	t.Run("unsatisfiable yields nothing", func(t *testing.T) {
		s := NewSession([]Clause{{1}, {-1}})
		defer s.Dispose()
		e := s.EnumModels()
		assert.False(t, e.Next())
		assert.Nil(t, e.Model())
		assert.False(t, e.Next())
	})

	t.Run("enumeration is not restartable", func(t *testing.T) {
		s := NewSession([]Clause{{1, 2}})
		defer s.Dispose()
		assert.Len(t, models(s), 3)
		assert.Empty(t, models(s))
	})
}

func TestBlock(t *testing.T) {
	s := NewSession(nil, WithProjection([]int{2, 3}))
	defer s.Dispose()
	assert.Equal(t, Clause{-2, 3}, s.Block(Model{1, 2, -3}))

	all := NewSession(nil)
	defer all.Dispose()
	assert.Equal(t, Clause{-1, -2, 3}, all.Block(Model{1, 2, -3}))
}

func TestDispose(t *testing.T) {
	s := NewSession([]Clause{{1}})
	s.Dispose()
	s.Dispose()
	assert.True(t, s.Disposed())

	assert.PanicsWithValue(t, ErrDisposed, func() { s.Solve() })
	assert.PanicsWithValue(t, ErrDisposed, func() { s.AddClause(Clause{1}) })
	assert.False(t, s.EnumModels().Next())
}

func TestZeroLiteralPanics(t *testing.T) {
	s := NewSession(nil)
	defer s.Dispose()
	assert.Panics(t, func() { s.AddClause(Clause{1, 0}) })
}

func TestWithSession(t *testing.T) {
	var held *Session
	err := WithSession([]Clause{{1}}, func(s *Session) error {
		held = s
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.True(t, held.Disposed())

	assert.Panics(t, func() {
		_ = WithSession(nil, func(s *Session) error {
			held = s
			panic("fatal")
		})
	})
	assert.True(t, held.Disposed(), "disposed on panic too")
}

func TestWriteDIMACS(t *testing.T) {
	s := NewSession([]Clause{{1, -2}, {2}})
	defer s.Dispose()

	var buf bytes.Buffer
	require.NoError(t, s.WriteDIMACS(&buf))
	assert.Contains(t, buf.String(), "p cnf")
}
