package featuremodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(fs []*Feature) []string {
	result := make([]string, len(fs))
	for i, f := range fs {
		result[i] = f.Name
	}
	return result
}

func TestBuilderPreorder(t *testing.T) {
	m, err := NewBuilder("ABC", "root").
		AddFeature("root", "A").
		AddGroup("A", GroupAlternative, []string{"AA", "AB", "AC"}).
		AddFeature("root", "B", Optional()).
		AddFeature("AB", "ABX", Optional()).
		AddFeature("root", "N", Numeric(1, 2, 4)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"root", "A", "AA", "AB", "ABX", "AC", "B", "N"}, names(m.Features()))
	assert.Equal(t, []string{"A", "AA", "AB", "ABX", "AC", "B", "N"}, names(m.NonRoot()))

	ab, ok := m.Feature("AB")
	require.True(t, ok)
	assert.Equal(t, "A", ab.Parent().Name)
	require.NotNil(t, ab.Group())
	assert.Equal(t, GroupAlternative, ab.Group().Kind)
	assert.Equal(t, "A", ab.Group().Parent().Name)

	n, ok := m.Feature("N")
	require.True(t, ok)
	assert.Equal(t, KindNumeric, n.Kind)
	assert.Equal(t, []int{1, 2, 4}, n.Values)

	assert.True(t, m.Root().IsRoot())
	assert.Nil(t, m.Root().Parent())
}

func TestBuilderErrors(t *testing.T) {
	type tc struct {
		Name  string
		Build func() (*Model, error)
		Error error
	}

	for _, tt := range []tc{
		{
			Name: "duplicate feature",
			Build: func() (*Model, error) {
				return NewBuilder("m", "root").AddFeature("root", "A").AddFeature("root", "A").Build()
			},
			Error: DuplicateFeature("A"),
		},
		{
			Name: "duplicate root name",
			Build: func() (*Model, error) {
				return NewBuilder("m", "root").AddFeature("root", "root").Build()
			},
			Error: DuplicateFeature("root"),
		},
		{
			Name: "unknown parent",
			Build: func() (*Model, error) {
				return NewBuilder("m", "root").AddFeature("X", "A").Build()
			},
			Error: UnknownFeature("X"),
		},
		{
			Name: "unknown group parent",
			Build: func() (*Model, error) {
				return NewBuilder("m", "root").AddGroup("X", GroupOr, []string{"A"}).Build()
			},
			Error: UnknownFeature("X"),
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := tt.Build()
			assert.Equal(t, tt.Error, err)
		})
	}
}

func TestConstraintSets(t *testing.T) {
	m, err := NewBuilder("m", "root").
		AddFeature("root", "A", Optional()).
		AddFeature("root", "B", Optional()).
		AddFeature("root", "C", Optional()).
		MutuallyExcludes("A", "C").
		Implies("B", "A").
		Excludes("A", "Missing").
		Or("(A | B)").
		Build()
	require.NoError(t, err)

	a, _ := m.Feature("A")
	b, _ := m.Feature("B")
	c, _ := m.Feature("C")
	assert.Equal(t, []string{"C"}, names(a.Excludes()))
	assert.Equal(t, []string{"A"}, names(c.Excludes()))
	assert.Equal(t, []string{"A"}, names(b.Implies()))
	assert.Len(t, m.Constraints(), 5)
	assert.Equal(t, "(A excludes C)", m.Constraints()[0].String())
	assert.Equal(t, "(B => A)", m.Constraints()[2].String())
	assert.Equal(t, "(A | B)", m.Constraints()[4].String())
}

const abcModel = `
name: ABC
root: root
features:
- name: A
  features:
  - group: alternative
    members:
    - name: AA
    - name: AB
    - name: AC
- name: B
  optional: true
- name: C
  optional: true
- name: Threads
  numeric: [1, 2, 4]
constraints:
- excludes: [AA, AB]
- excludes: [AB, AA]
- implies: [C, B]
- or: "(B | C)"
`

func TestLoad(t *testing.T) {
	m, err := Load(strings.NewReader(abcModel))
	require.NoError(t, err)

	assert.Equal(t, "ABC", m.Name())
	assert.Equal(t, []string{"root", "A", "AA", "AB", "AC", "B", "C", "Threads"}, names(m.Features()))

	b, _ := m.Feature("B")
	assert.True(t, b.Optional)
	aa, _ := m.Feature("AA")
	assert.False(t, aa.Optional)
	require.NotNil(t, aa.Group())
	assert.Len(t, aa.Group().Children(), 3)

	threads, _ := m.Feature("Threads")
	assert.Equal(t, KindNumeric, threads.Kind)

	require.Len(t, m.Constraints(), 4)
	assert.Equal(t, Constraint{Kind: Or, Expr: "(B | C)"}, m.Constraints()[3])
}

func TestLoadErrors(t *testing.T) {
	for _, tt := range []struct {
		Name    string
		Input   string
		Message string
	}{
		{
			Name:    "missing root",
			Input:   "name: x\n",
			Message: "has no root",
		},
		{
			Name:    "bad excludes arity",
			Input:   "root: r\nconstraints:\n- excludes: [a]\n",
			Message: "exactly two features",
		},
		{
			Name:    "empty constraint",
			Input:   "root: r\nconstraints:\n- {}\n",
			Message: "is empty",
		},
		{
			Name:    "unknown group kind",
			Input:   "root: r\nfeatures:\n- group: xor\n  members:\n  - name: a\n",
			Message: "unknown group kind",
		},
		{
			Name:    "nameless feature",
			Input:   "root: r\nfeatures:\n- optional: true\n",
			Message: "has no name",
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.Input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.Message)
		})
	}
}
