package sample

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const measurements = `A,B,time
1,0,3.2
0,1,2.9
1,1,4.1
0,0,1.0
`

func TestFromCSV(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "measurements.csv", measurements)
	output := filepath.Join(dir, "sample.csv")

	cmd := NewFromCSVCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--measurements", in, "--size", "2", "--seed", "1", "--output", output})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "A,B\n"))
	assert.Len(t, readConfigurations(t, output), 2)
}

func TestFromCSVErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "measurements.csv", measurements)

	for _, tt := range []struct {
		Name string
		Args []string
	}{
		{Name: "no measurements", Args: []string{"--size", "2"}},
		{Name: "missing file", Args: []string{"--measurements", filepath.Join(dir, "missing.csv")}},
		{Name: "too many rows", Args: []string{"--measurements", in, "--size", "5"}},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			cmd := NewFromCSVCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.Args)
			assert.Error(t, cmd.Execute())
		})
	}
}
