package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	defer func(v, c string) { Version, GitCommit = v, c }(Version, GitCommit)

	for _, tt := range []struct {
		Name      string
		Version   string
		GitCommit string
		Expected  string
	}{
		{Name: "release", Version: "1.2.0", GitCommit: "abc123", Expected: "fm-sampler version: 1.2.0\n Git commit: abc123\n"},
		{Name: "development", GitCommit: "abc123", Expected: "fm-sampler (development build)\n Git commit: abc123\n"},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			Version, GitCommit = tt.Version, tt.GitCommit
			assert.Equal(t, tt.Expected, String())
		})
	}
}
