package version

import "fmt"

// Version is the release the binary was built from, set at link time.
var Version string

// GitCommit indicates which git commit the binary was built from
var GitCommit string

// String returns a pretty string concatenation of Version and GitCommit
func String() string {
	if Version == "" {
		return fmt.Sprintf("fm-sampler (development build)\n Git commit: %s\n", GitCommit)
	}
	return fmt.Sprintf("fm-sampler version: %s\n Git commit: %s\n", Version, GitCommit)
}
