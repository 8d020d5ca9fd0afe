package sample

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/fmsampling/variant-sampler/pkg/sampling/configuration"
)

// printConfigurations lists configs with their selected features, one
// configuration per line.
func printConfigurations(w io.Writer, configs []*configuration.Configuration) {
	header := color.New(color.FgCyan, color.Bold)
	selected := color.New(color.FgGreen)
	dim := color.New(color.FgHiBlack)

	header.Fprintf(w, "%d configurations\n", len(configs))
	for i, c := range configs {
		dim.Fprintf(w, "%4d  ", i+1)
		if c.Len() == 0 {
			dim.Fprintln(w, "(no features selected)")
			continue
		}
		selected.Fprintln(w, strings.Join(c.Names(), " "))
	}
	fmt.Fprintln(w)
}
