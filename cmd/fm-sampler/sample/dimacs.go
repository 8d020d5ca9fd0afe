package sample

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fmsampling/variant-sampler/pkg/featuremodel"
	"github.com/fmsampling/variant-sampler/pkg/sampling/compiler"
)

// NewDimacsCmd returns the dimacs command, which prints the base
// formula of a feature model.
func NewDimacsCmd() *cobra.Command {
	var (
		modelPath string
		output    string
		orGroups  bool
	)
	cmd := &cobra.Command{
		Use:   "dimacs",
		Short: "Print the CNF of a feature model in DIMACS format",
		Long: `The fm-sampler dimacs command compiles a feature model and writes the
        resulting formula in DIMACS format. Comment lines map every variable
        to the feature it stands for.

        $ fm-sampler dimacs --model model.yaml --output model.cnf
        `,
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelPath == "" {
				return errors.New("a feature model is required, set --model")
			}
			if output == "" {
				return writeDimacs(cmd.OutOrStdout(), modelPath, orGroups)
			}
			f, err := os.Create(output)
			if err != nil {
				return errors.Wrapf(err, "failed to create %s", output)
			}
			if err := writeDimacs(f, modelPath, orGroups); err != nil {
				f.Close()
				return err
			}
			return errors.Wrapf(f.Close(), "failed to write %s", output)
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "The feature model to compile, as YAML.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write the formula to. Defaults to stdout.")
	cmd.Flags().BoolVar(&orGroups, "or-groups", false, "Require at least one member of every selected OR group.")

	return cmd
}

func writeDimacs(w io.Writer, modelPath string, orGroups bool) error {
	model, err := featuremodel.LoadFile(modelPath)
	if err != nil {
		return err
	}
	c := compiler.New(compiler.WithLogger(log.StandardLogger()), compiler.WithOrGroups(orGroups))
	session, _, err := c.BuildBaseSolver(model)
	if err != nil {
		return errors.Wrapf(err, "failed to compile feature model %s", modelPath)
	}
	session.Dispose()
	return c.WriteDIMACS(w)
}
