package sample

import (
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fmsampling/variant-sampler/pkg/sampling/configuration"
)

// NewFromCSVCmd returns the from-csv command, which samples rows of an
// existing measurement file instead of a feature model.
func NewFromCSVCmd() *cobra.Command {
	var (
		measurements string
		size         int
		seed         int64
		output       string
	)
	cmd := &cobra.Command{
		Use:   "from-csv",
		Short: "Sample configurations from a measurement CSV",
		Long: `The fm-sampler from-csv command draws rows without replacement from a
        CSV of measured configurations. Every column but the last is an
        option holding 1 or 0; the last column holds the measurement and is
        dropped.

        $ fm-sampler from-csv --measurements measurements.csv --size 10 --seed 3
        `,
		RunE: func(cmd *cobra.Command, args []string) error {
			if measurements == "" {
				return errors.New("a measurement file is required, set --measurements")
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			in, err := os.Open(measurements)
			if err != nil {
				return errors.Wrapf(err, "failed to open %s", measurements)
			}
			defer in.Close()

			configs, header, err := configuration.SampleFromCSV(in, size, rand.New(rand.NewSource(seed)))
			if err != nil {
				return errors.Wrapf(err, "failed to sample %s", measurements)
			}
			log.WithFields(log.Fields{
				"file": measurements,
				"seed": seed,
			}).Debugf("sampled %d rows", len(configs))

			if output == "" {
				printConfigurations(cmd.OutOrStdout(), configs)
				return nil
			}
			return writeCSVFile(output, configs, header)
		},
	}

	cmd.Flags().StringVar(&measurements, "measurements", "", "CSV file of measured configurations.")
	cmd.Flags().IntVarP(&size, "size", "n", 10, "The number of rows to sample.")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the row selection.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file to write the sampled configurations to.")

	return cmd
}
