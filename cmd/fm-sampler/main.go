package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fmsampling/variant-sampler/cmd/fm-sampler/sample"
	"github.com/fmsampling/variant-sampler/pkg/version"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "fm-sampler",
		Short: "fm-sampler",
		Long:  `A CLI tool to sample valid configurations of a feature model.`,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(sample.NewCmd(), sample.NewDimacsCmd(), sample.NewFromCSVCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of fm-sampler",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String())
		},
	})

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	if err := rootCmd.PersistentFlags().MarkHidden("debug"); err != nil {
		log.Panic(err.Error())
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
