/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "genome-finisher",
	Short: "Circularise and finish genome assemblies using long reads",
	Long: `Finishes a draft assembly with long reads by running, in order:
1.	Read mapping (bwa mem, samtools)
2.	Read filtering (circlator bam2reads)
3.	Reassembly (SPAdes or Canu, via circlator assemble)
4.	Contig merging and circularisation (circlator merge)
5.	Contig cleaning (circlator clean)
6.	Start point rotation (circlator fixstart)
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to YAML config file; flags given on the command line take precedence")
}
