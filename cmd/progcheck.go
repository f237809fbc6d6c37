/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"context"
	"log"
	"os"

	"github.com/gmaffy/genome-finisher/utils"
	"github.com/spf13/cobra"
)

var progcheckAssembler string

// progcheckCmd represents the progcheck command
var progcheckCmd = &cobra.Command{
	Use:   "progcheck",
	Short: "Check the external programs are installed and print their versions",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := utils.DefaultConfig()
		if cfgFile != "" {
			if err := utils.ReadConfig(cfgFile, &cfg); err != nil {
				log.Fatalf("Error: %v", err)
			}
		}
		if cmd.Flags().Changed("assembler") {
			cfg.Assembler = progcheckAssembler
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Error: %v", err)
		}

		versions, err := utils.ToolVersions(context.Background(), utils.RequiredTools(cfg))
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		if err := utils.WriteVersions(os.Stdout, versions); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(progcheckCmd)
	progcheckCmd.Flags().StringVar(&progcheckAssembler, "assembler", "spades", "Assembler to check for: spades or canu")
}
