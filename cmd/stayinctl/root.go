package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stayinctl",
	Short: "Work with StayIN listing pages offline",
	Long: `stayinctl runs the hotel listing filter pipeline over saved pages and
prints the navigation targets the home search produces.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("collation", "en", "locale used to sort names")
}
