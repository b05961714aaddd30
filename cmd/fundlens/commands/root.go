package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fundlens",
	Short: "fundlens - 基金盘中估值服务",
	Long: `fundlens Unified CLI

基金盘中估值与持仓跟踪服务。
基于公开的前十大重仓股和实时行情，在交易时段内估算基金净值变化。

Usage:
  go run ./cmd/fundlens [command]

Examples:
  go run ./cmd/fundlens api
  go run ./cmd/fundlens sync 161725
  go run ./cmd/fundlens estimate 161725 005827
  go run ./cmd/fundlens status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
