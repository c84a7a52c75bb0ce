package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	mapFile string
	owner   int32
	jsonOut bool
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "pfcli",
	Short:        "ttdpf CLI - run a single pathfinder query against a textual map fixture",
	SilenceUsage: true,
	Long: `pfcli loads a small textual map fixture and runs one pathfinder query
against it, printing the result.

Examples:
  pfcli choose --map track.map --from 0,0,XNE --to 5,0
  pfcli depot --map track.map --from 0,0,XNE
  pfcli reverse --map track.map --from 0,0,XNE --to 5,0
  pfcli water-route --map lake.map --from 0,0 --to 20,20

Global Flags:
  --map string       Path to the textual map fixture (required)
  --owner int        Owning player id to query as (default 0)
  --json             Accepted but unused; every command prints key=value text
  --verbose          Show detailed debug information`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pfcli.yaml)")
	rootCmd.PersistentFlags().StringVar(&mapFile, "map", "", "path to the textual map fixture (env: TTDPF_MAP)")
	rootCmd.PersistentFlags().Int32Var(&owner, "owner", 0, "owning player id to query as (env: TTDPF_OWNER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "accepted but unused; output is always key=value text")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show detailed debug information")

	viper.BindPFlag("map", rootCmd.PersistentFlags().Lookup("map"))
	viper.BindPFlag("owner", rootCmd.PersistentFlags().Lookup("owner"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".pfcli")
		}
	}

	viper.SetEnvPrefix("TTDPF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && isVerbose() {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func getMapFile() (string, error) {
	path := mapFile
	if !rootCmd.PersistentFlags().Changed("map") {
		path = viper.GetString("map")
	}
	if path == "" {
		return "", fmt.Errorf("a map fixture is required (set --map flag or TTDPF_MAP env var)")
	}
	return path, nil
}

func getOwner() int32 {
	if rootCmd.PersistentFlags().Changed("owner") {
		return owner
	}
	return int32(viper.GetInt("owner"))
}

func isJSONOutput() bool { return viper.GetBool("json") }
func isVerbose() bool    { return viper.GetBool("verbose") }
