package main

import (
	"errors"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "lox [file]",
	Short: "Run Lox scripts or start an interactive session",
	Long: `Run a Lox script. With no file and a terminal on stdin, start an
interactive session; otherwise the script is read from stdin.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          rootHandler,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.lox.yaml)")
	pf.String("log-level", "warn", "log level: trace, debug, info, warn or error")
	pf.Bool("trace", false, "log every executed instruction at debug level")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("history-file", "~/.lox_history", "file used to persist REPL history")
	for _, name := range []string{"config", "log-level", "trace", "no-color", "history-file"} {
		viper.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.Flags().StringP("code", "c", "", "code to run")
	viper.BindPFlag("code", rootCmd.Flags().Lookup("code"))

	rootCmd.AddCommand(runCmd, disCmd, docsCmd, testCmd, versionCmd)
}

// initConfig reads the config file and LOX_ environment variables.
func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".lox")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("lox")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && viper.GetString("config") != "" {
			fatal(err)
		}
	}
	processGlobalFlags()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			printError(err)
		}
		os.Exit(exitCode(err))
	}
}
