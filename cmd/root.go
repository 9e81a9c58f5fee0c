/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lin",
	Short: "LIN bus master tool",
	Long: `lin drives a LIN bus as master through a serial port and a LIN transceiver.

It sends master request frames, polls slave responses, scans a bus for
responding ids and provides an interactive frame console.

Settings are read from flags, from LIN_* environment variables and from
$HOME/.lin.yaml, in that order of precedence.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

const (
	flagPort         = "port"
	flagBaud         = "baud"
	flagVersion      = "version"
	flagTxEnable     = "txen"
	flagBreak        = "break"
	flagTimeoutSlack = "timeout-slack"
	flagRetries      = "retries"
)

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lin.yaml)")
	pf.StringP(flagPort, "p", "/dev/ttyUSB0", "serial port connected to the LIN transceiver")
	pf.IntP(flagBaud, "b", 19200, "bus baud rate (1000-20000)")
	pf.StringP(flagVersion, "V", "2", "protocol version: 1 (classic checksum) or 2 (enhanced)")
	pf.String(flagTxEnable, "none", "transmitter enable line: none, rts, rts-inverted")
	pf.String(flagBreak, "half-baud", "break generation: half-baud, ioctl")
	pf.Duration(flagTimeoutSlack, 0, "extra time allowed per frame on top of the LIN frame timeout")
	pf.IntP(flagRetries, "r", 1, "attempts per frame before giving up")

	for _, name := range []string{flagPort, flagBaud, flagVersion, flagTxEnable, flagBreak, flagTimeoutSlack, flagRetries} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}

	// glog flags (-v, -logtostderr, ...) on the command line
	pf.AddGoFlagSet(flag.CommandLine)
	_ = flag.Set("logtostderr", "true")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lin")
	}

	viper.SetEnvPrefix("LIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
