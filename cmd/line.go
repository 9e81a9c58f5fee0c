/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/allbin/go-lin/serial"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// lineCmd represents the line command
var lineCmd = &cobra.Command{
	Use:   "line <rts|dtr> <state>",
	Short: "Set a modem line wired to the transceiver",
	Long: `Manually set the RTS or DTR line of the LIN port.

Adapters commonly wire RTS to the transceiver's transmitter enable and DTR
to its sleep or wake input. Setting the lines by hand helps when checking
the wiring with a scope before running frames.

Examples:
  lin line rts high
  lin line dtr off --port /dev/ttyUSB1

Valid states: high, low, on, off, true, false, 1, 0`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := viper.GetString(flagPort)
		line := strings.ToLower(args[0])

		state, err := parseSignalState(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// open without touching the lines that are not being set
		port, err := serial.Open(portPath, serial.WithBaudRate(viper.GetInt(flagBaud)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening port: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()

		switch line {
		case "rts":
			err = port.SetRTS(state)
		case "dtr":
			err = port.SetDTR(state)
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown line %q (valid: rts, dtr)\n", args[0])
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error setting %s: %v\n", strings.ToUpper(line), err)
			os.Exit(1)
		}

		// Verify the state was set
		signals, err := port.GetModemSignals()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not verify %s state: %v\n", strings.ToUpper(line), err)
			return
		}
		current := signals.RTS
		if line == "dtr" {
			current = signals.DTR
		}
		fmt.Printf("%s set to %s on %s\n", strings.ToUpper(line), formatSignalState(current), portPath)
	},
}

func parseSignalState(state string) (bool, error) {
	switch strings.ToLower(state) {
	case "high", "on", "true", "1":
		return true, nil
	case "low", "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid state: %s (valid: high, low, on, off, true, false, 1, 0)", state)
	}
}

func init() {
	rootCmd.AddCommand(lineCmd)
}
