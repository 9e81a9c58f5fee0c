/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/allbin/go-lin"
	"github.com/allbin/go-lin/serial"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [port]",
	Short: "Display port details and LIN timing",
	Long: `Display information about the serial port used for the LIN bus.

Shows USB metadata for USB-LIN adapters, the modem lines that can drive a
transceiver enable input, and the bit and frame timing derived from the
configured baud rate.

Examples:
  lin info
  lin info /dev/ttyUSB0 --baud 10417
  lin info /dev/ttyACM0 --lines=false`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := viper.GetString(flagPort)
		if len(args) == 1 {
			portPath = args[0]
		}
		showLines, _ := cmd.Flags().GetBool("lines")

		info, err := serial.GetPortInfo(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting port info: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Port Information: %s\n\n", info.Path)
		fmt.Printf("  Name:        %s\n", info.Name)
		fmt.Printf("  Description: %s\n", info.Description)

		if info.IsUSB {
			fmt.Println("\nUSB Device Information:")
			fmt.Printf("  Vendor ID:    %s\n", info.VendorID)
			fmt.Printf("  Product ID:   %s\n", info.ProductID)
			if info.SerialNumber != "" {
				fmt.Printf("  Serial:       %s\n", info.SerialNumber)
			}
		}

		printTiming(viper.GetInt(flagBaud))

		if showLines {
			if err := printLines(portPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error reading modem signals: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().Bool("lines", true, "Open the port and show the modem lines")
}

// printTiming shows the nominal timing of a frame at baud
func printTiming(baud int) {
	fmt.Printf("\nLIN Timing at %d baud:\n", baud)
	if baud < 1000 || baud > 20000 {
		fmt.Printf("  %s outside the LIN range 1000-20000\n", errorStyle.Render("✗"))
		return
	}
	bit := time.Second / time.Duration(baud)
	fmt.Printf("  Bit time:     %v\n", bit)
	fmt.Printf("  Byte time:    %v\n", 10*bit)
	fmt.Printf("  Break:        %v (13 bits)\n", 13*bit)
	for _, n := range []int{1, lin.MaxDataLen} {
		// break, sync, PID, data, checksum, +40%
		nominal := time.Duration(n+4) * 10 * bit
		fmt.Printf("  %d byte frame: %v nominal, %v max\n", n, nominal, nominal*14/10)
	}
}

func printLines(portPath string) error {
	port, err := serial.Open(portPath)
	if err != nil {
		return err
	}
	defer port.Close()

	signals, err := port.GetModemSignals()
	if err != nil {
		return err
	}

	fmt.Println("\nModem Signals:")
	fmt.Printf("  CTS (Clear To Send):       %s\n", formatSignalState(signals.CTS))
	fmt.Printf("  DSR (Data Set Ready):      %s\n", formatSignalState(signals.DSR))
	fmt.Printf("  DCD (Data Carrier Detect): %s\n", formatSignalState(signals.DCD))
	fmt.Printf("  RTS (Request To Send):     %s  (--txen rts)\n", formatSignalState(signals.RTS))
	fmt.Printf("  DTR (Data Terminal Ready): %s\n", formatSignalState(signals.DTR))
	return nil
}

func formatSignalState(state bool) string {
	if state {
		return "HIGH"
	}
	return "LOW"
}
