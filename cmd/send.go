/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/allbin/go-lin"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <id> <data>",
	Short: "Send a master request frame",
	Long: `Send a master request frame: break, sync, protected id, 1-8 data bytes
and checksum. Every byte is read back from the bus to verify it.

The id is 0-63 in decimal or 0x-prefixed hex. Data is hex, either
space-separated or continuous.

Example usage:
  lin send 0x10 01 02
  lin send 16 0102 --version 1
  lin send 0x3C 7F 06 B2 00 FF 7F FF FF --repeat 5 --interval 100ms`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		data, err := parseFrameData(args[1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid frame data: %v\n", err)
			os.Exit(1)
		}

		repeat, _ := cmd.Flags().GetInt("repeat")
		interval, _ := cmd.Flags().GetDuration("interval")

		settings, err := loadBusSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := sendFrames(cmd.Context(), settings, id, data, repeat, interval); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().IntP("repeat", "n", 1, "Number of times to send the frame")
	sendCmd.Flags().DurationP("interval", "i", 50*time.Millisecond, "Delay between repeated frames")
}

func sendFrames(ctx context.Context, s busSettings, id uint8, data []byte, repeat int, interval time.Duration) error {
	fmt.Printf("%s Opening %s at %d baud, LIN %s...\n", infoStyle.Render("⚡"), s.Port, s.Baud, s.Version)

	b, err := openBus(s)
	if err != nil {
		return fmt.Errorf("%s %v", errorStyle.Render("✗"), err)
	}
	defer b.Close()

	for i := 0; i < repeat; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}

		err := b.exchange(ctx, s.Retries, func(ctx context.Context, m *lin.Master) error {
			return m.SendMasterRequestContext(ctx, id, data)
		})
		if err != nil {
			return fmt.Errorf("%s frame 0x%02X failed: %w", errorStyle.Render("✗"), id, err)
		}
		fmt.Printf("%s %s\n", successStyle.Render("✓"), formatFrame(b.master.Frame()))
	}
	return nil
}
