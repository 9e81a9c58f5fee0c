/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/allbin/go-lin"
	"github.com/spf13/cobra"
)

// receiveCmd represents the receive command
var receiveCmd = &cobra.Command{
	Use:   "receive <id> [len]",
	Short: "Request a slave response frame",
	Long: `Send a frame header and read the slave's response.

Without a length the response is collected until 8 data bytes and the
checksum have arrived or the bus goes quiet. With a length exactly that
many data bytes are expected.

Example usage:
  lin receive 0x20
  lin receive 0x20 4
  lin receive 0x3D 8 --version 2 --retries 3
  lin receive 0x21 2 --repeat 10 --interval 20ms`,
	Aliases: []string{"recv", "rx"},
	Args:    cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		n := 0
		if len(args) == 2 {
			if n, err = parseLen(args[1]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		repeat, _ := cmd.Flags().GetInt("repeat")
		interval, _ := cmd.Flags().GetDuration("interval")

		settings, err := loadBusSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := receiveFrames(cmd.Context(), settings, id, n, repeat, interval); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(receiveCmd)

	receiveCmd.Flags().IntP("repeat", "n", 1, "Number of responses to request")
	receiveCmd.Flags().DurationP("interval", "i", 50*time.Millisecond, "Delay between repeated requests")
}

func receiveFrames(ctx context.Context, s busSettings, id uint8, n, repeat int, interval time.Duration) error {
	fmt.Printf("%s Opening %s at %d baud, LIN %s...\n", infoStyle.Render("⚡"), s.Port, s.Baud, s.Version)

	b, err := openBus(s)
	if err != nil {
		return fmt.Errorf("%s %v", errorStyle.Render("✗"), err)
	}
	defer b.Close()

	failed := 0
	for i := 0; i < repeat; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}

		var f lin.Frame
		err := b.exchange(ctx, s.Retries, func(ctx context.Context, m *lin.Master) error {
			var err error
			f, err = m.ReceiveSlaveResponseContext(ctx, id, n)
			return err
		})
		switch {
		case err == nil:
			fmt.Printf("%s %s\n", successStyle.Render("✓"), formatFrame(f))
		case errors.Is(err, lin.ErrChecksum) && len(f.Data) > 0:
			// show what arrived, the checksum column is red
			failed++
			fmt.Printf("%s %s\n", errorStyle.Render("✗"), formatFrame(f))
		case errors.Is(err, context.Canceled):
			return err
		default:
			failed++
			fmt.Printf("%s 0x%02X: %v\n", errorStyle.Render("✗"), id, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d responses failed", failed, repeat)
	}
	return nil
}
