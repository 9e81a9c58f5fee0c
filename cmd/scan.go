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
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find frame ids that a slave responds to",
	Long: `Request a slave response for every signal frame id (0x00-0x3B) and list
the ids that answered.

Each id is probed once with an unknown response length; use --retries to
probe again after a timeout or a corrupted response. Diagnostic and
reserved ids (0x3C-0x3F) are only probed with --all.

Example usage:
  lin scan
  lin scan --from 0x10 --to 0x2F
  lin scan --all --delay 20ms`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		all, _ := cmd.Flags().GetBool("all")
		delay, _ := cmd.Flags().GetDuration("delay")

		first, err := parseID(from)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		last, err := parseID(to)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if all && !cmd.Flags().Changed("to") {
			last = lin.MaxID
		}
		if last < first {
			fmt.Fprintf(os.Stderr, "Error: empty id range 0x%02X-0x%02X\n", first, last)
			os.Exit(1)
		}

		settings, err := loadBusSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		found, err := scanBus(cmd.Context(), settings, first, last, delay)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		renderScanResult(found)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("from", "0x00", "First frame id to probe")
	scanCmd.Flags().String("to", "0x3B", "Last frame id to probe")
	scanCmd.Flags().BoolP("all", "a", false, "Also probe the diagnostic and reserved ids")
	scanCmd.Flags().DurationP("delay", "d", 10*time.Millisecond, "Bus idle time between probes")
}

// scanHit is one id that produced response bytes
type scanHit struct {
	frame lin.Frame
	err   error
}

func newProgressBar(length int, text string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		length,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(text),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func scanBus(ctx context.Context, s busSettings, first, last uint8, delay time.Duration) ([]scanHit, error) {
	fmt.Printf("%s Scanning %s at %d baud, LIN %s...\n", infoStyle.Render("⚡"), s.Port, s.Baud, s.Version)

	b, err := openBus(s)
	if err != nil {
		return nil, fmt.Errorf("%s %v", errorStyle.Render("✗"), err)
	}
	defer b.Close()

	bar := newProgressBar(int(last-first)+1, "[cyan]probing[reset]")
	var found []scanHit
	for id := int(first); id <= int(last); id++ {
		bar.Describe(fmt.Sprintf("[cyan]probing 0x%02X[reset]", id))

		var f lin.Frame
		err := b.exchange(ctx, s.Retries, func(ctx context.Context, m *lin.Master) error {
			var err error
			f, err = m.ReceiveSlaveResponseContext(ctx, uint8(id), 0)
			return err
		})
		if errors.Is(err, context.Canceled) {
			_ = bar.Finish()
			return found, err
		}
		// a silent id leaves nothing but the header echo
		if err == nil || len(f.Data) > 0 {
			found = append(found, scanHit{frame: f, err: err})
		}
		_ = bar.Add(1)

		select {
		case <-ctx.Done():
			_ = bar.Finish()
			return found, ctx.Err()
		case <-time.After(delay):
		}
	}
	_ = bar.Finish()
	return found, nil
}

func renderScanResult(found []scanHit) {
	if len(found) == 0 {
		fmt.Println("No responding frame ids found")
		return
	}

	fmt.Printf("Found %d responding frame id(s):\n\n", len(found))
	for _, hit := range found {
		if hit.err != nil {
			fmt.Printf("%s %s  %v\n", errorStyle.Render("✗"), formatFrame(hit.frame), hit.err)
			continue
		}
		fmt.Printf("%s %s\n", successStyle.Render("✓"), formatFrame(hit.frame))
	}
}
