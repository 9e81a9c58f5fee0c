/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/allbin/go-lin"
	"github.com/spf13/cobra"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <output-file> <frame>",
	Short: "Poll a frame and capture the exchanges to a file",
	Long: `Repeat one frame exchange and append every result to a file.

The frame is written as:
  0x20        slave response, length found from the bus
  0x20:4      slave response of 4 data bytes
  0x10=0102   master request carrying 01 02

The frame is exchanged every --interval until --count exchanges are done
or until interrupted (Ctrl+C). The output file is opened in append mode,
one line per exchange, allowing you to resume captures without
overwriting existing data.

Example usage:
  lin capture bus.log 0x20:4
  lin capture bus.log 0x10=8000 --interval 20ms
  lin capture bus.log 0x30 --console --count 100`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		outputPath := args[0]

		frame, err := parseFrameSpec(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		interval, _ := cmd.Flags().GetDuration("interval")
		count, _ := cmd.Flags().GetInt("count")
		showConsole, _ := cmd.Flags().GetBool("console")

		settings, err := loadBusSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := runCapture(cmd.Context(), settings, outputPath, frame, interval, count, showConsole); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().DurationP("interval", "i", 10*time.Millisecond, "Delay between exchanges")
	captureCmd.Flags().IntP("count", "n", 0, "Stop after this many exchanges (0 = until interrupted)")
	captureCmd.Flags().BoolP("console", "c", false, "Display frames on console while capturing")
}

// captureStats summarises a capture run
type captureStats struct {
	frames int
	failed int
}

func runCapture(ctx context.Context, s busSettings, outputPath string, frame frameSpec, interval time.Duration, count int, showConsole bool) error {
	b, err := openBus(s)
	if err != nil {
		return fmt.Errorf("failed to open bus: %w", err)
	}
	defer b.Close()

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(os.Stderr, "Capturing %s on %s to %s\n", frame, s.Port, outputPath)
	if showConsole {
		fmt.Fprintf(os.Stderr, "Console display enabled\n")
	}
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	var console io.Writer
	if showConsole {
		console = os.Stdout
	}

	startTime := time.Now()
	stats, err := pollFrame(ctx, b.master, frame, interval, count, file, console)
	duration := time.Since(startTime)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, shutting down...\n")
		err = nil
	}
	fmt.Fprintf(os.Stderr, "\nCapture complete: %d frames (%d failed) in %v\n", stats.frames, stats.failed, duration.Round(time.Millisecond))
	return err
}

// pollFrame exchanges frame every interval until ctx is done or count
// exchanges are made (count <= 0 runs forever), writing a record of every
// exchange to out.
func pollFrame(ctx context.Context, m *lin.Master, frame frameSpec, interval time.Duration, count int, out, console io.Writer) (captureStats, error) {
	var stats captureStats

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for count <= 0 || stats.frames < count {
		m.ResetStateMachine()
		f, err := frame.run(ctx, m)
		if errors.Is(err, context.Canceled) {
			return stats, err
		}

		stats.frames++
		if err != nil {
			stats.failed++
		}
		if _, werr := fmt.Fprintln(out, frameRecord(time.Now(), f, err)); werr != nil {
			return stats, fmt.Errorf("write error: %w", werr)
		}
		if console != nil {
			if err != nil {
				fmt.Fprintf(console, "%s %s  %v\n", errorStyle.Render("✗"), formatFrame(f), lin.ErrorOf(err))
			} else {
				fmt.Fprintf(console, "%s %s\n", successStyle.Render("✓"), formatFrame(f))
			}
		}

		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-ticker.C:
		}
	}
	return stats, nil
}
