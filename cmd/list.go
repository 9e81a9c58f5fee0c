/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/allbin/go-lin/serial"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List serial ports usable as a LIN interface",
	Long: `List the serial ports a LIN transceiver can be attached to.

USB-LIN cables and USB serial adapters (ttyUSB*, ttyACM*) are listed with
their vendor and product ids and, when known, the UART chip they carry.
On-board UARTs (ttyS*, ttyAMA*, ttyLP*, ...) need an external LIN
transceiver, usually with its enable pin on RTS (see --txen).

Virtual terminals and pseudo-terminals are excluded from the listing.

Example usage:
  lin list
  lin list --table
  lin list --filter usb`,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := serial.ListPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		rows := filterPorts(describePorts(ports), filterType)
		if len(rows) == 0 {
			if filterType != "" && filterType != "all" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return
		}

		if tableFormat {
			fmt.Println(renderPortTable(rows))
			return
		}
		for _, r := range rows {
			fmt.Println(r.path)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port kind: usb, onboard, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

type portKind int

const (
	portOnboard portKind = iota
	portUSB
)

func (k portKind) String() string {
	if k == portUSB {
		return "usb"
	}
	return "onboard"
}

// portRow is one line of the port listing
type portRow struct {
	path   string
	name   string
	kind   portKind
	desc   string
	usb    string
	chip   string
	serial string
	err    error
}

func describePorts(ports []string) []portRow {
	rows := make([]portRow, 0, len(ports))
	for _, p := range ports {
		rows = append(rows, describePort(p))
	}
	return rows
}

func describePort(path string) portRow {
	r := portRow{path: path, name: path, usb: "-", chip: "-", serial: "-"}
	info, err := serial.GetPortInfo(path)
	if err != nil {
		r.err = err
		return r
	}
	r.name = info.Name
	r.desc = info.Description
	if strings.HasPrefix(info.Name, "ttyUSB") || strings.HasPrefix(info.Name, "ttyACM") {
		r.kind = portUSB
	}
	if info.IsUSB {
		r.usb = strings.ToLower(info.VendorID + ":" + info.ProductID)
		if chip := usbChip(info.VendorID); chip != "" {
			r.chip = chip
		}
		if info.SerialNumber != "" {
			r.serial = info.SerialNumber
		}
	}
	return r
}

// usbChip names the UART bridge of common USB-LIN cables by vendor id
func usbChip(vid string) string {
	switch strings.ToLower(vid) {
	case "0403":
		return "FTDI"
	case "10c4":
		return "Silicon Labs CP210x"
	case "1a86":
		return "WCH CH34x"
	case "067b":
		return "Prolific PL2303"
	case "04d8":
		return "Microchip MCP2200"
	case "2e8a":
		return "Raspberry Pi RP2040"
	default:
		return ""
	}
}

func filterPorts(rows []portRow, filterType string) []portRow {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return rows
	}

	var filtered []portRow
	for _, r := range rows {
		if r.err == nil && r.kind.String() == filterType {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func renderPortTable(rows []portRow) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	errStyle := cellStyle.Foreground(lipgloss.Color("9"))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Port", "Kind", "USB", "Chip", "Serial", "Description").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case rows[row].err != nil:
				return errStyle
			default:
				return cellStyle
			}
		})

	for _, r := range rows {
		if r.err != nil {
			t.Row(r.name, "?", "-", "-", "-", fmt.Sprintf("Error: %v", r.err))
			continue
		}
		t.Row(r.name, r.kind.String(), r.usb, r.chip, r.serial, r.desc)
	}
	return fmt.Sprintf("Found %d serial port(s):\n\n%s", len(rows), t.Render())
}
