/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/allbin/go-lin"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

var (
	blue  = color.New(color.FgHiBlue).SprintfFunc()
	red   = color.New(color.FgRed).SprintfFunc()
	green = color.New(color.FgGreen).SprintfFunc()
)

// formatFrame renders a frame as one line:
// <o> || 0x10 || PID 0x50 || 2 || 01 02                   || chk 0x4C || ..
func formatFrame(f lin.Frame) string {
	var out strings.Builder

	switch f.Type {
	case lin.MasterRequest:
		out.WriteString("<o> || ")
	case lin.SlaveResponse:
		out.WriteString("<i> || ")
	}

	out.WriteString(blue("0x%02X", f.ID) + " || ")
	out.WriteString(fmt.Sprintf("PID 0x%02X || ", f.PID))
	out.WriteString(fmt.Sprintf("%d || ", len(f.Data)))
	out.WriteString(fmt.Sprintf("%-23s", fmt.Sprintf("% X", f.Data)))
	out.WriteString(" || ")

	chk := fmt.Sprintf("chk 0x%02X", f.Checksum)
	if f.Valid {
		out.WriteString(green(chk))
	} else {
		out.WriteString(red(chk))
	}

	out.WriteString(" || ")
	out.WriteString(onlyPrintable(f.Data))
	return out.String()
}

func onlyPrintable(data []byte) string {
	var out strings.Builder
	for _, b := range data {
		if b >= 32 && b <= 126 {
			out.WriteByte(b)
		} else {
			out.WriteByte('.')
		}
	}
	return out.String()
}
