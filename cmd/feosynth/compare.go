package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/feosynth/feosynth/pkg/tuning"
)

// comparison notes run from the A below middle C up to A-4
const (
	compareFirst = 57
	compareLast  = tuning.ReferenceNote
)

type comparisonRow struct {
	note  int
	freq  float64
	equal float64
	cents float64
}

func comparison(p tuning.Preset, freqA float64) []comparisonRow {
	t := tuning.New(p, freqA)
	et := tuning.New(tuning.EqualTemperament, freqA)

	rows := make([]comparisonRow, 0, compareLast-compareFirst+1)
	for n := compareFirst; n <= compareLast; n++ {
		f, e := t.Lookup(n), et.Lookup(n)
		rows = append(rows, comparisonRow{note: n, freq: f, equal: e, cents: tuning.Cents(e, f)})
	}
	return rows
}

func printComparison(w io.Writer, name string, freqA float64) error {
	p, err := tuning.ParsePreset(name)
	if err != nil {
		return err
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("note", p.String(), "equal", "cents").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range comparison(p, freqA) {
		tbl.Row(
			tuning.NoteName(r.note),
			fmt.Sprintf("%.3f", r.freq),
			fmt.Sprintf("%.3f", r.equal),
			fmt.Sprintf("%+.2f", r.cents),
		)
	}
	_, err = fmt.Fprintln(w, tbl.Render())
	return err
}
