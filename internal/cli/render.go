package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/born-ml/fill/internal/tensor"
)

// Render prints raw as one or more tables: a scalar as a single cell, a vector as one
// row, a matrix row by row, and higher ranks as one matrix block per leading index.
func Render(w io.Writer, raw *tensor.RawTensor) error {
	shape := raw.Shape()
	if raw.NumElements() == 0 {
		_, err := fmt.Fprintf(w, "[] %s %v\n", raw.DType(), shape)
		return err
	}

	switch shape.Rank() {
	case 0:
		_, err := fmt.Fprintln(w, raw.FormatAt())
		return err
	case 1:
		row := make([]string, shape[0])
		for i := range row {
			row[i] = raw.FormatAt(i)
		}
		renderTable(w, [][]string{row})
		return nil
	}

	leading := shape[:len(shape)-2]
	rows, cols := shape[len(shape)-2], shape[len(shape)-1]
	for _, prefix := range leading.Iter() {
		if len(prefix) > 0 {
			if _, err := fmt.Fprintf(w, "[%s, :, :]\n", joinInts(prefix)); err != nil {
				return err
			}
		}
		index := append(append(make([]int, 0, len(shape)), prefix...), 0, 0)
		data := make([][]string, rows)
		for r := range data {
			data[r] = make([]string, cols)
			for c := range data[r] {
				index[len(index)-2], index[len(index)-1] = r, c
				data[r][c] = raw.FormatAt(index...)
			}
		}
		renderTable(w, data)
	}
	return nil
}

func renderTable(w io.Writer, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("  ")
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(data)
	table.Render()
}

// renderSummary prints one line per plan result.
func renderSummary(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
