package metrics

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	yaml "gopkg.in/yaml.v2"
)

/*
WriteTable renders the reports as a text table onto w, one row per
report with its name, row count, accuracy, error rate, per class and
macro F1 scores and confusion matrix.
*/
func WriteTable(w io.Writer, reports ...*Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Set", Align: text.AlignLeft},
		{Name: "Rows", Align: text.AlignRight},
		{Name: "Confusion", Align: text.AlignCenter, AlignHeader: text.AlignCenter},
	})
	t.AppendHeader(table.Row{"Set", "Rows", "Accuracy", "Error", "F1(0)", "F1(1)", "Macro F1", "Confusion"})
	for _, r := range reports {
		t.AppendRow(table.Row{
			r.Name,
			r.Count,
			formatRatio(r.Accuracy),
			formatRatio(r.ErrorRate),
			formatRatio(r.F1[0]),
			formatRatio(r.F1[1]),
			formatRatio(r.MacroF1),
			fmt.Sprintf("%v", r.Confusion),
		})
	}
	t.Render()
}

/*
WriteYAML writes the reports onto w as a YAML sequence, returning an error
if they cannot be marshalled or written.
*/
func WriteYAML(w io.Writer, reports ...*Report) error {
	data, err := yaml.Marshal(reports)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WritePredictions writes one predicted label per line onto w
func WritePredictions(w io.Writer, labels []int) error {
	for _, l := range labels {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func formatRatio(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
