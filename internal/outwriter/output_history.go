package outwriter

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// historyTimeFormat is how run times are shown in the status table.
const historyTimeFormat = "2006-01-02 15:04:05"

// PrintHistoryStatus prints the history backend, the run span and the table sizes.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeJSON(w, status)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Property", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := [][]string{
		{"Backend", status.Backend},
		{"Connected", strconv.FormatBool(status.Connected)},
	}
	if status.Connected {
		data = append(data, []string{"Total Runs", strconv.Itoa(status.TotalRuns)})
		if status.TotalRuns > 0 {
			data = append(data,
				[]string{"Last Run ID", status.LastRunID},
				[]string{"Last Run", status.LastRunTime.Format(historyTimeFormat)},
				[]string{"Oldest Run", status.OldestRunTime.Format(historyTimeFormat)},
			)
		}
		tables := make([]string, 0, len(status.TableSizes))
		for name := range status.TableSizes {
			tables = append(tables, name)
		}
		slices.Sort(tables)
		for _, name := range tables {
			data = append(data, []string{name, fmt.Sprintf("%d rows", status.TableSizes[name])})
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
