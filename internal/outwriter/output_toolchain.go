package outwriter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintToolchainStatus prints one row per tool: required tools first, then optional ones.
func PrintToolchainStatus(w io.Writer, status schema.ToolchainStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeJSON(w, status)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Tool", "Required", "Available", "Detail"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, tool := range requiredTools(status) {
		available := !slices.Contains(status.MissingPackages, tool)
		data = append(data, []string{tool, "yes", yesNo(available), status.Details[tool]})
	}
	optional := make([]string, 0, len(status.Optional))
	for tool := range status.Optional {
		optional = append(optional, tool)
	}
	slices.Sort(optional)
	for _, tool := range optional {
		data = append(data, []string{tool, "no", yesNo(status.Optional[tool]), status.Details[tool]})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if status.Ready {
		_, err := fmt.Fprintln(w, "Toolchain ready: full analysis available.")
		return err
	}
	_, err := fmt.Fprintf(w, "Toolchain not ready (missing: %s): collect runs in degraded mode.\n", strings.Join(status.MissingPackages, ", "))
	return err
}

// requiredTools lists every tool with a detail entry that is not optional, sorted.
func requiredTools(status schema.ToolchainStatus) []string {
	seen := make(map[string]struct{})
	var tools []string
	add := func(tool string) {
		if _, ok := status.Optional[tool]; ok {
			return
		}
		if _, ok := seen[tool]; ok {
			return
		}
		seen[tool] = struct{}{}
		tools = append(tools, tool)
	}
	for tool := range status.Details {
		add(tool)
	}
	for _, tool := range status.MissingPackages {
		add(tool)
	}
	slices.Sort(tools)
	return tools
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
