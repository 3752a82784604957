package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
)

type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Print writes a tool result. With jsonOut, JSON text is compacted to a single line
// so it can be piped to other tools; anything else is written as received.
func Print(w io.Writer, raw string, jsonOut bool) {
	if jsonOut {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			_ = json.NewEncoder(w).Encode(v)
			return
		}
	}
	_, _ = fmt.Fprintln(w, raw)
}

// PrintToolList prints tool names with the first line of their description.
func PrintToolList(w io.Writer, tools []ToolInfo, jsonOut bool) {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(tools)
		return
	}
	if len(tools) == 0 {
		_, _ = fmt.Fprintln(w, "No tools available")
		return
	}
	for _, t := range tools {
		summary, _, _ := strings.Cut(t.Description, "\n")
		_, _ = fmt.Fprintf(w, "- %s%s%s: %s\n", colorCyan, t.Name, colorReset, summary)
	}
}
