package main

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"

	_ "github.com/runpod/runpod-mcp-server/pkg/mcp"
)

const (
	toolsetsStart = "<!-- AVAILABLE-TOOLSETS-START -->"
	toolsetsEnd   = "<!-- AVAILABLE-TOOLSETS-END -->"
	toolsStart    = "<!-- AVAILABLE-TOOLSETS-TOOLS-START -->"
	toolsEnd      = "<!-- AVAILABLE-TOOLSETS-TOOLS-END -->"
)

func main() {
	if len(os.Args) < 2 {
		_, _ = fmt.Fprintln(os.Stderr, "usage: update-readme README.md")
		os.Exit(1)
	}
	localReadmePath, err := filepath.Localize(filepath.Clean(os.Args[1]))
	if err != nil {
		panic(err)
	}
	readme, err := os.ReadFile(localReadmePath)
	if err != nil {
		panic(err)
	}
	updated := updateReadme(string(readme), toolsets.Toolsets())
	if err := os.WriteFile(localReadmePath, []byte(updated), 0o644); err != nil {
		panic(err)
	}
}

func updateReadme(readme string, toolsetsList []api.Toolset) string {
	updated := replaceBetweenMarkers(readme, toolsetsStart, toolsetsEnd, renderToolsetTable(toolsetsList))
	return replaceBetweenMarkers(updated, toolsStart, toolsEnd, renderToolsetTools(toolsetsList))
}

func renderToolsetTable(toolsetsList []api.Toolset) string {
	maxNameLen, maxDescLen := len("Toolset"), len("Description")
	for _, toolset := range toolsetsList {
		maxNameLen = max(maxNameLen, len(toolset.GetName()))
		maxDescLen = max(maxDescLen, len(toolset.GetDescription()))
	}
	table := strings.Builder{}
	table.WriteString(fmt.Sprintf("| %-*s | %-*s |\n", maxNameLen, "Toolset", maxDescLen, "Description"))
	table.WriteString(fmt.Sprintf("|-%s-|-%s-|\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxDescLen)))
	for _, toolset := range toolsetsList {
		table.WriteString(fmt.Sprintf("| %-*s | %-*s |\n", maxNameLen, toolset.GetName(), maxDescLen, toolset.GetDescription()))
	}
	return table.String()
}

func renderToolsetTools(toolsetsList []api.Toolset) string {
	sb := strings.Builder{}
	for _, toolset := range toolsetsList {
		sb.WriteString("<details>\n\n<summary>" + toolset.GetName() + "</summary>\n\n")
		for _, tool := range toolset.GetTools() {
			sb.WriteString(renderTool(tool))
		}
		sb.WriteString("</details>\n\n")
	}
	return sb.String()
}

func renderTool(tool api.ServerTool) string {
	sb := strings.Builder{}
	summary, _, _ := strings.Cut(tool.Tool.Description, "\n")
	sb.WriteString(fmt.Sprintf("- **%s**", tool.Tool.Name))
	switch {
	case tool.IsReadOnly():
		sb.WriteString(" _(read-only)_")
	case tool.IsDestructive():
		sb.WriteString(" _(destructive)_")
	}
	sb.WriteString(" - " + summary + "\n")
	if schema := tool.Tool.InputSchema; schema != nil {
		for _, propName := range slices.Sorted(maps.Keys(schema.Properties)) {
			property := schema.Properties[propName]
			sb.WriteString(fmt.Sprintf("  - `%s` (`%s`)", propName, property.Type))
			if slices.Contains(schema.Required, propName) {
				sb.WriteString(" **(required)**")
			}
			sb.WriteString(fmt.Sprintf(" - %s\n", property.Description))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func replaceBetweenMarkers(content, startMarker, endMarker, replacement string) string {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return content
	}
	endIdx := strings.Index(content, endMarker)
	if endIdx == -1 || endIdx <= startIdx {
		return content
	}
	return content[:startIdx+len(startMarker)] + "\n\n" + replacement + "\n" + content[endIdx:]
}
