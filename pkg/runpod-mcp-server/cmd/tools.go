package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericiooptions"
	"k8s.io/cli-runtime/pkg/printers"
	"k8s.io/kubectl/pkg/util/i18n"
	"k8s.io/kubectl/pkg/util/templates"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/output"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
)

var toolsExamples = templates.Examples(i18n.T(`
# list every tool as a table
runpod-mcp-server tools

# list the serverless tools as JSON
runpod-mcp-server tools --toolsets serverless --output json
`))

const toolsOutputTable = "table"

// ToolInfo is the printable summary of a registered tool.
type ToolInfo struct {
	Name        string   `json:"name"`
	Toolset     string   `json:"toolset"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description"`
	ReadOnly    bool     `json:"readOnly"`
	Destructive bool     `json:"destructive"`
	Idempotent  bool     `json:"idempotent"`
	Parameters  []string `json:"parameters,omitempty"`
	Required    []string `json:"required,omitempty"`
}

type ToolsOptions struct {
	Toolsets []string
	Output   string

	genericiooptions.IOStreams
}

// NewToolsCommand lists the registered tools offline, no RunPod credential is needed.
func NewToolsCommand(streams genericiooptions.IOStreams) *cobra.Command {
	o := &ToolsOptions{IOStreams: streams, Output: toolsOutputTable}
	cmd := &cobra.Command{
		Use:     "tools [options]",
		Short:   "List the tools exposed by the server",
		Example: toolsExamples,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}
	cmd.Flags().StringSliceVar(&o.Toolsets, flagToolsets, o.Toolsets, "Comma-separated list of toolsets to list (available toolsets: "+strings.Join(toolsets.ToolsetNames(), ", ")+"). Defaults to all.")
	cmd.Flags().StringVarP(&o.Output, flagOutput, "o", o.Output, "Output format (one of: "+strings.Join(append([]string{toolsOutputTable}, output.Names...), ", ")+")")
	return cmd
}

func (o *ToolsOptions) Validate() error {
	if o.Output != toolsOutputTable && output.FromString(o.Output) == nil {
		return fmt.Errorf("invalid output name: %s, valid names are: %s", o.Output, strings.Join(append([]string{toolsOutputTable}, output.Names...), ", "))
	}
	return toolsets.Validate(o.Toolsets)
}

func (o *ToolsOptions) Run() error {
	infos := o.collect()
	switch o.Output {
	case toolsOutputTable:
		return printToolTable(o.Out, infos)
	case output.Yaml.GetName():
		return printTo(o.Out, infos, output.MarshalYaml)
	default:
		return printTo(o.Out, infos, output.MarshalJson)
	}
}

func (o *ToolsOptions) collect() []ToolInfo {
	var infos []ToolInfo
	for _, ts := range toolsets.Toolsets() {
		if len(o.Toolsets) > 0 && !slices.Contains(o.Toolsets, ts.GetName()) {
			continue
		}
		for _, tool := range ts.GetTools() {
			infos = append(infos, toolInfo(ts.GetName(), tool))
		}
	}
	return infos
}

func toolInfo(toolset string, tool api.ServerTool) ToolInfo {
	info := ToolInfo{
		Name:        tool.Tool.Name,
		Toolset:     toolset,
		Title:       tool.Tool.Annotations.Title,
		Description: tool.Tool.Description,
		ReadOnly:    tool.IsReadOnly(),
		Destructive: tool.IsDestructive(),
		Idempotent:  tool.Tool.Annotations.IdempotentHint != nil && *tool.Tool.Annotations.IdempotentHint,
	}
	if schema := tool.Tool.InputSchema; schema != nil {
		for name := range schema.Properties {
			info.Parameters = append(info.Parameters, name)
		}
		slices.Sort(info.Parameters)
		info.Required = slices.Clone(schema.Required)
	}
	return info
}

func printTo(w io.Writer, infos []ToolInfo, marshal func(any) (string, error)) error {
	out, err := marshal(infos)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	return err
}

func printToolTable(w io.Writer, infos []ToolInfo) error {
	tw := printers.GetNewTabWriter(w)
	_, _ = fmt.Fprintln(tw, "NAME\tTOOLSET\tREAD-ONLY\tDESTRUCTIVE\tREQUIRED")
	for _, info := range infos {
		required := strings.Join(info.Required, ",")
		if required == "" {
			required = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%s\n", info.Name, info.Toolset, info.ReadOnly, info.Destructive, required)
	}
	return tw.Flush()
}
