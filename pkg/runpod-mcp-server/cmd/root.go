package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"k8s.io/cli-runtime/pkg/genericiooptions"
	"k8s.io/klog/v2"
	"k8s.io/klog/v2/textlogger"
	"k8s.io/kubectl/pkg/util/i18n"
	"k8s.io/kubectl/pkg/util/templates"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/config"
	internalhttp "github.com/runpod/runpod-mcp-server/pkg/http"
	"github.com/runpod/runpod-mcp-server/pkg/mcp"
	"github.com/runpod/runpod-mcp-server/pkg/output"
	"github.com/runpod/runpod-mcp-server/pkg/telemetry"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
	"github.com/runpod/runpod-mcp-server/pkg/version"
)

var (
	long     = templates.LongDesc(i18n.T("RunPod Model Context Protocol (MCP) server"))
	examples = templates.Examples(i18n.T(`
# show this help
runpod-mcp-server -h

# shows version information
runpod-mcp-server --version

# start STDIO server (RUNPOD_API_KEY must be set in the environment or in a .env file)
runpod-mcp-server

# start a streamable HTTP and SSE server on port 8080
runpod-mcp-server --port 8080

# expose only the read-only pod and template tools
runpod-mcp-server --toolsets pods,templates --read-only

# list the available tools without contacting RunPod
runpod-mcp-server tools --output yaml
`))
)

const (
	flagVersion            = "version"
	flagLogLevel           = "log-level"
	flagConfig             = "config"
	flagConfigDir          = "config-dir"
	flagPort               = "port"
	flagToolsets           = "toolsets"
	flagOutput             = "output"
	flagReadOnly           = "read-only"
	flagDisableDestructive = "disable-destructive"
	flagEnabledTools       = "enabled-tools"
	flagDisabledTools      = "disabled-tools"
	flagStateless          = "stateless"
	flagRestAPIURL         = "rest-api-url"
	flagServerlessAPIURL   = "serverless-api-url"
	flagRequestTimeout     = "request-timeout"
)

type MCPServerOptions struct {
	Version            bool
	LogLevel           int
	Port               string
	Toolsets           []string
	Output             string
	ReadOnly           bool
	DisableDestructive bool
	EnabledTools       []string
	DisabledTools      []string
	Stateless          bool
	RestAPIURL         string
	ServerlessAPIURL   string
	RequestTimeout     string

	ConfigPath   string
	ConfigDir    string
	StaticConfig *config.StaticConfig

	genericiooptions.IOStreams
}

func NewMCPServerOptions(streams genericiooptions.IOStreams) *MCPServerOptions {
	return &MCPServerOptions{
		IOStreams:    streams,
		StaticConfig: config.Default(),
	}
}

func NewMCPServer(streams genericiooptions.IOStreams) *cobra.Command {
	o := NewMCPServerOptions(streams)
	cmd := &cobra.Command{
		Use:     "runpod-mcp-server [command] [options]",
		Short:   "RunPod Model Context Protocol (MCP) server",
		Long:    long,
		Example: examples,
		RunE: func(c *cobra.Command, args []string) error {
			if err := o.Complete(c); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}

	cmd.Flags().BoolVar(&o.Version, flagVersion, o.Version, "Print version information and quit")
	cmd.Flags().IntVar(&o.LogLevel, flagLogLevel, o.LogLevel, "Set the log level (from 0 to 9)")
	cmd.Flags().StringVar(&o.ConfigPath, flagConfig, o.ConfigPath, "Path of the config file.")
	cmd.Flags().StringVar(&o.ConfigDir, flagConfigDir, o.ConfigDir, "Path of a directory with drop-in *.toml config files, merged in lexical order after --config.")
	cmd.Flags().StringVar(&o.Port, flagPort, o.Port, "Start a streamable HTTP and SSE HTTP server on the specified port (e.g. 8080)")
	cmd.Flags().StringSliceVar(&o.Toolsets, flagToolsets, o.Toolsets, "Comma-separated list of MCP toolsets to use (available toolsets: "+strings.Join(toolsets.ToolsetNames(), ", ")+"). Defaults to "+strings.Join(o.StaticConfig.Toolsets, ", ")+".")
	cmd.Flags().StringVar(&o.Output, flagOutput, o.Output, "Output format for RunPod responses (one of: "+strings.Join(output.Names, ", ")+"). Defaults to "+o.StaticConfig.Output+".")
	cmd.Flags().BoolVar(&o.ReadOnly, flagReadOnly, o.ReadOnly, "If true, only tools annotated with readOnlyHint=true are exposed")
	cmd.Flags().BoolVar(&o.DisableDestructive, flagDisableDestructive, o.DisableDestructive, "If true, tools annotated with destructiveHint=true are disabled")
	cmd.Flags().StringSliceVar(&o.EnabledTools, flagEnabledTools, o.EnabledTools, "Comma-separated list of tool names to expose. If empty, every tool of the selected toolsets is exposed")
	cmd.Flags().StringSliceVar(&o.DisabledTools, flagDisabledTools, o.DisabledTools, "Comma-separated list of tool names to hide")
	cmd.Flags().BoolVar(&o.Stateless, flagStateless, o.Stateless, "If true, the streamable HTTP transport keeps no session state")
	cmd.Flags().StringVar(&o.RestAPIURL, flagRestAPIURL, o.RestAPIURL, "Base URL of the RunPod REST API. Defaults to "+config.DefaultRestAPIURL)
	cmd.Flags().StringVar(&o.ServerlessAPIURL, flagServerlessAPIURL, o.ServerlessAPIURL, "Base URL of the RunPod serverless job API. Defaults to "+config.DefaultServerlessAPIURL)
	cmd.Flags().StringVar(&o.RequestTimeout, flagRequestTimeout, o.RequestTimeout, "Timeout for each RunPod API request (e.g. 30s). Empty means no timeout")

	cmd.AddCommand(NewToolsCommand(streams))

	return cmd
}

func (m *MCPServerOptions) Complete(cmd *cobra.Command) error {
	if m.ConfigPath != "" || m.ConfigDir != "" {
		cnf, err := config.Read(m.ConfigPath, m.ConfigDir)
		if err != nil {
			return err
		}
		m.StaticConfig = cnf
	}

	m.loadFlags(cmd)

	m.initializeLogging()

	return nil
}

func (m *MCPServerOptions) loadFlags(cmd *cobra.Command) {
	if cmd.Flag(flagLogLevel).Changed {
		m.StaticConfig.LogLevel = m.LogLevel
	}
	if cmd.Flag(flagPort).Changed {
		m.StaticConfig.Port = m.Port
	}
	if cmd.Flag(flagOutput).Changed {
		m.StaticConfig.Output = m.Output
	}
	if cmd.Flag(flagReadOnly).Changed {
		m.StaticConfig.ReadOnly = m.ReadOnly
	}
	if cmd.Flag(flagDisableDestructive).Changed {
		m.StaticConfig.DisableDestructive = m.DisableDestructive
	}
	if cmd.Flag(flagToolsets).Changed {
		m.StaticConfig.Toolsets = m.Toolsets
	}
	if cmd.Flag(flagEnabledTools).Changed {
		m.StaticConfig.EnabledTools = m.EnabledTools
	}
	if cmd.Flag(flagDisabledTools).Changed {
		m.StaticConfig.DisabledTools = m.DisabledTools
	}
	if cmd.Flag(flagStateless).Changed {
		m.StaticConfig.Stateless = m.Stateless
	}
	if cmd.Flag(flagRestAPIURL).Changed {
		m.StaticConfig.RestAPIURL = m.RestAPIURL
	}
	if cmd.Flag(flagServerlessAPIURL).Changed {
		m.StaticConfig.ServerlessAPIURL = m.ServerlessAPIURL
	}
	if cmd.Flag(flagRequestTimeout).Changed {
		m.StaticConfig.RequestTimeout = m.RequestTimeout
	}
}

func (m *MCPServerOptions) initializeLogging() {
	flagSet := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(flagSet)
	if m.StaticConfig.Port == "" {
		// stdout carries the protocol in stdio mode, klog must stay silent
		_ = flagSet.Parse([]string{"-logtostderr=false", "-alsologtostderr=false", "-stderrthreshold=FATAL"})
		return
	}
	loggerOptions := []textlogger.ConfigOption{textlogger.Output(m.Out)}
	if m.StaticConfig.LogLevel >= 0 {
		loggerOptions = append(loggerOptions, textlogger.Verbosity(m.StaticConfig.LogLevel))
		_ = flagSet.Parse([]string{"--v", strconv.Itoa(m.StaticConfig.LogLevel)})
	}
	logger := textlogger.NewLogger(textlogger.NewConfig(loggerOptions...))
	klog.SetLoggerWithOptions(logger)
}

func (m *MCPServerOptions) Validate() error {
	if output.FromString(m.StaticConfig.Output) == nil {
		return fmt.Errorf("invalid output name: %s, valid names are: %s", m.StaticConfig.Output, strings.Join(output.Names, ", "))
	}
	if err := toolsets.Validate(m.StaticConfig.Toolsets); err != nil {
		return err
	}
	if _, err := m.StaticConfig.GetRequestTimeout(); err != nil {
		return err
	}
	return nil
}

// loadAPIKey reads the RunPod credential, giving a .env file in the working directory
// a chance to provide it. Variables already set in the environment win.
func loadAPIKey() (string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		klog.Warningf("Failed to load .env file: %v", err)
	}
	apiKey := strings.TrimSpace(os.Getenv(config.APIKeyEnvVar))
	if apiKey == "" {
		return "", &api.StartupError{Message: config.APIKeyEnvVar + " environment variable is required"}
	}
	return apiKey, nil
}

func (m *MCPServerOptions) Run() error {
	klog.V(1).Info("Starting runpod-mcp-server")
	klog.V(1).Infof(" - Config: %s", m.ConfigPath)
	klog.V(1).Infof(" - Toolsets: %s", strings.Join(m.StaticConfig.Toolsets, ", "))
	klog.V(1).Infof(" - Output: %s", m.StaticConfig.Output)
	klog.V(1).Infof(" - Read-only mode: %t", m.StaticConfig.ReadOnly)
	klog.V(1).Infof(" - Disable destructive tools: %t", m.StaticConfig.DisableDestructive)
	klog.V(1).Infof(" - Stateless mode: %t", m.StaticConfig.Stateless)
	klog.V(1).Infof(" - REST API: %s", m.StaticConfig.RestAPIURL)
	klog.V(1).Infof(" - Serverless API: %s", m.StaticConfig.ServerlessAPIURL)

	if m.Version {
		_, _ = fmt.Fprintf(m.Out, "%s\n", version.Version)
		return nil
	}

	apiKey, err := loadAPIKey()
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.InitTracerWithConfig(&m.StaticConfig.Telemetry, version.BinaryName, version.Version)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer shutdownTracing()

	mcpServer, err := mcp.NewServer(mcp.Configuration{StaticConfig: m.StaticConfig}, apiKey)
	if err != nil {
		return fmt.Errorf("failed to initialize MCP server: %w", err)
	}

	ctx := context.Background()
	if m.StaticConfig.Port != "" {
		return internalhttp.Serve(ctx, mcpServer, m.StaticConfig)
	}

	defer func() { _ = mcpServer.Shutdown(context.Background()) }()
	if err := mcpServer.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
