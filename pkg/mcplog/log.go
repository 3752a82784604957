package mcplog

import (
	"context"
	"regexp"

	"github.com/go-logr/logr"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/klog/v2"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// MCPSessionContextKey is the context key for storing MCP ServerSession
const MCPSessionContextKey = ContextKey("mcp_session")

// Level represents MCP log severity levels per RFC 5424 syslog specification.
// https://modelcontextprotocol.io/specification/2025-11-25/server/utilities/logging#log-levels
type Level int

// Log levels from least to most severe, per MCP specification.
const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelNotice is for normal but significant events.
	LevelNotice
	// LevelWarning is for warning conditions.
	LevelWarning
	// LevelError is for error conditions.
	LevelError
	// LevelCritical is for critical conditions.
	LevelCritical
	// LevelAlert is for conditions requiring immediate action.
	LevelAlert
	// LevelEmergency is for system unusable conditions.
	LevelEmergency
)

// levelStrings maps Level values to their MCP protocol string representation.
var levelStrings = [...]string{
	LevelDebug:     "debug",
	LevelInfo:      "info",
	LevelNotice:    "notice",
	LevelWarning:   "warning",
	LevelError:     "error",
	LevelCritical:  "critical",
	LevelAlert:     "alert",
	LevelEmergency: "emergency",
}

// String returns the MCP protocol string representation of the level.
func (l Level) String() string {
	if l >= 0 && int(l) < len(levelStrings) {
		return levelStrings[l]
	}
	return "debug"
}

// mcpLogger is a dedicated named logger for MCP client-facing logs, kept apart from server logs
var mcpLogger logr.Logger = klog.NewKlogr().WithName("mcp")

// redaction pairs a secret pattern with its replacement.
// Replacements keep field names, header schemes and URL structure so messages stay readable.
type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

var redactions = []redaction{
	// JSON fields
	{regexp.MustCompile(`("password"\s*:\s*)"[^"]*"`), `$1"[REDACTED]"`},
	{regexp.MustCompile(`("token"\s*:\s*)"[^"]*"`), `$1"[REDACTED]"`},
	{regexp.MustCompile(`("secret"\s*:\s*)"[^"]*"`), `$1"[REDACTED]"`},
	{regexp.MustCompile(`("api[_-]?key"\s*:\s*)"[^"]*"`), `$1"[REDACTED]"`},
	{regexp.MustCompile(`(?i)("access[_-]?(key|secret|id)"\s*:\s*)"[^"]*"`), `$1"[REDACTED]"`},
	{regexp.MustCompile(`("client[_-]?secret"\s*:\s*)"[^"]*"`), `$1"[REDACTED]"`},
	{regexp.MustCompile(`("private[_-]?key"\s*:\s*)"[^"]*"`), `$1"[REDACTED]"`},
	// Authorization headers
	{regexp.MustCompile(`(Bearer\s+)[A-Za-z0-9\-._~+/]+=*`), `$1[REDACTED]`},
	{regexp.MustCompile(`(Basic\s+)[A-Za-z0-9+/]+=*`), `$1[REDACTED]`},
	// Environment style assignments
	{regexp.MustCompile(`(RUNPOD_API_KEY\s*=\s*)\S+`), `$1[REDACTED]`},
	{regexp.MustCompile(`(aws_secret_access_key\s*=\s*)[A-Za-z0-9/+=]{40}`), `$1[REDACTED]`},
	// Database connection strings
	{regexp.MustCompile(`(postgres://[^:]+:)[^@]+(@)`), `$1[REDACTED]$2`},
	{regexp.MustCompile(`(mysql://[^:]+:)[^@]+(@)`), `$1[REDACTED]$2`},
	{regexp.MustCompile(`(mongodb(?:\+srv)?://[^:]+:)[^@]+(@)`), `$1[REDACTED]$2`},
	// Well known token formats, redacted entirely
	{regexp.MustCompile(`rpa_[A-Za-z0-9]{20,}`), `[REDACTED]`},
	{regexp.MustCompile(`(A3T[A-Z0-9]|AKIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}`), `[REDACTED]`},
	{regexp.MustCompile(`ghp_[a-zA-Z0-9]{36}`), `[REDACTED]`},
	{regexp.MustCompile(`github_pat_[a-zA-Z0-9]{22}_[a-zA-Z0-9]{59}`), `[REDACTED]`},
	{regexp.MustCompile(`glpat-[a-zA-Z0-9\-_]{20}`), `[REDACTED]`},
	{regexp.MustCompile(`hf_[a-zA-Z0-9]{34}`), `[REDACTED]`},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`), `[REDACTED]`},
	{regexp.MustCompile(`sk-proj-[a-zA-Z0-9]{48}`), `[REDACTED]`},
	{regexp.MustCompile(`sk-ant-api03-[a-zA-Z0-9\-_]{95}`), `[REDACTED]`},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), `[REDACTED]`},
	{regexp.MustCompile(`-----BEGIN[A-Z ]+PRIVATE KEY( BLOCK)?-----`), `[REDACTED]`},
}

func sanitizeMessage(msg string) string {
	for _, r := range redactions {
		msg = r.pattern.ReplaceAllString(msg, r.replacement)
	}
	return msg
}

// SendMCPLog sends a log notification to the MCP client and server logs.
// Uses dedicated "mcp" named logger. Message is automatically sanitized.
func SendMCPLog(ctx context.Context, level Level, message string) {
	switch level {
	case LevelError, LevelCritical, LevelAlert, LevelEmergency:
		mcpLogger.Error(nil, message)
	case LevelWarning, LevelNotice:
		mcpLogger.V(1).Info(message)
	default:
		mcpLogger.V(2).Info(message)
	}

	session, ok := ctx.Value(MCPSessionContextKey).(*mcp.ServerSession)
	if !ok || session == nil {
		return
	}

	message = sanitizeMessage(message)

	if err := session.Log(ctx, &mcp.LoggingMessageParams{
		Level:  mcp.LoggingLevel(level.String()),
		Logger: "runpod-mcp-server",
		Data:   message,
	}); err != nil {
		mcpLogger.V(3).Info("failed to send log to MCP client", "error", err)
	}
}
