package version

// Values overridden at build time through -ldflags.
var CommitHash = "unknown"
var BuildTime = "1970-01-01T00:00:00Z"
var Version = "0.0.0"
var BinaryName = "runpod-mcp-server"
var WebsiteURL = "https://github.com/runpod/runpod-mcp-server"

// UserAgent is the value sent in the User-Agent header of every RunPod API request.
func UserAgent() string {
	return BinaryName + "/" + Version
}
