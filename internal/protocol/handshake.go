package protocol

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2024-11-05"

// InitializeResult is the reply to the initialize handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Capabilities    ServerCapabilities `json:"capabilities"`
}

// NewInitializeResult builds the fixed handshake reply. An empty
// protocolVersion falls back to ProtocolVersion.
func NewInitializeResult(info Implementation, protocolVersion string) *InitializeResult {
	if protocolVersion == "" {
		protocolVersion = ProtocolVersion
	}
	return &InitializeResult{
		ProtocolVersion: protocolVersion,
		ServerInfo:      info,
		Capabilities:    ServerCapabilities{Tools: &ToolsCapability{}},
	}
}
