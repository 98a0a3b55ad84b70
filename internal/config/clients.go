package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ServerName is the key the server is registered under in client configs.
const ServerName = "reflection"

// ServerEntry is one mcpServers entry in an MCP client config.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// ClientInfo describes a detected MCP client configuration file.
type ClientInfo struct {
	Name    string                  // Human-readable client name (e.g. "Claude Code")
	Path    string                  // Absolute path to config file
	Servers map[string]*ServerEntry // Parsed mcpServers, possibly empty
}

// ClientConfigPaths lists the config files of known MCP clients under home.
func ClientConfigPaths(home string) map[string]string {
	paths := map[string]string{
		"Claude Code": filepath.Join(home, ".claude.json"),
		"Cursor":      filepath.Join(home, ".cursor", "mcp.json"),
	}
	if runtime.GOOS == "darwin" {
		paths["Claude Desktop"] = filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	} else {
		paths["Claude Desktop"] = filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
	return paths
}

// DetectClients detects MCP client configs using the real home directory.
func DetectClients() []ClientInfo {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return DetectClientsIn(home)
}

// DetectClientsIn returns every known client whose config file exists and
// parses, sorted by client name.
func DetectClientsIn(home string) []ClientInfo {
	var clients []ClientInfo
	for _, name := range []string{"Claude Code", "Claude Desktop", "Cursor"} {
		path := ClientConfigPaths(home)[name]
		servers, err := parseClientConfig(path)
		if err != nil {
			continue
		}
		clients = append(clients, ClientInfo{Name: name, Path: path, Servers: servers})
	}
	return clients
}

// parseClientConfig reads a client config and extracts mcpServers.
func parseClientConfig(path string) (map[string]*ServerEntry, error) {
	raw, err := readRawConfig(path)
	if err != nil {
		return nil, err
	}
	servers := make(map[string]*ServerEntry)
	if serversJSON, ok := raw["mcpServers"]; ok {
		if err := json.Unmarshal(serversJSON, &servers); err != nil {
			return nil, fmt.Errorf("parse mcpServers: %w", err)
		}
	}
	return servers, nil
}

func readRawConfig(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse client config %s: %w", path, err)
	}
	if raw == nil {
		raw = make(map[string]json.RawMessage)
	}
	return raw, nil
}

// RegisterServer sets mcpServers[name] = entry in the client config at path,
// preserving every other field. The file is rewritten atomically.
func RegisterServer(path, name string, entry *ServerEntry) error {
	raw, err := readRawConfig(path)
	if err != nil {
		return fmt.Errorf("read client config: %w", err)
	}

	servers := make(map[string]json.RawMessage)
	if serversJSON, ok := raw["mcpServers"]; ok {
		if err := json.Unmarshal(serversJSON, &servers); err != nil {
			return fmt.Errorf("parse mcpServers: %w", err)
		}
		if servers == nil {
			servers = make(map[string]json.RawMessage)
		}
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal server entry: %w", err)
	}
	servers[name] = entryJSON

	serversJSON, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("marshal mcpServers: %w", err)
	}
	raw["mcpServers"] = serversJSON

	output, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	output = append(output, '\n')

	return AtomicWriteFile(path, output, 0600)
}

// ServeEntry is the mcpServers entry that launches bin in stdio mode.
func ServeEntry(bin string) *ServerEntry {
	return &ServerEntry{Command: bin, Args: []string{"serve"}}
}

// IsRegistered reports whether entry already launches mcpreflect.
func IsRegistered(entry *ServerEntry) bool {
	if entry == nil {
		return false
	}
	return filepath.Base(entry.Command) == "mcpreflect" && len(entry.Args) >= 1 && entry.Args[0] == "serve"
}
