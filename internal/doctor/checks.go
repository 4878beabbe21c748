package doctor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/gfxblit/mcp-unity/internal/client"
	"github.com/gfxblit/mcp-unity/internal/config"
	"github.com/gfxblit/mcp-unity/internal/server"
)

// ConfigCheck validates the application configuration file.
type ConfigCheck struct {
	// Path is the explicit config file, empty for the default search.
	Path string
}

var _ Check = (*ConfigCheck)(nil)

func (c *ConfigCheck) Name() string     { return "config-file" }
func (c *ConfigCheck) Category() string { return "config" }

// Run loads the config and validates the indent setting.
func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	cfg, err := config.Load(c.Path)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("configuration failed to load: %v", err)
		result.FixHint = "Run: mcp-unity config init"
		return result
	}

	if cfg.Indent != "" && cfg.Indent != config.IndentTabs && cfg.Indent != config.IndentSpaces {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("unknown indent style %q, using spaces", cfg.Indent)
		result.FixHint = `Set indent to "tabs" or "spaces"`
		return result
	}

	if cfg.ServerPath != "" {
		if _, err := os.Stat(cfg.ServerPath); err != nil {
			result.Status = SeverityWarning
			result.Message = fmt.Sprintf("configured server_path does not exist: %s", cfg.ServerPath)
			result.FixHint = "Fix or remove server_path in the config file"
			return result
		}
	}

	result.Status = SeverityPass
	result.Message = "configuration loaded"
	return result
}

// ServerCheck verifies the MCP Unity server installation can be located
// and has been built.
type ServerCheck struct {
	Resolver *server.Resolver
}

var _ Check = (*ServerCheck)(nil)

func (c *ServerCheck) Name() string     { return "server-installation" }
func (c *ServerCheck) Category() string { return "server" }

// Run resolves the installation and probes for the build entry point.
func (c *ServerCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	inst, err := c.Resolver.Resolve()
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("server installation not found: %v", err)
		result.FixHint = "Install the MCP Unity package in your project, or set server_path"
		return result
	}

	result.Details = map[string]any{
		"path": inst.Path,
		"mode": string(inst.Mode),
	}

	entry := inst.Path + "/" + server.EntryPoint
	if _, err := os.Stat(entry); err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("server found at %s but not built", inst.Path)
		result.FixHint = "Run: mcp-unity install-server"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("server found at %s (%s)", inst.Path, inst.Mode)
	return result
}

// NpmCheck verifies the npm executable is reachable.
type NpmCheck struct {
	// Path is the configured npm path, empty for PATH lookup.
	Path string
}

var _ Check = (*NpmCheck)(nil)

func (c *NpmCheck) Name() string     { return "npm-executable" }
func (c *NpmCheck) Category() string { return "tools" }

func (c *NpmCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.Path != "" {
		if _, err := os.Stat(c.Path); err != nil {
			result.Status = SeverityError
			result.Message = fmt.Sprintf("configured npm path does not exist: %s", c.Path)
			result.FixHint = "Fix or remove npm_path in the config file"
			return result
		}
		result.Status = SeverityPass
		result.Message = "npm found at " + c.Path
		return result
	}

	path, err := exec.LookPath("npm")
	if err != nil {
		result.Status = SeverityWarning
		result.Message = "npm not found on PATH"
		result.FixHint = "Install Node.js, or set npm_path in the config file"
		return result
	}

	result.Status = SeverityPass
	result.Message = "npm found at " + path
	return result
}

// ClientsCheck reports which supported clients are installed.
type ClientsCheck struct {
	Env client.Env
}

var _ Check = (*ClientsCheck)(nil)

func (c *ClientsCheck) Name() string     { return "client-detection" }
func (c *ClientsCheck) Category() string { return "clients" }

func (c *ClientsCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	results := client.DetectAll(c.Env)
	details := make(map[string]any, len(results))
	installed := 0
	for _, r := range results {
		details[r.Client.Name] = string(r.Status)
		if r.Status == client.StatusInstalled {
			installed++
		}
	}
	result.Details = details

	if installed == 0 {
		result.Status = SeverityWarning
		result.Message = "no supported clients detected"
		result.FixHint = "Install one of: Windsurf, Claude Desktop, Cursor, Claude Code, VS Code"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d of %d supported clients installed", installed, len(results))
	return result
}
