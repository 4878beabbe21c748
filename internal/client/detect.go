package client

import (
	"os"
	"path/filepath"
)

// InstallStatus indicates the installation state of a client.
type InstallStatus string

const (
	// StatusInstalled indicates the client's config location exists on disk.
	StatusInstalled InstallStatus = "installed"

	// StatusNotInstalled indicates the client's config location does not exist.
	StatusNotInstalled InstallStatus = "not_installed"

	// StatusUnsupported indicates the client has no path for the current OS.
	StatusUnsupported InstallStatus = "unsupported"
)

// DetectionResult contains information about a detected client.
type DetectionResult struct {
	// Client is the detected client's descriptor.
	Client *Descriptor

	// ConfigPath is the resolved configuration file path.
	// Empty when Status is StatusUnsupported.
	ConfigPath string

	// Status indicates the installation state of the client.
	Status InstallStatus
}

// Detect checks whether the client appears installed in env.
// A client counts as installed when its config file or the file's parent
// directory exists; the synchronizer can create the file but never the
// directory tree. Single-file clients (no File in the descriptor) require
// the file itself, since their parent is just the home directory.
func Detect(d *Descriptor, env Env) *DetectionResult {
	path, err := d.ConfigPath(env)
	if err != nil {
		return &DetectionResult{Client: d, Status: StatusUnsupported}
	}

	status := StatusNotInstalled
	if d.File == "" {
		if pathExists(path) {
			status = StatusInstalled
		}
	} else if pathExists(path) || dirExists(filepath.Dir(path)) {
		status = StatusInstalled
	}

	return &DetectionResult{
		Client:     d,
		ConfigPath: path,
		Status:     status,
	}
}

// DetectAll returns detection results for all known clients in deterministic order.
func DetectAll(env Env) []*DetectionResult {
	all := All()
	results := make([]*DetectionResult, 0, len(all))
	for _, d := range all {
		results = append(results, Detect(d, env))
	}
	return results
}

// DetectInstalled returns only clients whose Status is StatusInstalled.
func DetectInstalled(env Env) []*DetectionResult {
	all := DetectAll(env)
	installed := make([]*DetectionResult, 0, len(all))
	for _, r := range all {
		if r.Status == StatusInstalled {
			installed = append(installed, r)
		}
	}
	return installed
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
