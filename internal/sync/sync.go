package sync

import (
	"encoding/json"
	"log/slog"
	"os"
	gopath "path"
	"path/filepath"

	"github.com/gfxblit/mcp-unity/internal/backup"
	"github.com/gfxblit/mcp-unity/internal/client"
	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/server"
	"github.com/gfxblit/mcp-unity/pkg/fileutil"
)

// Sentinel errors for synchronization failures.
var (
	// ErrMissingConfigDir indicates neither the client's config file nor its
	// parent directory exists; the client does not appear to be installed.
	ErrMissingConfigDir = errors.New("client config directory does not exist")

	// ErrProjectNotRegistered indicates the project-scoped client's document
	// lacks the projects structure for this project. The synchronizer never
	// creates that structure; the client itself must be run in the project
	// first.
	ErrProjectNotRegistered = errors.Mark(
		errors.New("project not registered in client configuration"), errors.ErrDocumentShape)
)

// Syncer merges the server registration fragment into client configuration
// files. Each Sync call reads, mutates in memory, and rewrites a single
// document; no state survives between calls.
//
// Concurrent Sync calls against the same file are not supported and may
// race; file-level locking is intentionally not implemented.
type Syncer struct {
	env      client.Env
	resolver *server.Resolver
	logger   *slog.Logger
	backup   bool
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithLogger sets the syncer's diagnostic logger.
func WithLogger(logger *slog.Logger) SyncerOption {
	return func(s *Syncer) { s.logger = logger }
}

// WithBackup controls whether existing config files are backed up before
// being rewritten. Enabled by default.
func WithBackup(enabled bool) SyncerOption {
	return func(s *Syncer) { s.backup = enabled }
}

// New creates a Syncer.
func New(env client.Env, resolver *server.Resolver, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		env:      env,
		resolver: resolver,
		logger:   slog.Default(),
		backup:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync merges the server registration into the named client's configuration.
// All failure kinds are reported as errors distinguishable with errors.Is;
// nothing is written when the merge fails.
func (s *Syncer) Sync(name string, style server.IndentStyle) error {
	d, err := client.Lookup(name)
	if err != nil {
		return err
	}

	configPath, err := d.ConfigPath(s.env)
	if err != nil {
		s.logger.Error("cannot resolve client config path",
			"client", d.DisplayName, "error", err)
		return err
	}

	inst, err := s.resolver.Resolve()
	if err != nil {
		s.logger.Error("cannot locate server installation",
			"client", d.DisplayName, "error", err)
		return err
	}
	frag := server.NewFragment(inst.Path)

	info, statErr := os.Stat(configPath)
	switch {
	case statErr == nil && info.IsDir():
		return errors.Newf("%s: expected file, found directory at %s", d.DisplayName, configPath)

	case statErr == nil:
		return s.mergeInto(d, configPath, frag, inst, style)

	case os.IsNotExist(statErr):
		return s.createNew(d, configPath, frag, style)

	default:
		s.logger.Error("cannot read client config",
			"client", d.DisplayName, "path", configPath, "error", statErr)
		return errors.Wrapf(statErr, "checking %s config at %s", d.DisplayName, configPath)
	}
}

// createNew handles a missing config file: when the parent directory exists
// the fragment becomes the new file content; otherwise the client is treated
// as not installed. A missing document for the project-scoped client is a
// setup error, because the projects structure cannot be invented here.
func (s *Syncer) createNew(d *client.Descriptor, configPath string, frag server.Fragment, style server.IndentStyle) error {
	if d.Strategy == client.MergeProjectScoped {
		s.logger.Error("client configuration has no project registry",
			"client", d.DisplayName, "path", configPath)
		return errors.Wrapf(ErrProjectNotRegistered,
			"%s config %s does not exist", d.DisplayName, configPath)
	}

	parent := filepath.Dir(configPath)
	if info, err := os.Stat(parent); err != nil || !info.IsDir() {
		s.logger.Error("client does not appear to be installed",
			"client", d.DisplayName, "expected", configPath)
		return errors.Wrapf(ErrMissingConfigDir, "%s: expected %s", d.DisplayName, configPath)
	}

	text, err := frag.Marshal(style)
	if err != nil {
		return err
	}
	if err := fileutil.AtomicWriteFile(configPath, append([]byte(text), '\n'), 0o644); err != nil {
		s.logger.Error("writing new client config",
			"client", d.DisplayName, "path", configPath, "error", err)
		return err
	}

	s.logger.Info("created client config", "client", d.DisplayName, "path", configPath)
	return nil
}

// mergeInto merges the fragment into an existing document and rewrites it.
func (s *Syncer) mergeInto(d *client.Descriptor, configPath string, frag server.Fragment, inst *server.Installation, style server.IndentStyle) error {
	data, err := fileutil.ReadFileWithLimit(configPath)
	if err != nil {
		s.logger.Error("reading client config",
			"client", d.DisplayName, "path", configPath, "error", err)
		return err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Error("client config is not valid JSON",
			"client", d.DisplayName, "path", configPath, "error", err)
		return errors.Mark(errors.Wrapf(err, "parsing %s config at %s", d.DisplayName, configPath), errors.ErrParse)
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}

	switch d.Strategy {
	case client.MergeProjectScoped:
		err = mergeProjectScoped(doc, frag, projectKey(inst.Path))
	default:
		err = mergeFlatRoot(doc, frag)
	}
	if err != nil {
		s.logger.Error("merging server registration",
			"client", d.DisplayName, "path", configPath, "error", err)
		return errors.Wrapf(err, "merging into %s config", d.DisplayName)
	}

	if s.backup {
		if _, err := backup.Create(d.Name, configPath); err != nil {
			s.logger.Error("backing up client config",
				"client", d.DisplayName, "path", configPath, "error", err)
			return err
		}
	}

	if err := fileutil.AtomicWriteJSONIndent(configPath, doc, style.Indent(), 0o644); err != nil {
		s.logger.Error("writing client config",
			"client", d.DisplayName, "path", configPath, "error", err)
		return err
	}

	s.logger.Info("config synchronized", "client", d.DisplayName, "path", configPath)
	return nil
}

// projectKey derives the project-scoped merge key from the server path:
// the parent directory of the server installation.
func projectKey(serverPath string) string {
	return gopath.Dir(serverPath)
}

// mergeFlatRoot sets mcpServers[mcp-unity] at the document root, creating
// the mcpServers object when absent. Sibling servers and unrelated top-level
// keys pass through untouched as raw JSON.
func mergeFlatRoot(doc map[string]json.RawMessage, frag server.Fragment) error {
	servers := make(map[string]json.RawMessage)
	if raw, ok := doc["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return errors.Mark(errors.Wrap(err, "parsing mcpServers"), errors.ErrParse)
		}
	}

	entry, err := json.Marshal(frag.MCPServers[server.ServerName])
	if err != nil {
		return errors.Wrap(err, "marshaling server entry")
	}
	servers[server.ServerName] = entry

	merged, err := json.Marshal(servers)
	if err != nil {
		return errors.Wrap(err, "marshaling mcpServers")
	}
	doc["mcpServers"] = merged
	return nil
}

// mergeProjectScoped sets mcpServers[mcp-unity] inside projects[key].
// Both the projects object and the specific project entry must already
// exist; their absence is a setup error and nothing is mutated.
func mergeProjectScoped(doc map[string]json.RawMessage, frag server.Fragment, key string) error {
	projectsRaw, ok := doc["projects"]
	if !ok {
		return errors.Wrap(ErrProjectNotRegistered, "document has no projects key")
	}

	var projects map[string]json.RawMessage
	if err := json.Unmarshal(projectsRaw, &projects); err != nil {
		return errors.Mark(errors.Wrap(err, "parsing projects"), errors.ErrParse)
	}

	entryRaw, ok := projects[key]
	if !ok {
		return errors.Wrapf(ErrProjectNotRegistered, "no entry for project %s", key)
	}

	var entry map[string]json.RawMessage
	if err := json.Unmarshal(entryRaw, &entry); err != nil {
		return errors.Mark(errors.Wrapf(err, "parsing project entry %s", key), errors.ErrParse)
	}

	if err := mergeFlatRoot(entry, frag); err != nil {
		return err
	}

	mergedEntry, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "marshaling project entry")
	}
	projects[key] = mergedEntry

	mergedProjects, err := json.Marshal(projects)
	if err != nil {
		return errors.Wrap(err, "marshaling projects")
	}
	doc["projects"] = mergedProjects
	return nil
}
