package server

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/paths"
)

// Installation constants for the MCP Unity server bundle.
const (
	// PackageID is the package-registry identifier of the server package.
	PackageID = "com.gamelovers.mcp-unity"

	// ServerDirName is the directory holding the server bundle inside the
	// package, and the expected name of a loose-asset installation directory.
	ServerDirName = "Server~"

	// MarkerFile is the build-configuration file searched for in loose-asset
	// mode to locate the server directory.
	MarkerFile = "tsconfig.json"
)

// ErrServerNotFound indicates no installation of the server bundle could be
// located by any resolution strategy.
var ErrServerNotFound = errors.Mark(
	errors.New("MCP Unity server installation not found"), errors.ErrResolution)

// InstallMode records how a located installation was found.
type InstallMode string

const (
	// ModeOverride indicates an explicitly configured server path.
	ModeOverride InstallMode = "override"

	// ModePackage indicates a package-registry installation.
	ModePackage InstallMode = "package"

	// ModeAsset indicates a loose-asset installation inside the project tree.
	ModeAsset InstallMode = "asset"
)

// Installation is a located server bundle.
type Installation struct {
	// Path is the absolute, normalized server directory path.
	Path string

	// Mode records which resolution strategy succeeded.
	Mode InstallMode
}

// RegistryLookup resolves an installed package identifier to its on-disk
// path. It returns false when the package is not installed.
type RegistryLookup func(packageID string) (string, bool)

// PackageCacheLookup returns a RegistryLookup over the project's package
// cache layout (<projectRoot>/Library/PackageCache/<id>@<version>/).
func PackageCacheLookup(projectRoot string) RegistryLookup {
	return func(packageID string) (string, bool) {
		cacheDir := filepath.Join(projectRoot, "Library", "PackageCache")
		entries, err := os.ReadDir(cacheDir)
		if err != nil {
			return "", false
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if name := e.Name(); name == packageID || strings.HasPrefix(name, packageID+"@") {
				return filepath.Join(cacheDir, name), true
			}
		}
		return "", false
	}
}

// Resolver locates the server installation on disk.
// Resolution is recomputed on every call so the result always reflects the
// current disk state.
type Resolver struct {
	projectRoot string
	override    string
	registry    RegistryLookup
	logger      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOverride sets an explicitly configured server path that short-circuits
// all other resolution strategies.
func WithOverride(path string) Option {
	return func(r *Resolver) { r.override = path }
}

// WithRegistry replaces the default package-cache lookup.
func WithRegistry(lookup RegistryLookup) Option {
	return func(r *Resolver) { r.registry = lookup }
}

// WithLogger sets the resolver's diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a Resolver rooted at projectRoot.
func NewResolver(projectRoot string, opts ...Option) *Resolver {
	r := &Resolver{
		projectRoot: projectRoot,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = PackageCacheLookup(projectRoot)
	}
	return r
}

// Resolve locates the server installation, trying strategies in priority
// order: configured override, package-registry lookup, loose-asset marker
// search. Failures are logged and reported as ErrServerNotFound; this
// boundary never panics.
func (r *Resolver) Resolve() (*Installation, error) {
	if r.override != "" {
		normalized, err := paths.NormalizeAbs(r.override)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("using configured server path", "path", normalized)
		return &Installation{Path: normalized, Mode: ModeOverride}, nil
	}

	if pkgPath, ok := r.registry(PackageID); ok && pkgPath != "" {
		normalized, err := paths.NormalizeAbs(filepath.Join(pkgPath, ServerDirName))
		if err != nil {
			return nil, err
		}
		r.logger.Debug("resolved server from package registry",
			"package", PackageID, "path", normalized)
		return &Installation{Path: normalized, Mode: ModePackage}, nil
	}

	candidates, err := r.findMarkers()
	if err != nil {
		r.logger.Error("scanning project for server marker", "error", err)
		return nil, errors.Wrap(ErrServerNotFound, err.Error())
	}

	dir, ok := selectCandidate(candidates)
	if !ok {
		r.logger.Error("server installation not found",
			"package", PackageID, "marker", MarkerFile, "projectRoot", r.projectRoot)
		return nil, errors.Wrapf(ErrServerNotFound,
			"no %s package and no %s marker under %s", PackageID, MarkerFile, r.projectRoot)
	}

	normalized, err := paths.NormalizeAbs(dir)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("resolved server from asset marker", "path", normalized)
	return &Installation{Path: normalized, Mode: ModeAsset}, nil
}

// skipDirs are project directories never containing a loose-asset install.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"Library":      true,
	"Temp":         true,
	"Logs":         true,
	"obj":          true,
}

// findMarkers walks the project tree collecting directories that contain the
// marker file, in deterministic walk order.
func (r *Resolver) findMarkers() ([]string, error) {
	var candidates []string

	err := filepath.WalkDir(r.projectRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal
			return fs.SkipDir
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() == MarkerFile {
			candidates = append(candidates, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", r.projectRoot)
	}
	return candidates, nil
}

// selectCandidate disambiguates marker matches: a unique match wins
// outright; among multiple matches, the first whose directory is named
// ServerDirName wins; otherwise resolution fails.
func selectCandidate(candidates []string) (string, bool) {
	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	default:
		for _, dir := range candidates {
			if filepath.Base(dir) == ServerDirName {
				return dir, true
			}
		}
		return "", false
	}
}
