package extract

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/packlens/apkg/bundle"
	"github.com/packlens/apkg/container"
	"github.com/packlens/apkg/crypt"
	apkgerr "github.com/packlens/apkg/errors"
	"github.com/packlens/apkg/writer"
)

// Options configures one extraction run. The overwrite policy is decided by
// the caller (flag or interactive prompt) before the run starts.
type Options struct {
	// Input is a container file or a directory holding container files.
	Input string

	// Output is the root the project tree is materialized under.
	Output string

	Policy writer.Policy

	// FailFast aborts the run on the first package failure even in
	// directory mode. Single-file runs always abort on failure.
	FailFast bool
}

// Report is the aggregate outcome of a run, returned to the CLI layer which
// decides process exit behavior.
type Report struct {
	Packages  int // containers processed
	Extracted int // containers fully extracted
	Failed    int // containers abandoned on error
	Warnings  int // recoverable degradations
	Files     int // entries written directly
	Modules   int // module records recovered from bundles
}

// Session is the run-scoped state threaded through the pipeline: resolved
// decryption keys, the shared module registry, and the output index all live
// exactly as long as one invocation. Nothing is cached process-wide.
//
// All mutation happens on the orchestrator's sequential loop; a Session must
// not be shared between goroutines.
type Session struct {
	opts   Options
	log    *zap.Logger
	keys   map[string][]byte
	reg    *bundle.Registry
	out    *writer.TreeWriter
	report Report
}

// NewSession creates a Session for one invocation.
func NewSession(opts Options) *Session {
	return &Session{
		opts: opts,
		log:  Logger(),
		keys: map[string][]byte{},
		reg:  NewRegistryForRun(),
		out:  writer.New(opts.Output, opts.Policy),
	}
}

// NewRegistryForRun returns the module registry shared across one
// application's packages for the run.
func NewRegistryForRun() *bundle.Registry {
	return bundle.NewRegistry()
}

// Registry exposes the run's module registry.
func (s *Session) Registry() *bundle.Registry {
	return s.reg
}

// key returns the application's decryption key, deriving it from the
// container's salt fragment on first use and reusing it for every further
// container of the same application.
func (s *Session) key(appID string, data []byte) ([]byte, error) {
	if k, ok := s.keys[appID]; ok {
		return k, nil
	}
	salt, err := crypt.Salt(data)
	if err != nil {
		return nil, err
	}
	k := crypt.DeriveKey(salt, appID)
	s.keys[appID] = k
	return k, nil
}

// Run drives the whole pipeline: discover containers, then process each one
// to completion before the next starts. Processing is strictly sequential;
// peak memory stays around one decrypted container plus the accumulating
// module registry, and the main-before-subpackages invariant needs no
// synchronization.
func (s *Session) Run() (*Report, error) {
	pkgs, err := Discover(s.opts.Input)
	if err != nil {
		return &s.report, err
	}
	singleFile := len(pkgs) == 1 && pkgs[0].Path == s.opts.Input

	for _, pkg := range pkgs {
		s.report.Packages++
		if err := s.processPackage(pkg); err != nil {
			// A collision means two packages disagree on output bytes: a
			// broken invariant, fatal for the run, not a per-package failure.
			if apkgerr.IsCollision(err) {
				return &s.report, err
			}
			s.report.Failed++
			if singleFile || s.opts.FailFast {
				return &s.report, err
			}
			s.log.Error("package failed, continuing",
				zap.String("package", filepath.Base(pkg.Path)),
				zap.Error(err))
			continue
		}
		s.report.Extracted++
	}
	return &s.report, nil
}

// processPackage runs one container through read, decrypt-if-needed, parse,
// and entry dispatch.
func (s *Session) processPackage(pkg PackageFile) error {
	name := filepath.Base(pkg.Path)

	data, err := os.ReadFile(pkg.Path)
	if err != nil {
		return apkgerr.Wrap(apkgerr.PhaseRead, apkgerr.KindInvalidInput, err, "read container")
	}

	var appID string
	if crypt.IsEncrypted(data) {
		appID, err = crypt.ResolveAppID(pkg.Path)
		if err != nil {
			return err
		}
		key, err := s.key(appID, data)
		if err != nil {
			return err
		}
		if data, err = crypt.Decrypt(data, key); err != nil {
			return err
		}
		s.log.Debug("container decrypted",
			zap.String("package", name), zap.String("app_id", appID))
	}

	m, err := container.Parse(data)
	if err != nil {
		return err
	}
	m.AppID = appID
	m.Kind = pkg.Kind

	files, modules := 0, 0
	for _, entry := range m.Entries {
		if entry.Kind == container.ContentScript {
			n, err := s.splitEntry(entry, m.Bytes(entry))
			if err != nil {
				return err
			}
			modules += n
			continue
		}
		if err := s.out.Write(entry.Path, m.Bytes(entry)); err != nil {
			return err
		}
		files++
	}

	s.log.Info("package extracted",
		zap.String("package", name),
		zap.String("kind", m.Kind.String()),
		zap.Int("entries", len(m.Entries)),
		zap.Int("files", files),
		zap.Int("modules", modules))
	s.report.Files += files
	s.report.Modules += modules
	return nil
}

// splitEntry routes one script entry through the bundle splitter and writes
// every recovered module record under its original source path.
func (s *Session) splitEntry(entry container.FileEntry, data []byte) (int, error) {
	records, err := bundle.Split(entry.Path, data)
	if err != nil {
		if !apkgerr.IsRecoverable(err) {
			return 0, err
		}
		s.report.Warnings++
		s.log.Warn("bundle shape not recognized, emitting verbatim",
			zap.String("entry", entry.Path))
	}

	written := 0
	for _, rec := range records {
		s.reg.Add(rec)
		if missing := s.reg.Unresolved(rec); len(missing) > 0 {
			s.log.Debug("module has unresolved dependencies",
				zap.String("module", rec.Path),
				zap.Strings("missing", missing))
		}
		if rec.Truncated {
			s.report.Warnings++
			s.log.Warn("module body truncated at end of input",
				zap.String("module", rec.Path))
		}
		if err := s.out.Write(rec.Path, rec.Body); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
