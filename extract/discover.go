package extract

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/packlens/apkg/container"
	"github.com/packlens/apkg/crypt"
	apkgerr "github.com/packlens/apkg/errors"
)

// PackageFile is one container file queued for processing.
type PackageFile struct {
	Path string
	Kind container.PackageKind
}

// Discover enumerates the container files for a run. A file input is
// processed alone as the main package. A directory input is scanned for
// container files, which are partitioned into the main package and its
// subpackages; the result always orders main strictly before any
// subpackage, because subpackages may reference module paths defined only
// in main. The ordering is an invariant, not an optimization.
func Discover(input string) ([]PackageFile, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, apkgerr.Wrap(apkgerr.PhaseDiscover, apkgerr.KindInvalidInput, err, "stat input")
	}

	if !info.IsDir() {
		return []PackageFile{{Path: input, Kind: container.KindMain}}, nil
	}

	dirents, err := os.ReadDir(input)
	if err != nil {
		return nil, apkgerr.Wrap(apkgerr.PhaseDiscover, apkgerr.KindInvalidInput, err, "read input directory")
	}

	// Two explicit buckets concatenated main-first. Sorting with a custom
	// comparator would depend on sort stability for the same guarantee.
	var mains, subs []PackageFile
	for _, d := range dirents {
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), container.Ext) {
			continue
		}
		p := filepath.Join(input, d.Name())
		if isMainName(d.Name()) {
			mains = append(mains, PackageFile{Path: p, Kind: container.KindMain})
		} else {
			subs = append(subs, PackageFile{Path: p, Kind: container.KindSubpackage})
		}
	}
	sort.Slice(mains, func(i, j int) bool { return mains[i].Path < mains[j].Path })
	sort.Slice(subs, func(i, j int) bool { return subs[i].Path < subs[j].Path })

	pkgs := append(mains, subs...)
	if len(pkgs) == 0 {
		return nil, apkgerr.NotFound(apkgerr.PhaseDiscover, "container file ("+container.Ext+")", input)
	}
	return pkgs, nil
}

// isMainName reports whether a container file name follows the main-package
// naming convention: the reserved __APP__ / app names, or a bare application
// identifier.
func isMainName(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	switch base {
	case "__APP__", "app":
		return true
	}
	return crypt.IsAppID(base)
}
