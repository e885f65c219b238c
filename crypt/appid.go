package crypt

import (
	"path/filepath"
	"regexp"
	"strings"

	apkgerr "github.com/packlens/apkg/errors"
)

// appIDPattern matches an application identifier: a two-letter vendor prefix
// followed by sixteen lowercase hexadecimal characters.
var appIDPattern = regexp.MustCompile(`^[a-z]{2}[0-9a-f]{16}$`)

// IsAppID reports whether s is a well-formed application identifier.
func IsAppID(s string) bool {
	return appIDPattern.MatchString(s)
}

// ResolveAppID recovers the application identifier from a container's path by
// walking its segments innermost-first: on-device package stores keep each
// application's containers under a directory named after its identifier.
//
// Fails with a key-resolution error when no segment matches.
func ResolveAppID(inputPath string) (string, error) {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		abs = inputPath
	}
	segments := strings.Split(filepath.ToSlash(abs), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		// A container file named after the identifier counts too.
		seg = strings.TrimSuffix(seg, filepath.Ext(seg))
		if IsAppID(seg) {
			return seg, nil
		}
	}
	return "", apkgerr.KeyResolution(inputPath)
}
