package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/ajson/pkg"
)

// baseConfig is the base name (without extension) of the configuration files.
const baseConfig = "config"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// exeRules rewrite the executable base name into the directory name.
var exeRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), pkg.Name}, // dlv output
	{regexp.MustCompile(`^\.+`), ""},
}

// appName is the name of the per-user directories: the executable name
// without extension, or [pkg.Name] when that is unusable.
var appName = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	for _, rule := range exeRules {
		name = rule.rex.ReplaceAllString(name, rule.rep)
	}

	if name == "" || name == "." || name == string(filepath.Separator) {
		return pkg.Name
	}

	return name
})

// userDir returns appName below the directory reported by base, falling
// back to home/dot, then to the working directory.
func userDir(base func() (string, error), dot string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, dot)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, appName())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem onto the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
