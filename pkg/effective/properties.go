package effective

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SystemProperties returns the properties visible to interpolation and
// profile activation: the process environment as env.NAME, a few
// runtime properties, then extra.
func SystemProperties(extra map[string]string) map[string]string {
	props := make(map[string]string)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		props["env."+name] = value
	}

	props["os.name"] = runtime.GOOS
	props["os.arch"] = runtime.GOARCH
	props["file.separator"] = string(filepath.Separator)
	props["path.separator"] = string(filepath.ListSeparator)
	if home, err := os.UserHomeDir(); err == nil {
		props["user.home"] = home
	}
	if wd, err := os.Getwd(); err == nil {
		props["user.dir"] = wd
	}

	maps.Copy(props, extra)
	return props
}
