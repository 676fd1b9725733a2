package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// LoadScript reads an event script, preferring prefabs/scripts/ on disk so
// the viewer can hot reload it.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// Load reads a prefab, preferring prefabs/ on disk over the embedded copy.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// Names lists the embedded prefabs without their extension.
func Names() []string {
	matches, _ := fs.Glob(PrefabsFS, "*.yaml")
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, path.Ext(m)))
	}
	sort.Strings(names)
	return names
}

// ScriptName maps a changed file path to the name event colliders use for it.
func ScriptName(p string) string {
	return path.Base(filepath.ToSlash(p))
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := strings.TrimPrefix(filepath.ToSlash(p), "prefabs/")
	if path.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	for _, prefix := range []string{"prefabs/", "scripts/"} {
		s = strings.TrimPrefix(s, prefix)
	}
	if path.Ext(s) == "" {
		s += ".tengo"
	}
	return "scripts/" + s
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
