package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kingrea/autoload/builder"
	"github.com/kingrea/autoload/container"
)

const yamlMap = `
version: 1
extension: .php
include_path:
  - /usr/share/php
namespaces:
  - namespace: Acme
    paths:
      - /root/src/
      - vendor/acme/
  - namespace: ""
    paths:
      - /root/
    prepend: true
`

const tomlMap = `
version = 1
extension = ".php"
include_path = ["/usr/share/php"]

[[namespaces]]
namespace = "Acme"
paths = ["/root/src/", "vendor/acme/"]

[[namespaces]]
namespace = ""
paths = ["/root/"]
prepend = true
`

const hclMap = `
version = 1
extension = ".php"
include_path = ["/usr/share/php"]

namespace "Acme" {
  paths = ["/root/src/", "vendor/acme/"]
}

namespace "" {
  paths   = ["/root/"]
  prepend = true
}
`

func writeMap(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(body)), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFormatsAgree(t *testing.T) {
	dir := t.TempDir()
	want := []container.Entry{
		{Namespace: "Acme", Path: "/root/src/"},
		{Namespace: "Acme", Path: filepath.Join(dir, "vendor", "acme") + string(filepath.Separator)},
		{Namespace: "", Path: "/root/", Prepend: true},
	}
	for name, body := range map[string]string{"map.yaml": yamlMap, "map.toml": tomlMap, "map.hcl": hclMap} {
		f, err := Load(writeMap(t, dir, name, body))
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if f.Extension != ".php" {
			t.Fatalf("%s: expected .php extension, got %q", name, f.Extension)
		}
		if !reflect.DeepEqual(f.IncludePath, []string{"/usr/share/php"}) {
			t.Fatalf("%s: unexpected include path %v", name, f.IncludePath)
		}
		if got := f.Entries(); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: entries = %+v, want %+v", name, got, want)
		}
	}
}

func TestPrependedPathsKeepListedOrder(t *testing.T) {
	body := "namespaces:\n" +
		"  - namespace: Acme\n    paths: [/base/]\n" +
		"  - namespace: Acme\n    paths: [/a/, /b/]\n    prepend: true\n"
	f, err := Decode("map.yaml", []byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := builder.New(nil)
	for _, e := range f.Entries() {
		b.Add(e.Namespace, e.Path, e.Prepend)
	}
	want := []string{"/a/", "/b/", "/base/"}
	if got := b.Table().Paths("Acme"); !reflect.DeepEqual(got, want) {
		t.Fatalf("search order = %v, want %v", got, want)
	}
}

func TestDecodeDefaults(t *testing.T) {
	f, err := Decode("map.yaml", []byte("namespaces: []\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.Version != 1 || f.Extension != ".go" {
		t.Fatalf("unexpected defaults: %+v", f)
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad version":    "version: 2\n",
		"bad extension":  "extension: go\n",
		"empty paths":    "namespaces:\n  - namespace: Acme\n",
		"malformed yaml": "namespaces: [\n",
	}
	for name, body := range cases {
		if _, err := Decode("map.yaml", []byte(body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := Decode("map.json5", []byte("{}")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeMap(t, t.TempDir(), "map.yaml", "   ")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestInitWritesDefaultMap(t *testing.T) {
	projectDir := t.TempDir()
	path, err := Init(projectDir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if path != filepath.Join(projectDir, Dir, "config.yaml") {
		t.Fatalf("unexpected path %s", path)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("load default map: %v", err)
	}
	entries := f.Entries()
	if len(entries) != 1 || entries[0].Namespace != "" {
		t.Fatalf("unexpected default entries: %+v", entries)
	}
	if want := filepath.Join(projectDir, "src") + string(filepath.Separator); entries[0].Path != want {
		t.Fatalf("expected %s, got %s", want, entries[0].Path)
	}

	again, err := Init(projectDir)
	if err != nil || again != path {
		t.Fatalf("init should reuse the existing map, got %s (%v)", again, err)
	}
}

func TestFindPrefersYaml(t *testing.T) {
	projectDir := t.TempDir()
	dir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := Find(projectDir); err == nil {
		t.Fatalf("expected error when no map exists")
	}
	writeMap(t, dir, "config.toml", tomlMap)
	got, err := Find(projectDir)
	if err != nil || filepath.Base(got) != "config.toml" {
		t.Fatalf("expected config.toml, got %s (%v)", got, err)
	}
	writeMap(t, dir, "config.yaml", yamlMap)
	got, err = Find(projectDir)
	if err != nil || filepath.Base(got) != "config.yaml" {
		t.Fatalf("expected config.yaml, got %s (%v)", got, err)
	}
}
