package resolver

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/kingrea/autoload/include"
	"github.com/kingrea/autoload/pathtable"
)

type recordingRequirer struct {
	paths []string
	err   error
}

func (r *recordingRequirer) Require(path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

func newFixture(t *testing.T, files ...string) (afero.Fs, *include.SearchPath) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		if err := afero.WriteFile(fs, f, []byte("package main\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
	return fs, include.NewSearchPath(fs)
}

func newResolver(t *testing.T, table pathtable.Table, files ...string) (*Psr4, *recordingRequirer) {
	t.Helper()
	_, sp := newFixture(t, files...)
	req := &recordingRequirer{}
	r := NewPsr4(req, WithSearchPath(sp), WithExtension(".php"))
	r.Configure(table)
	return r, req
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in, prefix, leaf string
	}{
		{`Laz0r\Widget\Nuke`, `Laz0r\Widget`, "Nuke"},
		{"Nuke", "", "Nuke"},
		{`Acme\`, "Acme", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		prefix, leaf := SplitName(tc.in)
		if prefix != tc.prefix || leaf != tc.leaf {
			t.Fatalf("SplitName(%q) = (%q, %q), want (%q, %q)", tc.in, prefix, leaf, tc.prefix, tc.leaf)
		}
	}
}

func TestLoadKnownName(t *testing.T) {
	r, req := newResolver(t, pathtable.Table{"Acme": {"/root/src/"}}, "/root/src/Widget.php")
	if err := r.Load(`Acme\Widget`); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(req.paths) != 1 || req.paths[0] != "/root/src/Widget.php" {
		t.Fatalf("unexpected requires: %v", req.paths)
	}
}

func TestLoadUnknownNameIsNoop(t *testing.T) {
	r, req := newResolver(t, pathtable.Table{"Acme": {"/root/src/"}})
	if err := r.Load(`Acme\Widget`); err != nil {
		t.Fatalf("unresolved names must not error: %v", err)
	}
	if len(req.paths) != 0 {
		t.Fatalf("nothing should be required, got %v", req.paths)
	}
}

func TestLoadPropagatesRequireError(t *testing.T) {
	boom := errors.New("syntax error")
	r, req := newResolver(t, pathtable.Table{"Acme": {"/root/src/"}}, "/root/src/Widget.php")
	req.err = boom
	if err := r.Load(`Acme\Widget`); err != boom {
		t.Fatalf("expected the host error unmodified, got %v", err)
	}
}

func TestLoadWithoutRequirer(t *testing.T) {
	_, sp := newFixture(t, "/root/src/Widget.go")
	r := NewPsr4(nil, WithSearchPath(sp))
	r.Configure(pathtable.Table{"Acme": {"/root/src/"}})
	if err := r.Load(`Acme\Widget`); !errors.Is(err, ErrNoRequirer) {
		t.Fatalf("expected ErrNoRequirer, got %v", err)
	}
}

func TestFirstRootWins(t *testing.T) {
	r, _ := newResolver(t,
		pathtable.Table{"Acme": {"/a/", "/b/", "/c/"}},
		"/b/Widget.php", "/c/Widget.php",
	)
	file, ok := r.Resolve(`Acme\Widget`)
	if !ok || file != "/b/Widget.php" {
		t.Fatalf("expected /b/Widget.php, got %q (%v)", file, ok)
	}
}

func TestFallbackToAncestorNamespace(t *testing.T) {
	r, _ := newResolver(t,
		pathtable.Table{
			`Laz0r\Widget`: {"/elsewhere/"},
			"Laz0r":        {"/lib/"},
		},
		"/lib/Widget/Nuke.php",
	)
	file, ok := r.Resolve(`Laz0r\Widget\Nuke`)
	if !ok || file != "/lib/Widget/Nuke.php" {
		t.Fatalf("expected ancestor fallback, got %q (%v)", file, ok)
	}
}

func TestFallbackToRootNamespace(t *testing.T) {
	r, req := newResolver(t,
		pathtable.Table{
			"Acme": {"/root/src/"},
			"":     {"/root/"},
		},
		"/root/Acme/Widget.php",
	)
	if err := r.Load(`Acme\Widget`); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(req.paths) != 1 || req.paths[0] != "/root/Acme/Widget.php" {
		t.Fatalf("expected root fallback, got %v", req.paths)
	}
}

func TestPrimaryMatchBeatsFallback(t *testing.T) {
	r, _ := newResolver(t,
		pathtable.Table{
			"Acme": {"/root/src/"},
			"":     {"/root/"},
		},
		"/root/src/Widget.php", "/root/Acme/Widget.php",
	)
	file, _ := r.Resolve(`Acme\Widget`)
	if file != "/root/src/Widget.php" {
		t.Fatalf("expected primary match, got %q", file)
	}
}

func TestEmptyEntryFallsThrough(t *testing.T) {
	r, _ := newResolver(t,
		pathtable.Table{
			"Acme": {},
			"":     {"/root/"},
		},
		"/root/Acme/Widget.php",
	)
	if _, ok := r.Resolve(`Acme\Widget`); !ok {
		t.Fatalf("empty namespace entry should fall through to the root")
	}
}

func TestUnqualifiedNameUsesRootNamespace(t *testing.T) {
	r, _ := newResolver(t, pathtable.Table{"": {"/root/"}}, "/root/Widget.php")
	file, ok := r.Resolve("Widget")
	if !ok || file != "/root/Widget.php" {
		t.Fatalf("expected /root/Widget.php, got %q (%v)", file, ok)
	}
}

func TestNoRootNamespaceFails(t *testing.T) {
	r, _ := newResolver(t, pathtable.Table{"Other": {"/root/"}}, "/root/Acme/Widget.php")
	if _, ok := r.Resolve(`Acme\Widget`); ok {
		t.Fatalf("resolution should fail without a matching namespace")
	}
}

func TestTraceRecordsProbes(t *testing.T) {
	r, _ := newResolver(t,
		pathtable.Table{
			`Acme\Widget`: {"/a/", "/b/"},
			"":            {"/root/"},
		},
		"/root/Acme/Widget/Nuke.php",
	)
	probes := r.Trace(`Acme\Widget\Nuke`)
	want := []Probe{
		{Namespace: `Acme\Widget`, Root: "/a/", Candidate: "/a/Nuke.php"},
		{Namespace: `Acme\Widget`, Root: "/b/", Candidate: "/b/Nuke.php"},
		{Namespace: "", Root: "/root/", Candidate: "/root/Acme/Widget/Nuke.php", File: "/root/Acme/Widget/Nuke.php", Found: true},
	}
	if len(probes) != len(want) {
		t.Fatalf("expected %d probes, got %d: %+v", len(want), len(probes), probes)
	}
	for i := range want {
		if probes[i] != want[i] {
			t.Fatalf("probe %d = %+v, want %+v", i, probes[i], want[i])
		}
	}
}

func TestConfigureCopiesTable(t *testing.T) {
	table := pathtable.Table{"Acme": {"/root/src/"}}
	r := NewPsr4(nil)
	r.Configure(table)
	table.Set("Acme", "/changed/")
	if got := r.Table().Paths("Acme"); len(got) != 1 || got[0] != "/root/src/" {
		t.Fatalf("resolver table shares state with caller: %v", got)
	}
}
