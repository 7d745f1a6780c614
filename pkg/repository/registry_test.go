package repository

import (
	"testing"

	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

var (
	corp  = Endpoint{ID: "corp", Layout: LayoutDefault, URL: "https://repo.corp.example/maven2"}
	extra = Endpoint{ID: "extra", Layout: LayoutDefault, URL: "https://extra.example/maven2"}
)

func ids(eps []Endpoint) []string {
	out := make([]string, len(eps))
	for i, ep := range eps {
		out[i] = ep.ID
	}
	return out
}

func equalIDs(t *testing.T, got []Endpoint, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func TestNewRegistry_DefaultsToCentral(t *testing.T) {
	reg := NewRegistry()
	snap := reg.Snapshot()
	if len(snap) != 1 || snap[0] != Central {
		t.Fatalf("Snapshot() = %+v, want central only", snap)
	}
	if Central.URL != "http://repo.maven.apache.org/maven2" || Central.Layout != "default" {
		t.Errorf("Central = %+v", Central)
	}
}

func TestNewRegistry_Configured(t *testing.T) {
	reg := NewRegistry(corp, extra, corp)
	equalIDs(t, reg.Snapshot(), "corp", "extra")
	if reg.Has("central") {
		t.Error("central registered alongside configured repositories")
	}
}

func TestRegister_Idempotent(t *testing.T) {
	reg := NewRegistry()
	if !reg.Register(corp) {
		t.Fatal("first Register returned false")
	}
	before := reg.Snapshot()

	changed := corp
	changed.URL = "https://elsewhere.example"
	if reg.Register(changed) {
		t.Error("second Register with the same id returned true")
	}

	after := reg.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("len = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("entry %d = %+v, want %+v", i, after[i], before[i])
		}
	}
}

func TestRegister_PreservesPriority(t *testing.T) {
	reg := NewRegistry(corp)
	reg.Register(extra)
	reg.Register(Central)
	equalIDs(t, reg.Snapshot(), "corp", "extra", "central")
}

func TestDerive_Independent(t *testing.T) {
	orig := NewRegistry()
	cp := orig.Derive()

	if !cp.Register(corp) {
		t.Fatal("Register on copy returned false")
	}
	if orig.Has("corp") {
		t.Fatal("registering on the copy leaked into the original id set")
	}
	if !orig.Register(corp) {
		t.Error("Register on original after copy registration was a no-op")
	}

	equalIDs(t, orig.Snapshot(), "central", "corp")
	equalIDs(t, cp.Snapshot(), "central", "corp")

	cp.Register(extra)
	equalIDs(t, orig.Snapshot(), "central", "corp")
	equalIDs(t, cp.Snapshot(), "central", "corp", "extra")
}

func TestDerive_KeepsKnownIDs(t *testing.T) {
	orig := NewRegistry(corp)
	cp := orig.Derive()
	if cp.Register(corp) {
		t.Error("copy forgot ids known at derive time")
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	reg := NewRegistry(corp)
	snap := reg.Snapshot()
	snap[0].URL = "mutated"
	if reg.Snapshot()[0].URL == "mutated" {
		t.Error("Snapshot exposes internal state")
	}
}

func TestFromPOM(t *testing.T) {
	tests := []struct {
		name    string
		in      pom.Repository
		want    Endpoint
		wantErr bool
	}{
		{
			name: "defaults layout",
			in:   pom.Repository{ID: "corp", URL: "https://repo.corp.example/maven2"},
			want: Endpoint{ID: "corp", Layout: LayoutDefault, URL: "https://repo.corp.example/maven2"},
		},
		{
			name: "snapshots disabled",
			in:   pom.Repository{ID: "rel", URL: "https://r.example", Layout: "legacy", Snapshots: &pom.RepositoryPolicy{Enabled: "false"}},
			want: Endpoint{ID: "rel", Layout: LayoutLegacy, URL: "https://r.example", NoSnapshots: true},
		},
		{name: "missing id", in: pom.Repository{URL: "https://r.example"}, wantErr: true},
		{name: "missing url", in: pom.Repository{ID: "x"}, wantErr: true},
		{name: "bad scheme", in: pom.Repository{ID: "x", URL: "ftp://r.example"}, wantErr: true},
		{name: "bad layout", in: pom.Repository{ID: "x", URL: "https://r.example", Layout: "p2"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromPOM(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromPOM() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidRepository) {
					t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidRepository)
				}
				return
			}
			if got != tt.want {
				t.Errorf("FromPOM() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEndpoint_Allows(t *testing.T) {
	ep := Endpoint{ID: "r", NoSnapshots: true}
	if ep.Allows(true) {
		t.Error("Allows(snapshot) = true with NoSnapshots")
	}
	if !ep.Allows(false) {
		t.Error("Allows(release) = false")
	}
}
