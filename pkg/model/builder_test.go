package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	deperrors "github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// fakeResolver serves POMs from an in-memory table keyed by g:a:v.
type fakeResolver struct {
	dir      string
	poms     map[string]string
	repos    []string
	resolved *[]string
	copies   *int
}

func newFakeResolver(t *testing.T, poms map[string]string) *fakeResolver {
	t.Helper()
	return &fakeResolver{dir: t.TempDir(), poms: poms, resolved: new([]string), copies: new(int)}
}

func (f *fakeResolver) ResolveModel(ctx context.Context, g, a, v string) (Source, error) {
	gav := g + ":" + a + ":" + v
	*f.resolved = append(*f.resolved, gav)
	content, ok := f.poms[gav]
	if !ok {
		return nil, &deperrors.UnresolvableModelError{GroupID: g, ArtifactID: a, Version: v}
	}
	path := filepath.Join(f.dir, g, a, v, a+"-"+v+".pom")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return FileSource{Path: path}, nil
}

func (f *fakeResolver) AddRepository(repo pom.Repository) error {
	if repo.ID == "" || repo.URL == "" {
		return deperrors.New(deperrors.ErrCodeInvalidRepository, "repository id and url are required")
	}
	if !slices.Contains(f.repos, repo.ID) {
		f.repos = append(f.repos, repo.ID)
	}
	return nil
}

func (f *fakeResolver) NewCopy() ModelResolver {
	*f.copies++
	c := *f
	c.repos = slices.Clone(f.repos)
	return &c
}

// project renders a POM with the given coordinates and inner XML.
func project(g, a, v, body string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?>` + "\n<project>\n  <modelVersion>4.0.0</modelVersion>\n")
	if g != "" {
		fmt.Fprintf(&b, "  <groupId>%s</groupId>\n", g)
	}
	fmt.Fprintf(&b, "  <artifactId>%s</artifactId>\n", a)
	if v != "" {
		fmt.Fprintf(&b, "  <version>%s</version>\n", v)
	}
	b.WriteString(body)
	b.WriteString("\n</project>\n")
	return b.String()
}

func parentDecl(g, a, v string) string {
	return fmt.Sprintf("<parent><groupId>%s</groupId><artifactId>%s</artifactId><version>%s</version><relativePath/></parent>", g, a, v)
}

func managed(deps ...string) string {
	return "<dependencyManagement><dependencies>" + strings.Join(deps, "") + "</dependencies></dependencyManagement>"
}

func dep(g, a, v string) string {
	return fmt.Sprintf("<dependency><groupId>%s</groupId><artifactId>%s</artifactId><version>%s</version></dependency>", g, a, v)
}

func bomImport(g, a, v string) string {
	return fmt.Sprintf("<dependency><groupId>%s</groupId><artifactId>%s</artifactId><version>%s</version><type>pom</type><scope>import</scope></dependency>", g, a, v)
}

func writePOM(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func build(t *testing.T, file string, res ModelResolver, req Request) (*Result, error) {
	t.Helper()
	req.POMFile = file
	req.Resolver = res
	return NewBuilder(nil).Build(context.Background(), req)
}

func managedVersions(m *pom.Model) map[string]string {
	out := make(map[string]string)
	for _, d := range m.ManagedDependencies() {
		out[d.GroupID+":"+d.ArtifactID] = d.Version
	}
	return out
}

func TestBuild_ParentChain(t *testing.T) {
	res := newFakeResolver(t, map[string]string{
		"org.example:grandparent:1.0": project("org.example", "grandparent", "1.0",
			`<packaging>pom</packaging>
			<url>https://example.org</url>
			<properties><junit.version>3.8</junit.version><lang.version>2.6</lang.version></properties>`+
				managed(dep("junit", "junit", "${junit.version}"), dep("commons-lang", "commons-lang", "${lang.version}"))),
		"org.example:parent:1.0": project("", "parent", "",
			parentDecl("org.example", "grandparent", "1.0")+
				`<packaging>pom</packaging>
				<properties><junit.version>4.12</junit.version></properties>`+
				managed(dep("org.slf4j", "slf4j-api", "${project.version}"))),
	})
	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("", "leaf", "",
		parentDecl("org.example", "parent", "1.0")))

	r, err := build(t, leaf, res, Request{Validation: ValidationMaven30})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	eff := r.Effective
	if eff.ID() != "org.example:leaf:1.0" {
		t.Errorf("ID() = %q, want groupId and version inherited", eff.ID())
	}
	if eff.Packaging != "jar" {
		t.Errorf("Packaging = %q, want default jar", eff.Packaging)
	}
	if eff.URL != "https://example.org/parent/leaf" {
		t.Errorf("URL = %q, want artifactId appended per level", eff.URL)
	}

	want := map[string]string{"junit:junit": "4.12", "commons-lang:commons-lang": "2.6", "org.slf4j:slf4j-api": "1.0"}
	if got := managedVersions(eff); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("managed versions = %v, want %v", got, want)
	}
	var order []string
	for _, d := range eff.ManagedDependencies() {
		order = append(order, d.ArtifactID)
	}
	if !slices.Equal(order, []string{"junit", "commons-lang", "slf4j-api"}) {
		t.Errorf("management order = %v, want root entries first", order)
	}

	if len(r.Lineage) != 3 || r.Lineage[0].ArtifactID != "leaf" || r.Lineage[2].ArtifactID != "grandparent" {
		t.Errorf("Lineage = %d models, want leaf..grandparent", len(r.Lineage))
	}
	if r.Lineage[1].ManagedDependencies()[0].Version != "${project.version}" {
		t.Error("raw lineage models were interpolated")
	}
	if len(eff.Repositories) == 0 || eff.Repositories[0].ID != "central" {
		t.Errorf("Repositories = %+v, want super POM central", eff.Repositories)
	}
	if len(eff.ManagedPlugins()) != 4 {
		t.Errorf("ManagedPlugins() = %d, want the super POM pins", len(eff.ManagedPlugins()))
	}
}

func TestBuild_ParentRepositoriesReachResolver(t *testing.T) {
	res := newFakeResolver(t, map[string]string{
		"org.example:parent:1.0": project("org.example", "parent", "1.0", "<packaging>pom</packaging>"),
	})
	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("", "leaf", "",
		parentDecl("org.example", "parent", "1.0")+
			`<repositories><repository><id>corp</id><url>https://repo.example.com</url></repository></repositories>`))

	if _, err := build(t, leaf, res, Request{}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(res.repos) != 0 {
		t.Errorf("caller's resolver gained repositories %v, want a derived copy", res.repos)
	}
	if *res.copies == 0 {
		t.Error("NewCopy was never called for the parent lookup")
	}
}

func TestBuild_RelativePath(t *testing.T) {
	dir := t.TempDir()
	writePOM(t, filepath.Join(dir, "pom.xml"), project("org.example", "parent", "1.0",
		"<packaging>pom</packaging>"+managed(dep("junit", "junit", "4.12"))))

	t.Run("default relative path", func(t *testing.T) {
		leaf := writePOM(t, filepath.Join(dir, "leaf", "pom.xml"), project("", "leaf", "",
			"<parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>1.0</version></parent>"))
		res := newFakeResolver(t, nil)

		r, err := build(t, leaf, res, Request{})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if len(*res.resolved) != 0 {
			t.Errorf("resolver consulted for %v", *res.resolved)
		}
		if managedVersions(r.Effective)["junit:junit"] != "4.12" {
			t.Error("parent from relative path not inherited")
		}
	})

	t.Run("directory relative path", func(t *testing.T) {
		leaf := writePOM(t, filepath.Join(dir, "modules", "leaf", "pom.xml"), project("", "leaf", "",
			"<parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>1.0</version><relativePath>../..</relativePath></parent>"))

		if _, err := build(t, leaf, newFakeResolver(t, nil), Request{}); err != nil {
			t.Fatalf("Build failed: %v", err)
		}
	})

	t.Run("mismatched coordinates fall back to resolver", func(t *testing.T) {
		leaf := writePOM(t, filepath.Join(dir, "other", "pom.xml"), project("", "leaf", "",
			"<parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>2.0</version></parent>"))
		res := newFakeResolver(t, map[string]string{
			"org.example:parent:2.0": project("org.example", "parent", "2.0", "<packaging>pom</packaging>"),
		})

		r, err := build(t, leaf, res, Request{})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if !slices.Equal(*res.resolved, []string{"org.example:parent:2.0"}) {
			t.Errorf("resolved = %v", *res.resolved)
		}
		if _, ok := managedVersions(r.Effective)["junit:junit"]; ok {
			t.Error("inherited from the mismatched local parent")
		}
	})
}

func TestBuild_ParentFailures(t *testing.T) {
	tests := []struct {
		name string
		poms map[string]string
	}{
		{"unresolvable", nil},
		{"cycle", map[string]string{
			"org.example:parent:1.0": project("org.example", "parent", "1.0", parentDecl("org.example", "other", "1.0")+"<packaging>pom</packaging>"),
			"org.example:other:1.0":  project("org.example", "other", "1.0", parentDecl("org.example", "parent", "1.0")+"<packaging>pom</packaging>"),
		}},
		{"jar packaging", map[string]string{
			"org.example:parent:1.0": project("org.example", "parent", "1.0", ""),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("", "leaf", "",
				parentDecl("org.example", "parent", "1.0")))

			_, err := build(t, leaf, newFakeResolver(t, tt.poms), Request{})
			if !deperrors.Is(err, deperrors.ErrCodeModelBuild) {
				t.Fatalf("Build() error = %v, want MODEL_BUILD", err)
			}
			var mbe *deperrors.ModelBuildError
			if !errors.As(err, &mbe) || len(mbe.Problems) == 0 {
				t.Fatalf("error = %#v, want problems", err)
			}
		})
	}
}

func TestBuild_ParentCycleMessage(t *testing.T) {
	res := newFakeResolver(t, map[string]string{
		"org.example:parent:1.0": project("org.example", "parent", "1.0", parentDecl("org.example", "leaf", "1.0")+"<packaging>pom</packaging>"),
	})
	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0",
		parentDecl("org.example", "parent", "1.0")))

	_, err := build(t, leaf, res, Request{})
	if err == nil || !strings.Contains(err.Error(), "parent cycle") {
		t.Fatalf("Build() error = %v, want parent cycle", err)
	}
}

func TestBuild_Interpolation(t *testing.T) {
	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "2.0",
		`<properties>
		   <base>1.</base>
		   <junit.version>${base}2</junit.version>
		   <from.user>model</from.user>
		 </properties>`+
			managed(
				dep("junit", "junit", "${junit.version}"),
				dep("org.example", "sibling", "${pom.version}"),
				dep("org.example", "legacy", "${version}"),
				dep("org.example", "user", "${from.user}"),
				dep("org.example", "system", "${env.LIB_VERSION}"),
			)))

	r, err := build(t, leaf, newFakeResolver(t, nil), Request{
		Validation:       ValidationMaven30,
		UserProperties:   map[string]string{"from.user": "user"},
		SystemProperties: map[string]string{"env.LIB_VERSION": "9", "from.user": "system"},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := map[string]string{
		"junit:junit":         "1.2",
		"org.example:sibling": "2.0",
		"org.example:legacy":  "2.0",
		"org.example:user":    "user",
		"org.example:system":  "9",
	}
	got := managedVersions(r.Effective)
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestBuild_InterpolationCycle(t *testing.T) {
	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0",
		`<properties><a>${b}</a><b>${a}</b></properties>`+managed(dep("junit", "junit", "${a}"))))

	_, err := build(t, leaf, newFakeResolver(t, nil), Request{Validation: ValidationMinimal})
	if !deperrors.Is(err, deperrors.ErrCodeModelBuild) {
		t.Fatalf("Build() error = %v, want MODEL_BUILD", err)
	}
	if !strings.Contains(err.Error(), "expression cycle") {
		t.Errorf("error %q does not report the cycle", err)
	}
}

func TestBuild_UnresolvedExpression(t *testing.T) {
	body := managed(dep("junit", "junit", "${missing.version}"))

	t.Run("maven30 rejects unresolved management version", func(t *testing.T) {
		leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0", body))
		if _, err := build(t, leaf, newFakeResolver(t, nil), Request{Validation: ValidationMaven30}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("minimal keeps the expression and warns", func(t *testing.T) {
		leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0", body))
		r, err := build(t, leaf, newFakeResolver(t, nil), Request{Validation: ValidationMinimal})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if v := managedVersions(r.Effective)["junit:junit"]; v != "${missing.version}" {
			t.Errorf("version = %q, want expression kept verbatim", v)
		}
		if len(r.Problems) != 1 || r.Problems[0].Severity != deperrors.SeverityWarning {
			t.Errorf("Problems = %v, want one warning", r.Problems)
		}
	})
}

func TestBuild_ImportBOM(t *testing.T) {
	res := newFakeResolver(t, map[string]string{
		"org.example:bom:1.0": project("org.example", "bom", "1.0",
			"<packaging>pom</packaging>"+managed(
				dep("junit", "junit", "3.8"),
				dep("com.google.guava", "guava", "30.0"),
				bomImport("org.example", "nested-bom", "1.0"),
			)),
		"org.example:nested-bom:1.0": project("org.example", "nested-bom", "1.0",
			"<packaging>pom</packaging>"+managed(dep("org.slf4j", "slf4j-api", "2.0.9"))),
	})
	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0",
		"<properties><bom.version>1.0</bom.version></properties>"+
			managed(dep("junit", "junit", "4.12"), bomImport("org.example", "bom", "${bom.version}"))))

	r, err := build(t, leaf, res, Request{Validation: ValidationMaven30})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var keys []string
	for _, d := range r.Effective.ManagedDependencies() {
		if d.IsImport() {
			t.Errorf("import entry %s left in effective model", d.ManagementKey())
		}
		keys = append(keys, d.GroupID+":"+d.ArtifactID+"="+d.Version)
	}
	want := []string{"junit:junit=4.12", "com.google.guava:guava=30.0", "org.slf4j:slf4j-api=2.0.9"}
	if !slices.Equal(keys, want) {
		t.Errorf("managed = %v, want %v", keys, want)
	}

	wantImports := []Import{
		{Importer: "org.example:leaf:1.0", BOM: "org.example:bom:1.0"},
		{Importer: "org.example:bom:1.0", BOM: "org.example:nested-bom:1.0"},
	}
	if !slices.Equal(r.Imports, wantImports) {
		t.Errorf("Imports = %v, want %v", r.Imports, wantImports)
	}
}

func TestBuild_ImportCycle(t *testing.T) {
	res := newFakeResolver(t, map[string]string{
		"org.example:bom-a:1.0": project("org.example", "bom-a", "1.0",
			"<packaging>pom</packaging>"+managed(bomImport("org.example", "bom-b", "1.0"))),
		"org.example:bom-b:1.0": project("org.example", "bom-b", "1.0",
			"<packaging>pom</packaging>"+managed(bomImport("org.example", "bom-a", "1.0"))),
	})
	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0",
		managed(bomImport("org.example", "bom-a", "1.0"))))

	_, err := build(t, leaf, res, Request{})
	if !deperrors.Is(err, deperrors.ErrCodeModelBuild) {
		t.Fatalf("Build() error = %v, want MODEL_BUILD", err)
	}
	if !strings.Contains(err.Error(), "import cycle") {
		t.Errorf("error %q does not report the import cycle", err)
	}
}

func TestBuild_Profiles(t *testing.T) {
	body := managed(dep("junit", "junit", "4.12")) + `
	<profiles>
	  <profile>
	    <id>default</id>
	    <activation><activeByDefault>true</activeByDefault></activation>
	    <dependencyManagement><dependencies>` + dep("org.example", "default-only", "1") + `</dependencies></dependencyManagement>
	  </profile>
	  <profile>
	    <id>ci</id>
	    <activation><property><name>ci</name></property></activation>
	    <properties><junit.version>4.13</junit.version></properties>
	    <dependencyManagement><dependencies>` + dep("junit", "junit", "${junit.version}") + `</dependencies></dependencyManagement>
	  </profile>
	  <profile>
	    <id>not-release</id>
	    <activation><property><name>release</name><value>!true</value></property></activation>
	  </profile>
	</profiles>`

	tests := []struct {
		name        string
		user        map[string]string
		wantJUnit   string
		wantDefault bool
		wantActive  []string
	}{
		{"no properties", nil, "4.12", false, []string{"org.example:leaf:1.0:not-release"}},
		{"ci set", map[string]string{"ci": "true"}, "4.13", false, []string{"org.example:leaf:1.0:ci", "org.example:leaf:1.0:not-release"}},
		{"release build", map[string]string{"release": "true"}, "4.12", true, []string{"org.example:leaf:1.0:default"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0", body))
			r, err := build(t, leaf, newFakeResolver(t, nil), Request{UserProperties: tt.user})
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			got := managedVersions(r.Effective)
			if got["junit:junit"] != tt.wantJUnit {
				t.Errorf("junit = %q, want %q", got["junit:junit"], tt.wantJUnit)
			}
			if _, ok := got["org.example:default-only"]; ok != tt.wantDefault {
				t.Errorf("activeByDefault applied = %v, want %v", ok, tt.wantDefault)
			}
			if !slices.Equal(r.ActiveProfiles, tt.wantActive) {
				t.Errorf("ActiveProfiles = %v, want %v", r.ActiveProfiles, tt.wantActive)
			}
			if len(r.Effective.Profiles) != 0 {
				t.Error("effective model still carries profiles")
			}
		})
	}
}

func TestBuild_UnsupportedActivation(t *testing.T) {
	body := managed(dep("junit", "junit", "4.12")) + `
	<profiles>
	  <profile>
	    <id>java17</id>
	    <activation><jdk>[17,)</jdk></activation>
	    <dependencyManagement><dependencies>` + dep("org.example", "jdk-only", "1") + `</dependencies></dependencyManagement>
	  </profile>
	  <profile>
	    <id>windows</id>
	    <activation><os><family>windows</family></os><file><exists>build.cmd</exists></file></activation>
	  </profile>
	  <profile>
	    <id>ci</id>
	    <activation><property><name>ci</name></property></activation>
	  </profile>
	</profiles>`

	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0", body))
	r, err := build(t, leaf, newFakeResolver(t, nil), Request{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := managedVersions(r.Effective)["org.example:jdk-only"]; ok {
		t.Error("jdk profile was activated")
	}

	var msgs []string
	for _, p := range r.Problems {
		if p.Severity != deperrors.SeverityWarning {
			t.Errorf("problem %q has severity %v, want warning", p.Message, p.Severity)
		}
		msgs = append(msgs, p.Message)
	}
	want := []string{
		`profile "java17": jdk activation is not evaluated`,
		`profile "windows": os, file activation is not evaluated`,
	}
	if !slices.Equal(msgs, want) {
		t.Errorf("Problems = %q, want %q", msgs, want)
	}
}

func TestBuild_ValidationLevels(t *testing.T) {
	body := managed(dep("junit", "junit", "4.12"), dep("junit", "junit", "4.13"))

	tests := []struct {
		level        ValidationLevel
		wantErr      bool
		wantWarnings int
	}{
		{ValidationMinimal, false, 0},
		{ValidationMaven30, false, 1},
		{ValidationStrict, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0", body))
			r, err := build(t, leaf, newFakeResolver(t, nil), Request{Validation: tt.level})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(r.Problems) != tt.wantWarnings {
				t.Errorf("Problems = %v, want %d warnings", r.Problems, tt.wantWarnings)
			}
		})
	}
}

func TestBuild_MissingCoordinates(t *testing.T) {
	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("", "leaf", "", ""))

	_, err := build(t, leaf, newFakeResolver(t, nil), Request{Validation: ValidationMinimal})
	if err == nil || !strings.Contains(err.Error(), "'groupId' is missing") {
		t.Fatalf("Build() error = %v, want missing groupId", err)
	}
}

func TestBuild_RequestErrors(t *testing.T) {
	leaf := writePOM(t, filepath.Join(t.TempDir(), "pom.xml"), project("org.example", "leaf", "1.0", ""))

	tests := []struct {
		name string
		req  Request
	}{
		{"two phase", Request{POMFile: leaf, Resolver: newFakeResolver(t, nil), TwoPhase: true}},
		{"nil resolver", Request{POMFile: leaf}},
		{"unparseable file", Request{POMFile: writePOM(t, filepath.Join(t.TempDir(), "bad.xml"), "<project>"), Resolver: newFakeResolver(t, nil)}},
		{"missing file", Request{POMFile: filepath.Join(t.TempDir(), "missing.xml"), Resolver: newFakeResolver(t, nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(nil).Build(context.Background(), tt.req)
			if !deperrors.Is(err, deperrors.ErrCodeModelBuild) {
				t.Errorf("Build() error = %v, want MODEL_BUILD", err)
			}
		})
	}
}
