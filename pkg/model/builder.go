package model

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/observability"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// Request describes one effective model build.
type Request struct {
	// POMFile is the local path of the POM to build.
	POMFile string

	// Resolver fetches parents and imported BOMs.
	Resolver ModelResolver

	Validation ValidationLevel

	// TwoPhase requests staged building. Only single-phase building is
	// supported; setting it fails the build.
	TwoPhase bool

	// SystemProperties and UserProperties feed interpolation and profile
	// activation. User properties win over model properties, which win over
	// system properties.
	SystemProperties map[string]string
	UserProperties   map[string]string
}

// Result is an effective model.
type Result struct {
	Effective *pom.Model

	// Lineage holds the raw models from the requested POM up to the topmost
	// parent. The implicit super POM is not included.
	Lineage []*pom.Model

	// ActiveProfiles lists "modelId:profileId" for every injected profile.
	ActiveProfiles []string

	// Imports lists the bills of materials merged into dependencyManagement,
	// nested imports included, in merge order.
	Imports []Import

	// Problems holds the warnings found while building.
	Problems []errors.Problem
}

// Import records that Importer pulled the managed dependencies of BOM.
type Import struct {
	Importer string `json:"importer"`
	BOM      string `json:"bom"`
}

// Builder assembles effective models. A Builder is stateless and safe for
// concurrent use.
type Builder struct {
	logger *log.Logger
}

// NewBuilder creates a builder.
func NewBuilder(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{logger: logger}
}

// Build reads req.POMFile and returns its effective model.
//
// Any problem of error severity fails the build with a
// [*errors.ModelBuildError] that lists all problems; warnings are returned
// in [Result.Problems].
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	if req.TwoPhase {
		return nil, &errors.ModelBuildError{
			ModelID: req.POMFile,
			Cause:   errors.New(errors.ErrCodeModelBuild, "two-phase model building is not supported"),
		}
	}
	if req.Resolver == nil {
		return nil, &errors.ModelBuildError{
			ModelID: req.POMFile,
			Cause:   errors.New(errors.ErrCodeModelBuild, "no model resolver"),
		}
	}

	s := &session{
		logger: b.logger,
		level:  req.Validation,
		props:  properties{user: req.UserProperties, system: req.SystemProperties},
	}
	start := time.Now()
	res, err := s.build(ctx, req.POMFile, req.Resolver, nil)

	var modelID string
	var depth int
	if res != nil {
		modelID, depth = res.Effective.ID(), len(res.Lineage)
	}
	observability.Resolve().OnModelBuild(ctx, modelID, depth, time.Since(start), err)
	return res, err
}

type session struct {
	logger *log.Logger
	level  ValidationLevel
	props  properties
}

// build assembles the model in file. imports holds the GAVs of the BOM
// imports in progress, outermost first.
func (s *session) build(ctx context.Context, file string, resolver ModelResolver, imports []string) (*Result, error) {
	ps := &problems{}

	raw, err := pom.ParseFile(file)
	if err != nil {
		ps.add(errors.SeverityFatal, file, err, "non-parseable POM")
		return nil, ps.fail(file)
	}
	validateRaw(raw, s.level, ps)

	res := &Result{Lineage: []*pom.Model{raw}}
	first, ids := activate(raw, s.props, ps)
	activated := []*pom.Model{first}
	res.ActiveProfiles = appendProfiles(res.ActiveProfiles, raw, ids)

	chain := []string{raw.ID()}
	cur, curActive := raw, first
	parentResolver := resolver
	for cur.Parent != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		decl := cur.Parent
		if decl.GroupID == "" || decl.ArtifactID == "" || decl.Version == "" {
			ps.errorf(cur.ID(), "'parent' must declare groupId, artifactId and version, found %s", decl.ID())
			return nil, ps.fail(raw.ID())
		}
		if slices.Contains(chain, decl.ID()) {
			ps.add(errors.SeverityFatal, cur.ID(), nil, "parent cycle detected: %s -> %s", strings.Join(chain, " -> "), decl.ID())
			return nil, ps.fail(raw.ID())
		}

		parentResolver = parentResolver.NewCopy()
		for _, repo := range curActive.Repositories {
			if err := parentResolver.AddRepository(repo); err != nil {
				ps.add(errors.SeverityWarning, cur.ID(), err, "ignoring repository %q", repo.ID)
			}
		}

		parent, err := s.loadParent(ctx, cur, parentResolver)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			ps.add(errors.SeverityFatal, cur.ID(), err, "non-resolvable parent POM %s", decl.ID())
			return nil, ps.fail(raw.ID())
		}
		if parent.Packaging != "pom" {
			packaging := parent.Packaging
			if packaging == "" {
				packaging = "jar"
			}
			ps.errorf(parent.ID(), "invalid packaging for parent POM %s, must be \"pom\" but is %q", decl.ID(), packaging)
			return nil, ps.fail(raw.ID())
		}
		if parent.ID() != decl.ID() {
			ps.warnf(cur.ID(), "parent declared as %s resolved to %s", decl.ID(), parent.ID())
		}
		validateRaw(parent, s.level, ps)
		s.logger.Debug("resolved parent", "child", cur.ID(), "parent", decl.ID())

		act, ids := activate(parent, s.props, ps)
		res.Lineage = append(res.Lineage, parent)
		res.ActiveProfiles = appendProfiles(res.ActiveProfiles, parent, ids)
		activated = append(activated, act)
		chain = append(chain, decl.ID())
		cur, curActive = parent, act
	}

	eff := superPOM()
	for i := len(activated) - 1; i >= 0; i-- {
		eff = inherit(eff, activated[i])
	}
	eff.Profiles = nil
	if eff.Packaging == "" {
		eff.Packaging = "jar"
	}

	basedir, _ := filepath.Abs(filepath.Dir(file))
	newInterpolator(eff, basedir, s.props, raw.ID(), ps).interpolate(eff)

	self := eff.ID()
	if len(imports) == 0 || imports[len(imports)-1] != self {
		imports = append(imports[:len(imports):len(imports)], self)
	}
	edges, err := s.importBOMs(ctx, eff, resolver, imports, ps)
	if err != nil {
		return nil, err
	}
	res.Imports = edges

	validateEffective(eff, s.level, ps)
	if ps.hasErrors() {
		return nil, ps.fail(self)
	}

	res.Effective = eff
	res.Problems = ps.warnings()
	return res, nil
}

// loadParent prefers the file at the parent's relativePath (default
// ../pom.xml) when it declares the requested coordinates, and falls back to
// the resolver.
func (s *session) loadParent(ctx context.Context, child *pom.Model, resolver ModelResolver) (*pom.Model, error) {
	decl := child.Parent
	if m := localParent(child); m != nil {
		s.logger.Debug("using parent from relative path", "parent", decl.ID(), "path", m.Path)
		return m, nil
	}
	src, err := resolver.ResolveModel(ctx, decl.GroupID, decl.ArtifactID, decl.Version)
	if err != nil {
		return nil, err
	}
	return pom.ParseFile(src.Location())
}

func localParent(child *pom.Model) *pom.Model {
	if child.Path == "" {
		return nil
	}
	rel := "../pom.xml"
	if child.Parent.RelativePath != nil {
		rel = strings.TrimSpace(*child.Parent.RelativePath)
	}
	if rel == "" {
		return nil
	}
	path := filepath.Join(filepath.Dir(child.Path), filepath.FromSlash(rel))
	if fi, err := os.Stat(path); err != nil {
		return nil
	} else if fi.IsDir() {
		path = filepath.Join(path, "pom.xml")
	}
	m, err := pom.ParseFile(path)
	if err != nil || m.ID() != child.Parent.ID() {
		return nil
	}
	return m
}

// importBOMs replaces the import-scope entries of eff's dependencyManagement
// with the managed dependencies of the imported POMs. Entries already managed
// by eff (or by an earlier import) are kept.
func (s *session) importBOMs(ctx context.Context, eff *pom.Model, resolver ModelResolver, imports []string, ps *problems) ([]Import, error) {
	managed := eff.ManagedDependencies()
	if !slices.ContainsFunc(managed, pom.Dependency.IsImport) {
		return nil, nil
	}

	// Import from the repositories known to the effective model.
	importResolver := resolver.NewCopy()
	for _, repo := range eff.Repositories {
		if err := importResolver.AddRepository(repo); err != nil {
			ps.add(errors.SeverityWarning, eff.ID(), err, "ignoring repository %q", repo.ID)
		}
	}

	var (
		out   []pom.Dependency
		boms  []pom.Dependency
		edges []Import
		seen  = make(map[string]bool, len(managed))
	)
	for _, d := range managed {
		if d.IsImport() {
			boms = append(boms, d)
			continue
		}
		out = append(out, d)
		seen[d.ManagementKey()] = true
	}

	for _, bom := range boms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gav := bom.GroupID + ":" + bom.ArtifactID + ":" + bom.Version
		if bom.Version == "" || hasExpression(bom.Version) {
			ps.errorf(eff.ID(), "'dependencyManagement.dependencies.dependency.version' for imported %s is missing or unresolved", gav)
			continue
		}
		if slices.Contains(imports, gav) {
			ps.errorf(eff.ID(), "import cycle detected: %s -> %s", strings.Join(imports, " -> "), gav)
			continue
		}

		r := importResolver.NewCopy()
		src, err := r.ResolveModel(ctx, bom.GroupID, bom.ArtifactID, bom.Version)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			ps.add(errors.SeverityError, eff.ID(), err, "non-resolvable import POM %s", gav)
			continue
		}
		sub, err := s.build(ctx, src.Location(), r, append(imports[:len(imports):len(imports)], gav))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			ps.add(errors.SeverityError, eff.ID(), err, "failed to import %s", gav)
			continue
		}
		ps.list = append(ps.list, sub.Problems...)
		edges = append(edges, Import{Importer: eff.ID(), BOM: gav})
		edges = append(edges, sub.Imports...)
		s.logger.Debug("imported bill of materials", "model", eff.ID(), "bom", gav, "entries", len(sub.Effective.ManagedDependencies()))

		for _, d := range sub.Effective.ManagedDependencies() {
			key := d.ManagementKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, d)
		}
	}

	eff.DependencyManagement.Dependencies = out
	return edges, nil
}

func appendProfiles(dst []string, m *pom.Model, ids []string) []string {
	for _, id := range ids {
		dst = append(dst, m.ID()+":"+id)
	}
	return dst
}
