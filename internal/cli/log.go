// Package cli implements the depmgmt command-line interface.
//
// This package provides commands that resolve Maven coordinates to effective
// POMs and print their managed dependency and plugin versions, draw their
// parent lineage, serve the same data over HTTP, and manage the repository
// response cache. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - overrides: Print the dependencyManagement or pluginManagement versions
//   - effective: Print the effective POM as XML
//   - lineage: Draw the parent chain and BOM imports as DOT or SVG
//   - serve: Expose the same operations as a JSON API with Prometheus metrics
//   - cache: Clear, prune or locate the repository response cache
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/depmgmt/config.toml (or --config).
// The global flags --repo, --offline and -D override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs and
// status lines go to stderr; stdout carries only command data.
//
// # Exit codes
//
// See [ExitCode]: 2 for invalid input, 3 for an unresolvable coordinate,
// 4 for a POM that does not build, 130 on interrupt.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jtripath/maven-dependency-management-extension/pkg/model"
)

// newLogger creates the CLI logger. Timestamps use "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times the resolution of one coordinate and logs its outcome with
// the elapsed time rounded to the millisecond.
type progress struct {
	logger *log.Logger
	gav    string
	start  time.Time
}

func newProgress(l *log.Logger, gav string) *progress {
	return &progress{logger: l, gav: gav, start: time.Now()}
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// overrides logs e.g. "Resolved 42 dependency overrides for g:a:v (1.234s)".
func (p *progress) overrides(kind string, n int) {
	p.logger.Infof("Resolved %s for %s (%s)", plural(n, kind+" override"), p.gav, p.elapsed())
}

// model logs e.g. "Built effective model of g:a:v from 3 models, 1 import (812ms)".
func (p *progress) model(res *model.Result) {
	p.logger.Infof("Built effective model of %s from %s, %s (%s)",
		p.gav, plural(len(res.Lineage), "model"), plural(len(res.Imports), "import"), p.elapsed())
}
