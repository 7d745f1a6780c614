package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jtripath/maven-dependency-management-extension/pkg/lineage"
	"github.com/jtripath/maven-dependency-management-extension/pkg/model"
	"github.com/jtripath/maven-dependency-management-extension/pkg/overrides"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// overridesCommand creates the "overrides" command.
func (c *CLI) overridesCommand() *cobra.Command {
	var (
		plugins bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "overrides <groupId:artifactId:version>",
		Short: "Print the managed versions of an effective POM",
		Long: `Overrides resolves the coordinate to its effective POM and prints the
versions of its dependencyManagement section (or, with --plugins, of its
build.pluginManagement section) keyed by groupId:artifactId.`,
		Example: `  depmgmt overrides org.springframework.boot:spring-boot-dependencies:3.2.0
  depmgmt overrides org.example:parent:1.0 --plugins --format json
  depmgmt overrides org.example:bom:2.0 --format properties -D release=true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s *session) error {
				prog := newProgress(c.Logger, args[0])
				var (
					m   *overrides.Map
					err error
				)
				kind := "dependency"
				if plugins {
					kind = "plugin"
					m, err = s.service.PluginOverrides(ctx, args[0])
				} else {
					m, err = s.service.DependencyOverrides(ctx, args[0])
				}
				if err != nil {
					return err
				}
				prog.overrides(kind, m.Len())
				return writeOverrides(cmd.OutOrStdout(), m, format)
			})
		},
	}

	cmd.Flags().BoolVar(&plugins, "plugins", false, "print plugin versions instead of dependency versions")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, properties")

	return cmd
}

// effectiveCommand creates the "effective" command.
func (c *CLI) effectiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effective <groupId:artifactId:version>",
		Short: "Print the effective POM of a coordinate",
		Long: `Effective resolves the coordinate, merges its parent chain and imported
BOMs, interpolates properties and prints the resulting model as pom.xml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s *session) error {
				prog := newProgress(c.Logger, args[0])
				res, err := s.service.EffectiveModel(ctx, args[0])
				if err != nil {
					return err
				}
				prog.model(res)
				reportResult(c, res)
				return pom.Write(cmd.OutOrStdout(), res.Effective)
			})
		},
	}
	return cmd
}

// lineageCommand creates the "lineage" command.
func (c *CLI) lineageCommand() *cobra.Command {
	var (
		format   string
		detailed bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "lineage <groupId:artifactId:version>",
		Short: "Draw the parent chain and BOM imports of a coordinate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s *session) error {
				prog := newProgress(c.Logger, args[0])
				res, err := s.service.EffectiveModel(ctx, args[0])
				if err != nil {
					return err
				}
				prog.model(res)
				reportResult(c, res)
				data, err := renderLineage(ctx, res, format, detailed)
				if err != nil {
					return err
				}
				if output == "" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := writeFile(output, data); err != nil {
					return err
				}
				newStatus(cmd.ErrOrStderr()).lineageWritten(args[0], res, output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot, svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show packaging and management counts")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func renderLineage(ctx context.Context, res *model.Result, format string, detailed bool) ([]byte, error) {
	dot := lineage.ToDOT(res, lineage.Options{Detailed: detailed})
	switch format {
	case formatDOT, "":
		return []byte(dot), nil
	case formatSVG:
		return lineage.RenderSVG(ctx, dot)
	}
	return nil, fmt.Errorf("unsupported format %q (want %s or %s)", format, formatDOT, formatSVG)
}

// withSession opens a session and closes it after fn returns.
func (c *CLI) withSession(ctx context.Context, fn func(context.Context, *session) error) error {
	s, err := c.newSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			c.Logger.Warn("close cache", "error", err)
		}
	}()
	return fn(ctx, s)
}

// reportResult logs a summary of a build. Build warnings are logged by the
// service that produced them.
func reportResult(c *CLI, res *model.Result) {
	c.Logger.Debug("effective model",
		"id", res.Effective.ID(),
		"lineage", len(res.Lineage),
		"profiles", len(res.ActiveProfiles),
		"imports", len(res.Imports),
		"warnings", len(res.Problems))
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
