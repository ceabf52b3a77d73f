package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/relock/internal/config"
	"github.com/mrz1836/relock/internal/constants"
	"github.com/mrz1836/relock/internal/errors"
)

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// OutputFormat specifies the output format (yaml or json).
	OutputFormat string
}

// AddConfigCommand adds the config command and its subcommands.
func AddConfigCommand(rootCmd *cobra.Command) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect relock configuration",
	}
	AddConfigShowCommand(configCmd)
	rootCmd.AddCommand(configCmd)
}

// AddConfigShowCommand adds the show subcommand to the config command.
func AddConfigShowCommand(configCmd *cobra.Command) {
	flags := &ConfigShowFlags{}
	configCmd.AddCommand(newConfigShowCmd(flags))
}

// newConfigShowCmd creates the 'config show' subcommand for displaying configuration.
func newConfigShowCmd(flags *ConfigShowFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective relock configuration with source annotations.

Each value is annotated with where it comes from:
  - default: Built-in default value
  - global: From ~/.relock/config.yaml
  - project: From .relock/config.yaml
  - env: From RELOCK_* environment variable

Examples:
  relock config show                 # YAML with sources
  relock config show --format json   # JSON with sources`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("format") && cmd.Flag("output").Value.String() == OutputJSON {
				flags.OutputFormat = "json"
			}
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.OutputFormat, "format", "yaml", "output format (yaml or json)")

	return cmd
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// AnnotatedConfig represents configuration with source annotations.
type AnnotatedConfig struct {
	Lock    map[string]ConfigValueWithSource `json:"lock" yaml:"lock"`
	Contend map[string]ConfigValueWithSource `json:"contend" yaml:"contend"`
}

// configShowStyles contains styling for the config show command output.
type configShowStyles struct {
	header    lipgloss.Style
	section   lipgloss.Style
	key       lipgloss.Style
	value     lipgloss.Style
	sourceEnv lipgloss.Style
	sourcePrj lipgloss.Style
	sourceGbl lipgloss.Style
	sourceDef lipgloss.Style
	dim       lipgloss.Style
}

// newConfigShowStyles creates styles for config show command output.
func newConfigShowStyles() *configShowStyles {
	return &configShowStyles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00D7FF")).
			MarginBottom(1),
		section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")),
		key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D7FF")),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),
		sourceEnv: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")), // Red for env (highest precedence)
		sourcePrj: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")), // Yellow for project
		sourceGbl: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF87")), // Green for global
		sourceDef: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")), // Gray for default
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
	}
}

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, w io.Writer, flags *ConfigShowFlags) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	globalPath, _ := config.GlobalConfigPath()
	annotated := buildAnnotatedConfig(cfg, loadConfigFile(globalPath), loadConfigFile(config.ProjectConfigPath()))

	switch strings.ToLower(flags.OutputFormat) {
	case "json":
		return encodeJSONIndented(w, annotated)
	case "yaml":
		return outputYAML(w, annotated)
	default:
		return errors.NewExitCode2Error(
			fmt.Errorf("%w: %s (use yaml or json)", errors.ErrUnsupportedOutputFormat, flags.OutputFormat))
	}
}

// buildAnnotatedConfig creates an annotated configuration with source information.
func buildAnnotatedConfig(cfg *config.Config, globalCfg, projectCfg configValues) *AnnotatedConfig {
	src := func(key string, value any) ConfigValueWithSource {
		return determineSource(key, value, globalCfg, projectCfg)
	}

	lockDir, err := cfg.Lock.LockDir()
	if err != nil {
		lockDir = cfg.Lock.Dir
	}

	return &AnnotatedConfig{
		Lock: map[string]ConfigValueWithSource{
			"dir":           src("lock.dir", lockDir),
			"timeout":       src("lock.timeout", cfg.Lock.Timeout.String()),
			"poll_interval": src("lock.poll_interval", cfg.Lock.PollInterval.String()),
			"min_wait":      src("lock.min_wait", cfg.Lock.MinWait.String()),
			"max_wait":      src("lock.max_wait", cfg.Lock.MaxWait.String()),
		},
		Contend: map[string]ConfigValueWithSource{
			"workers":    src("contend.workers", cfg.Contend.Workers),
			"iterations": src("contend.iterations", cfg.Contend.Iterations),
			"depth":      src("contend.depth", cfg.Contend.Depth),
		},
	}
}

// configValues holds the dotted keys present in one config file.
type configValues map[string]any

// loadConfigFile loads a config file into a flat map of dotted keys.
// Missing or unreadable files yield nil.
func loadConfigFile(path string) configValues {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // Config file path
	if err != nil {
		return nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil
	}

	result := make(configValues)
	flattenConfig("", doc, result)
	return result
}

// flattenConfig records every leaf of doc under its dotted key.
func flattenConfig(prefix string, doc map[string]any, out configValues) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenConfig(key, nested, out)
			continue
		}
		out[key] = v
	}
}

// determineSource determines where a configuration value came from.
func determineSource(key string, value any, globalCfg, projectCfg configValues) ConfigValueWithSource {
	envKey := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if envVal := os.Getenv(envKey); envVal != "" {
		return ConfigValueWithSource{Value: value, Source: SourceEnv}
	}

	if _, exists := projectCfg[key]; exists {
		return ConfigValueWithSource{Value: value, Source: SourceProject}
	}

	if _, exists := globalCfg[key]; exists {
		return ConfigValueWithSource{Value: value, Source: SourceGlobal}
	}

	return ConfigValueWithSource{Value: value, Source: SourceDefault}
}

// outputYAML outputs the configuration as YAML with source comments.
func outputYAML(w io.Writer, annotated *AnnotatedConfig) error {
	styles := newConfigShowStyles()

	_, _ = fmt.Fprintln(w, styles.header.Render("Effective relock Configuration"))
	_, _ = fmt.Fprintln(w, styles.dim.Render("Sources: ")+
		styles.sourceEnv.Render("env")+" > "+
		styles.sourcePrj.Render("project")+" > "+
		styles.sourceGbl.Render("global")+" > "+
		styles.sourceDef.Render("default"))
	_, _ = fmt.Fprintln(w)

	sections := []struct {
		name   string
		keys   []string
		values map[string]ConfigValueWithSource
	}{
		{"lock", []string{"dir", "timeout", "poll_interval", "min_wait", "max_wait"}, annotated.Lock},
		{"contend", []string{"workers", "iterations", "depth"}, annotated.Contend},
	}

	for _, section := range sections {
		_, _ = fmt.Fprintln(w, styles.section.Render(section.name+":"))
		for _, key := range section.keys {
			if err := printConfigValue(w, styles, key, section.values[key]); err != nil {
				return err
			}
		}
		_, _ = fmt.Fprintln(w)
	}

	printConfigFiles(w, styles)
	return nil
}

// printConfigValue prints one YAML mapping entry with its source annotation.
func printConfigValue(w io.Writer, styles *configShowStyles, key string, vs ConfigValueWithSource) error {
	rendered, err := yaml.Marshal(map[string]any{key: vs.Value})
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", key, err)
	}
	_, value, _ := strings.Cut(strings.TrimSpace(string(rendered)), ": ")

	_, _ = fmt.Fprintf(w, "  %s: %s  %s\n",
		styles.key.Render(key),
		styles.value.Render(value),
		getSourceStyle(vs.Source, styles).Render("# "+string(vs.Source)))
	return nil
}

// getSourceStyle returns the style used for a source annotation.
func getSourceStyle(source ConfigSource, styles *configShowStyles) lipgloss.Style {
	switch source {
	case SourceEnv:
		return styles.sourceEnv
	case SourceProject:
		return styles.sourcePrj
	case SourceGlobal:
		return styles.sourceGbl
	case SourceDefault:
		return styles.sourceDef
	default:
		return styles.dim
	}
}

// printConfigFiles lists the config file locations and whether they exist.
func printConfigFiles(w io.Writer, styles *configShowStyles) {
	_, _ = fmt.Fprintln(w, styles.dim.Render("Configuration files:"))
	if globalPath, err := config.GlobalConfigPath(); err == nil {
		if _, err := os.Stat(globalPath); err == nil {
			_, _ = fmt.Fprintln(w, styles.dim.Render("  Global: ")+styles.sourceGbl.Render(globalPath))
		} else {
			_, _ = fmt.Fprintln(w, styles.dim.Render("  Global: ")+styles.dim.Render(globalPath+" (not found)"))
		}
	}

	projectPath := config.ProjectConfigPath()
	if _, err := os.Stat(projectPath); err == nil {
		absPath, _ := filepath.Abs(projectPath)
		_, _ = fmt.Fprintln(w, styles.dim.Render("  Project: ")+styles.sourcePrj.Render(absPath))
	} else {
		_, _ = fmt.Fprintln(w, styles.dim.Render("  Project: ")+styles.dim.Render(projectPath+" (not found)"))
	}
}

// encodeJSONIndented encodes a value as indented JSON to the writer.
func encodeJSONIndented(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
