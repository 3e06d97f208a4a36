// vizprep — bubble chart data preparation service
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vizprep/vizprep/api"
	"github.com/vizprep/vizprep/internal/bubble"
	"github.com/vizprep/vizprep/internal/config"
	"github.com/vizprep/vizprep/internal/echarts"
	"github.com/vizprep/vizprep/internal/export"
	"github.com/vizprep/vizprep/internal/preview"
	"github.com/vizprep/vizprep/pkg/models"
	"github.com/vizprep/vizprep/pkg/palette"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vizprep",
	Short: "vizprep — bubble chart data preparation",
	Long: `vizprep turns tabular query results plus chart form options into
renderable bubble/scatter chart options, with server-side tooltips,
Excel workbook export, terminal previews, and an HTTP/WebSocket API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version and help need no configuration
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(tooltipCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(schemesCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Spec helpers ---

// readSpec loads a chart spec from path, or from stdin when path is
// empty or "-".
func readSpec(path string) (models.ChartSpec, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return models.ChartSpec{}, fmt.Errorf("failed to read chart spec: %w", err)
	}

	var spec models.ChartSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return models.ChartSpec{}, fmt.Errorf("invalid chart spec %s: %w", specName(path), err)
	}
	return spec, nil
}

func specName(path string) string {
	if path == "" || path == "-" {
		return "(stdin)"
	}
	return path
}

// applyChartDefaults fills form controls the spec left unset from the
// configured chart defaults.
func applyChartDefaults(spec *models.ChartSpec) {
	if spec.FormData.ColorScheme == "" {
		spec.FormData.ColorScheme = cfg.Chart.ColorScheme
	}
	if spec.FormData.MaxBubbleSize == nil {
		spec.FormData.MaxBubbleSize = cfg.Chart.MaxBubbleSize
	}
	if spec.FormData.Opacity == nil && cfg.Chart.Opacity > 0 {
		opacity := cfg.Chart.Opacity
		spec.FormData.Opacity = &opacity
	}
}

func marshalProps(tp bubble.TransformedProps, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(tp, "", "  ")
	}
	return json.Marshal(tp)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vizprep %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Transform Command ---

var transformCmd = &cobra.Command{
	Use:   "transform [files...]",
	Short: "Transform chart specs into renderable option JSON",
	Long: `Transform chart spec JSON (form data plus query results) into the
option JSON a renderer consumes. Reads stdin when no files are given;
multiple files are transformed concurrently.

Examples:
  vizprep transform chart.json
  vizprep transform --pretty < chart.json
  vizprep transform -o out/ specs/*.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pretty, _ := cmd.Flags().GetBool("pretty")
		out, _ := cmd.Flags().GetString("output")

		if len(args) <= 1 {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			spec, err := readSpec(path)
			if err != nil {
				return err
			}
			applyChartDefaults(&spec)

			data, err := marshalProps(bubble.Transform(spec.Props()), pretty)
			if err != nil {
				return err
			}
			return writeOption(out, data)
		}

		// Several input files: one transform per file, bounded
		// concurrency, results emitted in input order.
		results := make([][]byte, len(args))
		g := new(errgroup.Group)
		g.SetLimit(cfg.Limits.MaxBatch)
		for i, path := range args {
			g.Go(func() error {
				spec, err := readSpec(path)
				if err != nil {
					return err
				}
				applyChartDefaults(&spec)
				results[i], err = marshalProps(bubble.Transform(spec.Props()), pretty)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, data := range results {
			target := ""
			if out != "" {
				target = optionPath(out, args[i])
			}
			if err := writeOption(target, data); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	transformCmd.Flags().Bool("pretty", false, "indent the option JSON")
	transformCmd.Flags().StringP("output", "o", "", "output file, or directory for multiple inputs (default: stdout)")
}

// writeOption writes option JSON to path, or to stdout when path is
// empty.
func writeOption(path string, data []byte) error {
	if path == "" {
		os.Stdout.Write(data) //nolint:errcheck
		fmt.Println()
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write option JSON: %w", err)
	}
	return nil
}

// optionPath maps an input spec path into the output directory, e.g.
// specs/gapminder.json -> out/gapminder.option.json.
func optionPath(dir, src string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(dir, base+".option.json")
}

// --- Tooltip Command ---

var tooltipCmd = &cobra.Command{
	Use:   "tooltip",
	Short: "Render the hover tooltip for one point",
	Long: `Render the tooltip markup for a single chart point, using the labels
and number formats of a chart spec. A debugging aid for the hover path.

Examples:
  vizprep tooltip --point '[2100, 69.7, 1380, "India", "Asia"]' < chart.json
  vizprep tooltip --spec chart.json --point '[39000, 82.7, 67, "France", "Europe"]'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pointJSON, _ := cmd.Flags().GetString("point")
		specPath, _ := cmd.Flags().GetString("spec")

		if pointJSON == "" {
			return fmt.Errorf("provide a point with --point '[x, y, size, entity, group]'")
		}

		var p echarts.Point
		if err := json.Unmarshal([]byte(pointJSON), &p); err != nil {
			return fmt.Errorf("invalid point: %w", err)
		}

		spec, err := readSpec(specPath)
		if err != nil {
			return err
		}

		render := bubble.NewTooltipRenderer(spec.FormData)
		fmt.Println(render(p))
		return nil
	},
}

func init() {
	tooltipCmd.Flags().String("point", "", "point as a JSON array: [x, y, size, entity, group]")
	tooltipCmd.Flags().String("spec", "", "chart spec file (default: stdin)")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.Server.Host = host
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		api.Version = version
		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		fmt.Printf("🌐 Starting vizprep API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "bind host (overrides config)")
	serveCmd.Flags().Int("port", 0, "bind port (overrides config)")
}

// --- Export Command ---

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a chart spec as an Excel workbook",
	Long: `Transform a chart spec and write it as an .xlsx workbook: a data
sheet with one row per point plus a native Excel bubble chart.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		spec, err := readSpec(path)
		if err != nil {
			return err
		}
		applyChartDefaults(&spec)
		tp := bubble.Transform(spec.Props())

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			name := spec.FormData.ChartID
			if name == "" {
				name = "chart"
			}
			out = filepath.Join(cfg.Export.OutputDir, name+".xlsx")
		}

		opts := export.Options{Title: mustString(cmd, "title")}
		if sheet := mustString(cmd, "sheet"); sheet != "" {
			opts.SheetName = sheet
		} else {
			opts.SheetName = cfg.Export.SheetName
		}

		if err := export.WriteFile(tp, out, opts); err != nil {
			return err
		}
		fmt.Printf("📦 Exported workbook: %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output .xlsx path (default: <output_dir>/<chart_id>.xlsx)")
	exportCmd.Flags().String("sheet", "", "data sheet name (overrides config)")
	exportCmd.Flags().String("title", "", "chart title")
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// --- Preview Command ---

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Preview a transformed chart in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		spec, err := readSpec(path)
		if err != nil {
			return err
		}
		applyChartDefaults(&spec)

		fmt.Print(preview.Render(bubble.Transform(spec.Props())))
		return nil
	},
}

// --- Schemes Command ---

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List the available color schemes",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range palette.Schemes() {
			colors := palette.Colors(name)
			marker := " "
			if name == cfg.Chart.ColorScheme {
				marker = "*"
			}
			fmt.Printf("%s %-14s %s  %s\n", marker, name, preview.Swatches(colors), strings.Join(colors, " "))
		}
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show effective configuration and setting sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  vizprep — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Printf("  Config File: %s\n", config.ConfigFilePath())
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    API Server:   %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		fmt.Printf("    Session TTL:  %ds\n", cfg.Server.SessionTTL)
		fmt.Printf("    Limits:       %d rows, %d batch, %d req/s\n",
			cfg.Limits.MaxRows, cfg.Limits.MaxBatch, cfg.Limits.RateLimit)
		fmt.Printf("    Export Dir:   %s\n", cfg.Export.OutputDir)
		fmt.Println()

		// Setting provenance
		fmt.Println("  Settings:")
		for _, st := range config.CheckSettings(cfg) {
			fmt.Printf("    %-25s %s (%s)\n", st.Name+":", st.Value, st.Source)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
