package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"phosmap/config"
	"phosmap/diagram"
	"phosmap/editor"
	"phosmap/export"
	"phosmap/layout"
	"phosmap/render"
	"phosmap/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "phosmap",
		Short: "Interactive pathway diagram viewer for proteomics fold-change data",
		Long: `phosmap renders a pathway layout document, lets you edit the figure
interactively (move, group, align, annotate) and exports the result as a
reproducible layout or a publication SVG.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "configuration file (yaml)")

	root.AddCommand(newViewCommand(&cfgFile))
	root.AddCommand(newExportCommand(&cfgFile))
	root.AddCommand(newServeCommand(&cfgFile))
	root.AddCommand(newValidateCommand())
	return root
}

func loadConfig(cfgFile string) (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}

// loadDocument loads the layout document per the configured fallback policy.
// The returned banner is non-empty when the built-in sample was substituted.
func loadDocument(cfg *config.Config, path string, log *zap.Logger) (*diagram.Document, string, error) {
	if path == "" {
		path = cfg.Document
	}
	doc, err := layout.Load(path)
	if err != nil {
		if cfg.Fallback == config.FallbackFail {
			return nil, "", fmt.Errorf("load %s: %w", path, err)
		}
		log.Warn("falling back to built-in document", zap.String("path", path), zap.Error(err))
		doc = layout.Fallback()
		doc.Settings = cfg.Display.Apply(doc.Settings)
		return doc, layout.FallbackBanner, nil
	}
	doc.Settings = cfg.Display.Apply(doc.Settings)
	return doc, "", nil
}

func newViewCommand(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [document.json]",
		Short: "Open the interactive terminal viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			path := cfg.Document
			if len(args) == 1 {
				path = args[0]
			}
			// The TUI owns the terminal; keep the logger quiet.
			log := zap.NewNop()
			doc, banner, err := loadDocument(cfg, path, log)
			if err != nil {
				return err
			}
			session := editor.NewSession(doc, 640, 480, log)
			session.SetBanner(banner)
			return render.Run(session, path, log)
		},
	}
	return cmd
}

func newExportCommand(cfgFile *string) *cobra.Command {
	var (
		format string
		output string
		slot   int
	)
	cmd := &cobra.Command{
		Use:   "export [document.json]",
		Short: "Export the layout document or the rendered SVG figure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync()

			path := cfg.Document
			if len(args) == 1 {
				path = args[0]
			}
			doc, _, err := loadDocument(cfg, path, log)
			if err != nil {
				return err
			}

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			var exp export.Exporter
			if f == export.FormatSVG {
				exp = export.NewSVGExporter(slot)
			} else if exp, err = export.NewExporter(f); err != nil {
				return err
			}

			data, err := exp.Export(doc)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(path, ".json") + exp.FileExtension()
			}
			if output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(output, data, 0644)
		},
	}
	formats := make([]string, 0, len(export.AvailableFormats()))
	for _, f := range export.AvailableFormats() {
		formats = append(formats, string(f))
	}
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "export format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file ('-' for stdout)")
	cmd.Flags().IntVar(&slot, "slot", 1, "fold-change comparison slot for box fills")
	return cmd
}

func newServeCommand(cfgFile *string) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve [document.json]",
		Short: "Serve the layout document over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync()

			path := cfg.Document
			if len(args) == 1 {
				path = args[0]
			}
			doc, _, err := loadDocument(cfg, path, log)
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Listen
			}
			return server.New(doc, path, log).Start(listen)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate document.json",
		Short: "Validate a layout document against the model invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := layout.Load(args[0])
			var malformed *diagram.MalformedLayoutError
			if errors.As(err, &malformed) {
				return fmt.Errorf("%s: %w", args[0], malformed)
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s: ok\n", args[0])
			return nil
		},
	}
}
