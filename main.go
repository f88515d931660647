package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tocview/internal/cli"
	"tocview/internal/config"
	"tocview/internal/document"
	"tocview/internal/eventbus"
	"tocview/internal/export"
	"tocview/internal/store"
	"tocview/internal/ui"
	"tocview/internal/watch"
)

type rootOptions struct {
	configPath string
	noOutline  bool
	offset     int
	side       string
	selector   string
}

func main() {
	if err := newRootCommand(&rootOptions{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tocview [files|dirs|globs...]",
		Short: "Read Markdown and HTML documents with an outline that follows your scroll position.",
		Example: `
tocview README.md
tocview docs/
tocview 'docs/**/*.md' --side left
`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := cli.ExpandArgs(args)
			if err != nil {
				return err
			}
			svc, cfg := loadConfig(opts.configPath)
			applyFlags(cmd, opts, cfg)

			// Not a terminal: print the outlines instead
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return printOutlines(color.Output, files, cfg)
			}
			return runReader(files, svc, cfg, opts.noOutline)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: ./"+config.FileName+" or the user config)")
	flags.StringVar(&opts.selector, "selector", "", "CSS selector for the HTML content region")
	cmd.Flags().BoolVar(&opts.noOutline, "no-outline", false, "Start without the outline")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Lines below the top of the pane that count as read")
	cmd.Flags().StringVar(&opts.side, "side", "", "Outline side: left or right")

	cmd.AddCommand(newOutlineCommand(opts), newExportCommand())
	return cmd
}

func newOutlineCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "outline FILE...",
		Short: "Print the outline of each document",
		Example: `
tocview outline README.md
tocview outline 'docs/*.html' --selector article
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := cli.ExpandArgs(args)
			if err != nil {
				return err
			}
			_, cfg := loadConfig(root.configPath)
			if cmd.Flags().Changed("selector") {
				cfg.HTML.ContentSelector = root.selector
			}
			return printOutlines(cmd.OutOrStdout(), files, cfg)
		},
	}
}

func newExportCommand() *cobra.Command {
	var output, style string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Render a Markdown document to standalone HTML with a linked table of contents",
		Example: `
tocview export README.md -o README.html
tocview export guide.md --style dracula > guide.html
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := export.New(style)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return exp.File(args[0], w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVar(&style, "style", "github", "Code highlighting style")
	return cmd
}

// loadConfig resolves and loads the config, falling back to defaults on error
func loadConfig(path string) (config.ConfigService, *config.Config) {
	var svc config.ConfigService
	if path != "" {
		svc = config.NewConfigServiceAt(path)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		svc = config.Resolve(wd)
	}

	cfg, err := svc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
	}
	return svc, cfg
}

func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("offset") && opts.offset >= 0 {
		cfg.Outline.ReferenceOffset = opts.offset
	}
	if flags.Changed("side") && (opts.side == "left" || opts.side == "right") {
		cfg.Outline.Side = opts.side
	}
	if flags.Changed("selector") {
		cfg.HTML.ContentSelector = opts.selector
	}
}

func printOutlines(w io.Writer, files []string, cfg *config.Config) error {
	opts := document.Options{ContentSelector: cfg.HTML.ContentSelector}
	for i, path := range files {
		doc, err := document.Load(path, opts)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := cli.PrintOutline(w, doc); err != nil {
			return err
		}
	}
	return nil
}

func runReader(files []string, svc config.ConfigService, cfg *config.Config, noOutline bool) error {
	// Set up logging
	logFile, err := openLogFile()
	if err != nil {
		log.SetOutput(io.Discard)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	bus := eventbus.New()
	defer bus.Close()

	var positions store.Positions
	if cfg.Reader.RememberPosition {
		positions, err = store.Open(store.DefaultDir())
		if err != nil {
			log.Printf("Reading positions disabled: %v", err)
		}
	}

	log.Printf("Opening %d document(s)", len(files))
	model := ui.NewModel(ui.Options{
		Files:     files,
		Config:    cfg,
		Bus:       bus,
		Positions: positions,
		NoOutline: noOutline,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	model.SetProgram(p)

	// Reload documents edited while they are open
	watcher, err := watch.New(bus, watch.DefaultDelay)
	if err != nil {
		log.Printf("File watching disabled: %v", err)
	} else {
		go watcher.Run(ctx)
		defer watcher.Close()

		bus.Subscribe(eventbus.EventDocumentLoaded, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.DocumentLoadedEvent); ok {
				if err := watcher.Add(event.Document.Path); err != nil {
					log.Printf("Failed to watch %s: %v", event.Document.Path, err)
				}
			}
		})
		bus.Subscribe(eventbus.EventDocumentChanged, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}

	// Run the UI
	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("error running program: %w", err)
	}
	log.Printf("UI exited normally")

	// Remember whether the outline was left open
	if !noOutline && model.OutlineVisible() != cfg.Outline.Visible {
		if err := saveOutlineVisible(svc, model.OutlineVisible()); err != nil {
			log.Printf("Failed to save config: %v", err)
		} else {
			log.Printf("Config saved to %s", svc.Path())
		}
	}
	return nil
}

// saveOutlineVisible stores the outline visibility on top of the file
// config, leaving command line overrides out of it
func saveOutlineVisible(svc config.ConfigService, visible bool) error {
	cfg, err := svc.Load()
	if err != nil {
		return err
	}
	cfg.Outline.Visible = visible
	return svc.Save(cfg)
}

// openLogFile opens tocview.log in the user cache dir, or the working directory
func openLogFile() (*os.File, error) {
	dir := "."
	if cache, err := os.UserCacheDir(); err == nil {
		dir = filepath.Join(cache, "tocview")
		if err := os.MkdirAll(dir, 0755); err != nil {
			dir = "."
		}
	}
	return os.OpenFile(filepath.Join(dir, "tocview.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}
