package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kingrea/autoload/builder"
	"github.com/kingrea/autoload/container"
	"github.com/kingrea/autoload/include"
	"github.com/kingrea/autoload/internal/config"
	"github.com/kingrea/autoload/internal/logging"
	"github.com/kingrea/autoload/internal/tui"
	"github.com/kingrea/autoload/manager"
	"github.com/kingrea/autoload/resolver"
	"github.com/kingrea/autoload/script"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

type rootOptions struct {
	configPath string
	verbose    bool
	logDir     string
}

// session is the state every subcommand starts from: the parsed map and a
// logger.
type session struct {
	file     *config.File
	logger   *log.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "autoload",
		Short:         "Resolve namespaced symbols to source files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "namespace map file (default: .autoload/config.* in the working directory)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every executed artifact")
	root.PersistentFlags().StringVar(&opts.logDir, "log-dir", "", "append logs to <dir>/"+logging.LogFileName+" instead of stderr")

	root.AddCommand(
		newInitCmd(),
		newTableCmd(opts),
		newResolveCmd(opts),
		newRunCmd(opts),
		newBrowseCmd(opts),
	)
	return root
}

func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	path := strings.TrimSpace(o.configPath)
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		path, err = config.Find(cwd)
		if err != nil {
			return nil, err
		}
	}
	file, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	s := &session{file: file, closeLog: func() error { return nil }}
	if o.logDir != "" {
		fl, err := logging.NewFile(o.logDir, o.verbose)
		if err != nil {
			return nil, err
		}
		s.logger = fl.Logger
		s.closeLog = fl.Close
	} else {
		s.logger = logging.New(cmd.ErrOrStderr(), o.verbose)
	}
	s.logger.Debug("namespace map loaded", "path", file.Path, "namespaces", len(file.Namespaces))
	return s, nil
}

func (s *session) close() {
	if err := s.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "close log: %v\n", err)
	}
}

// template returns a builder carrying the map's include path and extension
// but no namespaces.
func (s *session) template(req include.Requirer, fs afero.Fs) *builder.Builder {
	sp := include.NewSearchPath(fs, s.file.IncludePath...)
	return builder.New(req, builder.WithResolverOptions(
		resolver.WithSearchPath(sp),
		resolver.WithExtension(s.file.Extension),
	))
}

// builder returns a template preloaded with the map's namespaces.
func (s *session) builder(req include.Requirer, fs afero.Fs) *builder.Builder {
	b := s.template(req, fs)
	for _, e := range s.file.Entries() {
		b.Add(e.Namespace, e.Path, e.Prepend)
	}
	return b
}

func (s *session) psr4(req include.Requirer) (*resolver.Psr4, error) {
	product, err := s.builder(req, afero.NewOsFs()).Build()
	if err != nil {
		return nil, err
	}
	psr4, ok := product.(*resolver.Psr4)
	if !ok {
		return nil, fmt.Errorf("unexpected loader %T", product)
	}
	return psr4, nil
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .autoload/config.yaml in the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determine working directory: %w", err)
			}
			path, err := config.Init(cwd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("namespace map: ")+path)
			return nil
		},
	}
}

func newTableCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the namespace table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			printTable(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func printTable(w io.Writer, s *session) {
	table := s.builder(nil, afero.NewOsFs()).Table()
	fmt.Fprintln(w, titleStyle.Render("Namespaces")+pathStyle.Render(" ("+s.file.Path+")"))
	for _, ns := range table.Namespaces() {
		label := ns
		if label == "" {
			label = "(root)"
		}
		fmt.Fprintf(w, "  %s\n", label)
		for _, p := range table.Paths(ns) {
			fmt.Fprintf(w, "    %s\n", pathStyle.Render(p))
		}
	}
	if len(s.file.IncludePath) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Include path"))
		for _, p := range s.file.IncludePath {
			fmt.Fprintf(w, "  %s\n", pathStyle.Render(p))
		}
	}
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "resolve NAME...",
		Short: "Print the file each name resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			psr4, err := s.psr4(nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			unresolved := 0
			for _, name := range args {
				if trace {
					probes := psr4.Trace(name)
					fmt.Fprintln(out, tui.RenderTrace(name, probes))
					if len(probes) == 0 || !probes[len(probes)-1].Found {
						unresolved++
					}
					continue
				}
				file, ok := psr4.Resolve(name)
				if !ok {
					unresolved++
					fmt.Fprintf(out, "%s\t%s\n", name, missingStyle.Render("not found"))
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", name, file)
			}
			if unresolved > 0 {
				return fmt.Errorf("%d of %d names unresolved", unresolved, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&trace, "trace", "t", false, "show every candidate examined")
	return cmd
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run NAME...",
		Short: "Resolve and execute each name in the embedded interpreter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			fs := afero.NewOsFs()
			rt, err := script.New(script.WithFs(fs), script.WithLogger(s.logger))
			if err != nil {
				return err
			}
			c := container.New(s.template(include.Once(rt), fs), manager.New(rt.Chain()))
			defer c.Manager().Close()
			id, err := c.Setup(s.file.Entries())
			if err != nil {
				return err
			}
			s.logger.Debug("loader registered", "id", id)

			out := cmd.OutOrStdout()
			unresolved := 0
			for _, name := range args {
				ok, err := rt.Lookup(name)
				if err != nil {
					return fmt.Errorf("load %s: %w", name, err)
				}
				if !ok {
					unresolved++
					fmt.Fprintf(out, "%s\t%s\n", name, missingStyle.Render("not defined"))
					continue
				}
				origin, _ := rt.Origin(name)
				fmt.Fprintf(out, "%s\t%s\n", name, okStyle.Render("defined by ")+origin)
			}
			if symbols := rt.Symbols(); len(symbols) > 0 {
				s.logger.Info("symbols provided", "count", len(symbols), "names", strings.Join(symbols, ", "))
			}
			if unresolved > 0 {
				return fmt.Errorf("%d of %d names not defined", unresolved, len(args))
			}
			return nil
		},
	}
}

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the namespace table and trace names interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			psr4, err := s.psr4(nil)
			if err != nil {
				return err
			}
			return tui.Run(psr4.Table(), psr4)
		},
	}
}
