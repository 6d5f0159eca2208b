package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
)

const tailwindConfig = `module.exports = {
  purge: [
    './templates/*.html',
    './content/**/*.md',
  ],
  darkMode: false,
  theme: {
    extend: {},
    fontFamily: {
      'sans': ['Nunito\\ Sans', 'sans-serif'],
      'serif': ['Lora', 'serif']
    }
  },
  variants: {
    borderWidth: ['responsive', 'hover'],
  },
  plugins: [],
}
`

// scaffold is written by the new command, relative to the site root.
var scaffold = []struct {
	file    string
	content string
}{
	{"config.toml", "url = \"http://localhost:8080\"\ntitle = \"My website\"\ncdn_url = \"https://cdn.example.com/blog/\"\n"},
	{"templates/default.html", "<!DOCTYPE html>\n<head>\n\t<title>{{ .Title }}</title>\n</head>\n<body>\n{{ .Content }}\n</body>\n</html>\n"},
	{"content/index.md", "+++\ntitle = \"Welcome!\"\n+++\n\nWelcome to my website.\n\n{{ image_from_cdn \"welcome.png\" \"Welcome\" }}\n"},
	{"tailwind.config.js", tailwindConfig},
}

type options struct {
	rootDir    string
	configFile string
	outputDir  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{configFile: "config.toml", outputDir: "build"}

	root := &cobra.Command{
		Use:   "cdnblog",
		Short: "cdnblog - a static site generator for blogs with CDN-hosted images",
		Long: `cdnblog builds a static site from Markdown, Djot or HTML content and html/template layouts.

Content may call {{ image_from_cdn "path/to/file.png" "Alt text" }} to embed
an image hosted under the cdn_url from the configuration file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setVerbose(opts.verbose)
		},
	}

	root.PersistentFlags().StringVarP(&opts.rootDir, "root", "r", "", "Directory to use as root of project (default: .)")
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", opts.configFile, "Path to configuration file, relative to the root")
	root.PersistentFlags().StringVarP(&opts.outputDir, "output", "o", opts.outputDir, "Output directory, replaced on every build")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log build timings")

	root.AddCommand(newBuildCmd(opts), newServeCmd(opts), newNewCmd(opts))
	return root
}

func newBuildCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Deletes the output directory if there is one and builds the site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildSite(opts.rootDir, opts.configFile, opts.outputDir)
		},
	}
}

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Builds the site and starts an HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := buildSite(opts.rootDir, opts.configFile, opts.outputDir); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if watch {
				dirs := []string{
					filepath.Join(opts.rootDir, "content"),
					filepath.Join(opts.rootDir, "templates"),
					filepath.Join(opts.rootDir, "public"),
				}
				go func() {
					err := watchDirs(ctx, dirs, func() {
						if err := buildSite(opts.rootDir, opts.configFile, opts.outputDir); err != nil {
							log.Err("rebuild failed: %s", err)
						}
					})
					if err != nil {
						log.Err("error watching directories: %s", err)
					}
				}()
			}

			srv := &http.Server{Addr: addr, Handler: http.FileServer(http.Dir(opts.outputDir))}
			go func() {
				<-ctx.Done()
				_ = srv.Shutdown(context.Background())
			}()

			log.Info("Listening on http://%s", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Address to listen on")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild the site when source files change")
	return cmd
}

func newNewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Creates a new site structure in the given directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createDirectoryStructure(opts.rootDir)
		},
	}
}

// createDirectoryStructure fails rather than overwrite an existing site.
func createDirectoryStructure(rootDir string) error {
	if rootDir != "" {
		if err := os.MkdirAll(rootDir, 0755); err != nil {
			return err
		}
	}
	for _, dir := range []string{"content", "templates", "public"} {
		if err := os.Mkdir(filepath.Join(rootDir, dir), 0755); err != nil {
			return err
		}
	}
	for _, f := range scaffold {
		if err := os.WriteFile(filepath.Join(rootDir, f.file), []byte(f.content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
