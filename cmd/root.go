package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ytget/photo-gallery/internal/config"
	"github.com/ytget/photo-gallery/internal/platform"
	"github.com/ytget/photo-gallery/internal/ui"
)

const (
	AppID = "com.ytget.photo-gallery"

	WindowWidth  = 900
	WindowHeight = 700
)

// Environment variables read after .env is loaded
const (
	EnvSource   = "PHOTO_GALLERY_SOURCE"
	EnvLogLevel = "PHOTO_GALLERY_LOG_LEVEL"
)

type rootOptions struct {
	columns    int
	topMargin  float32
	closeText  string
	tilt       bool
	manifest   string
	dir        string
	selectedID string
	parallel   int
}

// NewRootCmd builds the photo-gallery command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "photo-gallery",
		Short: "Thumbnail grid with a full-screen image viewer",
		Long: `photo-gallery shows the images of a folder or a YAML manifest as a
thumbnail grid. Tapping a thumbnail grows it into a full-screen viewer;
swiping changes the photo and closing shrinks it back into its cell.`,
		Example: `  # Browse a folder
  photo-gallery --dir ~/Pictures/holidays

  # Open a manifest in three columns
  photo-gallery --manifest gallery.yaml --columns 3`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			configureLogging(os.Getenv(EnvLogLevel))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGallery(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.columns, "columns", "c", config.DefaultColumns, "Number of grid columns (1-8)")
	flags.Float32Var(&opts.topMargin, "top-margin", config.DefaultTopMargin, "Offset added to measured cell positions")
	flags.StringVar(&opts.closeText, "close-text", "", "Label of the viewer close button")
	flags.BoolVar(&opts.tilt, "tilt", config.DefaultEnableTilt, "Close the viewer with a vertical swipe")
	flags.StringVarP(&opts.manifest, "manifest", "m", "", "YAML manifest listing the images")
	flags.StringVarP(&opts.dir, "dir", "d", "", "Folder to scan for images")
	flags.StringVar(&opts.selectedID, "selected", "", "Id of the image to mark as selected")
	flags.IntVar(&opts.parallel, "parallel", config.DefaultMaxParallel, "Maximum parallel image size probes (1-10)")
	cmd.MarkFlagsMutuallyExclusive("manifest", "dir")

	return cmd
}

func runGallery(cmd *cobra.Command, opts *rootOptions) error {
	a := app.NewWithID(AppID)
	settings := config.NewSettings(a)
	applyFlags(cmd, opts, settings)

	source, err := resolveSource(opts, settings)
	if err != nil {
		return err
	}

	w := a.NewWindow(AppID)
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	root := ui.NewRootUI(w, settings, platform.NewProber())
	root.SetSelectedImageID(opts.selectedID)
	if source != "" {
		if err := root.LoadSource(source); err != nil {
			slog.Error("Failed to load gallery source", "source", source, "error", err)
		}
	}

	go func() {
		<-cmd.Context().Done()
		fyne.Do(a.Quit)
	}()

	w.ShowAndRun()
	return nil
}

// applyFlags stores explicitly passed flags so they persist across runs
func applyFlags(cmd *cobra.Command, opts *rootOptions, settings *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("columns") {
		settings.SetColumns(opts.columns)
	}
	if flags.Changed("top-margin") {
		settings.SetTopMargin(opts.topMargin)
	}
	if flags.Changed("close-text") {
		settings.SetCloseText(opts.closeText)
	}
	if flags.Changed("tilt") {
		settings.SetEnableTilt(opts.tilt)
	}
	if flags.Changed("parallel") {
		settings.SetMaxParallelProbes(opts.parallel)
	}
}

// resolveSource picks the folder or manifest to open: flags first, then the
// environment, then the last opened source, then the user's Pictures folder.
func resolveSource(opts *rootOptions, settings *config.Settings) (string, error) {
	switch {
	case opts.manifest != "":
		return checkSource(opts.manifest)
	case opts.dir != "":
		return checkSource(opts.dir)
	}

	if env := os.Getenv(EnvSource); env != "" {
		return checkSource(env)
	}
	if last := settings.GetLastSource(); last != "" {
		if _, err := os.Stat(last); err == nil {
			return last, nil
		}
	}
	if pictures, err := platform.GetHomePicturesDir(); err == nil {
		if _, err := os.Stat(pictures); err == nil {
			return pictures, nil
		}
	}
	return "", nil
}

func checkSource(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("gallery source %s: %w", path, err)
	}
	return path, nil
}

// configureLogging sets the default slog level from a name
func configureLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
