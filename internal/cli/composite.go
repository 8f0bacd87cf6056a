package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/draddo11/Holiday/pkg/core/encode"
	"github.com/draddo11/Holiday/pkg/pipeline"
	"github.com/draddo11/Holiday/pkg/travel"
)

// compositeOpts holds the command-line flags for the composite command.
type compositeOpts struct {
	output       string  // output file; default travelsnap.png or .jpg
	landmark     string  // landmark id used as the background
	pick         bool    // choose the landmark interactively
	height       float64 // subject height as a fraction of the background
	anchor       string  // bottom or centered
	noShadow     bool
	noColorMatch bool
	noGlow       bool
	format       string // png or jpeg
	quality      int    // JPEG quality
	noCache      bool
	refresh      bool
}

// compositeCommand creates the composite command, which runs the local
// pipeline on files or URLs.
func (c *CLI) compositeCommand() *cobra.Command {
	var opts compositeOpts

	cmd := &cobra.Command{
		Use:   "composite FOREGROUND [BACKGROUND]",
		Short: "Place a portrait into a landmark photo",
		Long: `Place a portrait into a landmark photo without any AI model.

FOREGROUND and BACKGROUND are local files, http(s) URLs or data URIs.
Without BACKGROUND, --landmark or --pick selects a built-in landmark.`,
		Example: `  travelsnap composite me.png --landmark eiffel-tower
  travelsnap composite me.jpg beach.jpg --height 0.5 --format jpeg -o out.jpg
  travelsnap composite me.png --pick`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bg := ""
			if len(args) == 2 {
				bg = args[1]
			}
			return c.runComposite(cmd.Context(), args[0], bg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default travelsnap.png or .jpg)")
	cmd.Flags().StringVarP(&opts.landmark, "landmark", "l", "", "use a built-in landmark as the background")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the landmark interactively")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "subject height as a fraction of the background (default from config)")
	cmd.Flags().StringVar(&opts.anchor, "anchor", "", "subject anchor: bottom, centered")
	cmd.Flags().BoolVar(&opts.noShadow, "no-shadow", false, "skip the contact shadow")
	cmd.Flags().BoolVar(&opts.noColorMatch, "no-color-match", false, "skip matching the subject to the scene colors")
	cmd.Flags().BoolVar(&opts.noGlow, "no-glow", false, "skip the rim glow")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, jpeg")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	cmd.MarkFlagsMutuallyExclusive("landmark", "pick")
	_ = cmd.RegisterFlagCompletionFunc("landmark", completeLandmarks)

	return cmd
}

func completeLandmarks(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	lms := travel.Default().Landmarks
	ids := make([]string, 0, len(lms))
	for _, lm := range lms {
		ids = append(ids, lm.ID+"\t"+lm.Name)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) runComposite(ctx context.Context, fg, bg string, opts *compositeOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	if bg == "" {
		lm, err := resolveLandmark(opts)
		if err != nil {
			return err
		}
		if lm == nil {
			printInfo("No landmark selected")
			return nil
		}
		bg = lm.ImageURL
		printInfo("Background: %s", StyleHighlight.Render(lm.Name))
	} else if opts.landmark != "" || opts.pick {
		return errors.New("give either BACKGROUND or --landmark/--pick, not both")
	}

	backend, err := openCache(ctx, cfg.Cache, true, opts.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := c.newRunner(backend, newReplicate(cfg.Replicate), cfg.Replicate.RemoverModel)
	defer runner.Close()
	runner.Acquirer.AllowFiles = true

	popts := pipelineOptions(fg, bg, cfg.Composite.HeightFraction, cfg.Composite.Anchor, opts)
	popts.Logger = c.Logger
	depthParams, finishParams := cfg.Composite.Depth, cfg.Composite.Finish
	popts.Depth, popts.Finish = &depthParams, &finishParams
	if popts.Format == "" {
		popts.Format = cfg.Composite.Format
	}
	if popts.Quality == 0 {
		popts.Quality = cfg.Composite.Quality
	}
	margin := cfg.Composite.MarginFraction
	popts.MarginFraction = &margin

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, "Compositing...")
	spin.Start()
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spin.StopWithError("Composite failed")
		return err
	}
	spin.Stop()
	prog.done("Composited")

	out := opts.output
	if out == "" {
		out = appName + encode.Ext(result.Format)
	}
	if err := os.WriteFile(out, result.Image, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Wrote %dx%d %s", result.Width, result.Height, result.Format)
	printFile(out)
	printResult(result)
	return nil
}

// pipelineOptions maps the flags onto pipeline options. Zero flags take
// the given defaults.
func pipelineOptions(fg, bg string, height float64, anchor string, opts *compositeOpts) pipeline.Options {
	p := pipeline.Options{
		Foreground:     fg,
		Background:     bg,
		HeightFraction: height,
		Anchor:         anchor,
		NoShadow:       opts.noShadow,
		NoColorMatch:   opts.noColorMatch,
		NoGlow:         opts.noGlow,
		Format:         strings.ToLower(opts.format),
		Quality:        opts.quality,
		Refresh:        opts.refresh,
	}
	if opts.height != 0 {
		p.HeightFraction = opts.height
	}
	if opts.anchor != "" {
		p.Anchor = opts.anchor
	}
	return p
}

// resolveLandmark returns the landmark named by --landmark or chosen with
// --pick. It returns nil when the picker is dismissed.
func resolveLandmark(opts *compositeOpts) (*travel.Landmark, error) {
	data := travel.Default()
	switch {
	case opts.landmark != "":
		lm, ok := data.Landmark(opts.landmark)
		if !ok {
			return nil, fmt.Errorf("unknown landmark %q (see: %s landmarks)", opts.landmark, appName)
		}
		return &lm, nil
	case opts.pick:
		final, err := tea.NewProgram(NewLandmarkListModel(data.Landmarks)).Run()
		if err != nil {
			return nil, fmt.Errorf("landmark picker: %w", err)
		}
		return final.(LandmarkListModel).Selected, nil
	}
	return nil, errors.New("missing BACKGROUND (or use --landmark / --pick)")
}
