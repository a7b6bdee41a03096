package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nao1215/imgshield/internal/config"
	"github.com/nao1215/imgshield/internal/faces"
	"github.com/nao1215/imgshield/internal/model"
	"github.com/nao1215/imgshield/internal/redact"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// redactSuffix is appended to the file name of each redacted image when
// several images are redacted at once.
const redactSuffix = "-redacted.png"

// NewRedactCmd creates the redact command.
func NewRedactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redact [image...]",
		Short: "Blur or black out regions of an image",
		Long: `Redact covers regions of an image and exports the result as PNG.

Images wider than --max-width are scaled down first; region coordinates are
in pixels of the scaled image. Regions no larger than 10x10 pixels are ignored.
The exported PNG carries no metadata from the source image.

Regions come from three sources, applied in this order:
- Faces found with a pigo cascade (--faces-cascade), covered with opaque-blur
- Rectangles given with --region x,y,w,h or x,y,w,h:tool
- An event script (--events) replaying pointer drags:

    tool blackout
    down 40 40
    move 200 120
    up
    strength 25
    clear

Tools are blur (glass blur), opaque-blur and blackout. Changing the strength
updates every existing blur region.

Examples:
  # Black out a region
  imgshield redact -r 10,10,300,40:blackout screenshot.png

  # Replay drags and write to a specific file
  imgshield redact --events drags.txt -o safe.png screenshot.png

  # Blur faces in every photo, writing photo-redacted.png files to out/
  imgshield redact --faces-cascade facefinder -d out *.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRedactCmd,
	}

	cmd.Flags().StringArrayP("region", "r", nil,
		"Region to redact as x,y,w,h or x,y,w,h:tool (repeatable)")
	cmd.Flags().StringP("events", "s", "",
		"Event script file replayed on every image")
	cmd.Flags().StringP("tool", "t", model.EffectGlassBlur.String(),
		"Default tool: blur, opaque-blur or blackout")
	cmd.Flags().Int("strength", model.DefaultBlurStrength,
		"Blur strength of new blur regions")
	cmd.Flags().Int("max-width", redact.DefaultMaxWidth,
		"Widest surface; larger images are scaled down")
	cmd.Flags().String("faces-cascade", "",
		"pigo face cascade file; detected faces become opaque-blur regions")

	cmd.Flags().StringP("output", "o", redact.DefaultExportName,
		"Output file for a single image")
	cmd.Flags().StringP("output-dir", "d", ".",
		"Output directory when redacting several images")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of images redacted in parallel")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .imgshield in current or home directory)")

	return cmd
}

// redactJob is the work shared by every image of one redact command.
type redactJob struct {
	cfg      *config.Config
	regions  []string
	events   redact.EventList
	detector *faces.Detector
	logger   *slog.Logger

	mu  sync.Mutex
	out io.Writer
}

// runRedactCmd executes the redact command.
func runRedactCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildRedactConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	job := &redactJob{cfg: cfg, logger: logger, out: cmd.OutOrStdout()}

	job.regions, err = cmd.Flags().GetStringArray("region")
	if err != nil {
		return err
	}
	for _, r := range job.regions {
		if _, err := model.ParseRegion(r, cfg.Tool, cfg.BlurStrength); err != nil {
			return err
		}
	}

	eventsPath, err := cmd.Flags().GetString("events")
	if err != nil {
		return err
	}
	if eventsPath != "" {
		job.events, err = loadEventScript(eventsPath)
		if err != nil {
			return err
		}
	}

	if cfg.FacesCascade != "" {
		job.detector, err = faces.Load(cfg.FacesCascade)
		if err != nil {
			return err
		}
	}

	outputs, err := redactOutputs(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, path := range args {
		g.Go(func() error {
			return job.redactFile(ctx, path, outputs[i])
		})
	}
	return g.Wait()
}

// buildRedactConfig creates a Config from the configuration file and flags.
func buildRedactConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("tool") {
		name, err := cmd.Flags().GetString("tool")
		if err != nil {
			return nil, err
		}
		cfg.Tool, err = model.ParseEffectType(name)
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("strength") {
		cfg.BlurStrength, err = cmd.Flags().GetInt("strength")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("max-width") {
		cfg.MaxWidth, err = cmd.Flags().GetInt("max-width")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("faces-cascade") {
		cfg.FacesCascade, err = cmd.Flags().GetString("faces-cascade")
		if err != nil {
			return nil, err
		}
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Images = args
	return cfg, nil
}

// loadEventScript parses the event script at path.
func loadEventScript(path string) (redact.EventList, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to open event script: %w", err)
	}
	defer f.Close()
	return redact.ParseScript(f)
}

// redactOutputs returns the output path of every image. A single image is
// written to --output; several images are written to --output-dir with
// redactSuffix appended to their base name.
func redactOutputs(cmd *cobra.Command, images []string) ([]string, error) {
	if len(images) == 1 {
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	if cmd.Flags().Changed("output") {
		return nil, errors.New("--output takes a single image; use --output-dir for several images")
	}
	dir, err := cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	outputs := make([]string, len(images))
	seen := make(map[string]string, len(images))
	for i, path := range images {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base)) + redactSuffix
		out := filepath.Join(dir, name)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, path, out)
		}
		seen[out] = path
		outputs[i] = out
	}
	return outputs, nil
}

// redactFile runs one session over one image and exports the result.
func (j *redactJob) redactFile(ctx context.Context, path, output string) error {
	img, err := redact.Open(path)
	if err != nil {
		return err
	}

	session := redact.NewSession(
		redact.WithLogger(j.logger.With("image", filepath.Base(path))),
		redact.WithMaxWidth(j.cfg.MaxWidth),
		redact.WithTool(j.cfg.Tool),
		redact.WithBlurStrength(j.cfg.BlurStrength),
	)
	session.LoadImage(img)

	if j.detector != nil {
		j.addFaces(session, img)
	}

	for _, s := range j.regions {
		r, err := model.ParseRegion(s, session.Tool(), session.BlurStrength())
		if err != nil {
			return err
		}
		if !session.AddRegion(r) {
			j.logger.Warn("region too small, ignored", "image", path, "region", s)
		}
	}

	if len(j.events) > 0 {
		if err := session.Run(ctx, j.events); err != nil {
			return fmt.Errorf("redaction of %s cancelled: %w", path, err)
		}
	}

	return j.export(session, path, output)
}

// addFaces turns detected faces into opaque-blur regions.
func (j *redactJob) addFaces(session *redact.Session, img image.Image) {
	dets := j.detector.Detect(img)
	surface := session.Surface().Bounds()
	scale := float64(surface.Dx()) / float64(img.Bounds().Dx())

	added := 0
	for _, r := range faces.Regions(dets, surface, scale, model.EffectOpaqueBlur, session.BlurStrength()) {
		if session.AddRegion(r) {
			added++
		}
	}
	j.logger.Info("faces detected", "session", session.ID(), "detections", len(dets), "regions", added)
}

// export writes the session's surface to output.
func (j *redactJob) export(session *redact.Session, path, output string) error {
	f, err := createOutputFile(output)
	if err != nil {
		return err
	}

	ok, err := session.Export(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	if !ok {
		_ = os.Remove(output) //nolint:errcheck // nothing was written
		j.logger.Warn("no image loaded, nothing exported", "image", path)
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	fmt.Fprintf(j.out, "Saved %s (%d regions): %s\n", path, len(session.Regions()), output)
	return nil
}
