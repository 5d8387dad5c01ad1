package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"morphengine/pkg/config"
	"morphengine/pkg/imageio"
	"morphengine/pkg/morphology"
	"morphengine/pkg/reference"
	"morphengine/pkg/visualization"
)

type applyOptions struct {
	input     string
	output    string
	operation string
}

func newApplyCommand(global *globalOptions) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a morphological operation to an image file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := global.load()
			if err != nil {
				return err
			}
			overrideFromFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runApply(opts, cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "Input image")
	flags.StringVarP(&opts.output, "output", "o", "output.png", "Output image (.png or .jpg)")
	flags.StringVar(&opts.operation, "op", "dilate", "Operation: dilate, erode, open or close")
	flags.String("shape", "", "Structuring element shape (rect, cross, ellipse)")
	flags.Int("size", 0, "Square structuring element size (odd)")
	flags.String("border", "", "Border mode (constant, replicate, reflect101, neutral)")
	flags.Int("iterations", 0, "Number of iterations")
	flags.Int("workers", 0, "Worker goroutines per pass")
	flags.Uint8("threshold", 0, "Binarize the input at this level (0 keeps grayscale)")
	flags.Int("scale", 0, "Multiply output values before saving")
	flags.String("frames", "", "Directory receiving one PNG per probe step")
	flags.String("video", "", "Video file receiving the probe steps (gocv builds only)")
	cmd.MarkFlagRequired("input")

	return cmd
}

// overrideFromFlags copies explicitly set flags over the config file values
func overrideFromFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("shape") {
		cfg.Element.Shape, _ = flags.GetString("shape")
	}
	if flags.Changed("size") {
		size, _ := flags.GetInt("size")
		cfg.Element.Rows, cfg.Element.Cols = size, size
	}
	if flags.Changed("border") {
		cfg.Engine.Border, _ = flags.GetString("border")
	}
	if flags.Changed("iterations") {
		cfg.Engine.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("threshold") {
		cfg.Input.Threshold, _ = flags.GetUint8("threshold")
	}
	if flags.Changed("scale") {
		cfg.Output.Scale, _ = flags.GetInt("scale")
	}
	if flags.Changed("frames") {
		cfg.Output.FrameDir, _ = flags.GetString("frames")
	}
	if flags.Changed("video") {
		cfg.Output.VideoPath, _ = flags.GetString("video")
	}
}

// resultFileName is the copy of the result saved next to the probe frames
const resultFileName = "result.png"

func runApply(opts *applyOptions, cfg *config.Config, logger *logrus.Logger) error {
	if !imageio.IsWritable(opts.output) {
		return fmt.Errorf("unsupported output format %s, use .png or .jpg", opts.output)
	}

	op, err := morphology.ParseOperation(opts.operation)
	if err != nil {
		return err
	}
	se, err := cfg.StructuringElement()
	if err != nil {
		return err
	}
	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}

	src, err := imageio.Load(opts.input, cfg.Input.Threshold)
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"input":  opts.input,
		"width":  src.Width(),
		"height": src.Height(),
	}).Info("Image loaded")

	sinks, err := buildObservers(cfg, logger)
	if err != nil {
		return err
	}
	if len(sinks.observers) > 0 {
		engineOpts = append(engineOpts, morphology.WithObserver(func(step morphology.ProbeStep) {
			for _, observe := range sinks.observers {
				observe(step)
			}
		}))
	}
	engineOpts = append(engineOpts, morphology.WithLogger(logger))

	start := time.Now()
	out, err := morphology.New(engineOpts...).Apply(op, src, se)
	if err != nil {
		return fmt.Errorf("%v failed: %w", op, err)
	}
	elapsed := time.Since(start)

	if err := sinks.finish(); err != nil {
		logger.WithError(err).Warn("Probe recording incomplete")
	}

	if err := imageio.Save(opts.output, out, cfg.Output.Scale); err != nil {
		return fmt.Errorf("failed to save output: %w", err)
	}
	if sinks.recorder != nil {
		if err := sinks.recorder.SaveGrid(resultFileName, out); err != nil {
			logger.WithError(err).Warn("Failed to save result next to probe frames")
		}
	}

	logger.WithFields(logrus.Fields{
		"op":       op.String(),
		"element":  fmt.Sprintf("%s %dx%d", cfg.Element.Shape, se.Rows(), se.Cols()),
		"output":   opts.output,
		"duration": elapsed.String(),
		"on":       out.CountNonZero(),
	}).Info("Morphology completed")

	return nil
}

// probeSinks holds the configured observers. finish flushes them and reports
// every sink error.
type probeSinks struct {
	observers []morphology.Observer
	recorder  *visualization.FrameRecorder
	closers   []func() error
}

func (s *probeSinks) finish() error {
	var errs []error
	for _, closeFn := range s.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

// buildObservers creates the configured probe sinks
func buildObservers(cfg *config.Config, logger *logrus.Logger) (*probeSinks, error) {
	sinks := &probeSinks{}

	renderer := visualization.NewFrameRenderer(cfg.Output.FrameSize)
	renderer.Scale = cfg.Output.Scale

	if cfg.Output.FrameDir != "" {
		recorder, err := visualization.NewFrameRecorder(cfg.Output.FrameDir, renderer, logger)
		if err != nil {
			return nil, err
		}
		sinks.recorder = recorder
		sinks.observers = append(sinks.observers, recorder.Observe)
		sinks.closers = append(sinks.closers, func() error {
			logger.WithFields(logrus.Fields{
				"dir":    cfg.Output.FrameDir,
				"frames": recorder.Frames(),
			}).Info("Probe frames saved")
			return recorder.Err()
		})
	}

	if cfg.Output.VideoPath != "" {
		sink, err := visualization.NewVideoSink(cfg.Output.VideoPath, cfg.Output.VideoCodec, cfg.Output.VideoFPS, renderer, logger)
		switch {
		case errors.Is(err, reference.ErrUnavailable):
			logger.WithField("video", cfg.Output.VideoPath).Warn("Video output requires a gocv build, skipping")
		case err != nil:
			return nil, err
		default:
			sinks.observers = append(sinks.observers, sink.Observe)
			sinks.closers = append(sinks.closers, func() error {
				logger.WithFields(logrus.Fields{
					"video":  cfg.Output.VideoPath,
					"frames": sink.Frames(),
				}).Info("Probe video saved")
				return sink.Close()
			})
		}
	}

	return sinks, nil
}
