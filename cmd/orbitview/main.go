package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/akmonengine/orbit"
	"github.com/akmonengine/orbit/config"
	"github.com/akmonengine/orbit/logging"
	"github.com/akmonengine/orbit/transform"
	"go.uber.org/zap"
)

var (
	configPath string
	initConfig bool
	keys       string
	allFrames  bool
	verbose    bool

	logger = zap.NewNop()
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Replays camera keys (w s a d q e pan, j l orbit, i k tilt) and prints the resulting matrices.\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&configPath, "c", "", "Path to the scene config (TOML), built-in scene when empty")
	flag.BoolVar(&initConfig, "init", false, "Write the default config to the -c path and exit")
	flag.StringVar(&keys, "keys", "", "Key sequence to replay, one frame per key")
	flag.BoolVar(&allFrames, "all", false, "Print every frame instead of the last one only")
	flag.BoolVar(&verbose, "v", false, "be more verbose")
}

func main() {
	flag.Parse()
	logger = logging.New(verbose)
	defer logger.Sync()

	if initConfig {
		if configPath == "" {
			logger.Fatal("-init needs a -c path")
		}
		if err := config.Write(configPath, config.Default()); err != nil {
			logger.Fatal("Failed to write config", zap.Error(err))
		}
		logger.Info("Config written", zap.String("path", configPath))
		return
	}

	conf := config.Default()
	if configPath != "" {
		var err error
		if conf, err = config.Load(configPath); err != nil {
			logger.Fatal("Failed to load config", zap.Error(err))
		}
	}

	if err := run(conf, keys, allFrames, os.Stdout); err != nil {
		logger.Fatal("Replay failed", zap.Error(err))
	}
}

func run(conf config.Config, keys string, all bool, out io.Writer) error {
	intents, err := parseKeys(keys)
	if err != nil {
		return err
	}

	ctx := conf.NewContext(orbit.NewUniformBlock())
	ctx.Logger = logger.Named("context")
	controller := conf.Controller(ctx.Camera)

	if err := ctx.Resize(conf.Window.Width, conf.Window.Height); err != nil {
		return err
	}

	calls, err := ctx.Frame()
	if err != nil {
		return err
	}
	if all || len(intents) == 0 {
		printFrame(out, 0, ctx, calls)
	}

	for i, intent := range intents {
		if err := controller.Apply(intent); err != nil {
			return err
		}
		logger.Debug("Intent applied",
			zap.Int("frame", i+1),
			zap.Stringer("intent", intent),
			zap.Float32s("relative", ctx.Camera.RelativePosition[:]))

		if calls, err = ctx.Frame(); err != nil {
			return err
		}
		if all || i == len(intents)-1 {
			printFrame(out, i+1, ctx, calls)
		}
	}

	return nil
}

func printFrame(out io.Writer, frame int, ctx *orbit.Context, calls []orbit.DrawCall) {
	cam := ctx.Camera
	eye := cam.EyePosition()

	fmt.Fprintf(out, "frame %d\n", frame)
	fmt.Fprintf(out, "camera azimuth=%.1f elevation=%.1f radius=%.1f target=(%.3f, %.3f, %.3f)\n",
		cam.Azimuth(), cam.Elevation(), cam.Radius(), cam.Target[0], cam.Target[1], cam.Target[2])
	fmt.Fprintf(out, "eye (%.3f, %.3f, %.3f)\n", eye[0], eye[1], eye[2])
	fmt.Fprintf(out, "%s:\n%s\n", orbit.UniformWorldToCamera, transform.Sprint(cam.ViewMatrix()))
	if projection, ok := ctx.ProjectionMatrix(); ok {
		fmt.Fprintf(out, "%s:\n%s\n", orbit.UniformCameraToClip, transform.Sprint(projection))
	}
	for _, call := range calls {
		fmt.Fprintf(out, "%s [%s] clip:\n%s\n", call.Name, call.Mesh, transform.Sprint(call.Clip))
	}
	fmt.Fprintln(out)
}
