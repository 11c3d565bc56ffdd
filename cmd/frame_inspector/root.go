package main

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dinobot/internal/config"
	"dinobot/internal/detector"
	"dinobot/internal/frame"
	"dinobot/internal/gate"
	"dinobot/internal/screen"
	"dinobot/internal/session"
)

// rootCmd прогоняет один сохранённый кадр через детектор и решение о прыжке
var rootCmd = &cobra.Command{
	Use:   "frame_inspector",
	Short: "Dino frame inspector",
	Long:  `Runs ground, player and obstacle detection on a saved PNG frame and prints what the bot would do.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, _ := cmd.Flags().GetString("file")
		profile, _ := cmd.Flags().GetString("profile")
		speed, _ := cmd.Flags().GetFloat64("speed")
		return inspect(cmd.OutOrStdout(), filePath, profile, speed)
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the game area on a full screenshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, _ := cmd.Flags().GetString("file")
		threshold, _ := cmd.Flags().GetInt("threshold")
		minRun, _ := cmd.Flags().GetInt("min-run")
		return locate(cmd.OutOrStdout(), filePath, screen.LocateOptions{
			Threshold: threshold,
			MinRun:    minRun,
			Above:     140,
			Below:     10,
		})
	},
}

// Execute запускает корневую команду
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "", "PNG file to inspect")
	_ = rootCmd.MarkPersistentFlagRequired("file")
	rootCmd.Flags().StringP("profile", "p", config.DefaultProfile, "Profile: "+strings.Join(config.Profiles(), ", "))
	rootCmd.Flags().Float64P("speed", "s", 1.0, "Speed multiplier to evaluate the jump threshold at")

	locateCmd.Flags().Int("threshold", 100, "Dark pixel threshold")
	locateCmd.Flags().Int("min-run", 300, "Minimum ground line length in pixels")
	rootCmd.AddCommand(locateCmd)
}

func inspect(w io.Writer, path, profile string, speed float64) error {
	cfg, err := config.ProfileConfig(profile)
	if err != nil {
		return err
	}
	f, err := frame.LoadPNG(path)
	if err != nil {
		return err
	}

	res, err := detector.Detect(f, detector.FromConfig(cfg.Detection))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "frame %dx%d, profile %s\n", f.Width, f.Height, cfg.Profile)
	fmt.Fprintf(w, "ground y=%d\n", res.GroundY)
	fmt.Fprintf(w, "player x=%d y=%d found=%v\n", res.Player.X, res.Player.Y, res.Player.Found)
	fmt.Fprintf(w, "window x=%d y=%d %dx%d\n", res.Window.X, res.Window.Y, res.Window.Width, res.Window.Height)

	g := gate.New(session.GateOptions(cfg)).WithScanWidth(res.ScanWidth)
	if !res.Found {
		fmt.Fprintln(w, "obstacle: none")
		return nil
	}
	fmt.Fprintf(w, "obstacle: %s distance=%d top=%d offset=%d\n",
		res.Obstacle.Kind, res.Obstacle.Distance, res.Obstacle.TopRow, res.Obstacle.VerticalOffset)

	st := gate.State{}
	st.Reset()
	st.Speed = speed
	action := g.Decide(res.Obstacle, res.Found, &st, time.Now())
	fmt.Fprintf(w, "threshold %.1f at speed %.1f: jump=%v\n", g.JumpThreshold(speed), speed, action.Fire)
	return nil
}

func locate(w io.Writer, path string, opts screen.LocateOptions) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	region, err := screen.LocateGameArea(img, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "capture.region: x=%d y=%d width=%d height=%d\n", region.X, region.Y, region.Width, region.Height)
	return nil
}
