// Package main provides the busty command-line entry point.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/anoadragon453/busty-sub000/internal/app/art"
	"github.com/anoadragon453/busty-sub000/internal/app/bust"
	"github.com/anoadragon453/busty-sub000/internal/app/bust/registry"
	"github.com/anoadragon453/busty-sub000/internal/domain/track"
	"github.com/anoadragon453/busty-sub000/internal/infra/audio"
	"github.com/anoadragon453/busty-sub000/internal/infra/config"
	"github.com/anoadragon453/busty-sub000/internal/infra/library"
	"github.com/anoadragon453/busty-sub000/internal/infra/logger"
	"github.com/anoadragon453/busty-sub000/internal/infra/output"
	"github.com/anoadragon453/busty-sub000/internal/infra/state"
)

var (
	app        = kingpin.New("busty", "Group listening party runner")
	configPath = app.Flag("config", "Path to config file").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
	groupID    = app.Flag("group", "Group identifier for sessions and preferences").Default("local").String()
	mediaDir   = app.Flag("media-dir", "Override the media directory").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{Output: "stdout", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}
	if *mediaDir != "" {
		cfg.Library.MediaDir = *mediaDir
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("busty error: %v", err)
		os.Exit(1)
	}
}

// run executes the main REPL. A separate function ensures defers run on
// any exit path.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := state.Open(cfg.State.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	artChain, err := art.NewChainFromConfig(cfg, func(submitterID string) bool {
		enabled, err := store.CoverArtEnabled(ctx, *groupID, submitterID)
		if err != nil {
			zlog.Warn().Err(err).Str("submitter", submitterID).Msg("could not read art preference")
			return true
		}
		return enabled
	})
	if err != nil {
		return err
	}

	cli := &cli{
		cfg:      cfg,
		registry: registry.New(),
		player:   audio.NewPlayer(),
		console:  output.NewConsole(os.Stdout, "Busty"),
		store:    store,
		artChain: artChain,
	}

	zlog.Info().Str("group", *groupID).Str("media_dir", cfg.Library.MediaDir).Msg("busty ready")
	fmt.Println("Commands: list, bust [n], skip <n>, seek <secs>, stop, stats, art <user> on|off, image [url], quit")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			cli.shutdown()
			fmt.Println()
			return nil
		case line, ok := <-lines:
			if !ok {
				cli.shutdown()
				return nil
			}
			if quit := cli.dispatch(ctx, line); quit {
				cli.shutdown()
				return nil
			}
		}
	}
}

// cli holds the wiring shared by all REPL commands.
type cli struct {
	cfg      *config.Config
	registry *registry.Registry
	player   *audio.Player
	console  *output.Console
	store    *state.Store
	artChain *art.Chain
}

// dispatch runs one REPL command. Returns true when the user asked to quit.
func (c *cli) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "list":
		c.cmdList()
	case "bust":
		c.cmdBust(ctx, fields[1:])
	case "skip":
		c.cmdSkip(fields[1:])
	case "seek":
		c.cmdSeek(fields[1:])
	case "stop":
		c.cmdStop()
	case "stats":
		c.cmdStats()
	case "art":
		c.cmdArt(ctx, fields[1:])
	case "image":
		c.cmdImage(ctx, fields[1:])
	case "quit", "exit":
		return true
	default:
		fmt.Printf("unknown command: %s\n", fields[0])
	}
	return false
}

// cmdList scans the media directory and registers a fresh session.
// Concurrent list attempts for the same group are serialized; an active
// playing session is never replaced.
func (c *cli) cmdList() {
	lock := c.registry.ListLock(*groupID)
	if !lock.TryLock() {
		fmt.Println("A list is already in progress for this group.")
		return
	}
	defer lock.Unlock()

	if sess := c.registry.Get(*groupID); sess != nil && sess.IsPlaying() {
		fmt.Println("A bust is currently playing. Stop it before listing.")
		return
	}

	tracks, err := library.Scan(c.cfg.Library.MediaDir)
	if err != nil {
		fmt.Printf("Scan failed: %v\n", err)
		return
	}
	if len(tracks) == 0 {
		fmt.Println("No playable tracks found.")
		return
	}

	var artProvider bust.ArtProvider
	if c.artChain != nil {
		artProvider = c.artChain
	}
	sess := bust.New(bust.Config{
		Cooldown:         c.cfg.Cooldown(),
		IdentityLimit:    c.cfg.Playback.IdentityLimit,
		IdentityPrefixes: c.cfg.Playback.IdentityPrefixes,
	}, tracks, c.console, artProvider)
	c.registry.Register(*groupID, sess)

	fmt.Printf("Listed %d tracks:\n", len(tracks))
	for i, t := range tracks {
		fmt.Printf("  %2d. %s (%s)\n", i+1, t.FormattedTitle(), formatTrackDuration(t))
	}
}

// cmdBust starts playback of the listed session, optionally from track n
// (1-based).
func (c *cli) cmdBust(ctx context.Context, args []string) {
	sess := c.registry.Get(*groupID)
	if sess == nil {
		fmt.Println("Nothing is listed. Run `list` first.")
		return
	}
	if sess.IsPlaying() {
		fmt.Println("A bust is already playing.")
		return
	}

	startIndex := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Println("Usage: bust [track number]")
			return
		}
		startIndex = n - 1
	}

	go func() {
		if err := sess.Play(ctx, c.player, startIndex); err != nil {
			fmt.Printf("Could not start bust: %v\n", err)
		}
	}()
}

func (c *cli) cmdSkip(args []string) {
	sess := c.registry.Get(*groupID)
	if sess == nil || !sess.IsPlaying() {
		fmt.Println("Nothing is playing.")
		return
	}
	if len(args) == 0 {
		if t, ok := sess.CurrentTrack(); ok {
			fmt.Printf("Skipping %s\n", t.FormattedTitle())
		}
		sess.Skip()
		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Println("Usage: skip [track number]")
		return
	}
	sess.SkipTo(n - 1)
}

func (c *cli) cmdSeek(args []string) {
	sess := c.registry.Get(*groupID)
	if sess == nil || !sess.IsPlaying() {
		fmt.Println("Nothing is playing.")
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: seek <seconds>")
		return
	}

	secs, err := strconv.Atoi(args[0])
	if err != nil || secs < 0 {
		fmt.Println("Usage: seek <seconds>")
		return
	}
	sess.Seek(time.Duration(secs) * time.Second)
}

func (c *cli) cmdStop() {
	sess := c.registry.Get(*groupID)
	if sess == nil || !sess.IsPlaying() {
		fmt.Println("Nothing is playing.")
		return
	}
	sess.Stop()
}

func (c *cli) cmdStats() {
	sess := c.registry.Get(*groupID)
	if sess == nil {
		fmt.Println("Nothing is listed.")
		return
	}

	stats := sess.Stats()
	fmt.Printf("Tracks: %d\n", stats.NumTracks)
	fmt.Printf("Total track length: %s\n", formatDuration(stats.TotalDuration))
	fmt.Printf("Total bust length: %s\n", formatDuration(stats.TotalBustTime))

	top := c.cfg.Playback.NumLongestSubmitters
	if top > len(stats.Submitters) {
		top = len(stats.Submitters)
	}
	if top > 0 {
		fmt.Println("Longest submitters:")
		for _, s := range stats.Submitters[:top] {
			fmt.Printf("  %s: %s\n", s.SubmitterName, formatDuration(s.TotalDuration))
		}
	}
	if stats.HasErrors {
		fmt.Println("(some track durations could not be determined)")
	}
}

// cmdArt toggles a submitter's cover art preference.
func (c *cli) cmdArt(ctx context.Context, args []string) {
	if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
		fmt.Println("Usage: art <user> on|off")
		return
	}
	if err := c.store.SetCoverArtEnabled(ctx, *groupID, args[0], args[1] == "on"); err != nil {
		fmt.Printf("Could not store preference: %v\n", err)
		return
	}
	fmt.Printf("Cover art for %s: %s\n", args[0], args[1])
}

// cmdImage shows or sets the group's voting-form header image URL.
func (c *cli) cmdImage(ctx context.Context, args []string) {
	if len(args) == 0 {
		url, err := c.store.FormImageURL(ctx, *groupID)
		if err != nil {
			fmt.Printf("Could not read image URL: %v\n", err)
			return
		}
		if url == "" {
			fmt.Println("No form image set.")
		} else {
			fmt.Println(url)
		}
		return
	}
	if err := c.store.SetFormImageURL(ctx, *groupID, args[0]); err != nil {
		fmt.Printf("Could not store image URL: %v\n", err)
		return
	}
	fmt.Println("Form image updated.")
}

// shutdown stops any playing session so the identity gets restored.
func (c *cli) shutdown() {
	if sess := c.registry.Get(*groupID); sess != nil && sess.IsPlaying() {
		zlog.Info().Msg("stopping active bust")
		sess.Stop()
	}
}

func formatTrackDuration(t track.Track) string {
	if t.Duration == nil {
		return "??:??"
	}
	return formatDuration(*t.Duration)
}

// formatDuration renders a duration as m:ss or h:mm:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
