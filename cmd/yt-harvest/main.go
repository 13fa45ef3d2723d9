package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/yt-harvest/internal/config"
	"github.com/Sternrassler/yt-harvest/pkg/client"
	"github.com/Sternrassler/yt-harvest/pkg/harvest"
	"github.com/Sternrassler/yt-harvest/pkg/logging"
	"github.com/Sternrassler/yt-harvest/pkg/metrics"
	"github.com/Sternrassler/yt-harvest/pkg/normalize"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const usage = `usage: yt-harvest <command> [args]

commands:
  channel <channelID>            channel title, description and counters
  channel-id <name>              resolve a channel name to its ID
  videos <videoID>...            statistics for the given videos
  comments <videoID>             every top-level comment on a video
  search-videos <channelID>      every video of a channel via search
  playlist-videos <channelID>    every entry of every playlist of a channel
  serve                          run the HTTP server on $PORT
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args(), os.Stdout); err != nil {
		log.Error().Err(err).Str("command", flag.Arg(0)).Msg("Command failed")
		os.Exit(1)
	}
}

// run wires the client and harvester from cfg and executes args.
func run(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	redisClient, err := cfg.Redis()
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		log.Info().Str("redis", cfg.RedisURL).Msg("Connected to Redis")
	}

	ytClient, err := client.New(cfg.Client(redisClient))
	if err != nil {
		return fmt.Errorf("create YouTube client: %w", err)
	}
	defer ytClient.Close()

	h := harvest.New(ytClient, normalize.New(cfg.NormalizerOptions()...))

	if args[0] == "serve" {
		return serve(ctx, ":"+cfg.Port, newMux(h, redisClient))
	}
	return runCommand(ctx, h, args, out)
}

// runCommand executes one harvesting command and writes its result as
// indented JSON.
func runCommand(ctx context.Context, h *harvest.Harvester, args []string, out io.Writer) error {
	command, rest := args[0], args[1:]

	var result any
	var err error

	switch command {
	case "channel":
		if err := wantArgs(command, rest, 1); err != nil {
			return err
		}
		result, err = h.ChannelInfo(ctx, rest[0])
	case "channel-id":
		if err := wantArgs(command, rest, 1); err != nil {
			return err
		}
		id, found, searchErr := h.ChannelIDByName(ctx, rest[0])
		result, err = map[string]any{"channel_id": id, "found": found}, searchErr
	case "videos":
		if len(rest) == 0 {
			return fmt.Errorf("videos: at least one video ID required")
		}
		result, err = h.VideoStatistics(ctx, rest)
	case "comments":
		if err := wantArgs(command, rest, 1); err != nil {
			return err
		}
		result, err = h.Comments(ctx, rest[0])
	case "search-videos":
		if err := wantArgs(command, rest, 1); err != nil {
			return err
		}
		result, err = h.ChannelVideos(ctx, rest[0])
	case "playlist-videos":
		if err := wantArgs(command, rest, 1); err != nil {
			return err
		}
		result, err = h.AllPlaylistVideos(ctx, rest[0])
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func wantArgs(command string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s: expected %d argument(s), got %d", command, n, len(args))
	}
	return nil
}

// newMux builds the HTTP routes. redisClient may be nil.
func newMux(h *harvest.Harvester, redisClient *redis.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", readyHandler(redisClient))
	mux.HandleFunc("GET /comments/{videoID}", commentsHandler(h))
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// serve runs the HTTP server until ctx is canceled.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting yt-harvest server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Msg("Readiness check failed")
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

// commentsHandler serves every comment of a video as a JSON array. The
// browser front end calls it cross-origin.
func commentsHandler(h *harvest.Harvester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("videoID")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		comments, err := h.Comments(r.Context(), videoID)
		if err != nil {
			log.Error().Err(err).Str("video_id", videoID).Msg("Comment harvest failed")
			http.Error(w, fmt.Sprintf("YouTube request failed: %v", err), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(comments); err != nil {
			log.Error().Err(err).Msg("Failed to write response")
		}
	}
}
