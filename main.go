// main.go
//
// Host process entry point.
//   - Loads .env, configuration, and the dictionary.
//   - Opens the round archive (SQLite when DB_PATH is set, memory otherwise)
//     and the optional round journal.
//   - Runs the host event loop and the HTTP/websocket server until SIGINT/SIGTERM.
//
// Any startup failure is fatal before a round can start.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kagithamanoj/boggle/assets"
	"github.com/kagithamanoj/boggle/internal/config"
	"github.com/kagithamanoj/boggle/internal/daily"
	"github.com/kagithamanoj/boggle/internal/game"
	"github.com/kagithamanoj/boggle/internal/host"
	"github.com/kagithamanoj/boggle/internal/httpserver"
	"github.com/kagithamanoj/boggle/internal/journal"
	"github.com/kagithamanoj/boggle/internal/store"
	"github.com/kagithamanoj/boggle/internal/transport/ws"
	"github.com/kagithamanoj/boggle/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	dict, err := words.Load(cfg.DictionaryFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.DictionaryFile).Msg("failed to load dictionary")
	}
	log.Info().Int("words", dict.Len()).Msg("dictionary loaded")

	st := store.NewMemoryStore()
	if cfg.DBPath != "" {
		db, err := store.OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open database")
		}
		defer db.Close()
		if err := store.Migrate(db, assets.Migrations()); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		st = store.NewSQLStore(db)
	}
	recorders := []host.Recorder{host.NewArchive(st)}

	if cfg.JournalDir != "" {
		j := journal.New(cfg.JournalDir)
		defer j.Close()
		recorders = append(recorders, j)
		log.Info().Str("dir", cfg.JournalDir).Msg("round journal enabled")
	}

	opts := game.Options{RoundSeconds: cfg.RoundDurationSeconds}
	if cfg.BoardSalt != "" {
		opts.Boards = daily.Boards(cfg.BoardSalt, nil)
		log.Info().Msg("daily boards enabled")
	}
	session := game.NewSession(game.NewValidator(dict), opts)

	h := host.New(session, host.Options{
		Recorders: recorders,
		Logger:    log.With().Str("component", "host").Logger(),
	})

	transport := ws.NewServer(h, ws.Options{
		RatePerSec: cfg.WSRatePerSec,
		Burst:      cfg.WSRateBurst,
		Logger:     log.With().Str("component", "ws").Logger(),
	})

	hostID := uuid.NewString()
	srv, err := httpserver.New(h, st, httpserver.Options{
		HostID:       hostID,
		PublicURL:    cfg.PublicURL,
		ClientOrigin: cfg.ClientOrigin,
		HostPassword: cfg.HostPassword,
		JWTSecret:    cfg.JWTSecret,
		WS:           transport.Handler(),
		Words:        dict,
		Logger:       log.With().Str("component", "http").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("http server setup")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := h.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("host loop exited")
			stop()
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("hostId", hostID).
		Str("join", cfg.PublicURL+"/?host="+hostID).
		Int("roundSeconds", cfg.RoundDurationSeconds).
		Msg("starting boggle host")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("shutdown complete")
}
