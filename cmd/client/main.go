package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dkeye/Meet/internal/adapters/debug"
	"github.com/dkeye/Meet/internal/adapters/media"
	"github.com/dkeye/Meet/internal/adapters/notify"
	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/transport/ws"
)

func main() {
	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	v := viper.New()

	root := &cobra.Command{
		Use:   "meet",
		Short: "Meet signaling client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}
	root.Flags().String("server", "", "signaling server websocket URL")
	root.Flags().String("room", "", "room id to join")
	root.Flags().String("name", "", "display name")
	root.Flags().String("ticket", "", "room ticket")
	_ = v.BindPFlag("server_url", root.Flags().Lookup("server"))
	_ = v.BindPFlag("room", root.Flags().Lookup("room"))
	_ = v.BindPFlag("display_name", root.Flags().Lookup("name"))
	_ = v.BindPFlag("ticket", root.Flags().Lookup("ticket"))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("client exited with error")
		os.Exit(1)
	}
}

func run(v *viper.Viper) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	engine, err := media.NewEngine(media.DefaultWebRTCConfig())
	if err != nil {
		return err
	}
	defer engine.Release()
	screen := media.NewScreen()

	transport, err := ws.Dial(ctx, cfg.ServerURL, ws.Options{
		Ticket:     cfg.Ticket,
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
	})
	if err != nil {
		return err
	}
	defer transport.Close()

	notifier := notify.NewLogNotifier(log.Logger)
	controller := app.NewController(
		domain.RoomID(cfg.Room),
		cfg.DisplayName,
		transport,
		engine,
		screen,
		notifier,
		log.Logger,
	)

	if cfg.DebugAddr != "" {
		go debug.Serve(ctx, cfg.DebugAddr, cfg.Mode, func() any {
			return controller.Snapshot()
		})
	}

	log.Info().Str("room", cfg.Room).Str("server", cfg.ServerURL).Msg("Meet client started")
	err = controller.Run(ctx)
	log.Info().Msg("Client exited gracefully")
	return err
}
