// Command colonyclient connects a headless player to a game server and
// plays with fixed answers until the game ends or it is interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/luciancaetano/colonynet/dispatch"
	"github.com/luciancaetano/colonynet/gateway"
	"github.com/luciancaetano/colonynet/internal/config"
	"github.com/luciancaetano/colonynet/internal/headless"
	"github.com/luciancaetano/colonynet/model"
	"github.com/luciancaetano/colonynet/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "colonyclient: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "colonyclient: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	logger := cfg.Logger(logOut).With("player", cfg.PlayerID)

	conn, err := ws.Dial(ctx, ws.DialConfig{
		URL:              cfg.ServerURL,
		HandshakeTimeout: cfg.HandshakeTimeout,
		RateLimitConfig:  cfg.RateLimit(),
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	defer conn.Close()
	logger.Info("connected", "server", cfg.ServerURL, "conn", conn.ID())

	game := model.NewGame(cfg.PlayerID)
	player := headless.New(conn, game, logger)
	ui := gateway.New(gateway.WithLogger(logger), gateway.WithCapacity(cfg.UIQueueSize))

	dispatcher, err := dispatch.New(dispatch.Config{
		Game:         game,
		Scheduler:    ui,
		Controller:   player,
		Presentation: player,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ui.Run(gctx)
	})
	g.Go(func() error {
		if err := conn.Serve(gctx, dispatcher); err != nil {
			return err
		}
		logger.Info("server closed the session")
		cancel()
		return nil
	})
	g.Go(func() error {
		select {
		case <-player.Done():
			logger.Info("game over", "turn", game.Turn())
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("client stopped", "error", err)
		return err
	}
	return nil
}
