// Command aochat-chat is a demo CLI: it connects to a dimension server,
// logs in with a character, and prints decoded frames to stdout until
// interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"aochat"
	"aochat/internal/config"
	"aochat/internal/metrics"
	"aochat/internal/packet"
)

var (
	cfgPath     string
	username    string
	password    string
	dimensionID int
	characterID uint32
	timeout     time.Duration
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aochat-chat",
		Short: "Connect to an Anarchy Online chat dimension and pump events to stdout",
		RunE:  runChat,
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to YAML configuration file")
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().IntVar(&dimensionID, "dimension", -1, "dimension id (0=test, 1=Atlantean, 2=Rimor)")
	cmd.Flags().Uint32Var(&characterID, "character", 0, "character id to select after login")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "socket timeout and ping cadence")
	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlagOverrides(&cfg, cmd)

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	if cfg.Username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	dim, err := aochat.DimensionByID(cfg.Dimension)
	if err != nil {
		return fmt.Errorf("resolving dimension %d: %w", cfg.Dimension, err)
	}

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	opts := []aochat.Option{
		aochat.WithLogger(log),
		aochat.WithMetrics(collector),
	}
	if cfg.CharacterID != 0 {
		opts = append(opts, aochat.WithCharacter(cfg.CharacterID))
	}

	log.WithFields(logrus.Fields{"dimension": dim.DisplayName, "username": cfg.Username}).Info("connecting")
	session, err := aochat.Open(cfg.Username, password, dim, cfg.Timeout, opts...)
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}
	defer session.Logout()

	for _, c := range session.Characters() {
		log.Info(c.String())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(gCtx, cfg.PingPeriod, func(pkt packet.ServerPacket) error {
			log.WithField("packet", fmt.Sprintf("%+v", pkt)).Info("received")
			return nil
		})
	})

	return g.Wait()
}

func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("username") {
		cfg.Username = username
	}
	if cmd.Flags().Changed("dimension") {
		cfg.Dimension = dimensionID
	}
	if cmd.Flags().Changed("character") {
		cfg.CharacterID = characterID
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = timeout
		cfg.PingPeriod = timeout
	}
}
