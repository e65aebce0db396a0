package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Snassy-icp/app-sneeddao-sub012/core"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/actor"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/forum"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/ledger"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/reconciler"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/tip"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/vote"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/corerpc"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/logging"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	listenAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := core.LoadServiceConfig(configPath)
		if err != nil {
			return err
		}
		if listenAddr != "" {
			c.ListenAddr = listenAddr
		}
		logger, err := logging.New(c.LogLevel, c.DevLog)
		if err != nil {
			return err
		}
		defer logger.Sync()
		if !c.DevLog {
			gin.SetMode(gin.ReleaseMode)
		}

		s, err := buildServer(c, logger)
		if err != nil {
			return err
		}
		errc := make(chan error, 1)
		go func() { errc <- s.Run(c.ListenAddr) }()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errc:
			return err
		case <-sig:
		}
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	},
}

func buildServer(c core.ServiceConfig, logger *zap.Logger) (*corerpc.Server, error) {
	sender, err := address.ParseAccount(c.Sender, nil)
	if err != nil {
		return nil, err
	}
	client := actor.NewClient(c.GatewayURL, c.GatewayTimeout, logger.Named("actor"))
	ledgers := make(map[string]ledger.Ledger, len(c.Ledgers))
	for _, id := range c.Ledgers {
		ledgers[id] = ledger.NewCached(ledger.NewActorLedger(client, id), c.FeeCacheTTL(), c.BalanceCacheTTL())
	}
	f := forum.NewActorForum(client, c.ForumCanister)
	opts := reconciler.Options{SuccessHold: c.SuccessHold(), ErrorHold: c.ErrorHold(), Logger: logger}
	tipper := tip.NewTipper(tip.Config{
		Sender:  sender,
		Ledgers: ledgers,
		Forum:   f,
		States:  reconciler.New[tip.Receipt](opts),
		Logger:  logger.Named("tip"),
	})
	voter := vote.NewVoter(f, reconciler.New[forum.Outcome](opts), logger.Named("vote"))
	return corerpc.NewServer(tipper, voter, logger.Named("rpc")), nil
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "config.json", "config file")
	serveCmd.Flags().StringVar(&listenAddr, "rpc", "", "rpc listen addr, overrides the config")
}
