package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	jRPC "github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/0xPolygon/lanebridge"
	"github.com/0xPolygon/lanebridge/chain"
	lanescommon "github.com/0xPolygon/lanebridge/common"
	"github.com/0xPolygon/lanebridge/config"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/node"
	"github.com/0xPolygon/lanebridge/relay"
	"github.com/0xPolygon/lanebridge/rpc"
	"github.com/0xPolygon/lanebridge/rpc/client"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func start(cliCtx *cli.Context) error {
	c, err := config.Load(cliCtx)
	if err != nil {
		return err
	}

	log.Init(c.Log)

	if c.Log.Environment == log.EnvironmentDevelopment {
		lanebridge.PrintVersion(os.Stdout)
		log.Info("Starting application")
	} else if c.Log.Environment == log.EnvironmentProduction {
		logVersion()
	}

	components := cliCtx.StringSlice(config.FlagComponents)
	ctx, cancel := context.WithCancel(cliCtx.Context)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var n *node.Node
	if isNeeded([]string{lanescommon.NODE, lanescommon.RPC}, components) {
		n, err = createNode(c)
		if err != nil {
			return err
		}
		defer n.Close()

		g.Go(func() error {
			n.Start(ctx)
			return nil
		})
	}

	for _, component := range components {
		switch component {
		case lanescommon.NODE:
			// started above, also needed by rpc
		case lanescommon.RPC:
			server := createRPC(c.RPC, n)
			go func() {
				if err := server.Start(); err != nil {
					log.Fatal(err)
				}
			}()
		case lanescommon.RELAY:
			r, err := createRelay(c.Relay)
			if err != nil {
				return err
			}
			defer func() {
				if err := r.Close(); err != nil {
					log.Errorf("error closing relay: %v", err)
				}
			}()
			g.Go(func() error {
				return r.Start(ctx)
			})
		default:
			return fmt.Errorf("unknown component: %s", component)
		}
	}

	go waitSignal(cancel)

	return g.Wait()
}

func createNode(c *config.Config) (*node.Node, error) {
	logger := log.WithFields("module", lanescommon.NODE)
	ch, err := chain.New(logger, c.Chain, chain.Components{
		Common:     c.Common,
		Lanes:      c.Lanes,
		Congestion: c.Congestion,
		Fees:       c.Fees,
		Router:     c.Router,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chain: %w", err)
	}

	return node.New(logger, c.Node, ch, node.NewLogTransport(logger)), nil
}

func createRelay(cfg relay.Config) (*relay.Relay, error) {
	logger := log.WithFields("module", lanescommon.RELAY)
	source := client.NewClient(cfg.SourceURL)
	target := client.NewClient(cfg.TargetURL)

	return relay.New(logger, cfg, source, target)
}

func createRPC(cfg jRPC.Config, n *node.Node) *jRPC.Server {
	logger := log.WithFields("module", lanescommon.RPC)
	services := []jRPC.Service{
		{
			Name: rpc.LANES,
			Service: rpc.NewLanesEndpoints(
				logger,
				cfg.WriteTimeout.Duration,
				cfg.ReadTimeout.Duration,
				n,
			),
		},
	}

	return jRPC.NewServer(cfg, services, jRPC.WithLogger(logger.GetSugaredLogger()))
}

func logVersion() {
	log.Infow("Starting application",
		// version is already logged by default
		"gitRevision", lanebridge.GitRev,
		"gitBranch", lanebridge.GitBranch,
		"goVersion", runtime.Version(),
		"built", lanebridge.BuildDate,
		"os/arch", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	)
}

func waitSignal(cancel context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	<-signals
	log.Info("terminating application gracefully...")
	cancel()
}

func isNeeded(casesWhereNeeded, actualCases []string) bool {
	for _, actualCase := range actualCases {
		for _, caseWhereNeeded := range casesWhereNeeded {
			if actualCase == caseWhereNeeded {
				return true
			}
		}
	}

	return false
}
