// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	dto "github.com/prometheus/client_model/go"

	"github.com/luxfi/govvm"
	"github.com/luxfi/govvm/api/server"
	"github.com/luxfi/govvm/config"
)

const (
	envPrefix = "GOVVM"

	httpHostKey          = "http-host"
	httpPortKey          = "http-port"
	configFileKey        = "config-file"
	maxProposalAssetsKey = "max-proposal-assets"
	stateCacheSizeKey    = "state-cache-size"
	queryAPIEnabledKey   = "query-api-enabled"
	allowedOriginsKey    = "allowed-origins"
	allowedHostsKey      = "allowed-hosts"
	shutdownTimeoutKey   = "shutdown-timeout"
)

// nodeConfig is everything run needs besides the listener.
type nodeConfig struct {
	VM              config.Config
	AllowedOrigins  []string
	AllowedHosts    []string
	ShutdownTimeout time.Duration
}

func addRunFlags(fs *pflag.FlagSet) {
	defaults := config.DefaultConfig()

	fs.String(httpHostKey, "127.0.0.1", "address to serve the API on")
	fs.Uint16(httpPortKey, 9650, "port to serve the API on")
	fs.String(configFileKey, "", "JSON, YAML or TOML file holding any of these flags")
	fs.Int(maxProposalAssetsKey, defaults.MaxProposalAssets, "largest asset bundle a normal proposal may carry")
	fs.Int(stateCacheSizeKey, defaults.StateCacheSize, "number of decoded entities kept in memory")
	fs.Bool(queryAPIEnabledKey, defaults.QueryAPIEnabled, "serve state queries over JSON-RPC")
	fs.StringSlice(allowedOriginsKey, []string{"*"}, "origins allowed to make cross-origin requests")
	fs.StringSlice(allowedHostsKey, []string{"localhost"}, "hosts the API answers to, or * for any")
	fs.Duration(shutdownTimeoutKey, 10*time.Second, "time allowed for in-flight requests on shutdown")
}

// newViper layers the config file and GOVVM_ environment variables under the
// flags in fs.
func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if configFile := v.GetString(configFileKey); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configFile, err)
		}
	}
	return v, nil
}

func getNodeConfig(v *viper.Viper) (nodeConfig, error) {
	c := nodeConfig{
		VM: config.Config{
			MaxProposalAssets: v.GetInt(maxProposalAssetsKey),
			StateCacheSize:    v.GetInt(stateCacheSizeKey),
			QueryAPIEnabled:   v.GetBool(queryAPIEnabledKey),
		},
		AllowedOrigins:  v.GetStringSlice(allowedOriginsKey),
		AllowedHosts:    v.GetStringSlice(allowedHostsKey),
		ShutdownTimeout: v.GetDuration(shutdownTimeoutKey),
	}
	return c, c.VM.Validate()
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the governance API over an in-memory database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			c, err := getNodeConfig(v)
			if err != nil {
				return err
			}

			address := net.JoinHostPort(v.GetString(httpHostKey), strconv.Itoa(v.GetInt(httpPortKey)))
			listener, err := net.Listen("tcp", address)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", address, err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runNode(ctx, log.NewLogger(govvm.Name), listener, c)
		},
	}
	addRunFlags(cmd.Flags())
	return cmd
}

// runNode serves a fresh VM on listener until ctx is cancelled or the server
// fails.
func runNode(ctx context.Context, logger log.Logger, listener net.Listener, c nodeConfig) error {
	configBytes, err := json.Marshal(c.VM)
	if err != nil {
		return err
	}

	registry := metric.NewRegistry()
	vm, err := (&govvm.Factory{}).New(logger)
	if err != nil {
		return err
	}
	if err := vm.Initialize(ctx, memdb.New(), configBytes, registry); err != nil {
		_ = listener.Close()
		return err
	}
	defer func() {
		if err := vm.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shut down vm", log.Err(err))
		}
	}()

	handlers, err := vm.CreateHandlers(ctx)
	if err != nil {
		_ = listener.Close()
		return err
	}

	srv, err := server.New(
		logger,
		listener,
		c.AllowedOrigins,
		c.ShutdownTimeout,
		govvm.Name,
		registry,
		server.HTTPConfig{
			ReadHeaderTimeout: 30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		c.AllowedHosts,
	)
	if err != nil {
		_ = listener.Close()
		return err
	}
	for endpoint, handler := range handlers {
		if err := srv.AddRoute(handler, govvm.Name, endpoint); err != nil {
			_ = listener.Close()
			return err
		}
	}
	if err := srv.AddRoute(promhttp.HandlerFor(dtoGatherer{registry}, promhttp.HandlerOpts{}), "metrics", ""); err != nil {
		_ = listener.Close()
		return err
	}

	logger.Info("serving API",
		log.Stringer("address", listener.Addr()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown()
	})
	return g.Wait()
}

// dtoGatherer exposes a registry in the exposition format promhttp serves.
type dtoGatherer struct {
	metric.Gatherer
}

func (g dtoGatherer) Gather() ([]*dto.MetricFamily, error) {
	families, err := g.Gatherer.Gather()
	return metric.NativeToDTO(families), err
}
