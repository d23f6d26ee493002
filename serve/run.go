// Package serve implements the preview service: a small HTTP API that styles
// document fragments on demand so themes and component markup can be iterated
// on without running a batch.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sade/config"
	"sade/sads"
	"sade/state"
)

const shutdownTimeout = 5 * time.Second

// Run starts the preview service and blocks until the context is cancelled or
// the listener fails.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("serve")

	listen := env.Cfg.Serve.Listen
	if addr := cmd.String("listen"); len(addr) > 0 {
		listen = addr
	}

	// Theme overrides are resolved once, every request sees the same theme.
	overrides, err := env.Cfg.Styling.EffectiveOverrides(log)
	if err != nil {
		return err
	}

	if env.Cfg.Styling.Offload.Enable {
		unit := sads.NewUnit(offloadConfig(&env.Cfg.Styling.Offload), log)
		defer unit.Close()
		env.Offload = unit
	}

	srv := &server{env: env, log: log, overrides: overrides}

	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Preview service listening", zap.String("address", listen))
		err := httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("unable to run preview service: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		_ = httpSrv.Close()
		return fmt.Errorf("unable to stop preview service cleanly: %w", err)
	}
	<-errCh

	log.Info("Preview service stopped", zap.Duration("uptime", env.Uptime()))
	return nil
}

// offloadConfig converts configuration values into the resolution unit's
// runtime settings.
func offloadConfig(conf *config.OffloadConfig) sads.OffloadConfig {
	return sads.OffloadConfig{
		Enable:         conf.Enable,
		Command:        conf.Command,
		Args:           conf.Args,
		StartupTimeout: time.Duration(conf.StartupTimeout),
	}
}
