package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/errgroup"

	"github.com/yola1107/ludo/internal/conf"
	"github.com/yola1107/ludo/internal/server"
	"github.com/yola1107/ludo/library/log/zap"
)

var (
	Name      = conf.Name
	Version   = conf.Version
	flagconf  string // -conf path
	flagpprof string // -pprof listen address, empty disables
	id, _     = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagpprof, "pprof", "", "pprof listen address, eg: -pprof :6060")
}

func newApp(logger log.Logger, rs *server.RoomServer) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(rs),
	)
}

func main() {
	flag.Parse()

	c, bc, lc := conf.LoadConfig(flagconf)
	defer c.Close()

	logger := zap.NewLogger(lc.Log)
	log.SetLogger(logger)
	defer logger.Close()

	live, err := conf.WatchConfig(c, bc, lc, logger)
	if err != nil {
		panic(err)
	}

	app, cleanup, err := wireApp(bc.Data, live, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := run(app, flagpprof); err != nil {
		log.Errorf("server exit: %v", err)
	}
}

// run serves the app and, when addr is set, the pprof endpoints until the app stops.
func run(app *kratos.App, addr string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		return app.Run()
	})
	if addr != "" {
		srv := &http.Server{Addr: addr}
		eg.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}
	return eg.Wait()
}
