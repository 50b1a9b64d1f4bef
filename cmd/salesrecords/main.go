package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"salesrecords/pkg/domain/service"
	"salesrecords/pkg/infrastructure/config"
	"salesrecords/pkg/infrastructure/mysql"
	"salesrecords/pkg/infrastructure/transport"
)

const appName = "salesrecords"

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:  appName,
		Usage: "retail sales recording service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run migrations and start the REST API",
				Action: serve,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("service stopped")
	}
}

func serve(_ *cli.Context) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}

	db, err := mysql.Connect(cfg.DSN(), cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := mysql.Migrate(db); err != nil {
		return err
	}

	sales := service.NewSalesService(
		mysql.NewBranchRepository(db),
		mysql.NewCustomerRepository(db),
		mysql.NewProductRepository(db),
		mysql.NewSaleRepository(db),
		mysql.NewSaleLineItemRepository(db),
		mysql.NewTxManager(db),
	)

	log.WithFields(log.Fields{"url": cfg.ServeRESTAddress}).Info("starting server")
	srv := startServer(cfg.ServeRESTAddress, sales)

	waitForKillSignal(getKillSignalChan())
	return srv.Shutdown(context.Background())
}

func startServer(addr string, sales service.SalesService) *http.Server {
	srv := &http.Server{Addr: addr, Handler: transport.Router(sales)}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()
	return srv
}

func getKillSignalChan() chan os.Signal {
	killSignalChan := make(chan os.Signal, 1)
	signal.Notify(killSignalChan, os.Interrupt, syscall.SIGTERM)
	return killSignalChan
}

func waitForKillSignal(killSignalChan <-chan os.Signal) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		log.Info("got SIGINT...")
	case syscall.SIGTERM:
		log.Info("got SIGTERM...")
	}
}
