package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	kingpin "github.com/alecthomas/kingpin/v2"

	"github.com/spektr-org/dexboard/server"
)

var (
	serveCommand = app.Command("serve", "Serve the dashboard over HTTP.").Default()

	serveAddress = serveCommand.Flag("address", "Interface to bind (overrides the config).").String()
	servePort    = serveCommand.Flag("port", "Port to listen on (overrides the config).").Short('p').Int()
)

func doServe() error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if *serveAddress != "" {
		c.Listen.Address = *serveAddress
	}
	if *servePort != 0 {
		c.Listen.Port = *servePort
	}
	if err := c.Validate(); err != nil {
		return err
	}

	ds, logger, err := loadDataset(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(c, ds, logger).Run(ctx)
}

func init() {
	commandHandlers = append(commandHandlers, func(command string) bool {
		if command == serveCommand.FullCommand() {
			kingpin.FatalIfError(doServe(), "serve")
			return true
		}
		return false
	})
}
