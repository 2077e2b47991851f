package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"

	"iyftv/internal/config"
	"iyftv/internal/service"
)

func main() {
	flags := newFlagSet(os.Stderr)
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(flagExitCode(err))
	}
	configPath, _ := flags.GetString("config")

	var configSvc config.ConfigService
	if configPath != "" {
		configSvc = config.NewConfigServiceAt(configPath, nil)
	} else {
		configSvc = config.NewConfigService()
	}
	if err := configSvc.BindFlag("service.addr", flags.Lookup("addr")); err != nil {
		log.Printf("Service: %v", err)
	}
	if _, err := configSvc.Load(); err != nil {
		log.Printf("Error loading config: %v", err)
	}

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cast.ToString(configSvc.Read("service.addr"))
	name := cast.ToString(configSvc.Read("service.name"))
	if err := service.New(addr, name).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error running service: %v\n", err)
		os.Exit(1)
	}
}

// newFlagSet declares the command line flags, writing usage to out
func newFlagSet(out io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("iyftv-service", pflag.ContinueOnError)
	flags.SetOutput(out)
	flags.StringP("config", "c", "", "Config file (default is the user config directory)")
	flags.StringP("addr", "a", "", "Listen address, overrides service.addr")
	return flags
}

func flagExitCode(err error) int {
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	return 2
}
