package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"phone_orders/internal/config"
	"phone_orders/internal/logger"
	"phone_orders/internal/provision"
	"phone_orders/pkg/retell"
	"phone_orders/pkg/telnyx"
	"phone_orders/pkg/vapi"

	"github.com/rs/zerolog/log"
)

func main() {
	platformFlag := flag.String("platform", "", "platform to provision: retell, vapi or telnyx")
	envPath := flag.String("env", "", "path to a .env file")
	flag.Parse()

	logger.Init(logger.Config{PrettyFormat: true})

	if err := config.LoadEnvFile(*envPath); err != nil {
		log.Fatal().Err(err).Msg("failed to load env file")
	}

	platform, err := config.ParsePlatform(*platformFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -platform")
	}

	p, err := newProvisioner(platform)
	if err != nil {
		log.Fatal().Err(err).Msg("missing configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := p.Provision(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("platform", string(platform)).Msg("provisioning failed")
	}

	verb := "updated"
	if result.Created {
		verb = "created"
	}
	log.Info().Str("platform", string(platform)).Msgf("agent %s successfully", verb)

	fmt.Println("\nAdd these to your .env file:")
	for _, v := range result.Env {
		fmt.Printf("%s=%s\n", v.Key, v.Value)
	}
}

func newProvisioner(platform config.Platform) (provision.Provisioner, error) {
	switch platform {
	case config.PlatformRetell:
		cfg, err := config.LoadProvision[config.RetellProvisionConfig]()
		if err != nil {
			return nil, err
		}
		return provision.NewRetellProvisioner(*cfg, retell.NewClient(cfg.BaseURL, cfg.APIKey)), nil
	case config.PlatformVapi:
		cfg, err := config.LoadProvision[config.VapiProvisionConfig]()
		if err != nil {
			return nil, err
		}
		return provision.NewVapiProvisioner(*cfg, vapi.NewClient(cfg.BaseURL, cfg.APIKey)), nil
	default:
		cfg, err := config.LoadProvision[config.TelnyxProvisionConfig]()
		if err != nil {
			return nil, err
		}
		return provision.NewTelnyxProvisioner(*cfg, telnyx.NewClient(cfg.BaseURL, cfg.APIKey)), nil
	}
}
