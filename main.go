package main

import (
	"flag"
	"net/http"

	"github.com/rs/zerolog/log"

	"wargame/config"
	"wargame/experiments"
	"wargame/oracle/client"
	"wargame/server"
)

func main() {
	experiment := flag.Bool("experiment", false, "run the batch size experiment instead of serving")
	flag.Parse()

	if *experiment {
		experiments.RunBatchSizeExperiment()
		return
	}

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	oracleClient := client.New(cfg.OracleURL, cfg.CallTimeout)
	srv := server.New(oracleClient, oracleClient, cfg)

	log.Info().Msgf("wargame service listening on %s (oracle at %s)", cfg.Addr, cfg.OracleURL)
	if err := http.ListenAndServe(cfg.Addr, srv.Routes()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
