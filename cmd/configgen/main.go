package main

import (
	"flag"
	"log"

	"github.com/danmuck/bridgectl/internal/config"
)

func main() {
	output := flag.String("output", "cmd/bridgectl/config.toml", "output path for the config template")
	validate := flag.Bool("validate", false, "validate an existing config file instead of writing one")
	input := flag.String("input", "cmd/bridgectl/config.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite an existing config file")
	flag.Parse()

	if *validate {
		if _, err := config.LoadBridgeConfig(*input); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated bridge config at %s", *input)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote bridge config template to %s", *output)
}
