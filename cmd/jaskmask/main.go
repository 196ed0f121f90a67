package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/jask/jaskmask/internal/config"
	"github.com/jask/jaskmask/internal/logging"
	"github.com/jask/jaskmask/internal/mask"
)

const usage = `usage: jaskmask [flags] [command]

commands:
  run                         open a form (default)
  forms                       list configured forms
  format --form F --field X V print the masked and raw form of V
  history --form F [--clear]  print or delete stored submissions
  seed --form F [--count N]   store N sample submissions
  config [--save]             print the effective settings, optionally saving them

flags:
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	flags := config.Flags()
	formName := flags.String("form", "contact", "form to open or inspect")
	fieldName := flags.String("field", "", "field used by format")
	clearHistory := flags.Bool("clear", false, "delete the history of --form")
	limit := flags.Int("limit", 20, "number of submissions printed by history")
	count := flags.Int("count", 10, "number of submissions stored by seed")
	save := flags.Bool("save", false, "write the effective settings to the config file")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("flags")
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	logger, closer, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("logging")
	}
	defer closer.Close()

	forms, err := config.LoadForms(cfg.Forms.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Forms.Path).Msg("forms")
	}

	ctx := context.Background()
	numbers := mask.LocaleFormatter{}
	args := flags.Args()
	command := "run"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "forms":
		listForms(os.Stdout, forms)
	case "config":
		err = showConfig(os.Stdout, cfg, *save)
	case "format":
		err = formatValue(os.Stdout, forms, cfg.UI, numbers, *formName, *fieldName, args)
	case "history", "seed", "run":
		var a *app
		a, err = openApp(ctx, cfg, forms, logger)
		if err != nil {
			break
		}
		defer a.close()
		switch command {
		case "history":
			err = a.history(ctx, os.Stdout, *formName, *limit, *clearHistory)
		case "seed":
			err = a.seed(ctx, os.Stdout, *formName, *count, numbers)
		default:
			err = a.run(ctx, *formName, numbers)
		}
	default:
		flags.Usage()
		err = fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		logger.Error().Err(err).Str("command", command).Msg("command failed")
		closer.Close()
		log.Fatal().Err(err).Msg(command)
	}
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
