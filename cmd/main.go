package main

import (
	"fmt"
	"os"

	"school/backend/foundation/web"
	"school/backend/internal/auth"
	"school/backend/internal/commands"
	"school/backend/internal/pkg/config"
	"school/backend/internal/pkg/repository/postgresql"
	"school/backend/internal/router"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Fatal().Err(err).Msg("starting server")
		}
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	// Env overrides on top of config.yaml, SCHOOL_WEB_PORT etc.
	var flags struct {
		Web struct {
			Port string `conf:"default::8080"`
		}
		Migrate bool `conf:"default:true"`
	}
	if err := conf.Parse(os.Args[1:], "SCHOOL", &flags); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage("SCHOOL", &flags)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return commands.ErrHelp
		}
		return errors.Wrap(err, "parsing config")
	}

	postgresDB := postgresql.New(postgresql.Config{
		Username:   cfg.DBUsername,
		Password:   cfg.DBPassword,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		Name:       cfg.DBName,
		DisableTLS: cfg.DisableTLS,
	})
	defer postgresDB.Close()

	if flags.Migrate {
		commands.MigrateUP(postgresDB)
	}

	redisDB := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer redisDB.Close()

	authenticator := auth.New(cfg.JWTKey)

	app := web.NewApp()

	r := router.NewRouter(app, postgresDB, redisDB, flags.Web.Port, authenticator, cfg.JWTKey)

	log.Info().Str("port", flags.Web.Port).Msg("starting api server")

	return r.Init()
}
