package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/openalpha/farmd/api"
)

const simulatorNotice = `farmd-api serves the farm from an in-memory simulator for local development
and testing. Requests are not signed: sender, manager and admin are taken from
the request body as given, so any client that reaches the server can act as
any account, the manager included. Do not expose it on a public network.`

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "%s\n\nUsage of farmd-api:\n%s", simulatorNotice, flags.FlagUsages())
}

func newFlagSet() *pflag.FlagSet {
	defaults := api.DefaultSimulatorConfig()

	flags := pflag.NewFlagSet("farmd-api", pflag.ExitOnError)
	flags.Usage = func() { printUsage(os.Stderr, flags) }
	flags.String("config", "", "Optional config file (yaml, toml or json)")
	flags.String("host", "0.0.0.0", "Server host")
	flags.Int("port", 8080, "Server port")
	flags.Duration("block-interval", time.Second, "Simulated block interval, 0 to mine only on request")
	flags.Bool("bench", false, "Disable rate limiting")
	flags.String("log-level", "info", "Log level")
	flags.Bool("log-json", false, "Log as JSON instead of console output")
	flags.StringSlice("allowed-origins", []string{"*"}, "CORS allowed origins")

	flags.String("manager", defaults.Manager, "Farm manager address")
	flags.String("admin", defaults.Admin, "Farm admin address")
	flags.String("reward-token", defaults.RewardToken, "Reward token denom")
	flags.String("tokens-per-block", defaults.TokensPerBlock, "Reward emitted per block across all pools")
	flags.String("reward-reserve", defaults.RewardReserve, "Reward tokens minted to the farm escrow at genesis")
	flags.Duration("claims-open-after", defaults.ClaimsOpenAfter, "Claim gate offset from genesis")
	flags.Duration("investors-unlock-after", defaults.InvestorsUnlockAfter, "Private investor unlock offset from genesis")
	return flags
}

func loadConfig(args []string) (*viper.Viper, error) {
	v := viper.New()
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("FARMD_API")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func newLogger(v *viper.Viper) zerolog.Logger {
	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if v.GetBool("log-json") {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

func main() {
	v, err := loadConfig(os.Args[1:])
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(v)

	simCfg := api.DefaultSimulatorConfig()
	simCfg.Manager = v.GetString("manager")
	simCfg.Admin = v.GetString("admin")
	simCfg.RewardToken = v.GetString("reward-token")
	simCfg.TokensPerBlock = v.GetString("tokens-per-block")
	simCfg.RewardReserve = v.GetString("reward-reserve")
	simCfg.ClaimsOpenAfter = v.GetDuration("claims-open-after")
	simCfg.InvestorsUnlockAfter = v.GetDuration("investors-unlock-after")
	simCfg.Logger = log.NewCustomLogger(logger.With().Str("module", "x/farming").Logger())

	service, err := api.NewKeeperService(simCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise farm simulator")
	}

	config := api.DefaultConfig()
	config.Host = v.GetString("host")
	config.Port = v.GetInt("port")
	config.BlockInterval = v.GetDuration("block-interval")
	config.DisableRateLimit = v.GetBool("bench")
	config.AllowedOrigins = v.GetStringSlice("allowed-origins")

	server := api.NewServer(config, service, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	logger.Info().
		Str("manager", simCfg.Manager).
		Str("admin", simCfg.Admin).
		Str("escrow", service.Escrow()).
		Str("reward_token", simCfg.RewardToken).
		Msg("farm simulator ready")
	logger.Warn().Msg("requests are unauthenticated; any client may act as manager or admin")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server exited")
}
