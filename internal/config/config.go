package config

import (
	"errors"
	"github.com/caarlos0/env/v6"
	"github.com/tonkeeper/tongo/config"
	"github.com/tonkeeper/tongo/ton"
	"log/slog"
	"net/url"
	"reflect"
)

type Config struct {
	Port           int                 `env:"PORT" envDefault:"8081"`
	LogLevel       slog.Level          `env:"LOG_LEVEL" envDefault:"INFO"`
	PostgresURI    string              `env:"POSTGRES_URI,required"`
	Token          string              `env:"TOKEN,required"`
	LiteServers    []config.LiteServer `env:"LITE_SERVERS"`
	JettonMaster   ton.AccountID       `env:"JETTON_MASTER,required"`
	BridgeAddress  ton.AccountID       `env:"BRIDGE_ADDRESS,required"` // multisig receiving votes
	WalletEndpoint string              `env:"WALLET_ENDPOINT,required"`
	BurnValue      uint64              `env:"BURN_VALUE" envDefault:"1000000000"` // nanotons attached to a burn
	VoteValue      uint64              `env:"VOTE_VALUE" envDefault:"1000000000"`
	Testnet        bool                `env:"TESTNET" envDefault:"false"`
}

func Load() Config {
	c, err := parse(env.Options{})
	if err != nil {
		panic("parse config error: " + err.Error())
	}
	return c
}

func parse(opts env.Options) (Config, error) {
	var (
		c  Config
		ll slog.Level
	)
	if err := env.ParseWithFuncs(&c, map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(ll): func(v string) (interface{}, error) {
			var level slog.Level
			err := level.UnmarshalText([]byte(v))
			return level, err
		},
		reflect.TypeOf([]config.LiteServer{}): func(v string) (interface{}, error) {
			servers, err := config.ParseLiteServersEnvVar(v)
			if err != nil {
				return nil, err
			}
			return servers, nil
		},
		reflect.TypeOf(ton.AccountID{}): func(v string) (interface{}, error) {
			addr, err := ton.ParseAccountID(v)
			if err != nil {
				return nil, err
			}
			return addr, nil
		},
	}, opts); err != nil {
		return Config{}, err
	}
	if _, err := url.ParseRequestURI(c.WalletEndpoint); err != nil {
		return Config{}, errors.New("invalid WALLET_ENDPOINT: " + c.WalletEndpoint)
	}
	if c.JettonMaster == c.BridgeAddress {
		return Config{}, errors.New("JETTON_MASTER and BRIDGE_ADDRESS must differ")
	}
	return c, nil
}
