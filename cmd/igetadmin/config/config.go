package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"iget-admin/internal/igetadmin"
	"iget-admin/internal/igetadmin/data/database"
	"iget-admin/internal/igetadmin/hubnet"
	"iget-admin/internal/igetadmin/igetapi"
	"iget-admin/internal/igetadmin/orderview"
	"iget-admin/internal/igetadmin/session"
	"iget-admin/internal/igetadmin/statuscheck"
	"iget-admin/pkg/logging"
)

const (
	serverAddressFlag        = "a"
	serverAddressEnv         = "RUN_ADDRESS"
	serverAddressDefault     = "localhost:8080"
	igetAPIAddressFlag       = "i"
	igetAPIAddressEnv        = "IGET_API_ADDRESS"
	igetAPIAddressDefault    = "https://iget.onrender.com"
	hubnetAddressFlag        = "n"
	hubnetAddressEnv         = "HUBNET_ADDRESS"
	hubnetAddressDefault     = "https://console.hubnet.app"
	hubnetTokenFlag          = "t"
	hubnetTokenEnv           = "HUBNET_TOKEN"
	dbConnectionStringFlag   = "d"
	dbConnectionStringEnv    = "DATABASE_URI"
	jwtSecretFlag            = "s"
	jwtSecretEnv             = "JWT_SECRET"
	logLevelFlag             = "l"
	logLevelEnv              = "LOG_LEVEL"
	logLevelDefault          = "info"
	sessionTTLFlag           = "session-ttl"
	sessionTTLEnv            = "SESSION_TTL"
	sessionTTLDefault        = 12 * time.Hour
	checkDelayFlag           = "check-delay"
	checkDelayEnv            = "CHECK_DELAY"
	checkDelayDefault        = time.Second
	pageSizeFlag             = "page-size"
	pageSizeEnv              = "PAGE_SIZE"
	fetchLimitFlag           = "fetch-limit"
	fetchLimitEnv            = "FETCH_LIMIT"
	hubnetRequestsPerSecond  = 2
	upstreamTimeout          = 30 * time.Second
	transactionCheckerSuffix = "/transaction-checker"
)

var ErrMissingJWTSecret = errors.New("jwt secret is required")

type Config struct {
	Server          igetadmin.Config
	JWTConfig       JWTConfig
	DB              database.Config
	IgetAPI         igetapi.Config
	Hubnet          hubnet.Config
	StatusCheck     statuscheck.Config
	Session         session.Config
	View            orderview.Config
	LogLevel        zapcore.Level
	ShutdownTimeout time.Duration
}

type JWTConfig struct {
	Algorithm string
	Secret    string
}

// JournalEnabled reports whether a journal database was configured.
func (c *Config) JournalEnabled() bool {
	return c.DB.ConnectionString != ""
}

func Load() (*Config, error) {
	return load(flag.CommandLine, os.Args[1:], os.LookupEnv)
}

func load(fs *flag.FlagSet, args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	defaults := orderview.DefaultConfig()

	serverAddress := fs.String(serverAddressFlag, serverAddressDefault, "Server address host:port")
	igetAPIAddress := fs.String(igetAPIAddressFlag, igetAPIAddressDefault, "iGet REST API base URL")
	hubnetAddress := fs.String(hubnetAddressFlag, hubnetAddressDefault, "Hubnet API base URL")
	hubnetToken := fs.String(hubnetTokenFlag, "", "Hubnet bearer token")
	dbConnectionString := fs.String(dbConnectionStringFlag, "", "PostgreSQL connection string for the audit journal")
	jwtSecret := fs.String(jwtSecretFlag, "", "Secret used to sign session tokens")
	logLevel := fs.String(logLevelFlag, logLevelDefault, "Log level")
	sessionTTL := fs.Duration(sessionTTLFlag, sessionTTLDefault, "Idle session lifetime")
	checkDelay := fs.Duration(checkDelayFlag, checkDelayDefault, "Delay between batch external status checks")
	pageSize := fs.Int(pageSizeFlag, defaults.PageSize, "Orders shown per page")
	fetchLimit := fs.Int(fetchLimitFlag, defaults.FetchLimit, "Orders requested per backend page")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	for env, dest := range map[string]*string{
		serverAddressEnv:      serverAddress,
		igetAPIAddressEnv:     igetAPIAddress,
		hubnetAddressEnv:      hubnetAddress,
		hubnetTokenEnv:        hubnetToken,
		dbConnectionStringEnv: dbConnectionString,
		jwtSecretEnv:          jwtSecret,
		logLevelEnv:           logLevel,
	} {
		if valStr, ok := lookupEnv(env); ok {
			*dest = valStr
		}
	}

	for env, dest := range map[string]*time.Duration{
		sessionTTLEnv: sessionTTL,
		checkDelayEnv: checkDelay,
	} {
		if valStr, ok := lookupEnv(env); ok {
			val, err := time.ParseDuration(valStr)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", env, err)
			}
			*dest = val
		}
	}

	for env, dest := range map[string]*int{
		pageSizeEnv:   pageSize,
		fetchLimitEnv: fetchLimit,
	} {
		if valStr, ok := lookupEnv(env); ok {
			val, err := strconv.Atoi(valStr)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", env, err)
			}
			*dest = val
		}
	}

	if *jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", logLevelEnv, err)
	}

	view := defaults
	view.PageSize = *pageSize
	view.FetchLimit = *fetchLimit

	return &Config{
		Server: igetadmin.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: time.Second * 5,
		},
		JWTConfig: JWTConfig{
			Algorithm: "HS256",
			Secret:    *jwtSecret,
		},
		DB: database.Config{
			ConnectionString: *dbConnectionString,
			RetryAttemptDelays: []time.Duration{
				0,
				time.Second,
				time.Second * 3,
				time.Second * 5,
			},
		},
		IgetAPI: igetapi.Config{
			ServerAddress: strings.TrimRight(*igetAPIAddress, "/"),
			Timeout:       upstreamTimeout,
		},
		Hubnet: hubnet.Config{
			CheckerURL:        strings.TrimRight(*hubnetAddress, "/") + transactionCheckerSuffix,
			Token:             *hubnetToken,
			RequestsPerSecond: hubnetRequestsPerSecond,
			Timeout:           upstreamTimeout,
		},
		StatusCheck: statuscheck.Config{
			RequestDelay: *checkDelay,
		},
		Session: session.Config{
			TTL: *sessionTTL,
		},
		View:            view,
		LogLevel:        level,
		ShutdownTimeout: time.Second * 5,
	}, nil
}
