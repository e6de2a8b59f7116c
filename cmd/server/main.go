package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/workorg/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	secret = configVar[string]{
		envKey:       "SERVER_SECRET",
		flagKey:      "secret",
		defaultValue: "",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 5000,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	databaseDSN = configVar[string]{
		envKey:       "DATABASE_DSN",
		flagKey:      "database-dsn",
		defaultValue: "host=localhost port=5432 user=workorg dbname=workorg sslmode=disable",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
	smtpHost = configVar[string]{
		envKey:       "SMTP_HOST",
		flagKey:      "smtp-host",
		defaultValue: "localhost",
	}
	smtpPort = configVar[int]{
		envKey:       "SMTP_PORT",
		flagKey:      "smtp-port",
		defaultValue: 587,
	}
	smtpUser = configVar[string]{
		envKey:       "SMTP_USER",
		flagKey:      "smtp-user",
		defaultValue: "",
	}
	smtpPassword = configVar[string]{
		envKey:       "SMTP_PASSWORD",
		flagKey:      "smtp-password",
		defaultValue: "",
	}
	emailFrom = configVar[string]{
		envKey:       "EMAIL_FROM",
		flagKey:      "email-from",
		defaultValue: "WORKORG <noreply@workorg.app>",
	}
	clientURL = configVar[string]{
		envKey:       "CLIENT_URL",
		flagKey:      "client-url",
		defaultValue: "http://localhost:3000",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(secret.flagKey, secret.defaultValue, "Server secret")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(databaseDSN.flagKey, databaseDSN.defaultValue, "Postgres DSN")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.String(smtpHost.flagKey, smtpHost.defaultValue, "SMTP host")
	pflag.Int(smtpPort.flagKey, smtpPort.defaultValue, "SMTP port")
	pflag.String(smtpUser.flagKey, smtpUser.defaultValue, "SMTP user")
	pflag.String(smtpPassword.flagKey, smtpPassword.defaultValue, "SMTP password")
	pflag.String(emailFrom.flagKey, emailFrom.defaultValue, "From address for outgoing mail")
	pflag.String(clientURL.flagKey, clientURL.defaultValue, "Client application URL")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(secret.flagKey, secret.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(databaseDSN.flagKey, databaseDSN.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)
	viper.BindEnv(smtpHost.flagKey, smtpHost.envKey)
	viper.BindEnv(smtpPort.flagKey, smtpPort.envKey)
	viper.BindEnv(smtpUser.flagKey, smtpUser.envKey)
	viper.BindEnv(smtpPassword.flagKey, smtpPassword.envKey)
	viper.BindEnv(emailFrom.flagKey, emailFrom.envKey)
	viper.BindEnv(clientURL.flagKey, clientURL.envKey)

	viper.SetDefault(secret.flagKey, secret.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(databaseDSN.flagKey, databaseDSN.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)
	viper.SetDefault(smtpHost.flagKey, smtpHost.defaultValue)
	viper.SetDefault(smtpPort.flagKey, smtpPort.defaultValue)
	viper.SetDefault(smtpUser.flagKey, smtpUser.defaultValue)
	viper.SetDefault(smtpPassword.flagKey, smtpPassword.defaultValue)
	viper.SetDefault(emailFrom.flagKey, emailFrom.defaultValue)
	viper.SetDefault(clientURL.flagKey, clientURL.defaultValue)

	config := &app.AppConfig{
		Secret:        viper.GetString(secret.flagKey),
		Host:          viper.GetString(host.flagKey),
		Port:          viper.GetInt(port.flagKey),
		LogLevel:      viper.GetString(logLevel.flagKey),
		DatabaseDSN:   viper.GetString(databaseDSN.flagKey),
		RedisPort:     viper.GetInt(redisPort.flagKey),
		RedisHost:     viper.GetString(redisHost.flagKey),
		RedisPassword: viper.GetString(redisPassword.flagKey),
		SMTPHost:      viper.GetString(smtpHost.flagKey),
		SMTPPort:      viper.GetInt(smtpPort.flagKey),
		SMTPUser:      viper.GetString(smtpUser.flagKey),
		SMTPPassword:  viper.GetString(smtpPassword.flagKey),
		EmailFrom:     viper.GetString(emailFrom.flagKey),
		ClientURL:     viper.GetString(clientURL.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatal(err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
