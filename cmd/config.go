package main

import "time"

type Config struct {
	Concurrency               int           `env:"CONCURRENCY,default=100"`
	RequestTimeout            time.Duration `env:"REQUEST_TIMEOUT,default=1s"`
	Retries                   int           `env:"RETRIES,default=3"`
	RetryBaseDelay            time.Duration `env:"RETRY_BASE_DELAY,default=100ms"`
	RetryMaxDelay             time.Duration `env:"RETRY_MAX_DELAY,default=2s"`
	EnrichmentMode            string        `env:"ENRICHMENT_MODE,default=simulated"`
	NormalizeURL              string        `env:"NORMALIZE_URL"`
	ScoreURL                  string        `env:"SCORE_URL"`
	OutputDir                 string        `env:"OUTPUT_DIR"`
	ReportInterval            time.Duration `env:"REPORT_INTERVAL,default=5s"`
	ModerationCharReplacement rune          `env:"MODERATION_CHARACTER_REPLACEMENT,required=true"`
	BadgerFilepath            string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel                  string        `env:"LOG_LEVEL,required=true"`
	Host                      string        `env:"HOST,default=localhost"`
	Port                      int           `env:"PORT,default=8080"`
	JWTSecret                 string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration         time.Duration `env:"AUTH_TOKEN_DURATION,default=1h"`
	OperatorPasswordHash      string        `env:"OPERATOR_PASSWORD_HASH,required=true"`
}
