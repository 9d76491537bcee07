package config

// EnvPrefix is applied by envconfig on top of the explicit tags below.
const EnvPrefix = "STOCKSCAN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "STOCKSCAN_DB_DSN"
	EnvDBHost = "STOCKSCAN_DB_HOST"
	EnvDBUser = "STOCKSCAN_DB_USER"
	EnvDBName = "STOCKSCAN_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
