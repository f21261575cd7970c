package config

// EnvPrefix is empty because every variable carries the AXOLOTL_ prefix in its
// envconfig tag already.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "AXOLOTL_DB_DSN"
	EnvDBHost = "AXOLOTL_DB_HOST"
	EnvDBUser = "AXOLOTL_DB_USER"
	EnvDBName = "AXOLOTL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
