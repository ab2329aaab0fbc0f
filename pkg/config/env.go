package config

const EnvPrefix = "PIZZAPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	SnapshotDriverSQLite = "sqlite"
	SnapshotDriverRedis  = "redis"

	PaperWidth80 = "80mm"
	PaperWidth58 = "58mm"

	FiscalModuleNone = "NONE"
	FiscalModuleSAT  = "SAT"
	FiscalModuleNFCe = "NFC_E"
)

const (
	EnvAppEnv              = "PIZZAPOS_APP_ENV"
	EnvPort                = "PIZZAPOS_APP_PORT"
	EnvLogLevel            = "PIZZAPOS_LOG_LEVEL"
	EnvStoreName           = "PIZZAPOS_STORE_NAME"
	EnvPaperWidth          = "PIZZAPOS_PAPER_WIDTH"
	EnvDeliveryFeesFile    = "PIZZAPOS_DELIVERY_FEES_FILE"
	EnvSnapshotDriver      = "PIZZAPOS_SNAPSHOT_DRIVER"
	EnvDBDSN               = "PIZZAPOS_DB_DSN"
	EnvRedisURL            = "PIZZAPOS_REDIS_URL"
	EnvRedisAddr           = "PIZZAPOS_REDIS_ADDR"
	EnvOpenAIAPIKey        = "PIZZAPOS_OPENAI_API_KEY"
	EnvFiscalModule        = "PIZZAPOS_FISCAL_MODULE"
	EnvFiscalFailureRate   = "PIZZAPOS_FISCAL_FAILURE_RATE"
	EnvSettlementTolerance = "PIZZAPOS_SETTLEMENT_TOLERANCE"
)
