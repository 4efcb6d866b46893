package config

const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 5000
	DefaultLogLevel = "info"

	DefaultLocation  = "global"
	DefaultDatasetID = "bigquery-public-data.covid19_weathersource_com"

	DefaultRateLimitPerMinute = 60
)

var DefaultCORSOrigins = []string{"*"}
