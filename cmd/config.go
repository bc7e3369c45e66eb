package cmd

// Config carries everything the process needs from its environment.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddress  string
	RedisPassword string

	OrderServiceBaseURL string
	OrderServiceAPIKey  string

	GoogleMapsAPIKey string

	PushGatewayBaseURL string
	PushGatewayAPIKey  string
}
