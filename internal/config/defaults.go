package config

import "time"

const defaultPort = 8080

const defaultOperationTimeout = 5 * time.Second

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "dispatch",
	Pass: "dispatch",
	Name: "dispatch_db",
}

var defaultLedger = Gateway{
	BaseURL: "http://localhost:3001",
	Timeout: 10 * time.Second,
}

var defaultIdentity = Gateway{
	BaseURL: "http://localhost:3000",
	Timeout: 5 * time.Second,
}

var defaultRestaurant = Gateway{
	BaseURL: "http://localhost:3000",
	Timeout: 5 * time.Second,
}

var defaultKafka = Kafka{
	Topic:   "order-events",
	GroupID: "dispatch-worker",
}

var defaultPricing = Pricing{
	BaseRate:     3.5,
	DistanceRate: 0.5,
	MinimumFee:   2.5,
	MaximumFee:   25.0,
}

var defaultRateLimit = RateLimit{
	Limit:      20,
	Window:     time.Second,
	TTL:        10 * time.Minute,
	MaxBuckets: 100_000,
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Port:             defaultPort,
		OperationTimeout: defaultOperationTimeout,
		DB:               defaultDB,
		Ledger:           defaultLedger,
		Identity:         defaultIdentity,
		Restaurant:       defaultRestaurant,
		Kafka:            defaultKafka,
		Pricing:          defaultPricing,
		RateLimit:        defaultRateLimit,
	}
}
