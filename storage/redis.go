package storage

import (
	"log"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
)

// Redis holds refresh tokens; losing it only forces re-logins.
var Redis *redis.Client

func InitializeRedis() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
		log.Println("⚠️  REDIS_URL not set, using localhost:6379 (development mode)")
	}

	// Managed providers hand out full redis:// / rediss:// URLs with
	// credentials baked in; plain host:port comes from local setups.
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Panic("invalid REDIS_URL: " + err.Error())
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		}
	}

	Redis = redis.NewClient(opts)
	log.Println("🔧 Redis initialized with address:", opts.Addr)
}
