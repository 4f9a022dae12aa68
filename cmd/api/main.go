package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/handlers"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/auth"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/orders"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/stores/kafka"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/stores/memory"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/stores/postgres"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/users"
)

type stores struct {
	items  items.Store
	orders orders.Store
	users  users.Store
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	keys, err := setupAuthKeys()
	if err != nil {
		log.Fatalf("failed to set up auth keys: %v", err)
	}

	st, err := setupStores()
	if err != nil {
		log.Fatalf("failed to set up stores: %v", err)
	}

	itemsConf, err := items.NewConf(st.items)
	if err != nil {
		log.Fatalf("failed to create items conf: %v", err)
	}
	ordersConf, err := orders.NewConf(st.orders)
	if err != nil {
		log.Fatalf("failed to create orders conf: %v", err)
	}
	usersConf, err := users.NewConf(st.users)
	if err != nil {
		log.Fatalf("failed to create users conf: %v", err)
	}

	var kafkaConf *kafka.Conf
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kafkaConf, err = kafka.NewConf(strings.Split(brokers, ","))
		if err != nil {
			log.Fatalf("failed to create kafka client: %v", err)
		}
		defer kafkaConf.Close()
	} else {
		slog.Info("KAFKA_BROKERS not set, event feed disabled")
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "static/uploads"
	}
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		log.Fatalf("failed to create uploads dir: %v", err)
	}

	prefix := os.Getenv("SERVICE_ENDPOINT_PREFIX")
	if prefix == "" {
		prefix = "/v1"
	}

	r := handlers.API(prefix, itemsConf, ordersConf, usersConf, kafkaConf, keys, uploadsDir)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("starting server", slog.String("Port", port), slog.String("Prefix", prefix))
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func setupAuthKeys() (*auth.Keys, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		secret = "dev-only-change-me"
		slog.Warn("SECRET_KEY not set, using development default")
	}
	expiryMinutes := 60
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		expiryMinutes = n
	}
	return auth.NewKeys(secret, expiryMinutes)
}

// setupStores connects to Postgres when DB_HOST is configured and falls back
// to the in-memory store otherwise, so the API runs without a database for
// local development.
func setupStores() (stores, error) {
	if os.Getenv("DB_HOST") == "" {
		slog.Warn("DB_HOST not set, using in-memory store; data will not survive a restart")
		st := memory.NewStore()
		return stores{items: st, orders: st, users: st}, nil
	}

	db, err := postgres.OpenDB()
	if err != nil {
		return stores{}, err
	}
	if err := postgres.RunMigrations(db); err != nil {
		return stores{}, err
	}
	st, err := postgres.NewStore(db)
	if err != nil {
		return stores{}, err
	}
	return stores{items: st, orders: st, users: st}, nil
}
