package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"restaurant-finder/config"
	httpapi "restaurant-finder/internal/api/http"
	"restaurant-finder/internal/client"
	"restaurant-finder/internal/domain"
	"restaurant-finder/internal/events"
	"restaurant-finder/internal/notify"
	"restaurant-finder/internal/pages"
	"restaurant-finder/internal/search"
	"restaurant-finder/internal/service"
	"restaurant-finder/internal/session"
	"restaurant-finder/internal/share"
	"restaurant-finder/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeKV := initSessionBackend(ctx, cfg)
	defer closeKV()
	store := storage.NewSessionStore(kv)

	api := client.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, store)
	authSvc := service.NewAuthService(api)
	restSvc := service.NewRestaurantService(api)

	notes := notify.New(notify.DefaultCapacity)
	sess := session.NewController(authSvc, store, notes)

	var publisher events.Publisher
	if cfg.Kafka.Enabled() {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("Warning: failed to close Kafka writer: %v", err)
			}
		}()
		publisher = events.NewKafkaPublisher(writer)
		log.Printf("Publishing activity to Kafka topic %s", cfg.Kafka.Topic)
	}
	activity := events.NewActivity(publisher, func() string {
		if s := sess.Session(); s != nil {
			return s.Username
		}
		return ""
	})
	defer activity.Wait()

	listing := pages.NewListing(restSvc, func(filters domain.SearchFilters, _ []domain.Restaurant, err error) {
		if err == nil {
			activity.SearchPerformed(ctx, filters)
		}
	})
	filters := search.NewController(listing.Dispatch(ctx, func(err error) {
		notes.Report(err, "Failed to fetch restaurants")
	}), restSvc, search.NewDebouncer(cfg.SearchDebounce, nil))
	defer filters.Close()

	detail := pages.NewDetail(restSvc, sess, func(restaurantID int, review domain.Review) {
		activity.ReviewSubmitted(ctx, restaurantID, review)
	})

	sess.Initialize(ctx)

	handler := httpapi.NewHandler(sess, filters, listing, detail, restSvc, notes,
		share.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL})

	if err := httpapi.StartServer(ctx, cfg.ListenAddr, httpapi.NewRouter(handler, cfg.AllowedOrigins)); err != nil {
		log.Printf("Server error: %v", err)
	}
}

func initSessionBackend(ctx context.Context, cfg config.Config) (storage.KeyValue, func()) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		rdb := config.MustInitRedis(cfg.Redis)
		log.Println("Successfully connected to Redis")
		return storage.NewRedisStore(rdb, cfg.Session.RedisPrefix), func() { rdb.Close() }
	case config.BackendPostgres:
		db := config.MustInitPostgres(cfg.Postgres)
		pg := storage.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure session schema: %v", err)
		}
		log.Println("Successfully connected to database")
		return pg, func() { db.Close() }
	case config.BackendMemory:
		return storage.NewMemoryStore(), func() {}
	default:
		fs, err := storage.NewFileStore(cfg.Session.File)
		if err != nil {
			log.Fatalf("Failed to open session file: %v", err)
		}
		return fs, func() {}
	}
}
