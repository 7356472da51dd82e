package appcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/config"
	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/password"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/token"
	"github.com/RoyceAzure/lab/qkart/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository/docstore"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository/memory"
	"github.com/RoyceAzure/lab/qkart/internal/logger"
	"github.com/RoyceAzure/lab/qkart/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type ApplicationContext struct {
	Cf             *config.Config
	Logger         zerolog.Logger
	KafkaWriter    *logger.KafkaWriter
	Store          repository.IStore
	TokenMaker     token.Maker
	Hasher         password.Hasher
	UserService    service.IUserService
	AuthService    service.IAuthService
	ProductService service.IProductService
	CartService    service.ICartService
	AuthVerifier   service.IAuthVerifier
	LoginLimiter   ratelimit.ILimiter
	redisClient    *redis.Client
	tokenBucket    *ratelimit.TokenBucket
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}

	err := app.Init()
	if err != nil {
		// 已建立的連線要釋放
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Shutdown(shutdownCtx)
		return nil, err
	}

	return &app, nil
}

func (app *ApplicationContext) Init() error {
	steps := []func() error{
		app.setUpLogger,
		app.setUpStore,
		app.setUpTokenMaker,
		app.setUpHasher,
		app.setUpUserService,
		app.setUpAuthService,
		app.setUpProductService,
		app.setUpCartService,
		app.setUpAuthVerifier,
		app.setUpLoginLimiter,
		app.importProducts,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (app *ApplicationContext) setUpLogger() error {
	if brokers := app.Cf.KafkaBrokers(); len(brokers) > 0 {
		kw, err := logger.NewKafkaWriter(logger.KafkaConfig{
			Brokers: brokers,
			Topic:   app.Cf.KafkaLogTopic,
		}, app.Cf.ModulerName)
		if err != nil {
			return err
		}
		app.KafkaWriter = kw
	}

	cfg := logger.Config{
		Service: app.Cf.ModulerName,
		Env:     app.Cf.Env,
		Level:   app.Cf.LogLevel,
		Console: app.Cf.Env == string(constants.Debug),
	}
	if app.KafkaWriter != nil {
		app.Logger = logger.New(cfg, app.KafkaWriter)
	} else {
		app.Logger = logger.New(cfg)
	}
	logger.SetGlobal(app.Logger)

	app.Logger.Info().Bool("kafka", app.KafkaWriter != nil).Msg("Finish setup logger")
	return nil
}

func (app *ApplicationContext) setUpStore() error {
	app.Logger.Info().Str("driver", app.Cf.StoreDriver).Msg("Start setup store")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch constants.StoreDriver(app.Cf.StoreDriver) {
	case constants.MongoDriver:
		store, err := docstore.NewStore(ctx, app.Cf.MongoUri, app.Cf.MongoDb, app.Cf.MongoTransactions)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		app.Store = store
	case constants.PostgresDriver:
		conn, err := db.Open(ctx, app.Cf.PostgresDSN())
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.RunMigrations(conn); err != nil {
			conn.Close()
			return fmt.Errorf("run migrations: %w", err)
		}
		app.Store = db.NewStore(conn)
	case constants.MemoryDriver:
		app.Store = memory.NewStore()
	default:
		return fmt.Errorf("unsupported store driver %q", app.Cf.StoreDriver)
	}

	app.Logger.Info().Msg("Finish setup store")
	return nil
}

func (app *ApplicationContext) setUpTokenMaker() error {
	app.Logger.Info().Msg("Start setup token maker")
	tokenMaker, err := token.NewJWTMaker(app.Cf.JwtSecret)
	if err != nil {
		return fmt.Errorf("無法創建 token maker: %w", err)
	}
	app.TokenMaker = tokenMaker
	app.Logger.Info().Msg("Finish setup token maker")
	return nil
}

func (app *ApplicationContext) setUpHasher() error {
	app.Hasher = password.NewBcryptHasher(bcrypt.DefaultCost)
	return nil
}

func (app *ApplicationContext) setUpUserService() error {
	app.Logger.Info().Msg("Start setup user service")
	app.UserService = service.NewUserService(app.Store, app.Hasher, app.Cf.DefaultWallet())
	app.Logger.Info().Msg("Finish setup user service")
	return nil
}

func (app *ApplicationContext) setUpAuthService() error {
	app.Logger.Info().Msg("Start setup auth service")
	app.AuthService = service.NewAuthService(app.UserService, app.Hasher, app.TokenMaker, app.Cf.AccessTokenDuration(), app.Cf.RefreshTokenDuration())
	app.Logger.Info().Msg("Finish setup auth service")
	return nil
}

func (app *ApplicationContext) setUpProductService() error {
	app.Logger.Info().Msg("Start setup product service")
	app.ProductService = service.NewProductService(app.Store)
	app.Logger.Info().Msg("Finish setup product service")
	return nil
}

func (app *ApplicationContext) setUpCartService() error {
	app.Logger.Info().Msg("Start setup cart service")
	app.CartService = service.NewCartService(app.Store)
	app.Logger.Info().Msg("Finish setup cart service")
	return nil
}

func (app *ApplicationContext) setUpAuthVerifier() error {
	app.AuthVerifier = service.NewAuthVerifier(app.Store)
	return nil
}

// setUpLoginLimiter 有設定 redis 時多個實例共用額度, 否則使用單機版
func (app *ApplicationContext) setUpLoginLimiter() error {
	app.Logger.Info().Msg("Start setup login rate limiter")
	limiterCf := &ratelimit.LimiterConfig{
		Capacity: app.Cf.RateLimitCapacity,
		RatePS:   app.Cf.RateLimitRatePS,
	}

	if app.Cf.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     app.Cf.RedisAddr,
			Password: app.Cf.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return fmt.Errorf("connect redis: %w", err)
		}
		app.redisClient = client
		app.LoginLimiter = ratelimit.NewRedisTokenBucket(client, limiterCf)
	} else {
		app.tokenBucket = ratelimit.NewTokenBucket(limiterCf)
		app.LoginLimiter = app.tokenBucket
	}

	app.Logger.Info().Bool("redis", app.redisClient != nil).Msg("Finish setup login rate limiter")
	return nil
}

func (app *ApplicationContext) importProducts() error {
	if app.Cf.ProductsSeedFile == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := app.ProductService.ImportProducts(ctx, app.Cf.ProductsSeedFile); err != nil {
		return fmt.Errorf("import products: %w", err)
	}
	return nil
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	app.Logger.Info().Msg("Start application shutdown")

	done := make(chan error, 1)
	go func() {
		defer close(done)

		if app.tokenBucket != nil {
			app.tokenBucket.Stop()
		}

		if app.redisClient != nil {
			app.Logger.Info().Msg("Closing redis connection...")
			if err := app.redisClient.Close(); err != nil {
				//有錯誤不結束流程
				app.Logger.Error().Err(err).Msg("redis shutdown error")
			}
		}

		if app.Store != nil {
			app.Logger.Info().Msg("Closing store...")
			if err := app.Store.Close(ctx); err != nil {
				app.Logger.Error().Err(err).Msg("store shutdown error")
			}
		}

		app.Logger.Info().Msg("Application shutdown complete")

		// kafka 最後關, 前面的 log 才送得出去
		if app.KafkaWriter != nil {
			if err := app.KafkaWriter.Close(); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %v", ctx.Err())
	}
}
