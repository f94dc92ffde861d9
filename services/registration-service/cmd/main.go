package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/config"
	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/handler"
	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/repository"
	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/usecase"
	"github.com/vasapolrittideah/member-registry/shared/auth"
	"github.com/vasapolrittideah/member-registry/shared/broker"
	"github.com/vasapolrittideah/member-registry/shared/logger"
	"github.com/vasapolrittideah/member-registry/shared/mailer"
	"github.com/vasapolrittideah/member-registry/shared/metrics"
	"github.com/vasapolrittideah/member-registry/shared/provider"
	"github.com/vasapolrittideah/member-registry/shared/utilities"
	"github.com/vasapolrittideah/member-registry/shared/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: cfg.ServiceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient := connectMongo(ctx, cfg.Mongo, log)
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	cognitoClient, err := provider.NewCognitoClient(ctx, cfg.Cognito.Region, cfg.Cognito.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create cognito client")
	}
	identityProvider := provider.NewCognitoIdentityProvider(cognitoClient, cfg.Cognito.UserPoolID)

	validator, err := validation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create validator")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	profileRepo := repository.NewProfileMongoRepository(ctx, log, mongoClient.Database(cfg.Mongo.Database))

	var notifiers []usecase.RegistrationNotifier
	if cfg.SMTP.Enabled() {
		notifiers = append(notifiers, usecase.NewActivationMailNotifier(
			mailer.NewMailer(cfg.SMTP.Mailer()),
			cfg.Registration.ActivationURL,
		))
	}
	if cfg.Kafka.Enabled() {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close kafka producer")
			}
		}()
		notifiers = append(notifiers, usecase.NewProfileEventNotifier(producer))
	}

	registrationUsecase := usecase.NewRegistrationUsecase(
		identityProvider,
		profileRepo,
		usecase.NewCollisionGuard(profileRepo, recorder, log),
		validator,
		recorder,
		&cfg.Registration,
		log,
		notifiers...,
	)
	reconcileUsecase := usecase.NewReconcileUsecase(identityProvider, profileRepo, recorder, &cfg.Reconcile, log)

	router := handler.NewRouter(&handler.RouterDeps{
		RegistrationUsecase: registrationUsecase,
		ReconcileUsecase:    reconcileUsecase,
		JWTAuth:             auth.NewJWTAuthenticator(cfg.Token.Audience, cfg.Token.Issuer),
		AdminSecret:         cfg.Token.AdminSecret,
		MetricsHandler:      metrics.Handler(registry),
		Logger:              log,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	healthServer := utilities.NewHealthServer(log)

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := healthServer.Serve(cfg.GRPC.Addr); err != nil {
			errCh <- err
		}
	}()

	deregister := registerInConsul(cfg, log)

	go usecase.StartReconcileLoop(ctx, reconcileUsecase, cfg.Reconcile.Interval, log)

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
	}

	if deregister != nil {
		if err := deregister(); err != nil {
			log.Error().Err(err).Msg("failed to deregister from consul")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	healthServer.Shutdown(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down http server")
	}
}

func connectMongo(ctx context.Context, cfg config.MongoConfig, log *zerolog.Logger) *mongo.Client {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	log.Info().Str("database", cfg.Database).Msg("connected to mongodb")
	return client
}

func registerInConsul(cfg *config.RegistrationServiceConfig, log *zerolog.Logger) func() error {
	if !cfg.Consul.Enabled() {
		return nil
	}

	agent, err := utilities.NewConsulAgent(cfg.Consul.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create consul agent")
	}

	serviceID := cfg.Consul.ServiceID
	if serviceID == "" {
		serviceID = cfg.ServiceName
	}

	deregister, err := utilities.RegisterService(agent, utilities.ServiceRegistration{
		ID:      serviceID,
		Name:    cfg.ServiceName,
		Address: cfg.Consul.ServiceAddress,
		Port:    cfg.Consul.ServicePort,
		Tags:    []string{"registration", "grpc-health"},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register in consul")
	}

	log.Info().Str("service_id", serviceID).Msg("registered in consul")
	return deregister
}
