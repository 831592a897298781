package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/gobuffalo/packr"
	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcvalidator "github.com/grpc-ecosystem/go-grpc-middleware/validator"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	v1 "github.com/emrgen/pagebuilder/apis/v1"
	"github.com/emrgen/pagebuilder/internal/builder"
	"github.com/emrgen/pagebuilder/internal/cache"
	"github.com/emrgen/pagebuilder/internal/config"
	"github.com/emrgen/pagebuilder/internal/jobs"
	"github.com/emrgen/pagebuilder/internal/metrics"
	"github.com/emrgen/pagebuilder/internal/module"
	"github.com/emrgen/pagebuilder/internal/queue"
	"github.com/emrgen/pagebuilder/internal/service"
	"github.com/emrgen/pagebuilder/internal/store"
)

// Server represents the server
type Server struct {
	cnf *config.Config
}

// NewServer creates a new server
func NewServer(cnf *config.Config) *Server {
	return &Server{cnf: cnf}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.cnf); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// deps are the backing services of one server run.
type deps struct {
	store     *store.GormStore
	cache     cache.BlockCache
	publisher queue.Publisher
	close     func()
}

func connect(ctx context.Context, cnf *config.Config) (*deps, error) {
	db, err := config.OpenDb(cnf)
	if err != nil {
		return nil, err
	}

	pageStore := store.NewGormStore(db, store.WithCompression(cnf.Compression()))
	if err := pageStore.Migrate(); err != nil {
		return nil, err
	}

	d := &deps{store: pageStore, cache: cache.Nop{}, publisher: queue.Log{}}
	closers := make([]func() error, 0)

	if cnf.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cnf.Redis.Addr, cnf.Redis.Password, cnf.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		closers = append(closers, client.Close)
		d.cache = cache.NewRedisBlockCache(client, cnf.Redis.TTL)
		logrus.Infof("caching block lists in redis at %s", cnf.Redis.Addr)
	}

	if cnf.Kafka.Brokers != "" {
		producer, err := queue.NewKafka(cnf.Kafka.Brokers, cnf.Kafka.Topic)
		if err != nil {
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		closers = append(closers, producer.Close)
		d.publisher = producer
		logrus.Infof("publishing page events to kafka topic %s", cnf.Kafka.Topic)
	}

	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB.Close)
	}

	d.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logrus.Errorf("error closing backing service: %v", err)
			}
		}
	}

	return d, nil
}

// newGrpcServer registers the page builder services behind the interceptor chain.
func newGrpcServer(cnf *config.Config, editor *service.Editor) (*grpc.Server, *health.Server) {
	interceptors := []grpc.UnaryServerInterceptor{
		// log the request time
		UnaryGrpcRequestTimeInterceptor(),
		metrics.UnaryServerInterceptor(),
	}
	if cnf.AuthToken != "" {
		// verify the bearer token; health checks stay open for probes
		interceptors = append(interceptors, module.UnaryServerAuthTokenInterceptor(cnf.AuthToken, healthpb.Health_Check_FullMethodName))
	} else {
		logrus.Warn("AUTH_TOKEN is not set, rpc calls are not authenticated")
	}
	interceptors = append(interceptors, grpcvalidator.UnaryServerInterceptor())

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcmiddleware.ChainUnaryServer(interceptors...)))

	v1.RegisterPageServiceServer(grpcServer, service.NewPageService(editor))
	v1.RegisterBlockServiceServer(grpcServer, service.NewBlockService(editor))
	v1.RegisterVersionServiceServer(grpcServer, service.NewVersionService(editor))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	for _, name := range []string{v1.PageServiceName, v1.BlockServiceName, v1.VersionServiceName} {
		healthServer.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	return grpcServer, healthServer
}

// newRestHandler connects the rest gateway to the grpc endpoint and serves the
// docs and metrics next to it.
func newRestHandler(ctx context.Context, endpoint string) (http.Handler, error) {
	mux := runtime.NewServeMux(
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONBuiltin{}),
		runtime.WithIncomingHeaderMatcher(headerMatcher),
	)

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(UnaryRequestTimeInterceptor()),
	}

	// Register the rest gateway
	if err := v1.RegisterPageServiceHandlerFromEndpoint(ctx, mux, endpoint, opts); err != nil {
		return nil, err
	}
	if err := v1.RegisterBlockServiceHandlerFromEndpoint(ctx, mux, endpoint, opts); err != nil {
		return nil, err
	}
	if err := v1.RegisterVersionServiceHandlerFromEndpoint(ctx, mux, endpoint, opts); err != nil {
		return nil, err
	}

	apiMux := http.NewServeMux()
	openapiDocs := packr.NewBox("../../docs/v1")
	docsPath := "/v1/docs/"
	apiMux.Handle(docsPath, http.StripPrefix(docsPath, http.FileServer(openapiDocs)))
	apiMux.Handle("/metrics", promhttp.Handler())
	apiMux.Handle("/", mux)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", service.ActorHeader},
		AllowCredentials: true,
	})

	return c.Handler(apiMux), nil
}

// headerMatcher forwards the actor header next to the default grpc-gateway headers.
func headerMatcher(key string) (string, bool) {
	if strings.EqualFold(key, service.ActorHeader) {
		return service.ActorHeader, true
	}

	return runtime.DefaultHeaderMatcher(key)
}

func newTaskExecutor(cnf *config.Config, d *deps) *jobs.TaskExecutor {
	tasks := []jobs.CronJob{
		jobs.NewPositionRepairTask(cnf.RepairSchedule, d.store, d.cache),
	}
	if cnf.VersionRetention > 0 {
		tasks = append(tasks, jobs.NewVersionPruneTask(cnf.PruneSchedule, cnf.VersionRetention, d.store))
	}

	return jobs.NewTaskExecutor(tasks...)
}

// Start starts the grpc and http servers and blocks until the process is signalled.
func Start(cnf *config.Config) error {
	var err error

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	grpcPort := ":" + cnf.GrpcPort
	httpPort := ":" + cnf.HttpPort

	gl, err := net.Listen("tcp", grpcPort)
	if err != nil {
		return err
	}

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	d, err := connect(ctx, cnf)
	if err != nil {
		return err
	}
	defer d.close()

	editor := service.NewEditor(d.store, d.cache, d.publisher,
		builder.WithTimeout(cnf.StoreTimeout),
		builder.WithRestoreSnapshot(cnf.RestoreSnapshotCurrent),
	)
	grpcServer, healthServer := newGrpcServer(cnf, editor)

	handler, err := newRestHandler(ctx, "localhost"+grpcPort)
	if err != nil {
		return err
	}
	restServer := &http.Server{
		Addr:              httpPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	executor := newTaskExecutor(cnf, d)
	if err := executor.Run(); err != nil {
		return err
	}
	defer executor.Stop()

	// make sure to wait for the servers to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	// Start the rest gateway
	go func() {
		defer wg.Done()
		logrus.Info("starting rest gateway on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: http://localhost", httpPort, "/v1/docs/")
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting rest gateway: %v", err)
			}
		}
		logrus.Infof("rest gateway stopped")
	}()

	// Start the grpc server
	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting grpc server on: ", grpcPort)
		if err := grpcServer.Serve(gl); err != nil {
			logrus.Infof("grpc failed to start: %v", err)
		}
		logrus.Infof("grpc server stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	err = restServer.Shutdown(context.Background())
	if err != nil {
		logrus.Errorf("error stopping rest gateway: %v", err)
	}

	wg.Wait()

	return nil
}
