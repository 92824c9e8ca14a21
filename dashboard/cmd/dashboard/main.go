package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/gorilla/mux"
	"github.com/laxuman02230135/task-management/authsvc"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authendpoint"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authservice"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authtransport"
	"github.com/laxuman02230135/task-management/dashboard"
	"github.com/laxuman02230135/task-management/dashboard/pkg/dashboardtransport"
	"github.com/laxuman02230135/task-management/kithttp"
	"github.com/laxuman02230135/task-management/tasksvc"
	taskgorm "github.com/laxuman02230135/task-management/tasksvc/db/gorm"
	"github.com/laxuman02230135/task-management/tasksvc/pkg/taskendpoint"
	"github.com/laxuman02230135/task-management/tasksvc/pkg/taskservice"
	"github.com/laxuman02230135/task-management/tasksvc/pkg/tasktransport"
	"github.com/laxuman02230135/task-management/usersvc"
	"github.com/laxuman02230135/task-management/usersvc/avatar"
	usergorm "github.com/laxuman02230135/task-management/usersvc/db/gorm"
	"github.com/laxuman02230135/task-management/usersvc/pkg/userendpoint"
	"github.com/laxuman02230135/task-management/usersvc/pkg/userservice"
	"github.com/laxuman02230135/task-management/usersvc/pkg/usertransport"
	"github.com/oklog/oklog/pkg/group"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	stdgorm "gorm.io/gorm"
)

func main() {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	var (
		httpAddr = fs.String(
			"http.addr",
			getEnv("HTTP_ADDR", ":8080"),
			"HTTP listen address",
		)
		databaseURL = fs.String(
			"database.url",
			getEnv("DATABASE_URL", ""),
			"Postgres URL; SQLite is used when empty",
		)
		sqlitePath = fs.String(
			"sqlite.path",
			getEnv("SQLITE_PATH", "gorm.db"),
			"SQLite database file",
		)
		avatarDir = fs.String(
			"avatar.dir",
			getEnv("AVATAR_DIR", "avatars"),
			"directory for uploaded avatars",
		)
		requestTimeout = fs.Duration(
			"request.timeout",
			time.Duration(getEnvAsInt("REQUEST_TIMEOUT", 10000))*time.Millisecond,
			"per-request deadline",
		)
		tokenTTL = fs.Duration(
			"token.ttl",
			time.Duration(getEnvAsInt("TOKEN_TTL", 60*24))*time.Minute,
			"session lifetime",
		)
		cookieSecure = fs.Bool(
			"cookie.secure",
			getEnvAsBool("COOKIE_SECURE", false),
			"mark the session cookie Secure",
		)
		loginRate = fs.Float64(
			"login.rate",
			float64(getEnvAsInt("LOGIN_RATE", 5)),
			"login attempts allowed per second",
		)
		debug = fs.Bool(
			"debug",
			getEnvAsBool("DEBUG", false),
			"log debug messages",
		)
	)

	fs.Usage = usageFor(fs, os.Args[0]+" [flags]")
	fs.Parse(os.Args[1:])

	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(os.Stderr)
		if *debug {
			logger = level.NewFilter(logger, level.AllowDebug())
		} else {
			logger = level.NewFilter(logger, level.AllowInfo())
		}
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}

	var db *stdgorm.DB
	var err error
	{
		if *databaseURL != "" {
			db, err = stdgorm.Open(postgres.Open(*databaseURL), &stdgorm.Config{})
		} else {
			db, err = stdgorm.Open(sqlite.Open(*sqlitePath), &stdgorm.Config{})
		}
		if err != nil {
			logger.Log("during", "Open", "err", err)
			os.Exit(1)
		}
		if err := db.AutoMigrate(&usersvc.User{}, &tasksvc.Task{}); err != nil {
			logger.Log("during", "AutoMigrate", "err", err)
			os.Exit(1)
		}
	}

	avatars, err := avatar.NewDiskStore(*avatarDir)
	if err != nil {
		logger.Log("during", "NewDiskStore", "err", err)
		os.Exit(1)
	}

	var (
		userRepository = usergorm.NewUserRepository(db)
		taskRepository = taskgorm.NewTaskRepository(db)
		tokenizer      = authservice.NewTokenizer(authsvc.AccessSecret, *tokenTTL)
		sessions       = authservice.NewResolver(tokenizer, userRepository, log.With(logger, "component", "sessions"))
	)

	codec := authtransport.NewCookieCodec(
		[]byte(authsvc.CookieHashKey),
		[]byte(authsvc.CookieBlockKey),
		*tokenTTL,
		*cookieSecure,
	)

	instruments := func(subsystem string) (metrics.Counter, metrics.Histogram) {
		counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: "api",
			Subsystem: subsystem,
			Name:      "request_count",
			Help:      "Number of requests received.",
		}, []string{"method"})
		latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: "api",
			Subsystem: subsystem,
			Name:      "request_latency_seconds",
			Help:      "Total duration of requests in seconds.",
		}, []string{"method"})
		return counter, latency
	}

	var authService authservice.Service
	{
		count, latency := instruments("auth_service")
		authService = authservice.New(tokenizer, userRepository, logger)
		authService = authservice.InstrumentingMiddleware(count, latency)(authService)
	}

	var taskService taskservice.Service
	{
		count, latency := instruments("task_service")
		taskService = taskservice.New(taskRepository, logger)
		taskService = taskservice.InstrumentingMiddleware(count, latency)(taskService)
	}

	var userService userservice.Service
	{
		count, latency := instruments("user_service")
		userService = userservice.New(userRepository, avatars, logger)
		userService = userservice.InstrumentingMiddleware(count, latency)(userService)
	}

	r := mux.NewRouter()
	r.Use(kithttp.Timeout(*requestTimeout))
	{
		endpoints := authendpoint.New(authService, rate.Limit(*loginRate), logger)
		r.PathPrefix("/api/auth/").Handler(authtransport.NewHTTPHandler(endpoints, codec, logger))
	}
	{
		endpoints := taskendpoint.New(taskService, logger)
		r.PathPrefix("/api/tasks").Handler(tasktransport.NewHTTPHandler(endpoints, codec, sessions, logger))
	}
	{
		endpoints := userendpoint.New(userService, logger)
		r.Path("/api/profile").Handler(usertransport.NewHTTPHandler(endpoints, codec, sessions, logger))
	}
	{
		loader := dashboard.NewLoader(codec.Credential, sessions, taskService)
		pages := dashboardtransport.NewHTTPHandler(loader, logger)
		r.PathPrefix(avatar.URLPrefix).Handler(avatars.Handler())
		r.Path("/metrics").Handler(promhttp.Handler())
		r.PathPrefix("/").Handler(pages)
	}

	var g group.Group
	{
		httpListener, err := net.Listen("tcp", *httpAddr)
		if err != nil {
			logger.Log("transport", "HTTP", "during", "Listen", "err", err)
			os.Exit(1)
		}
		server := &http.Server{
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       *requestTimeout + 5*time.Second,
			WriteTimeout:      *requestTimeout + 5*time.Second,
			IdleTimeout:       time.Minute,
		}
		g.Add(func() error {
			logger.Log("transport", "HTTP", "addr", *httpAddr)
			return server.Serve(httpListener)
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(ctx)
		})
	}
	{
		// This function just sits and waits for ctrl-C.
		cancelInterrupt := make(chan struct{})
		g.Add(func() error {
			c := make(chan os.Signal, 1)
			signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-c:
				return fmt.Errorf("received signal %s", sig)
			case <-cancelInterrupt:
				return nil
			}
		}, func(error) {
			close(cancelInterrupt)
		})
	}
	logger.Log("exit", g.Run())
}

func usageFor(fs *flag.FlagSet, short string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "USAGE\n")
		fmt.Fprintf(os.Stderr, "  %s\n", short)
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "FLAGS\n")
		w := tabwriter.NewWriter(os.Stderr, 0, 2, 2, ' ', 0)
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(w, "\t-%s %s\t%s\n", f.Name, f.DefValue, f.Usage)
		})
		w.Flush()
		fmt.Fprintf(os.Stderr, "\n")
	}
}

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	if v, err := strconv.ParseBool(value); err == nil {
		return v
	}
	return fallback
}
