// Package web provides the HTTP server of the household economy
// backend: routing, middleware and background job scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"household-economy/config"
	"household-economy/logger"
	"household-economy/util/common"
	"household-economy/web/controller"
	"household-economy/web/job"
	"household-economy/web/middleware"
	"household-economy/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// Server is the web server with its controllers, services and scheduled
// jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	security    *controller.SecurityController
	user        *controller.UserController
	bank        *controller.BankController
	bankAccount *controller.BankAccountController
	card        *controller.CardController

	authService *service.AuthService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:         ctx,
		cancel:      cancel,
		authService: &service.AuthService{},
	}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.RequestLoggerMiddleware())

	public := engine.Group("/")
	s.security = controller.NewSecurityController(public, s.authService)

	api := engine.Group("/api")
	api.Use(middleware.TokenAuthMiddleware(s.authService))
	{
		s.user = controller.NewUserController(api.Group("/user"))
		s.bank = controller.NewBankController(api.Group("/bank"))
		s.bankAccount = controller.NewBankAccountController(api.Group("/bankAccount"))
		s.card = controller.NewCardController(api.Group("/card"))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@hourly", job.NewTokenCleanupJob(s.authService))
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New(cron.WithLocation(time.UTC))
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetWebListen(), strconv.Itoa(config.GetWebPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("web server running on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }
