package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"postboard/cache"
	"postboard/config"
	"postboard/db"
	"postboard/handlers"
	"postboard/metrics"
	"postboard/models"
	"postboard/posts"
	"postboard/processing"
	"postboard/render"
	"postboard/storage"
	"postboard/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const (
	sessionCookieName = "sessionid"
)

func newPageCache(ctx context.Context) cache.PageCache {
	if config.REDIS_ADDR == "" {
		pageCache := cache.NewMemoryCache()
		pageCache.MaxEntries = config.CACHE_MAX_ENTRIES
		return pageCache
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.REDIS_ADDR,
		Password: config.REDIS_PASSWORD,
		DB:       config.REDIS_DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		utils.Logger.WithError(err).Fatal("cannot connect to redis")
	}
	utils.Logger.WithField("addr", config.REDIS_ADDR).Info("using redis page cache")
	return cache.NewRedisCache(client)
}

func newRenderer() render.Renderer {
	if config.TEMPLATES_GLOB == "" {
		return render.JSONRenderer{}
	}
	renderer, err := render.NewHTMLRenderer(config.TEMPLATES_GLOB)
	if err != nil {
		utils.Logger.WithError(err).Fatal("cannot load templates")
	}
	return renderer
}

func main() {
	utils.SetupLogger(config.LOG_LEVEL, config.DEBUG_MODE)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db.Init()
	if err := models.Init(db.Instance); err != nil {
		utils.Logger.WithError(err).Fatal("auto-migrate failed")
	}
	if err := processing.Init(db.Instance); err != nil {
		utils.Logger.WithError(err).Fatal("auto-migrate failed")
	}
	mediaStorage := storage.Init()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	processor := &processing.Processor{
		DB:        db.Instance,
		Storage:   mediaStorage,
		Metrics:   m,
		ThumbSize: uint(config.THUMB_SIZE),
		Every:     time.Duration(config.PROCESS_EVERY) * time.Second,
	}
	go processor.Start(ctx)

	service := posts.NewService(db.Instance, mediaStorage, m)
	api := handlers.NewAPI(db.Instance, service, newPageCache(ctx), newRenderer(), m,
		time.Duration(config.INDEX_CACHE_SECONDS)*time.Second)

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(time.Duration(config.SLOW_REQUEST_MS)*time.Millisecond), m.Middleware())
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	sessionKey := config.SESSION_KEY
	if sessionKey == "" {
		sessionKey = utils.RandSalt(32)
		utils.Logger.Warn("SESSION_KEY is not set, sessions will not survive a restart")
	}
	sessionStore := gormsessions.NewStore(db.Instance, true, []byte(sessionKey))
	sessionStore.Options(sessions.Options{Path: "/", MaxAge: config.SESSION_MAX_AGE, HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, sessionStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	api.Routes(router)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.RunWithContext(ctx, router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	utils.Logger.WithError(err).Fatal("server stopped")
}
