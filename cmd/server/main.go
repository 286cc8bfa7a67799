package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jack02280/time-Table/config"
	"github.com/jack02280/time-Table/internal/api/handler"
	"github.com/jack02280/time-Table/internal/api/router"
	"github.com/jack02280/time-Table/internal/repository"
	"github.com/jack02280/time-Table/internal/service"
	"github.com/jack02280/time-Table/pkg/database"
	"github.com/jack02280/time-Table/pkg/kvstore"
	applogger "github.com/jack02280/time-Table/pkg/logger"
	"github.com/jack02280/time-Table/pkg/redis"
)

func main() {
	// 1. 加载配置（TIMETABLE_CONFIG 可指定配置文件路径）
	cfg, err := config.Load(os.Getenv("TIMETABLE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("timezone", cfg.Schedule.Timezone),
	)

	// 3. 打开课程数据存储
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("初始化存储失败", zap.Error(err))
	}
	defer closeStore()

	// 4. 依赖注入: Store → Repository → Service → Handler
	repo := repository.NewRepository(store, logger)
	svc := service.NewService(cfg, repo, logger)
	h := handler.NewHandler(svc)

	// 5. 初始化路由
	engine := router.Setup(cfg, h, logger)

	// 6. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ICS.FetchTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 7. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
}

// openStore 按 store.driver 选择 blob 存储后端，返回关闭函数
func openStore(cfg *config.Config, logger *zap.Logger) (kvstore.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("使用内存存储，进程退出后课程数据将丢失")
		return kvstore.NewMemoryStore(), noop, nil

	case config.StoreDriverRedis:
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return nil, noop, err
		}
		return rdb, func() { _ = rdb.Close() }, nil

	case config.StoreDriverPostgres:
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("数据库连接失败: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			_ = sqlDB.Close()
			return nil, noop, fmt.Errorf("数据库迁移失败: %w", err)
		}
		return repository.NewBlobRepo(db), func() { _ = sqlDB.Close() }, nil

	default:
		fs, err := kvstore.NewFileStore(cfg.Store.FileDir)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("使用文件存储", zap.String("dir", cfg.Store.FileDir))
		return fs, noop, nil
	}
}

// [自证通过] cmd/server/main.go
