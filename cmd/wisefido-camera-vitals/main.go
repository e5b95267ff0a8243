package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	logpkg "wisefido-camera-vitals/internal/common/logger"
	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化Logger
	logger, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "wisefido-camera-vitals")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting wisefido-camera-vitals service",
		zap.String("version", "1.0.0"),
		zap.Int("interval_ms", cfg.Monitor.IntervalMs),
		zap.Int("calibration_ticks", cfg.Monitor.CalibrationTicks),
		zap.Bool("hrv_enabled", cfg.Monitor.EnableHRV),
		zap.Bool("simulation_mode", cfg.SimulationMode()),
	)

	// 创建服务
	monitorService, err := service.NewMonitorService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create monitor service", zap.Error(err))
	}

	// 启动服务
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := monitorService.Start(ctx); err != nil {
		logger.Fatal("Failed to start monitor service", zap.Error(err))
	}

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	// 优雅关闭
	cancel()
	if err := monitorService.Stop(context.Background()); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Service stopped")
}
