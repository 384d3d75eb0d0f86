package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"gpa-tracker/config"
	"gpa-tracker/pkg/database"
	applogger "gpa-tracker/pkg/logger"
)

// 数据库迁移命令
//
//	migrate -action up
//	migrate -action down -steps 1
func main() {
	configPath := flag.String("config", "", "配置文件路径")
	action := flag.String("action", "up", "up 或 down")
	steps := flag.Int("steps", 1, "down 时回滚的版本数")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	switch *action {
	case "up":
		err = database.RunMigrations(sqlDB, logger)
	case "down":
		err = database.RollbackMigrations(sqlDB, *steps, logger)
	default:
		logger.Fatal("未知迁移动作", zap.String("action", *action))
	}
	if err != nil {
		logger.Fatal("迁移失败", zap.Error(err))
	}
}
