// @title PDF Quiz 后端 API
// @version 1.0
// @description 上传PDF，由AI生成选择题并以CSV保存，支持答题与评分。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"pdf_quiz_backend/internal/app"
	"pdf_quiz_backend/internal/config"
	"pdf_quiz_backend/pkg/database"
	"pdf_quiz_backend/pkg/logger"
)

func main() {
	// 命令行参数
	configDir := flag.String("config-dir", "configs", "配置文件所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.InitLogger(cfg)
		defer logger.Log.Sync()
		if _, err := database.InitDB(&cfg.Database); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	application.Run()
}
