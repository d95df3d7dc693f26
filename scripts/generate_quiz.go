// 离线生成测验脚本
//
// 从本地 PDF 提取文本，调用配置中的 AI 生成选择题，并写出 CSV 测验文件。
// 不经过 HTTP 服务和数据库，适合批量预生成题库或排查生成结果。
//
// 用法: go run scripts/generate_quiz.go -pdf ~/chapter1.pdf -out static/quizzes/chapter1_quiz.csv

package main

import (
	"context"
	"flag"
	"io"
	"log"
	"path/filepath"
	"pdf_quiz_backend/internal/config"
	"pdf_quiz_backend/internal/quiz"
	"pdf_quiz_backend/internal/service"
	"pdf_quiz_backend/internal/util"
	"pdf_quiz_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

func main() {
	pdfPath := flag.String("pdf", "", "PDF 文件路径")
	out := flag.String("out", "", "输出 CSV 路径，默认写入 storage.quiz_path")
	configDir := flag.String("config", "configs", "配置目录")
	start := flag.Int("start", 0, "起始页（从 0 开始）")
	end := flag.Int("end", 0, "结束页（不含），0 表示到最后一页")
	flag.Parse()

	if *pdfPath == "" {
		log.Fatal("必须指定 -pdf")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	gen, err := service.NewGenerator(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("初始化生成器失败: %v", err)
	}
	if c, ok := gen.(io.Closer); ok {
		defer c.Close()
	}

	text, err := service.NewPDFService().ExtractFile(ctx, *pdfPath, service.PageRange{Start: *start, End: *end})
	if err != nil {
		log.Fatalf("提取 PDF 文本失败: %v", err)
	}

	raw, err := gen.Generate(ctx, text)
	if err != nil {
		log.Fatalf("生成题目失败: %v", err)
	}

	res := quiz.ParseQuestions(raw)
	for _, f := range res.Failures {
		logger.Log.Warn("Skipped malformed block", zap.Int("index", f.Index), zap.Error(f.Err))
	}

	target := *out
	if target == "" {
		target = filepath.Join(cfg.Storage.QuizPath, filepath.Base(*pdfPath)+util.QuizSuffix)
	}
	if err := quiz.WriteQuizFile(target, res.Records); err != nil {
		log.Fatalf("写入测验文件失败: %v", err)
	}

	log.Printf("完成：%d 道题写入 %s（跳过 %d 个格式错误的块，%d 个答案未匹配）",
		len(res.Records), target, len(res.Failures), res.Unmatched)
}
