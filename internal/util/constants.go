package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// 上传相关常量
const (
	MimePDF      = "application/pdf"
	PDFExtension = ".pdf"
	QuizSuffix   = "_quiz.csv"

	// 分配给用户的测验单独存放，公开上传无法覆盖
	AssignedQuizDir = "assigned"
)

// ContextUserKey is where AuthMiddleware stores the parsed claims.
const ContextUserKey = "user"
