package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeMarkdown = "text/markdown; charset=utf-8"
)

// 上下文键
const (
	ContextUserKey   = "user"
	ContextConfigKey = "config"
)
