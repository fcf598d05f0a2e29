package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeImage       = "image/"
	MimeText        = "text/plain"
	MimePDF         = "application/pdf"
	MimeZip         = "application/zip"
	MimeOctetStream = "application/octet-stream"
)

var (
	// AllowedUploadExtensions covers assignment briefs and student submissions.
	AllowedUploadExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".jpg", ".jpeg", ".png", ".zip"}

	// AllowedUploadMimeTypes are matched against the sniffed content. Legacy
	// .doc files sniff as octet-stream.
	AllowedUploadMimeTypes = []string{MimePDF, MimeImage, MimeText, MimeZip, MimeOctetStream}
)
