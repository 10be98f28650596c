package storage

// BucketPolicy 存储桶策略：大小上限与 MIME 白名单
type BucketPolicy struct {
	Name             string
	Public           bool
	AllowedMimeTypes []string
	FileSizeLimit    int64 // 字节
	FolderStructure  string
}

const (
	mb = 1 << 20

	// MaxFilesPerBatch 单次上传批次的最大文件数
	MaxFilesPerBatch = 5
)

// BucketPolicies 各存储桶策略
var BucketPolicies = map[string]BucketPolicy{
	"project-photos": {
		Name:             "project-photos",
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		FileSizeLimit:    10 * mb,
		FolderStructure:  "projects/{project_id}/{category}/{date}/",
	},
	"work-photos": {
		Name:             "work-photos",
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		FileSizeLimit:    10 * mb,
		FolderStructure:  "work-entries/{work_entry_id}/{timestamp}/",
	},
	"project-documents": {
		Name: "project-documents",
		AllowedMimeTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/dwg",
			"application/dxf",
			"image/jpeg",
			"image/jpg",
			"image/png",
			"image/gif",
			"image/bmp",
			"image/tiff",
			"image/webp",
		},
		FileSizeLimit:   50 * mb,
		FolderStructure: "projects/{project_id}/{document_type}/",
	},
	"house-documents": {
		Name: "house-documents",
		AllowedMimeTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"image/jpeg",
			"image/png",
		},
		FileSizeLimit:   10 * mb,
		FolderStructure: "houses/{project_id}/{house_id}/",
	},
	"user-avatars": {
		Name:             "user-avatars",
		Public:           true,
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp"},
		FileSizeLimit:    2 * mb,
		FolderStructure:  "users/{user_id}/",
	},
	"reports": {
		Name: "reports",
		AllowedMimeTypes: []string{
			"application/pdf",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"text/csv",
		},
		FileSizeLimit:   25 * mb,
		FolderStructure: "reports/{report_type}/{date}/",
	},
}

// ValidateFile 按桶策略校验单个文件，返回拒绝原因列表（空表示通过）
func (p BucketPolicy) ValidateFile(filename, mimeType string, size int64) []string {
	var errs []string

	if size > p.FileSizeLimit {
		errs = append(errs, "文件大小超过上限")
	}

	allowed := false
	for _, m := range p.AllowedMimeTypes {
		if m == mimeType {
			allowed = true
			break
		}
	}
	if !allowed {
		errs = append(errs, "文件类型不在白名单内: "+mimeType)
	}

	return errs
}
