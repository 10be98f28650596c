package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cometa/backend/internal/dto"
	"cometa/backend/pkg/storage"
)

var (
	ErrUnknownBucket = errors.New("未知存储桶")
	ErrTooManyFiles  = errors.New("单次最多上传 5 个文件")
	ErrNoFiles       = errors.New("未收到文件")
)

// UploadService 文件上传业务接口
type UploadService interface {
	// UploadBatch 批量上传。先整批校验，任一桶策略校验动作都不接触存储服务；
	// 校验通过的文件逐个上传，部分失败不回滚已成功的
	UploadBatch(ctx context.Context, bucket, prefix string, files []*multipart.FileHeader) (*dto.UploadBatchResponse, error)
	List(ctx context.Context, bucket, prefix string, limit int) ([]storage.Object, error)
	Delete(ctx context.Context, bucket, objectPath string) error
}

type uploadService struct {
	store  *storage.Client
	logger *zap.Logger
}

// NewUploadService 创建 UploadService 实例
func NewUploadService(store *storage.Client, logger *zap.Logger) UploadService {
	return &uploadService{store: store, logger: logger}
}

// sanitizeFilename 清理路径分隔符与空白，防止目录穿越
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." {
		name = "file"
	}
	return name
}

func (s *uploadService) UploadBatch(ctx context.Context, bucket, prefix string, files []*multipart.FileHeader) (*dto.UploadBatchResponse, error) {
	policy, ok := storage.BucketPolicies[bucket]
	if !ok {
		return nil, ErrUnknownBucket
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > storage.MaxFilesPerBatch {
		return nil, ErrTooManyFiles
	}

	resp := &dto.UploadBatchResponse{
		Bucket:  bucket,
		Total:   len(files),
		Results: make([]dto.UploadResultItem, len(files)),
	}

	// 第一遍：全部文件先过策略校验
	for i, fh := range files {
		item := &resp.Results[i]
		item.FileName = fh.Filename
		mimeType := fh.Header.Get("Content-Type")
		if reasons := policy.ValidateFile(fh.Filename, mimeType, fh.Size); len(reasons) > 0 {
			item.Reason = strings.Join(reasons, "; ")
		}
	}

	// 第二遍：仅校验通过的文件接触存储服务
	day := time.Now().Format("2006-01-02")
	for i, fh := range files {
		item := &resp.Results[i]
		if item.Reason != "" {
			resp.Failed++
			continue
		}

		objectPath := fmt.Sprintf("%s/%s_%s", day, uuid.New().String()[:8], sanitizeFilename(fh.Filename))
		if prefix != "" {
			objectPath = strings.Trim(prefix, "/") + "/" + objectPath
		}

		f, err := fh.Open()
		if err != nil {
			item.Reason = "读取文件失败"
			resp.Failed++
			continue
		}
		path, err := s.store.Upload(ctx, bucket, objectPath, fh.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			s.logger.Error("上传对象失败",
				zap.String("bucket", bucket), zap.String("path", objectPath), zap.Error(err))
			item.Reason = "存储服务写入失败"
			resp.Failed++
			continue
		}

		item.Success = true
		item.Path = path
		if policy.Public {
			item.URL = s.store.PublicURL(bucket, path)
		}
		resp.Success++
	}

	return resp, nil
}

func (s *uploadService) List(ctx context.Context, bucket, prefix string, limit int) ([]storage.Object, error) {
	if _, ok := storage.BucketPolicies[bucket]; !ok {
		return nil, ErrUnknownBucket
	}
	if limit <= 0 {
		limit = 100
	}
	return s.store.List(ctx, bucket, prefix, limit)
}

func (s *uploadService) Delete(ctx context.Context, bucket, objectPath string) error {
	if _, ok := storage.BucketPolicies[bucket]; !ok {
		return ErrUnknownBucket
	}
	return s.store.Delete(ctx, bucket, objectPath)
}
