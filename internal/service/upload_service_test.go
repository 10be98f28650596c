package service

import (
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"go.uber.org/zap"

	"cometa/backend/config"
	"cometa/backend/pkg/storage"
)

// 测试只覆盖不触达存储服务的校验路径，
// 真实上传依赖外部 HTTP 端点
func setupTestUploadService() UploadService {
	store := storage.NewClient(&config.StorageConfig{}, zap.NewNop())
	return NewUploadService(store, zap.NewNop())
}

func fileHeader(name, mimeType string, size int64) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", mimeType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestUploadBatch_Validation(t *testing.T) {
	svc := setupTestUploadService()
	ctx := context.Background()

	if _, err := svc.UploadBatch(ctx, "unknown-bucket", "", []*multipart.FileHeader{
		fileHeader("a.jpg", "image/jpeg", 100),
	}); !errors.Is(err, ErrUnknownBucket) {
		t.Fatalf("期望 ErrUnknownBucket, 实际 %v", err)
	}

	if _, err := svc.UploadBatch(ctx, "project-photos", "", nil); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("期望 ErrNoFiles, 实际 %v", err)
	}

	many := make([]*multipart.FileHeader, storage.MaxFilesPerBatch+1)
	for i := range many {
		many[i] = fileHeader("a.jpg", "image/jpeg", 100)
	}
	if _, err := svc.UploadBatch(ctx, "project-photos", "", many); !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("期望 ErrTooManyFiles, 实际 %v", err)
	}
}

// 整批都被桶策略拒绝时不触达存储服务，逐个给出原因
func TestUploadBatch_PolicyRejections(t *testing.T) {
	svc := setupTestUploadService()

	resp, err := svc.UploadBatch(context.Background(), "user-avatars", "", []*multipart.FileHeader{
		fileHeader("report.pdf", "application/pdf", 1024),
		fileHeader("huge.png", "image/png", 5<<20),
	})
	if err != nil {
		t.Fatalf("校验失败不应返回错误: %v", err)
	}
	if resp.Failed != 2 || resp.Success != 0 {
		t.Fatalf("两个文件都应被拒绝: %+v", resp)
	}
	if !strings.Contains(resp.Results[0].Reason, "白名单") {
		t.Errorf("PDF 应因类型被拒: %q", resp.Results[0].Reason)
	}
	if !strings.Contains(resp.Results[1].Reason, "大小") {
		t.Errorf("超限文件应因大小被拒: %q", resp.Results[1].Reason)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"../../etc/passwd", "passwd"},
		{"mein plan.pdf", "mein_plan.pdf"},
		{"a:b*c?.png", "a_b_c_.png"},
		{"", "file"},
	}
	for _, c := range cases {
		if got := sanitizeFilename(c.in); got != c.want {
			t.Errorf("sanitizeFilename(%q) = %q, 期望 %q", c.in, got, c.want)
		}
	}
}

func TestBucketPolicy_ValidateFile(t *testing.T) {
	p := storage.BucketPolicies["project-documents"]

	if reasons := p.ValidateFile("plan.pdf", "application/pdf", 1024); len(reasons) != 0 {
		t.Errorf("合法文件不应被拒: %v", reasons)
	}
	if reasons := p.ValidateFile("v.mp4", "video/mp4", 1024); len(reasons) != 1 {
		t.Errorf("非法类型应被拒一次: %v", reasons)
	}
	if reasons := p.ValidateFile("big.pdf", "application/pdf", 51<<20); len(reasons) != 1 {
		t.Errorf("超限大小应被拒一次: %v", reasons)
	}
}
