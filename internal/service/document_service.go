package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
)

var ErrDocumentNotFound = errors.New("文档不存在")

// DocumentService 文档业务接口
type DocumentService interface {
	Create(ctx context.Context, req *dto.CreateDocumentRequest, uploadedBy string) (*model.Document, error)
	GetByID(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context, req *dto.DocumentListRequest) ([]model.Document, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDocumentService 创建 DocumentService 实例
func NewDocumentService(repo *repository.Repository, logger *zap.Logger) DocumentService {
	return &documentService{repo: repo, logger: logger}
}

func (s *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest, uploadedBy string) (*model.Document, error) {
	if req.ProjectID != nil {
		if _, err := s.repo.Project.GetByID(ctx, *req.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, err
		}
	}

	category := req.Category
	if category == "" {
		category = "general"
	}
	doc := &model.Document{
		ProjectID:   req.ProjectID,
		HouseID:     req.HouseID,
		Category:    category,
		Title:       req.Title,
		FileName:    req.FileName,
		FilePath:    req.FilePath,
		FileURL:     req.FileURL,
		MimeType:    req.MimeType,
		FileSize:    req.FileSize,
		ExpiryDate:  parseDatePtr(req.ExpiryDate),
		Description: req.Description,
	}
	if uploadedBy != "" {
		doc.UploadedBy = &uploadedBy
	}
	if err := s.repo.Document.Create(ctx, doc); err != nil {
		s.logger.Error("登记文档失败", zap.Error(err))
		return nil, err
	}
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.repo.Document.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, req *dto.DocumentListRequest) ([]model.Document, int64, error) {
	return s.repo.Document.List(ctx, req.ProjectID, req.HouseID, req.Category, req.GetOffset(), req.GetPageSize())
}

func (s *documentService) Update(ctx context.Context, id string, req *dto.UpdateDocumentRequest) (*model.Document, error) {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		doc.Category = *req.Category
	}
	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.ExpiryDate != nil {
		doc.ExpiryDate = parseDatePtr(req.ExpiryDate)
	}
	if req.Description != nil {
		doc.Description = req.Description
	}

	if err := s.repo.Document.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Document.SoftDelete(ctx, id)
}
