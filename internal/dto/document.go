package dto

// ── 文档模块 DTO ──

// DocumentListRequest 文档列表查询参数
type DocumentListRequest struct {
	PaginationRequest
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	HouseID   string `form:"house_id"   binding:"omitempty,uuid"`
	Category  string `form:"category"   binding:"omitempty,max=50"`
}

// CreateDocumentRequest 登记文档元数据请求（文件已先经上传接口入库）
type CreateDocumentRequest struct {
	ProjectID   *string `json:"project_id"  binding:"omitempty,uuid"`
	HouseID     *string `json:"house_id"    binding:"omitempty,uuid"`
	Category    string  `json:"category"    binding:"omitempty,max=50"`
	Title       string  `json:"title"       binding:"required,max=255"`
	FileName    string  `json:"file_name"   binding:"required,max=255"`
	FilePath    string  `json:"file_path"   binding:"required"`
	FileURL     string  `json:"file_url"    binding:"required"`
	MimeType    string  `json:"mime_type"   binding:"required,max=100"`
	FileSize    int64   `json:"file_size"   binding:"omitempty,min=0"`
	ExpiryDate  *string `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description"`
}

// UpdateDocumentRequest 更新文档元数据请求
type UpdateDocumentRequest struct {
	Category    *string `json:"category"    binding:"omitempty,max=50"`
	Title       *string `json:"title"       binding:"omitempty,max=255"`
	ExpiryDate  *string `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description"`
}
