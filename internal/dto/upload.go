package dto

// ── 上传模块 DTO ──

// UploadResultItem 单文件上传结果
type UploadResultItem struct {
	FileName string `json:"file_name"`
	Success  bool   `json:"success"`
	Path     string `json:"path,omitempty"`
	URL      string `json:"url,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// UploadBatchResponse 批量上传响应
// 全部成功返回 201，部分成功返回 207，全部失败返回 400
type UploadBatchResponse struct {
	Bucket  string             `json:"bucket"`
	Total   int                `json:"total"`
	Success int                `json:"success"`
	Failed  int                `json:"failed"`
	Results []UploadResultItem `json:"results"`
}

// StorageListRequest 存储目录列举请求
type StorageListRequest struct {
	Prefix string `form:"prefix" binding:"omitempty,max=500"`
	Limit  int    `form:"limit"  binding:"omitempty,min=1,max=1000"`
}
