package dto

// ── 班组模块 DTO ──

// CrewListRequest 班组列表查询参数
type CrewListRequest struct {
	PaginationRequest
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	Status    string `form:"status"     binding:"omitempty,oneof=active inactive"`
}

// CreateCrewRequest 创建班组请求
type CreateCrewRequest struct {
	Name          string  `json:"name"            binding:"required,max=255"`
	ProjectID     *string `json:"project_id"      binding:"omitempty,uuid"`
	ForemanUserID *string `json:"foreman_user_id" binding:"omitempty,uuid"`
	Description   *string `json:"description"`
}

// UpdateCrewRequest 更新班组请求
type UpdateCrewRequest struct {
	Name          *string `json:"name"            binding:"omitempty,max=255"`
	ProjectID     *string `json:"project_id"      binding:"omitempty,uuid"`
	ForemanUserID *string `json:"foreman_user_id" binding:"omitempty,uuid"`
	Description   *string `json:"description"`
	Status        *string `json:"status"          binding:"omitempty,oneof=active inactive"`
}

// AddCrewMemberRequest 添加班组成员请求
type AddCrewMemberRequest struct {
	UserID     string `json:"user_id"      binding:"required,uuid"`
	RoleInCrew string `json:"role_in_crew" binding:"omitempty,oneof=foreman worker operator"`
	ActiveFrom string `json:"active_from"  binding:"required,datetime=2006-01-02"`
}
