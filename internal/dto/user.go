package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=admin pm foreman crew viewer worker"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email     string  `json:"email"         binding:"required,email"`
	Password  string  `json:"password"      binding:"required,min=8,max=72"`
	FirstName string  `json:"first_name"    binding:"required,max=100"`
	LastName  string  `json:"last_name"     binding:"required,max=100"`
	Phone     *string `json:"phone"         binding:"omitempty,max=50"`
	Role      string  `json:"role"          binding:"required,oneof=admin pm foreman crew viewer worker"`
	LangPref  string  `json:"language_pref" binding:"omitempty,oneof=de ru en uz tr"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"    binding:"omitempty,max=100"`
	LastName  *string `json:"last_name"     binding:"omitempty,max=100"`
	Phone     *string `json:"phone"         binding:"omitempty,max=50"`
	Role      *string `json:"role"          binding:"omitempty,oneof=admin pm foreman crew viewer worker"`
	LangPref  *string `json:"language_pref" binding:"omitempty,oneof=de ru en uz tr"`
}
