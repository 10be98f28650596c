package model

// 用户角色常量
const (
	RoleAdmin   = "admin"
	RolePM      = "pm"
	RoleForeman = "foreman"
	RoleCrew    = "crew"
	RoleViewer  = "viewer"
	RoleWorker  = "worker"
)

// AdminRoles 管理端路由守卫放行的角色集合
var AdminRoles = []string{RoleAdmin, RolePM}

// User 系统用户
type User struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string  `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string  `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone        *string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Role         string  `gorm:"type:varchar(20);not null;default:'viewer'" json:"role"`
	LanguagePref string  `gorm:"type:varchar(10);not null;default:'de'" json:"language_pref"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// FullName 返回展示用姓名
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
