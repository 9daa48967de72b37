package model

// Role 使用者角色，由外部指派，系統只讀取
type Role string

const (
	RoleStudent   Role = "student"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// IsValid 驗證角色是否有效
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// CanOrganize organizer 與 admin 可以發布、刪除活動與匯出名單
func (r Role) CanOrganize() bool {
	return r == RoleOrganizer || r == RoleAdmin
}

// Identity 外部身分提供者給的資料
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// User 已解析角色的使用者
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// DisplayName 沒有名稱時使用 Anonymous
func (u *User) DisplayName() string {
	if u.Name == "" {
		return "Anonymous"
	}
	return u.Name
}

// IsOrganizer 檢查使用者是否具主辦權限
func (u *User) IsOrganizer() bool {
	return u != nil && u.Role.CanOrganize()
}
