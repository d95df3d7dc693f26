package model

// swagger:model User
type User struct {
	BaseModel
	Username string `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
	IsAdmin  bool   `gorm:"default:false" json:"isAdmin"`
}

func (User) TableName() string {
	return "users"
}
