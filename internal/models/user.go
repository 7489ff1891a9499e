package models

import "time"

// User is a registry operator account. Password holds an argon2id hash and is
// never serialized.
type User struct {
	ID           uint   `json:"id_usuario" gorm:"column:id_usuario;primaryKey;autoIncrement"`
	FirstName    string `json:"nombre" gorm:"column:nombre;size:100;not null"`
	PaternalName string `json:"apellido_paterno" gorm:"column:apellido_paterno;size:100;not null"`
	MaternalName string `json:"apellido_materno" gorm:"column:apellido_materno;size:100;not null"`
	Email        string `json:"email" gorm:"column:email;size:100;not null;uniqueIndex"`
	Password     string `json:"-" gorm:"column:password;size:255;not null"`
	BirthDate    string `json:"fecha_nacimiento" gorm:"column:fecha_nacimiento;not null"`
	Active       bool   `json:"activo" gorm:"column:activo;not null;default:true"`
	Role         string `json:"rol" gorm:"column:rol;size:100;not null"`
}

func (User) TableName() string { return "usuario" }

// PasswordReset stores sha256(token) so a leaked table cannot redeem tokens.
// Purpose distinguishes first-time setup from recovery.
type PasswordReset struct {
	ID        uint       `json:"id_reset" gorm:"column:id_reset;primaryKey;autoIncrement"`
	UserID    uint       `json:"id_usuario" gorm:"column:id_usuario;not null;index"`
	TokenHash string     `json:"-" gorm:"column:token_hash;size:64;not null;index"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"column:expires_at;not null"`
	UsedAt    *time.Time `json:"used_at" gorm:"column:used_at"`
	Purpose   string     `json:"purpose" gorm:"column:purpose;size:10;not null;default:reset"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (PasswordReset) TableName() string { return "password_resets" }

const (
	ResetPurposeSetup = "setup"
	ResetPurposeReset = "reset"
)
