package models

import "time"

// Sacrament is one recorded ceremony. Date is the ceremony date (date-only);
// RegisteredAt and LastUpdateAt are bookkeeping timestamps maintained by the
// handlers, not by gorm's auto-tracking.
type Sacrament struct {
	ID           uint      `json:"id_sacramento" gorm:"column:id_sacramento;primaryKey;autoIncrement"`
	Date         string    `json:"fecha_sacramento" gorm:"column:fecha_sacramento;not null"`
	RegisteredAt time.Time `json:"fecha_registro" gorm:"column:fecha_registro;not null"`
	LastUpdateAt time.Time `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion;not null"`
	Active       bool      `json:"activo" gorm:"column:activo;not null;default:true"`
	Folio        string    `json:"foja" gorm:"column:foja;size:10;not null"`
	Number       int       `json:"numero" gorm:"column:numero;not null"`
	UserID       uint      `json:"usuario_id_usuario" gorm:"column:usuario_id_usuario;not null"`
	ParishID     uint      `json:"institucion_parroquia_id_parroquia" gorm:"column:institucion_parroquia_id_parroquia;not null"`
	TypeID       uint      `json:"tipo_sacramento_id_tipo" gorm:"column:tipo_sacramento_id_tipo;not null"`

	User           *User           `json:"usuario,omitempty" gorm:"foreignKey:UserID"`
	Parish         *Parish         `json:"parroquia,omitempty" gorm:"foreignKey:ParishID"`
	Type           *SacramentType  `json:"tipo_sacramento,omitempty" gorm:"foreignKey:TypeID"`
	Participations []Participation `json:"persona_sacramentos,omitempty" gorm:"foreignKey:SacramentID"`
}

func (Sacrament) TableName() string { return "sacramento" }

// SacramentType is reference data: Bautizo, Comunion, Confirmacion, Matrimonio.
type SacramentType struct {
	ID          uint   `json:"id_tipo" gorm:"column:id_tipo;primaryKey;autoIncrement"`
	Name        string `json:"nombre" gorm:"column:nombre;size:100;not null"`
	Description string `json:"descripcion" gorm:"column:descripcion;size:250"`
	Active      bool   `json:"activo" gorm:"column:activo;not null;default:true"`
}

func (SacramentType) TableName() string { return "tipo_sacramento" }

type Parish struct {
	ID      uint   `json:"id_parroquia" gorm:"column:id_parroquia;primaryKey;autoIncrement"`
	Name    string `json:"nombre" gorm:"column:nombre;size:100;not null"`
	Address string `json:"direccion" gorm:"column:direccion;size:200;not null"`
	Phone   string `json:"telefono" gorm:"column:telefono;size:15;not null"`
	Email   string `json:"email" gorm:"column:email;size:100;not null;uniqueIndex"`
}

func (Parish) TableName() string { return "institucion_parroquia" }

// MarriageDetail extends a marriage sacrament with civil-registry data.
// One row per sacrament, keyed by the sacrament id.
type MarriageDetail struct {
	SacramentID   uint   `json:"sacramento_id_sacramento" gorm:"column:sacramento_id_sacramento;primaryKey"`
	CivilRegistry string `json:"reg_civil" gorm:"column:reg_civil;size:150"`
	CeremonyPlace string `json:"lugar_ceremonia" gorm:"column:lugar_ceremonia;size:150"`
	ActNumber     int    `json:"numero_acta" gorm:"column:numero_acta"`

	Sacrament *Sacrament `json:"sacramento,omitempty" gorm:"foreignKey:SacramentID"`
}

func (MarriageDetail) TableName() string { return "matrimonio_detalle" }
