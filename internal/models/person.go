package models

// Person is a civil-registry identity record. Rows are soft-deleted via
// Active; date-only fields travel as YYYY-MM-DD strings to match the wire
// format of the legacy frontend.
type Person struct {
	ID           uint   `json:"id_persona" gorm:"column:id_persona;primaryKey;autoIncrement"`
	FirstName    string `json:"nombre" gorm:"column:nombre;size:100;not null"`
	PaternalName string `json:"apellido_paterno" gorm:"column:apellido_paterno;size:100;not null"`
	MaternalName string `json:"apellido_materno" gorm:"column:apellido_materno;size:100;not null"`
	NationalID   string `json:"carnet_identidad" gorm:"column:carnet_identidad;size:100;not null;uniqueIndex"`
	BirthDate    string `json:"fecha_nacimiento" gorm:"column:fecha_nacimiento;not null"`
	BirthPlace   string `json:"lugar_nacimiento" gorm:"column:lugar_nacimiento;size:150;not null"`
	FatherName   string `json:"nombre_padre" gorm:"column:nombre_padre;size:200;not null"`
	MotherName   string `json:"nombre_madre" gorm:"column:nombre_madre;size:200;not null"`
	Active       bool   `json:"activo" gorm:"column:activo;not null;default:true"`
	CivilStatus  string `json:"estado" gorm:"column:estado;size:100;not null"`
	Priest       *bool  `json:"sacerdote" gorm:"column:sacerdote"`

	Participations []Participation `json:"persona_sacramentos,omitempty" gorm:"foreignKey:PersonID"`
}

func (Person) TableName() string { return "persona" }

// FullName joins the display-name parts the way the edit forms expect.
func (p Person) FullName() string {
	name := p.FirstName
	if p.PaternalName != "" {
		name += " " + p.PaternalName
	}
	if p.MaternalName != "" {
		name += " " + p.MaternalName
	}
	return name
}
