package models

// CeremonialRole is the catalog of capacities a person can hold in a
// sacrament: BAUTIZADO, COMULGADO, CONFIRMADO, CASADO, PADRINO, MADRINA,
// MINISTRO. Static reference data, seeded at migration time.
type CeremonialRole struct {
	ID   uint   `json:"id_rol_sacra" gorm:"column:id_rol_sacra;primaryKey;autoIncrement"`
	Name string `json:"nombre" gorm:"column:nombre;size:100;not null"`
}

func (CeremonialRole) TableName() string { return "rol_sacramento" }

// Participation links one person, one role and one sacrament. The legacy
// schema used the triple as its primary key; here the triple is a unique
// index and a surrogate id carries row identity, so the complete-update
// reconciliation can re-point a row's person without destroying it.
type Participation struct {
	ID          uint `json:"id_persona_sacramento" gorm:"column:id_persona_sacramento;primaryKey;autoIncrement"`
	PersonID    uint `json:"persona_id_persona" gorm:"column:persona_id_persona;not null;uniqueIndex:idx_persona_rol_sacra"`
	RoleID      uint `json:"rol_sacramento_id_rol_sacra" gorm:"column:rol_sacramento_id_rol_sacra;not null;uniqueIndex:idx_persona_rol_sacra"`
	SacramentID uint `json:"sacramento_id_sacramento" gorm:"column:sacramento_id_sacramento;not null;uniqueIndex:idx_persona_rol_sacra"`

	Person    *Person         `json:"persona,omitempty" gorm:"foreignKey:PersonID"`
	Role      *CeremonialRole `json:"rol_sacramento,omitempty" gorm:"foreignKey:RoleID"`
	Sacrament *Sacrament      `json:"sacramento,omitempty" gorm:"foreignKey:SacramentID"`
}

func (Participation) TableName() string { return "persona_sacramento" }
