package models

import "time"

// Proposal is a citizen suggestion. Deleted and Published mirror the legacy
// column names (isDeleted / publicado).
type Proposal struct {
	ID        uint      `json:"id_propuesta" gorm:"column:id_propuesta;primaryKey;autoIncrement"`
	Text      string    `json:"propuesta" gorm:"column:propuesta;type:text"`
	Date      time.Time `json:"fecha" gorm:"column:fecha"`
	Deleted   bool      `json:"isDeleted" gorm:"column:is_deleted"`
	Published bool      `json:"publicado" gorm:"column:publicado"`
}

func (Proposal) TableName() string { return "propuesta_ciudadana" }

// Comment is citizen feedback attached to a published document. The document
// subsystem itself lives outside this service, so the reference stays a bare
// foreign id.
type Comment struct {
	ID         uint      `json:"id_comentario" gorm:"column:id_comentario;primaryKey;autoIncrement"`
	Text       string    `json:"comentario" gorm:"column:comentario;type:text"`
	DocumentID uint      `json:"DOCUMENTO_id_documento" gorm:"column:documento_id_documento"`
	Date       time.Time `json:"fecha" gorm:"column:fecha"`
	Deleted    bool      `json:"isDeleted" gorm:"column:is_deleted"`
	Published  bool      `json:"publicado" gorm:"column:publicado"`
}

func (Comment) TableName() string { return "comentarios" }
