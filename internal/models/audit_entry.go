package models

import "time"

// AuditEntry is one row of the request audit trail written by the audit
// middleware. Username is whatever identity the session carried; requests
// without a session audit with an empty username.
type AuditEntry struct {
	ID            uint64    `json:"id_log" gorm:"column:id_log;primaryKey;autoIncrement"`
	StartedAt     time.Time `json:"fecha_inicio" gorm:"column:fecha_inicio;not null"`
	FinishedAt    time.Time `json:"fecha_fin" gorm:"column:fecha_fin;not null"`
	DurationMS    float64   `json:"duracion_ms" gorm:"column:duracion_ms;not null"`
	Username      string    `json:"username" gorm:"column:username;size:150"`
	HTTPMethod    string    `json:"http_method" gorm:"column:http_method;size:10;not null"`
	HTTPStatus    int       `json:"http_status" gorm:"column:http_status;not null"`
	URL           string    `json:"url" gorm:"column:url;type:text;not null"`
	Application   string    `json:"application_name" gorm:"column:application_name;size:120"`
	IPAddress     string    `json:"ip_address" gorm:"column:ip_address"`
	CorrelationID string    `json:"correlation_id" gorm:"column:correlation_id;size:100"`
	HasException  bool      `json:"has_exception" gorm:"column:has_exception;not null;default:false"`
	UserAgent     string    `json:"user_agent" gorm:"column:user_agent;type:text"`
	Message       string    `json:"mensaje" gorm:"column:mensaje;type:text"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
}

func (AuditEntry) TableName() string { return "auditoria" }
