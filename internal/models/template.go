package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template categories understood by the generation pipeline.
const (
	CategoryLetterhead    = "letterhead"
	CategorySubpoena      = "subpoena"
	CategoryFreezeRequest = "freeze_request"
	CategoryGeneral       = "general"
)

// Supported template file types.
const (
	FileTypeDocx = "docx"
	FileTypeHTML = "html"
	FileTypeTxt  = "txt"
)

type Template struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID     string `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Category    string `gorm:"type:varchar(32);not null;default:'general';index" json:"category"`

	// Agency text blocks rendered into letterhead-style output.
	AgencyHeader    string `gorm:"type:text" json:"agency_header"`
	AgencyAddress   string `gorm:"type:text" json:"agency_address"`
	AgencyContact   string `gorm:"type:text" json:"agency_contact"`
	AgencyFooter    string `gorm:"type:text" json:"agency_footer"`
	SignatureBlock  string `gorm:"type:text" json:"signature_block"`

	OriginalName string `json:"original_name"`
	StoragePath  string `gorm:"not null" json:"storage_path"`
	FileType     string `gorm:"type:varchar(8);not null" json:"file_type"`
	FileSize     int64  `json:"file_size"`
	MimeType     string `json:"mime_type"`

	// Extracted plain-text content, used for preview and text rendering.
	Content string `gorm:"type:longtext" json:"content"`

	// Markers holds the discovered tokens in first-occurrence order; Mapping
	// the user-editable marker→field assignments.
	Markers datatypes.JSON `gorm:"type:json" json:"markers"`
	Mapping datatypes.JSON `gorm:"type:json" json:"mapping"`

	IsDefault bool `gorm:"not null;default:false;index" json:"is_default"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Documents []Document `gorm:"foreignKey:TemplateID" json:"documents,omitempty"`
}

func (Template) TableName() string {
	return "document_templates"
}

type Document struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TemplateID string `gorm:"type:varchar(36);not null;index" json:"template_id"`
	OwnerID    string `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	CaseNumber string `gorm:"type:varchar(64);index" json:"case_number"`

	Filename     string `gorm:"not null" json:"filename"`
	StoragePath  string `gorm:"not null" json:"storage_path"`
	FileSize     int64  `json:"file_size"`
	MimeType     string `json:"mime_type"`
	OutputFormat string `gorm:"type:varchar(8);not null" json:"output_format"`

	// Data records the resolved field values used for the render.
	Data   datatypes.JSON `gorm:"type:json" json:"data"`
	Status string         `gorm:"type:varchar(16);default:'completed'" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Template Template `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}
