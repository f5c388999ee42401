package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"vasplink/internal/extract"
	"vasplink/internal/logger"
	"vasplink/internal/markers"
	"vasplink/internal/models"
	"vasplink/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateService struct {
	db          *gorm.DB
	store       *storage.ObjectStore
	log         *logger.Logger
	maxFileSize int64
	tempDir     string
}

// NewTemplateService stages upload scratch files under tempDir, which must be
// a directory dedicated to this application so the cleanup service can sweep
// it safely.
func NewTemplateService(db *gorm.DB, store *storage.ObjectStore, log *logger.Logger, maxFileSize int64, tempDir string) *TemplateService {
	return &TemplateService{
		db:          db,
		store:       store,
		log:         log.With("service", "TemplateService"),
		maxFileSize: maxFileSize,
		tempDir:     tempDir,
	}
}

// UploadMeta carries the optional metadata accepted alongside a template file.
type UploadMeta struct {
	DisplayName    string
	Category       string
	AgencyHeader   string
	AgencyAddress  string
	AgencyContact  string
	AgencyFooter   string
	SignatureBlock string
}

// UploadOutcome bundles the stored record with the scan and validation
// results the client needs to drive its mapping editor.
type UploadOutcome struct {
	Template *models.Template `json:"template"`
	Markers  []string         `json:"markers"`
	Report   markers.Report   `json:"validation"`
}

var extensionTypes = map[string]string{
	".docx": models.FileTypeDocx,
	".html": models.FileTypeHTML,
	".htm":  models.FileTypeHTML,
	".txt":  models.FileTypeTxt,
}

// DetectFileType maps an upload's extension (with the declared content type
// as a fallback) onto a supported template file type. The returned error
// names the offending extension or content type.
func DetectFileType(filename, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if fileType, ok := extensionTypes[ext]; ok {
		return fileType, nil
	}

	switch contentType {
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return models.FileTypeDocx, nil
	case "text/html":
		return models.FileTypeHTML, nil
	case "text/plain":
		return models.FileTypeTxt, nil
	}

	if ext == "" {
		return "", fmt.Errorf("%w: content type %q is not supported", ErrInvalidFileType, contentType)
	}
	return "", fmt.Errorf("%w: %s files are not supported", ErrInvalidFileType, ext)
}

func contentTypeFor(fileType string) string {
	switch fileType {
	case models.FileTypeDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case models.FileTypeHTML:
		return "text/html"
	default:
		return "text/plain"
	}
}

func (s *TemplateService) Upload(ctx context.Context, ownerID string, file multipart.File, header *multipart.FileHeader, meta UploadMeta) (*UploadOutcome, error) {
	fileType, err := DetectFileType(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if header.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, header.Size, s.maxFileSize)
	}

	templateID := uuid.New().String()
	objectName := storage.TemplateObjectName(ownerID, templateID, header.Filename)

	result, err := s.store.Upload(ctx, file, objectName, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to store template file: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.store.Delete(ctx, objectName)
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}
	tempFile, err := s.createTempFile(file, fileType)
	if err != nil {
		s.store.Delete(ctx, objectName)
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile)

	content, err := extract.Extract(tempFile, fileType)
	if err != nil {
		// Extraction failure aborts the upload; nothing may stay behind.
		s.store.Delete(ctx, objectName)
		return nil, fmt.Errorf("failed to extract template content: %w", err)
	}

	tokens := markers.Scan(content)
	report := markers.Validate(content, tokens)

	markersJSON, err := json.Marshal(tokens)
	if err != nil {
		s.store.Delete(ctx, objectName)
		return nil, fmt.Errorf("failed to marshal markers: %w", err)
	}

	category := meta.Category
	if category == "" {
		category = models.CategoryGeneral
	}
	displayName := meta.DisplayName
	if displayName == "" {
		displayName = header.Filename
	}

	template := &models.Template{
		ID:             templateID,
		OwnerID:        ownerID,
		DisplayName:    displayName,
		Category:       category,
		AgencyHeader:   meta.AgencyHeader,
		AgencyAddress:  meta.AgencyAddress,
		AgencyContact:  meta.AgencyContact,
		AgencyFooter:   meta.AgencyFooter,
		SignatureBlock: meta.SignatureBlock,
		OriginalName:   header.Filename,
		StoragePath:    objectName,
		FileType:       fileType,
		FileSize:       result.Size,
		MimeType:       header.Header.Get("Content-Type"),
		Content:        content,
		Markers:        markersJSON,
		Mapping:        []byte("{}"),
	}

	if err := s.db.WithContext(ctx).Create(template).Error; err != nil {
		s.store.Delete(ctx, objectName)
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.log.Info("template uploaded",
		"template_id", templateID, "file_type", fileType, "markers", len(tokens))

	return &UploadOutcome{Template: template, Markers: tokens, Report: report}, nil
}

// Get returns a template owned by ownerID. A template owned by someone else
// is reported as not found rather than forbidden.
func (s *TemplateService) Get(ctx context.Context, ownerID, templateID string) (*models.Template, error) {
	var template models.Template
	err := s.db.WithContext(ctx).First(&template, "id = ? AND owner_id = ?", templateID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &template, nil
}

func (s *TemplateService) List(ctx context.Context, ownerID string) ([]models.Template, error) {
	var templates []models.Template
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// UpdateMapping fully replaces the template's marker→field mapping.
func (s *TemplateService) UpdateMapping(ctx context.Context, ownerID, templateID string, mapping map[string]string) (*models.Template, error) {
	template, err := s.Get(ctx, ownerID, templateID)
	if err != nil {
		return nil, err
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(template).Update("mapping", mappingJSON).Error; err != nil {
		return nil, fmt.Errorf("failed to update mapping: %w", err)
	}
	template.Mapping = mappingJSON
	return template, nil
}

// SetDefault marks the template as the default for its (owner, category)
// pair, clearing the flag from any sibling.
func (s *TemplateService) SetDefault(ctx context.Context, ownerID, templateID string) (*models.Template, error) {
	template, err := s.Get(ctx, ownerID, templateID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Template{}).
			Where("owner_id = ? AND category = ? AND is_default = ?", ownerID, template.Category, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(template).Update("is_default", true).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set default template: %w", err)
	}

	template.IsDefault = true
	return template, nil
}

// DefaultFor returns the default template for a category, if one is set.
func (s *TemplateService) DefaultFor(ctx context.Context, ownerID, category string) (*models.Template, error) {
	var template models.Template
	err := s.db.WithContext(ctx).
		First(&template, "owner_id = ? AND category = ? AND is_default = ?", ownerID, category, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load default template: %w", err)
	}
	return &template, nil
}

func (s *TemplateService) Delete(ctx context.Context, ownerID, templateID string) error {
	template, err := s.Get(ctx, ownerID, templateID)
	if err != nil {
		return err
	}
	if template.IsDefault {
		return ErrDefaultTemplate
	}

	if err := s.store.Delete(ctx, template.StoragePath); err != nil {
		// File deletion failure should not strand the database record.
		s.log.Warn("failed to delete template file", "object", template.StoragePath, "error", err)
	}

	return s.db.WithContext(ctx).Delete(template).Error
}

// MarkerList decodes the stored marker array.
func (s *TemplateService) MarkerList(template *models.Template) ([]string, error) {
	var tokens []string
	if len(template.Markers) == 0 {
		return tokens, nil
	}
	if err := json.Unmarshal(template.Markers, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal markers: %w", err)
	}
	return tokens, nil
}

// Mapping decodes the stored marker→field mapping.
func (s *TemplateService) Mapping(template *models.Template) (map[string]string, error) {
	mapping := map[string]string{}
	if len(template.Mapping) == 0 {
		return mapping, nil
	}
	if err := json.Unmarshal(template.Mapping, &mapping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mapping: %w", err)
	}
	return mapping, nil
}

func (s *TemplateService) createTempFile(reader io.Reader, fileType string) (string, error) {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return "", err
	}
	tempFile, err := os.CreateTemp(s.tempDir, "upload_*."+fileType)
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, reader); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}

	return tempFile.Name(), nil
}
