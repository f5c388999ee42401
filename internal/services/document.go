package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"time"

	"vasplink/internal/logger"
	"vasplink/internal/markers"
	"vasplink/internal/models"
	"vasplink/internal/render"
	"vasplink/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FormatDocx = "docx"
	FormatPDF  = "pdf"

	downloadURLExpiry = time.Hour
)

type DocumentService struct {
	db        *gorm.DB
	store     *storage.ObjectStore
	templates *TemplateService
	pdf       *PDFService
	log       *logger.Logger
	tempDir   string
}

// NewDocumentService stages render scratch files under tempDir, the
// application-owned directory the cleanup service sweeps.
func NewDocumentService(db *gorm.DB, store *storage.ObjectStore, templates *TemplateService, pdf *PDFService, log *logger.Logger, tempDir string) *DocumentService {
	return &DocumentService{
		db:        db,
		store:     store,
		templates: templates,
		pdf:       pdf,
		log:       log.With("service", "DocumentService"),
		tempDir:   tempDir,
	}
}

// GenerateResult describes a stored artifact.
type GenerateResult struct {
	Document    *models.Document `json:"document"`
	DownloadURL string           `json:"download_url,omitempty"`
}

// PreviewResult is the outcome of rendering a template against the sample
// case fixture.
type PreviewResult struct {
	Preview string          `json:"preview"`
	Markers []markers.Entry `json:"markers"`
	Custom  []string        `json:"custom_markers,omitempty"`
}

// Generate renders the template against real case data and stores the
// resulting artifact. Render failures abort the request; no partial document
// is persisted.
func (s *DocumentService) Generate(ctx context.Context, ownerID, templateID string, data markers.CaseData, format string) (*GenerateResult, error) {
	template, err := s.templates.Get(ctx, ownerID, templateID)
	if err != nil {
		return nil, err
	}

	// A template can produce a PDF or its own native format, nothing else.
	if format != FormatPDF && format != template.FileType {
		return nil, fmt.Errorf("%w: %s templates cannot produce %s output", ErrInvalidInput, template.FileType, format)
	}

	mapping, err := s.templates.Mapping(template)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	values := markers.Resolve(data, mapping, now)
	caseNumber := values["{{CASE_NUMBER}}"]

	var (
		artifact []byte
		mimeType string
	)
	ext := format

	switch template.FileType {
	case models.FileTypeDocx:
		docxBytes, err := s.renderDocx(ctx, template, values, data.Transactions)
		if err != nil {
			return nil, err
		}
		if format == FormatPDF {
			artifact, err = s.docxToPDF(ctx, docxBytes)
			if err != nil {
				return nil, err
			}
			mimeType = "application/pdf"
		} else {
			artifact = docxBytes
			mimeType = contentTypeFor(models.FileTypeDocx)
		}

	default:
		rendered := render.RenderText(template.Content, values)
		if format == FormatPDF {
			artifact, err = s.textToPDF(ctx, rendered, template.FileType)
			if err != nil {
				return nil, err
			}
			mimeType = "application/pdf"
		} else {
			// Non-docx templates deliver the substituted text itself.
			artifact = []byte(rendered)
			mimeType = contentTypeFor(template.FileType)
			ext = template.FileType
		}
	}

	documentID := uuid.New().String()
	filename := render.GenerateFilename(template.Category, caseNumber, ext, now)
	objectName := storage.DocumentObjectName(ownerID, documentID, filename)

	uploadResult, err := s.store.Upload(ctx, bytes.NewReader(artifact), objectName, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to store generated document: %w", err)
	}

	dataJSON, err := json.Marshal(values)
	if err != nil {
		s.store.Delete(ctx, objectName)
		return nil, fmt.Errorf("failed to marshal resolved fields: %w", err)
	}

	document := &models.Document{
		ID:           documentID,
		TemplateID:   template.ID,
		OwnerID:      ownerID,
		CaseNumber:   caseNumber,
		Filename:     filename,
		StoragePath:  objectName,
		FileSize:     uploadResult.Size,
		MimeType:     mimeType,
		OutputFormat: format,
		Data:         dataJSON,
		Status:       "completed",
	}

	if err := s.db.WithContext(ctx).Create(document).Error; err != nil {
		s.store.Delete(ctx, objectName)
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	downloadURL, err := s.store.SignedURL(objectName, downloadURLExpiry)
	if err != nil {
		s.log.Warn("failed to sign download url", "object", objectName, "error", err)
		downloadURL = ""
	}

	s.log.Info("document generated",
		"document_id", documentID, "template_id", template.ID, "format", format, "size", uploadResult.Size)

	return &GenerateResult{Document: document, DownloadURL: downloadURL}, nil
}

// Preview renders the template's extracted text against the synthetic sample
// case, with caller overrides merged over the fixture fields.
func (s *DocumentService) Preview(ctx context.Context, ownerID, templateID string, overrides map[string]string) (*PreviewResult, error) {
	template, err := s.templates.Get(ctx, ownerID, templateID)
	if err != nil {
		return nil, err
	}

	mapping, err := s.templates.Mapping(template)
	if err != nil {
		return nil, err
	}
	tokens, err := s.templates.MarkerList(template)
	if err != nil {
		return nil, err
	}

	data := SampleCaseData()
	for key, value := range overrides {
		data.Fields[key] = value
	}

	values := markers.Resolve(data, mapping, time.Now())
	preview := render.RenderText(template.Content, values)

	result := &PreviewResult{Preview: preview, Markers: []markers.Entry{}}
	for _, token := range tokens {
		if entry, ok := markers.Lookup(token); ok {
			result.Markers = append(result.Markers, entry)
		} else {
			result.Custom = append(result.Custom, token)
		}
	}

	return result, nil
}

func (s *DocumentService) Get(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	var document models.Document
	err := s.db.WithContext(ctx).First(&document, "id = ? AND owner_id = ?", documentID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return &document, nil
}

func (s *DocumentService) List(ctx context.Context, ownerID string) ([]models.Document, error) {
	var documents []models.Document
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&documents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

// DownloadReader streams a stored artifact.
func (s *DocumentService) DownloadReader(ctx context.Context, ownerID, documentID string) (io.ReadCloser, *models.Document, error) {
	document, err := s.Get(ctx, ownerID, documentID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.store.Read(ctx, document.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read stored document: %w", err)
	}

	return reader, document, nil
}

func (s *DocumentService) renderDocx(ctx context.Context, template *models.Template, values map[string]string, txs []markers.Transaction) ([]byte, error) {
	reader, err := s.store.Read(ctx, template.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	defer reader.Close()

	inputFile, err := writeTempFile(s.tempDir, reader, "*.docx")
	if err != nil {
		return nil, fmt.Errorf("failed to stage template file: %w", err)
	}
	defer os.Remove(inputFile)

	outputFile := filepath.Join(s.tempDir, uuid.New().String()+".docx")
	defer os.Remove(outputFile)

	renderer := render.NewDocxRenderer(inputFile, outputFile)
	if err := renderer.Render(values, txs); err != nil {
		// The engine message travels with the sentinel so the caller can see
		// what the template did wrong.
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	artifact, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered document: %w", err)
	}
	return artifact, nil
}

func (s *DocumentService) docxToPDF(ctx context.Context, docxBytes []byte) ([]byte, error) {
	staged, err := writeTempFile(s.tempDir, bytes.NewReader(docxBytes), "*.docx")
	if err != nil {
		return nil, fmt.Errorf("failed to stage docx for conversion: %w", err)
	}
	defer os.Remove(staged)

	pdfReader, err := s.pdf.ConvertDocx(ctx, staged)
	if err != nil {
		return nil, err
	}
	defer pdfReader.Close()

	return io.ReadAll(pdfReader)
}

func (s *DocumentService) textToPDF(ctx context.Context, rendered, fileType string) ([]byte, error) {
	page := rendered
	if fileType == models.FileTypeTxt {
		// Plain text goes through the Chromium route as a preformatted page.
		page = "<html><body><pre>" + html.EscapeString(rendered) + "</pre></body></html>"
	}

	pdfReader, err := s.pdf.ConvertHTML(ctx, page)
	if err != nil {
		return nil, err
	}
	defer pdfReader.Close()

	return io.ReadAll(pdfReader)
}

func writeTempFile(dir string, reader io.Reader, pattern string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tempFile, err := os.CreateTemp(dir, pattern)
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
