package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vasplink/internal/logger"

	"github.com/starwalkn/gotenberg-go-client/v8"
	"github.com/starwalkn/gotenberg-go-client/v8/document"
)

const pdfMaxRetries = 3

// PDFService converts rendered artifacts to PDF through Gotenberg: DOCX via
// the LibreOffice route, text/HTML via the Chromium route.
type PDFService struct {
	client  *gotenberg.Client
	log     *logger.Logger
	timeout time.Duration
}

func NewPDFService(gotenbergURL, timeoutStr string, log *logger.Logger) (*PDFService, error) {
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
		log.Warn("failed to parse gotenberg timeout, using default", "value", timeoutStr, "default", timeout)
	}

	client, err := gotenberg.NewClient(gotenbergURL, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gotenberg client: %w", err)
	}

	return &PDFService{
		client:  client,
		log:     log.With("service", "PDFService"),
		timeout: timeout,
	}, nil
}

// ConvertDocx converts a DOCX stream read from path to PDF.
func (s *PDFService) ConvertDocx(ctx context.Context, docxPath string) (io.ReadCloser, error) {
	var lastErr error

	for attempt := 1; attempt <= pdfMaxRetries; attempt++ {
		doc, err := document.FromPath("document.docx", docxPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open document for conversion: %w", err)
		}

		convertCtx, cancel := context.WithTimeout(ctx, s.timeout)
		resp, err := s.client.Send(convertCtx, gotenberg.NewLibreOfficeRequest(doc))
		cancel()
		if err == nil {
			return resp.Body, nil
		}

		lastErr = err
		s.log.Warn("pdf conversion attempt failed", "attempt", attempt, "error", err)
		if attempt < pdfMaxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	return nil, fmt.Errorf("failed to convert document after %d attempts: %w", pdfMaxRetries, lastErr)
}

// ConvertHTML converts rendered HTML (or plain text wrapped by the caller)
// to PDF.
func (s *PDFService) ConvertHTML(ctx context.Context, html string) (io.ReadCloser, error) {
	index, err := document.FromReader("index.html", strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to build index document: %w", err)
	}

	convertCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Send(convertCtx, gotenberg.NewHTMLRequest(index))
	if err != nil {
		return nil, fmt.Errorf("failed to convert html to pdf: %w", err)
	}

	return resp.Body, nil
}
