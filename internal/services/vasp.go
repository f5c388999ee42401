package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"vasplink/internal/logger"
)

// Vasp is one row of the provider directory.
type Vasp struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	LegalName       string `json:"legal_name"`
	Jurisdiction    string `json:"jurisdiction"`
	ServiceEmail    string `json:"service_email"`
	ServiceAddress  string `json:"service_address"`
	RequiredProcess string `json:"required_process"`
}

// VaspDirectory serves provider lookups from an in-memory snapshot of the
// directory CSV. The snapshot is reloaded lazily once it is older than the
// cache TTL.
type VaspDirectory struct {
	csvPath  string
	cacheTTL time.Duration
	log      *logger.Logger

	mu       sync.RWMutex
	vasps    []Vasp
	byID     map[string]int
	loadedAt time.Time
}

func NewVaspDirectory(csvPath string, cacheTTL time.Duration, log *logger.Logger) *VaspDirectory {
	return &VaspDirectory{
		csvPath:  csvPath,
		cacheTTL: cacheTTL,
		log:      log.With("service", "VaspDirectory"),
	}
}

// Search returns providers whose name or legal name contains query
// (case-insensitive), optionally restricted to a jurisdiction.
func (d *VaspDirectory) Search(query, jurisdiction string) ([]Vasp, error) {
	vasps, _, err := d.snapshot()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	jurisdiction = strings.ToLower(strings.TrimSpace(jurisdiction))

	results := []Vasp{}
	for _, vasp := range vasps {
		if jurisdiction != "" && strings.ToLower(vasp.Jurisdiction) != jurisdiction {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(vasp.Name), query) &&
			!strings.Contains(strings.ToLower(vasp.LegalName), query) {
			continue
		}
		results = append(results, vasp)
	}
	return results, nil
}

func (d *VaspDirectory) Get(id string) (*Vasp, error) {
	vasps, byID, err := d.snapshot()
	if err != nil {
		return nil, err
	}

	index, ok := byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	vasp := vasps[index]
	return &vasp, nil
}

func (d *VaspDirectory) snapshot() ([]Vasp, map[string]int, error) {
	d.mu.RLock()
	if d.vasps != nil && time.Since(d.loadedAt) < d.cacheTTL {
		vasps, byID := d.vasps, d.byID
		d.mu.RUnlock()
		return vasps, byID, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if d.vasps != nil && time.Since(d.loadedAt) < d.cacheTTL {
		return d.vasps, d.byID, nil
	}

	vasps, byID, err := loadVaspCSV(d.csvPath)
	if err != nil {
		if d.vasps != nil {
			// Serve the stale snapshot rather than failing lookups.
			d.log.Warn("failed to refresh directory, serving cached snapshot", "error", err)
			return d.vasps, d.byID, nil
		}
		return nil, nil, err
	}

	d.vasps = vasps
	d.byID = byID
	d.loadedAt = time.Now()
	d.log.Info("directory snapshot loaded", "vasps", len(vasps))
	return d.vasps, d.byID, nil
}

func loadVaspCSV(path string) ([]Vasp, map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open directory csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory csv header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	field := func(record []string, name string) string {
		index, ok := columns[name]
		if !ok || index >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[index])
	}

	var vasps []Vasp
	byID := map[string]int{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read directory csv row: %w", err)
		}

		vasp := Vasp{
			ID:              field(record, "id"),
			Name:            field(record, "name"),
			LegalName:       field(record, "legal_name"),
			Jurisdiction:    field(record, "jurisdiction"),
			ServiceEmail:    field(record, "service_email"),
			ServiceAddress:  field(record, "service_address"),
			RequiredProcess: field(record, "required_process"),
		}
		if vasp.ID == "" || vasp.Name == "" {
			continue
		}

		byID[vasp.ID] = len(vasps)
		vasps = append(vasps, vasp)
	}

	return vasps, byID, nil
}
