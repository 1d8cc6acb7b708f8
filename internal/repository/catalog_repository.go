package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"

	"landing-pages-backend/internal/models"
	catalogvalidator "landing-pages-backend/pkg/validator"
)

const (
	JobTitleColumn  = "Title"
	JobPhotosColumn = "wpcf-job-photos"

	topLevelMarker = "yes"
)

var (
	serviceFiles  = []string{"services.csv", "servicecats.csv"}
	locationFiles = []string{"locations.csv", "locationcats.csv"}
	jobFiles      = []string{"jobs.csv", "job.csv"}
	reviewFiles   = []string{"reviews.csv", "review.csv"}

	serviceColumns  = []string{"name", "desc", "parent", "parent_main"}
	locationColumns = []string{"location_name", "county_name", "municipality", "area_codes"}
	jobColumns      = []string{JobTitleColumn}
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrMissingColumn   = errors.New("missing required column")
	ErrInvalidRow      = errors.New("invalid row")
)

// CatalogRepository reads the tabular datasets the site is generated from.
type CatalogRepository interface {
	Services() ([]models.Service, error)
	Locations() ([]models.Location, error)
	Jobs() ([]models.Job, error)
	Reviews() ([]models.Review, error)
}

type csvCatalogRepository struct {
	fsys     fs.FS
	validate *validator.Validate
}

// NewCatalogRepository reads CSV datasets from fsys. Each dataset may use
// either its plain name (services.csv) or the legacy export name
// (servicecats.csv).
func NewCatalogRepository(fsys fs.FS) CatalogRepository {
	return &csvCatalogRepository{fsys: fsys, validate: catalogvalidator.New()}
}

func (r *csvCatalogRepository) Services() ([]models.Service, error) {
	table, err := r.readTable(serviceFiles, serviceColumns)
	if err != nil {
		return nil, err
	}

	services := make([]models.Service, 0, len(table.rows))
	for i, row := range table.rows {
		service := models.Service{
			Name:        row.Get("name"),
			Description: row.Get("desc"),
			Parent:      row.Get("parent"),
			IsTopLevel:  strings.EqualFold(strings.TrimSpace(row.Get("parent_main")), topLevelMarker),
		}
		if err := r.validate.Struct(service); err != nil {
			return nil, rowError(table.name, i, err)
		}
		services = append(services, service)
	}
	return services, nil
}

func (r *csvCatalogRepository) Locations() ([]models.Location, error) {
	table, err := r.readTable(locationFiles, locationColumns)
	if err != nil {
		return nil, err
	}

	locations := make([]models.Location, 0, len(table.rows))
	for i, row := range table.rows {
		location := models.Location{
			LocationName: row.Get("location_name"),
			CountyName:   row.Get("county_name"),
			Municipality: row.Get("municipality"),
			AreaCodes:    row.Get("area_codes"),
		}
		if err := r.validate.Struct(location); err != nil {
			return nil, rowError(table.name, i, err)
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func (r *csvCatalogRepository) Jobs() ([]models.Job, error) {
	table, err := r.readTable(jobFiles, jobColumns)
	if err != nil {
		return nil, err
	}

	jobs := make([]models.Job, 0, len(table.rows))
	for i, row := range table.rows {
		job := models.Job{
			Title:  row.Get(JobTitleColumn),
			Photos: splitPhotos(row.Get(JobPhotosColumn)),
			Fields: row,
		}
		if strings.TrimSpace(job.Title) == "" {
			return nil, rowError(table.name, i, fmt.Errorf("%s is empty", JobTitleColumn))
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *csvCatalogRepository) Reviews() ([]models.Review, error) {
	table, err := r.readTable(reviewFiles, nil)
	if err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(table.rows))
	for _, row := range table.rows {
		reviews = append(reviews, models.Review{Fields: row})
	}
	return reviews, nil
}

type csvTable struct {
	name string
	rows []models.Record
}

func (r *csvCatalogRepository) readTable(candidates []string, required []string) (*csvTable, error) {
	for _, name := range candidates {
		file, err := r.fsys.Open(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}

		rows, err := parseCSV(file, required)
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return &csvTable{name: name, rows: rows}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, strings.Join(candidates, " or "))
}

func parseCSV(src io.Reader, required []string) ([]models.Record, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, err
	}

	columns := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, column := range header {
		column = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
		columns[i] = column
		present[column] = true
	}

	for _, column := range required {
		if !present[column] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
		}
	}

	var rows []models.Record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlankRow(fields) {
			continue
		}

		values := make(map[string]string, len(columns))
		for i, column := range columns {
			if i < len(fields) {
				values[column] = fields[i]
			} else {
				values[column] = ""
			}
		}
		rows = append(rows, models.Record{Columns: columns, Values: values})
	}

	return rows, nil
}

func isBlankRow(fields []string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func splitPhotos(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, "|")
	photos := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			photos = append(photos, part)
		}
	}
	return photos
}

func rowError(dataset string, index int, err error) error {
	return fmt.Errorf("%w: %s row %d: %v", ErrInvalidRow, dataset, index+1, err)
}
