package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/domain/repository"
)

// BootstrapResult - итог начальной загрузки
type BootstrapResult struct {
	Loaded  int  `json:"loaded"`
	Skipped int  `json:"skipped"`
	Ran     bool `json:"ran"`
}

// BootstrapUseCase seeds an empty store from a CSV with header
// name,type,description,latitude,longitude.
type BootstrapUseCase struct {
	reader repository.ResourceReader
	writer repository.ResourceWriter
	logger *zap.Logger
}

func NewBootstrapUseCase(
	reader repository.ResourceReader,
	writer repository.ResourceWriter,
	logger *zap.Logger,
) *BootstrapUseCase {
	return &BootstrapUseCase{reader: reader, writer: writer, logger: logger}
}

// LoadFileIfEmpty loads path only when the store holds no resources. A
// missing file is logged and ignored.
func (uc *BootstrapUseCase) LoadFileIfEmpty(ctx context.Context, path string) (*BootstrapResult, error) {
	if path == "" {
		return &BootstrapResult{}, nil
	}

	n, err := uc.reader.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		uc.logger.Debug("Store not empty, bootstrap skipped", zap.Int("count", n))
		return &BootstrapResult{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			uc.logger.Warn("Bootstrap file not found", zap.String("path", path))
			return &BootstrapResult{}, nil
		}
		return nil, fmt.Errorf("open bootstrap file: %w", err)
	}
	defer f.Close()

	result, err := uc.Load(ctx, f)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Bootstrap data loaded",
		zap.String("path", path),
		zap.Int("loaded", result.Loaded),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// Load parses every row and saves the valid ones in one transaction.
func (uc *BootstrapUseCase) Load(ctx context.Context, r io.Reader) (*BootstrapResult, error) {
	resources, skipped, err := ParseResourcesCSV(r)
	if err != nil {
		return nil, err
	}

	result := &BootstrapResult{Ran: true, Skipped: skipped}
	if len(resources) == 0 {
		return result, nil
	}

	if err := uc.writer.SaveAll(ctx, resources); err != nil {
		return nil, err
	}
	result.Loaded = len(resources)
	return result, nil
}

// ParseResourcesCSV reads bootstrap rows. Rows with fewer than five columns,
// unparseable or out-of-range coordinates, or an empty name are skipped and
// counted.
func ParseResourcesCSV(r io.Reader) ([]*domain.Resource, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	// заголовок
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	var (
		resources []*domain.Resource
		skipped   int
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		res, ok := parseResourceRow(row)
		if !ok {
			skipped++
			continue
		}
		resources = append(resources, res)
	}

	return resources, skipped, nil
}

func parseResourceRow(row []string) (*domain.Resource, bool) {
	if len(row) < 5 {
		return nil, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return nil, false
	}

	res := &domain.Resource{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(row[0]),
		Type:        domain.NormalizeResourceType(row[1]),
		Description: strings.TrimSpace(strings.ReplaceAll(row[2], `"`, "")),
		Latitude:    lat,
		Longitude:   lon,
	}
	if res.Validate() != nil {
		return nil, false
	}
	return res, true
}
