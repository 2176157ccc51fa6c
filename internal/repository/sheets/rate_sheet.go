// Package sheets imports the resort's rate sheet from Google Sheets. The
// sales team maintains tariffs in a spreadsheet; rows are normalized through
// the season-rate codec and upserted into the tariff store on startup.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository"
)

// RateSheetImporter reads tariff rows from a spreadsheet range laid out as:
// room type | season rates | AC charge | extra adult charge | child charge.
// The season rates cell accepts both supported encodings.
type RateSheetImporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	readRange     string
	logger        *zap.Logger
}

// NewRateSheetImporter builds an importer backed by the official Sheets API.
func NewRateSheetImporter(ctx context.Context, credentialsPath, spreadsheetID, readRange string, logger *zap.Logger) (*RateSheetImporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &RateSheetImporter{
		service:       service,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		logger:        logger,
	}, nil
}

// Import loads the rate sheet and upserts every parseable row into the store.
// Rows with malformed season data are skipped with a warning; the import
// never fails on data quality alone.
func (i *RateSheetImporter) Import(ctx context.Context, store repository.TariffStore) (int, error) {
	resp, err := i.service.Spreadsheets.Values.Get(i.spreadsheetID, i.readRange).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read rate sheet range %s: %w", i.readRange, err)
	}

	imported := 0
	for rowIndex, row := range resp.Values {
		profile, err := parseRow(row)
		if err != nil {
			i.logger.Warn("skipping rate sheet row",
				zap.Int("row", rowIndex+1),
				zap.Error(err))
			continue
		}

		if err := store.Upsert(ctx, profile); err != nil {
			return imported, fmt.Errorf("upsert tariff %s: %w", profile.RoomType, err)
		}
		imported++
	}

	i.logger.Info("rate sheet imported", zap.Int("tariffs", imported))
	return imported, nil
}

func parseRow(row []interface{}) (models.TariffProfile, error) {
	if len(row) < 2 {
		return models.TariffProfile{}, errors.New("row too short")
	}

	roomType := cellString(row[0])
	if roomType == "" {
		return models.TariffProfile{}, errors.New("empty room type")
	}

	rates, err := models.DecodeSeasonRates(cellString(row[1]))
	if err != nil {
		return models.TariffProfile{}, err
	}

	profile := models.TariffProfile{RoomType: roomType, SeasonRates: rates}
	if len(row) > 2 {
		profile.ACCharge = cellFloat(row[2])
	}
	if len(row) > 3 {
		profile.ExtraAdultCharge = cellFloat(row[3])
	}
	if len(row) > 4 {
		profile.ChildCharge = cellFloat(row[4])
	}
	return profile, nil
}

func cellString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func cellFloat(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		f, _ := strconv.ParseFloat(value, 64)
		return f
	default:
		return 0
	}
}
