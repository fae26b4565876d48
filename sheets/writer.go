package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"tourcat/models"
	"tourcat/render"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer handles exporting the displayed tour set to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewWriter creates a new Google Sheets writer
func NewWriter(spreadsheetID string, credentialsPath string) (*Writer, error) {
	ctx := context.Background()

	// Read credentials from file or environment variable
	var credsJSON []byte
	var err error

	if credentialsPath != "" {
		credsJSON, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	// Parse and validate JSON
	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON (check if JSON is properly formatted): %w", err)
	}

	// Validate that it's a service account credentials file
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// CreateSheetAndWriteTours creates a new sheet and writes the tours to it.
// The sheet is inserted at the beginning (index 0) of the spreadsheet.
// filterInfo, if provided, is added as a metadata row above the header.
// Returns the sheet name and sheet ID (gid) that was created.
func (w *Writer) CreateSheetAndWriteTours(sheetName string, tours []models.Tour, filterInfo string) (string, int64, error) {
	// Sanitize sheet name (Google Sheets has restrictions)
	sheetName = sanitizeSheetName(sheetName)
	if len(sheetName) > 100 {
		sheetName = sheetName[:100]
	}

	addSheetRequest := &sheets.AddSheetRequest{
		Properties: &sheets.SheetProperties{
			Title: sheetName,
			Index: 0,
		},
	}

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: addSheetRequest,
			},
		},
	}

	batchUpdateResp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	var sheetID int64
	if len(batchUpdateResp.Replies) > 0 && batchUpdateResp.Replies[0].AddSheet != nil {
		sheetID = batchUpdateResp.Replies[0].AddSheet.Properties.SheetId
	}

	log.Printf("Created sheet '%s' with ID %d\n", sheetName, sheetID)

	values := tourRows(tours, filterInfo)

	range_ := fmt.Sprintf("%s!A1", sheetName)
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Do()

	if err != nil {
		return "", 0, fmt.Errorf("failed to write to sheet: %w", err)
	}

	log.Printf("Successfully wrote %d tours to sheet '%s'\n", len(tours), sheetName)
	return sheetName, sheetID, nil
}

// tourRows builds the cell grid: optional metadata row, header, one row per
// tour. Display fragments (price label, tag, cleaned duration) match the
// rendered cards so the export mirrors what the user saw.
func tourRows(tours []models.Tour, filterInfo string) [][]interface{} {
	var values [][]interface{}

	if filterInfo != "" {
		values = append(values, []interface{}{"Filters", filterInfo})
	}

	header := []interface{}{"Name", "Company", "Price", "Category", "Duration", "Free Cancellation", "Quality Score", "Booking Link"}
	values = append(values, header)

	for _, t := range tours {
		card := render.BuildCard(t)
		freeCancel := ""
		if card.FreeCancel {
			freeCancel = "yes"
		}
		row := []interface{}{
			card.Title,
			card.Company,
			card.PriceLabel,
			card.Tag,
			card.Duration,
			freeCancel,
			t.Quality(),
			card.BookingLink,
		}
		values = append(values, row)
	}

	return values
}

// sanitizeSheetName replaces the characters Google Sheets forbids in sheet
// titles (/ \ ? * [ ]) with underscores.
func sanitizeSheetName(name string) string {
	result := name
	for _, char := range []string{"/", "\\", "?", "*", "[", "]"} {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = "Sheet1"
	}
	return result
}

// ExtractSpreadsheetID pulls the spreadsheet ID out of a sharing URL like
// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing.
// Returns "" when the URL carries no /d/ segment.
func ExtractSpreadsheetID(url string) string {
	_, idPart, found := strings.Cut(url, "/d/")
	if !found {
		return ""
	}
	if idx := strings.IndexAny(idPart, "/?"); idx != -1 {
		idPart = idPart[:idx]
	}
	return strings.TrimSpace(idPart)
}
