package sheet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	oauthjwt "golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Credentials identify the service account used to reach the spreadsheet.
type Credentials struct {
	SpreadsheetID string
	Email         string
	PrivateKey    string
}

// Google talks to the Sheets v4 values API.
type Google struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewGoogle builds a Sheets client authenticated as the service account.
// Missing credentials fail with ErrConfiguration before any network call.
func NewGoogle(ctx context.Context, creds Credentials) (*Google, error) {
	if creds.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is not set", ErrConfiguration)
	}
	if creds.Email == "" || creds.PrivateKey == "" {
		return nil, fmt.Errorf("%w: google service account credentials are not set", ErrConfiguration)
	}

	conf := &oauthjwt.Config{
		Email: creds.Email,
		// keys pasted into env files usually carry escaped newlines
		PrivateKey: []byte(strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%w: sheets client: %v", ErrConfiguration, err)
	}
	return &Google{spreadsheetID: creds.SpreadsheetID, svc: svc}, nil
}

// Get implements Values.
func (g *Google) Get(ctx context.Context, rng Range) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng.A1()).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if missingRange(err) {
		// an unknown tab reads as empty, as it does in Memory
		return nil, nil
	}
	if err != nil {
		return nil, remote("get", rng, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		row := make([]string, len(r))
		for j, v := range r {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

// Append implements Values. The API appends after the last row of the table
// it detects in rng. OVERWRITE makes it write into the empty row found there
// instead of inserting one, so a blanked row can be reused but rows below it
// never shift.
func (g *Google) Append(ctx context.Context, rng Range, row []string) error {
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, rng.A1(), valueRange(row)).
		ValueInputOption("RAW").
		InsertDataOption("OVERWRITE").
		Context(ctx).
		Do()
	if err != nil {
		return remote("append", rng, err)
	}
	return nil
}

// Update implements Values.
func (g *Google) Update(ctx context.Context, rng Range, row []string) error {
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng.A1(), valueRange(row)).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return remote("update", rng, err)
	}
	return nil
}

// Clear implements Values.
func (g *Google) Clear(ctx context.Context, rng Range) error {
	_, err := g.svc.Spreadsheets.Values.Clear(g.spreadsheetID, rng.A1(), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return remote("clear", rng, err)
	}
	return nil
}

func valueRange(row []string) *sheets.ValueRange {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return &sheets.ValueRange{Values: [][]interface{}{cells}}
}

// missingRange reports the 400 the API returns for a range on a tab that does
// not exist.
func missingRange(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) &&
		apiErr.Code == http.StatusBadRequest &&
		strings.Contains(apiErr.Message, "Unable to parse range")
}

func remote(op string, rng Range, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s %s: %d %s", ErrRemoteUnavailable, op, rng.A1(), apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("%w: %s %s: %v", ErrRemoteUnavailable, op, rng.A1(), err)
}
