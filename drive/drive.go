// Package drive lists Google Drive files and manages item permissions.
package drive

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/utilitywarehouse/iolib/frame"
	"github.com/utilitywarehouse/iolib/googleauth"
)

// SpreadsheetMimeType is the Drive MIME type for Google Sheets files.
const SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

var listFields = []string{"kind", "id", "name", "mimeType"}

// NewService builds a Drive API service. With readonly set, only the
// metadata.readonly scope is requested.
func NewService(ctx context.Context, readonly bool, serviceAccountJSON string) (*drive.Service, error) {
	scope := drive.DriveScope
	if readonly {
		scope = drive.DriveMetadataReadonlyScope
	}
	svc, err := drive.NewService(ctx, googleauth.Options(serviceAccountJSON, scope)...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}

// ListQuery filters a Drive listing. Zero-valued fields are ignored.
type ListQuery struct {
	// Name matches the file name exactly.
	Name string

	// FolderID restricts results to children of the folder.
	FolderID string

	// MimeType filters by MIME type, e.g. SpreadsheetMimeType.
	MimeType string

	// DriveID targets a shared drive.
	DriveID string

	// ServiceAccountJSON is the credentials file path. Defaults to the
	// environment (GOOGLE_APPLICATION_CREDENTIALS).
	ServiceAccountJSON string
}

// FormatSearchQuery renders the Drive files.list "q" expression.
//
//	FormatSearchQuery(ListQuery{Name: "report"})
//	    `name = "report"`
//	FormatSearchQuery(ListQuery{MimeType: "application/json"})
//	    `mimeType = "application/json"`
//	FormatSearchQuery(ListQuery{Name: "report", FolderID: "abc"})
//	    `name = "report" and "abc" in parents`
func FormatSearchQuery(q ListQuery) string {
	var terms []string
	if q.Name != "" {
		terms = append(terms, fmt.Sprintf("name = %q", q.Name))
	}
	if q.FolderID != "" {
		terms = append(terms, fmt.Sprintf("%q in parents", q.FolderID))
	}
	if q.MimeType != "" {
		terms = append(terms, fmt.Sprintf("mimeType = %q", q.MimeType))
	}
	return strings.Join(terms, " and ")
}

// List lists Drive files matching the query as a frame with columns
// kind, id, name, mime_type.
func List(ctx context.Context, q ListQuery) (*frame.Frame, error) {
	svc, err := NewService(ctx, true, q.ServiceAccountJSON)
	if err != nil {
		return nil, err
	}
	return list(ctx, svc, q)
}

func list(ctx context.Context, svc *drive.Service, q ListQuery) (*frame.Frame, error) {
	call := svc.Files.List().
		Context(ctx).
		Fields(googleapi.Field("files(" + strings.Join(listFields, ",") + ")"))
	if expr := FormatSearchQuery(q); expr != "" {
		call = call.Q(expr)
	}
	if q.DriveID != "" {
		call = call.Corpora("drive").
			DriveId(q.DriveID).
			IncludeItemsFromAllDrives(true).
			SupportsAllDrives(true)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list drive files: %w", err)
	}

	result := frame.New("kind", "id", "name", "mime_type")
	for _, f := range resp.Files {
		if err := result.AppendRow(f.Kind, f.Id, f.Name, f.MimeType); err != nil {
			return nil, err
		}
	}
	return result, nil
}
