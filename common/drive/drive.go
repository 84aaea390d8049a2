package drive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/common/logger"
)

const folderMIMEType = "application/vnd.google-apps.folder"

// Folder identifies a remote folder.
type Folder struct {
	ID   string
	Name string
}

// API is the minimal Drive surface the document store needs.
type API interface {
	FindFolders(ctx context.Context, name, parentID string) ([]Folder, error)
	CreateFolder(ctx context.Context, name, parentID string) (Folder, error)
	CreateFile(ctx context.Context, name, parentID, mimeType string, content []byte) (string, error)
}

// googleAPI implements API against the Drive v3 service.
type googleAPI struct {
	svc *drivev3.Service
}

// NewAPI builds a Drive client from the service account key file named
// by DRIVE_CREDENTIALS_FILE.
func NewAPI(ctx context.Context) (API, error) {
	credsFile := os.Getenv("DRIVE_CREDENTIALS_FILE")
	if credsFile == "" {
		return nil, apperrors.New(apperrors.ErrCodeDriveDelivery, "DRIVE_CREDENTIALS_FILE is not set")
	}

	data, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, apperrors.DriveError(err).WithDetails("failed to read drive credentials")
	}

	conf, err := google.JWTConfigFromJSON(data, drivev3.DriveScope)
	if err != nil {
		return nil, apperrors.DriveError(err).WithDetails("invalid drive credentials")
	}

	svc, err := drivev3.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, apperrors.DriveError(err).WithDetails("failed to create drive service")
	}

	return &googleAPI{svc: svc}, nil
}

// escapeQuery escapes single quotes for use inside a Drive query string.
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

func (g *googleAPI) FindFolders(ctx context.Context, name, parentID string) ([]Folder, error) {
	query := fmt.Sprintf(
		"name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		escapeQuery(name), escapeQuery(parentID), folderMIMEType)

	list, err := g.svc.Files.List().
		Context(ctx).
		Q(query).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, err
	}

	folders := make([]Folder, 0, len(list.Files))
	for _, f := range list.Files {
		folders = append(folders, Folder{ID: f.Id, Name: f.Name})
	}
	return folders, nil
}

func (g *googleAPI) CreateFolder(ctx context.Context, name, parentID string) (Folder, error) {
	created, err := g.svc.Files.Create(&drivev3.File{
		Name:     name,
		MimeType: folderMIMEType,
		Parents:  []string{parentID},
	}).Context(ctx).Fields("id, name").Do()
	if err != nil {
		return Folder{}, err
	}
	return Folder{ID: created.Id, Name: created.Name}, nil
}

func (g *googleAPI) CreateFile(ctx context.Context, name, parentID, mimeType string, content []byte) (string, error) {
	created, err := g.svc.Files.Create(&drivev3.File{
		Name:    name,
		Parents: []string{parentID},
	}).Context(ctx).
		Media(bytes.NewReader(content), googleapi.ContentType(mimeType)).
		Fields("id").Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

// Store saves generated documents into a folder tree rooted at a
// configured Drive folder.
type Store struct {
	api    API
	rootID string

	// Folder creation is not atomic on the remote side, so path
	// resolution is serialized to keep lookup-or-create idempotent
	// within this process.
	mu sync.Mutex
}

// NewStore creates a document store rooted at rootID.
func NewStore(api API, rootID string) *Store {
	return &Store{api: api, rootID: rootID}
}

// GetMatchingFolder returns the folder with the given name under
// parentID, creating it when absent. When duplicates already exist the
// first match wins.
func (s *Store) GetMatchingFolder(ctx context.Context, name, parentID string) (Folder, error) {
	found, err := s.api.FindFolders(ctx, name, parentID)
	if err != nil {
		return Folder{}, apperrors.DriveError(err).WithDetails("folder lookup failed")
	}
	if len(found) > 0 {
		return found[0], nil
	}

	created, err := s.api.CreateFolder(ctx, name, parentID)
	if err != nil {
		return Folder{}, apperrors.DriveError(err).WithDetails("folder creation failed")
	}
	return created, nil
}

// resolvePath walks the path segments from the root, creating missing
// folders along the way.
func (s *Store) resolvePath(ctx context.Context, segments []string) (Folder, error) {
	current := Folder{ID: s.rootID}
	for _, segment := range segments {
		next, err := s.GetMatchingFolder(ctx, segment, current.ID)
		if err != nil {
			return Folder{}, err
		}
		current = next
	}
	return current, nil
}

// SaveDocument writes a PDF into the folder named by segments,
// creating the folder chain as needed.
func (s *Store) SaveDocument(ctx context.Context, segments []string, filename string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, err := s.resolvePath(ctx, segments)
	if err != nil {
		return err
	}

	if _, err := s.api.CreateFile(ctx, filename, folder.ID, "application/pdf", content); err != nil {
		return apperrors.DriveError(err).WithDetails("file upload failed")
	}

	logger.Info(fmt.Sprintf("saved %s under /%s", filename, strings.Join(segments, "/")))
	return nil
}

// EventDocumentPath gives the folder chain for a per-event document:
// venue name, four digit year, month name, day of month.
func EventDocumentPath(venueName string, date time.Time) []string {
	return []string{
		venueName,
		strconv.Itoa(date.Year()),
		date.Month().String(),
		strconv.Itoa(date.Day()),
	}
}

// MonthlyDocumentPath gives the folder chain for a monthly document:
// venue name, four digit year, month name.
func MonthlyDocumentPath(venueName string, year int, month time.Month) []string {
	return []string{
		venueName,
		strconv.Itoa(year),
		month.String(),
	}
}
