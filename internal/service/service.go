package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sparktown/sparkdown/internal/models"
	"github.com/sparktown/sparkdown/internal/store"
)

// DefaultLanguage is assigned to files created without an explicit
// language.
const DefaultLanguage = "sparkdown"

var nameNoSlash = regexp.MustCompile(`^[^/]+$`)

// Service is the stateless facade over the record store. Every domain
// operation goes through here; callers never touch the store directly.
type Service struct {
	store *store.Store
	log   zerolog.Logger
}

// New creates a new service around the shared store handle
func New(st *store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Store exposes the underlying store for settings passthrough
func (s *Service) Store() *store.Store {
	return s.store
}

func validateName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.Length(1, 255),
		validation.Match(nameNoSlash).Error("name cannot contain slashes"),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	return nil
}

// CreateProject creates a new project and marks it active
func (s *Service) CreateProject(ctx context.Context, name, description string) (*models.Project, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	p := &models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	if err := s.store.InsertProject(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", p.ID).Str("name", p.Name).Msg("project created")
	return p, nil
}

// SetActiveProject makes projectID the single active project. The
// clear-then-set swap runs in one transaction so there is no reachable
// state with zero or multiple active projects.
func (s *Service) SetActiveProject(ctx context.Context, projectID string) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.store.ClearActiveProjects(ctx, tx); err != nil {
			return err
		}
		return s.store.ActivateProject(ctx, tx, projectID)
	})
}

// CreateFolder creates a folder under an optional parent. The child
// path is the parent's cached path joined with the folder name; a
// parent that vanished between lookup and insert yields an empty
// inherited path rather than a failure.
func (s *Service) CreateFolder(ctx context.Context, projectID, name string, parentID *string) (*models.Folder, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	parentPath := ""
	if parentID != nil {
		if parent, err := s.store.GetFolder(ctx, *parentID); err == nil {
			parentPath = parent.Path
		}
	}
	path := name
	if parentPath != "" {
		path = parentPath + "/" + name
	}

	f := &models.Folder{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		ParentID:  parentID,
		Name:      name,
		Path:      path,
	}
	if err := s.store.InsertFolder(ctx, f); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", f.ID).Str("path", f.Path).Msg("folder created")
	return f, nil
}

// CreateFile creates a file under an optional folder, with the same
// path derivation rules as CreateFolder. An empty language defaults
// to sparkdown.
func (s *Service) CreateFile(ctx context.Context, projectID, name, content string, folderID *string, language string) (*models.File, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if language == "" {
		language = DefaultLanguage
	}

	folderPath := ""
	if folderID != nil {
		if folder, err := s.store.GetFolder(ctx, *folderID); err == nil {
			folderPath = folder.Path
		}
	}
	path := name
	if folderPath != "" {
		path = folderPath + "/" + name
	}

	f := &models.File{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		FolderID:  folderID,
		Name:      name,
		Path:      path,
		Content:   content,
		Language:  language,
	}
	if err := s.store.InsertFile(ctx, f); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", f.ID).Str("path", f.Path).Msg("file created")
	return f, nil
}

// UpdateFileContent persists new content for a file
func (s *Service) UpdateFileContent(ctx context.Context, fileID, content string) error {
	return s.store.UpdateFileContent(ctx, fileID, content)
}

// OpenTab opens a fresh tab for a file, closing any tab already
// referencing it so at most one tab exists per file.
func (s *Service) OpenTab(ctx context.Context, fileID string) (*models.Tab, error) {
	if err := s.store.DeleteTabsForFile(ctx, fileID); err != nil {
		return nil, err
	}

	t := &models.Tab{
		ID:     uuid.NewString(),
		FileID: fileID,
	}
	if err := s.store.InsertTab(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// SetActiveTab makes tabID the single active tab and bumps its
// last-accessed time, in one transaction.
func (s *Service) SetActiveTab(ctx context.Context, tabID string) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.store.ClearActiveTabs(ctx, tx); err != nil {
			return err
		}
		return s.store.ActivateTab(ctx, tx, tabID)
	})
}

// CloseTab deletes a tab. Closing an unknown tab is not an error.
func (s *Service) CloseTab(ctx context.Context, tabID string) error {
	return s.store.DeleteTab(ctx, tabID)
}

// MarkTabDirty persists a tab's dirty flag
func (s *Service) MarkTabDirty(ctx context.Context, tabID string, dirty bool) error {
	return s.store.SetTabDirty(ctx, tabID, dirty)
}

// Projects returns all projects, most recently updated first
func (s *Service) Projects(ctx context.Context) ([]models.Project, error) {
	return s.store.ListProjects(ctx)
}

// ActiveProject returns the active project, or nil if none
func (s *Service) ActiveProject(ctx context.Context) (*models.Project, error) {
	return s.store.ActiveProject(ctx)
}

// Folders returns all folders for a project
func (s *Service) Folders(ctx context.Context, projectID string) ([]models.Folder, error) {
	return s.store.ListFolders(ctx, projectID)
}

// Files returns all files for a project
func (s *Service) Files(ctx context.Context, projectID string) ([]models.File, error) {
	return s.store.ListFiles(ctx, projectID)
}

// FilesInFolder returns a project's files in one folder; nil selects
// root-level files
func (s *Service) FilesInFolder(ctx context.Context, projectID string, folderID *string) ([]models.File, error) {
	return s.store.ListFilesInFolder(ctx, projectID, folderID)
}

// File returns one file by id
func (s *Service) File(ctx context.Context, fileID string) (*models.File, error) {
	return s.store.GetFile(ctx, fileID)
}

// Tabs returns all open tabs, most recently accessed first
func (s *Service) Tabs(ctx context.Context) ([]models.Tab, error) {
	return s.store.ListTabs(ctx)
}

// ActiveTab returns the active tab, or nil if none
func (s *Service) ActiveTab(ctx context.Context) (*models.Tab, error) {
	return s.store.ActiveTab(ctx)
}

// Setting retrieves a setting value by key
func (s *Service) Setting(ctx context.Context, key string) (string, error) {
	return s.store.Setting(ctx, key)
}

// SetSetting sets a setting value
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	return s.store.SetSetting(ctx, key, value)
}
