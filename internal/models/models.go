package models

import "time"

// Project is the top-level container for folders and files.
// At most one project is active at a time.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	IsActive    bool
}

// Folder is an organizational unit inside a project. Path is the
// slash-joined ancestor chain, computed once at creation.
type Folder struct {
	ID        string
	ProjectID string
	ParentID  *string // nil for root-level folders
	Name      string
	Path      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// File is a text document scoped to one project, optionally nested
// under a folder. Content is the full current body.
type File struct {
	ID           string
	ProjectID    string
	FolderID     *string // nil for root-level files
	Name         string
	Path         string
	Content      string
	Language     string // "sparkdown", "markdown", ...
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastModified time.Time
}

// Tab is an open editing session referencing one file.
// At most one tab is active at a time.
type Tab struct {
	ID             string
	FileID         string
	IsActive       bool
	IsDirty        bool
	CursorPosition *int
	ScrollPosition *int
	CreatedAt      time.Time
	LastAccessed   time.Time
}

// Setting is an opaque key/value pair. ID equals Key.
type Setting struct {
	ID        string
	Key       string
	Value     string
	UpdatedAt time.Time
}
