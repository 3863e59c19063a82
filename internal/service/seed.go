package service

import (
	"context"
	_ "embed"
)

//go:embed welcome.md
var welcomeContent string

const (
	seedProjectName = "My First Project"
	seedProjectDesc = "Welcome to Sparktown!"
	seedFileName    = "welcome.sparkdown"
)

// Initialize seeds the workspace with a default project and welcome
// file when no projects exist yet. Calling it on a populated store is
// a no-op.
func (s *Service) Initialize(ctx context.Context) error {
	count, err := s.store.CountProjects(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	project, err := s.CreateProject(ctx, seedProjectName, seedProjectDesc)
	if err != nil {
		return err
	}

	if _, err := s.CreateFile(ctx, project.ID, seedFileName, welcomeContent, nil, DefaultLanguage); err != nil {
		return err
	}

	s.log.Info().Str("project_id", project.ID).Msg("seeded default workspace")
	return nil
}
