package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/templui/medtrack/internal/markdown"
	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/storage"
)

const artifactContentType = "text/html; charset=utf-8"

// ArtifactService renders reports to HTML and keeps them in object storage.
type ArtifactService struct {
	renderer *markdown.Renderer
	store    storage.Storage
}

// NewArtifactService returns a service that is a no-op when store is nil.
func NewArtifactService(renderer *markdown.Renderer, store storage.Storage) *ArtifactService {
	return &ArtifactService{renderer: renderer, store: store}
}

func artifactPath(report *model.Report) string {
	return fmt.Sprintf("reports/%s/%s.html", report.UserID, report.ID)
}

// Publish uploads the rendered report and returns its storage path.
func (s *ArtifactService) Publish(ctx context.Context, data *model.ReportData) (string, error) {
	if s.store == nil {
		return "", storage.ErrDisabled
	}

	page, err := s.renderer.RenderReport(data)
	if err != nil {
		return "", err
	}

	path := artifactPath(data.Report)
	err = s.store.Save(ctx, path, artifactContentType, bytes.NewReader(page))
	if err != nil {
		return "", err
	}
	return path, nil
}

func (s *ArtifactService) URL(ctx context.Context, path string) (string, error) {
	if s.store == nil {
		return "", storage.ErrDisabled
	}
	return s.store.PresignedURL(ctx, path)
}

func (s *ArtifactService) Remove(ctx context.Context, path string) error {
	if s.store == nil {
		return nil
	}
	return s.store.Delete(ctx, path)
}
