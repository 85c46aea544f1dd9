package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/storage"
)

// ExportResult points at an uploaded snapshot.
type ExportResult struct {
	Location  string    `json:"location"`
	URL       string    `json:"url"`
	TaskCount int       `json:"taskCount"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExportConfig struct {
	Bucket     string
	KeyPrefix  string
	PresignTTL time.Duration
	Logger     *logrus.Logger
}

// ExportService snapshots a user's tasks into object storage.
type ExportService interface {
	Export(ctx context.Context, ownerID string) (*ExportResult, error)
}

type exportService struct {
	tasks   TaskService
	storage storage.Service
	cfg     ExportConfig
	now     func() time.Time
}

func NewExportService(tasks TaskService, store storage.Service, cfg ExportConfig) ExportService {
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &exportService{
		tasks:   tasks,
		storage: store,
		cfg:     cfg,
		now:     time.Now,
	}
}

type exportTask struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type exportDocument struct {
	UserID     string           `json:"userId"`
	ExportedAt time.Time        `json:"exportedAt"`
	Stats      domain.TaskStats `json:"stats"`
	Tasks      []exportTask     `json:"tasks"`
}

func (s *exportService) Export(ctx context.Context, ownerID string) (*ExportResult, error) {
	tasks, err := s.tasks.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	stats, err := s.tasks.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := exportDocument{
		UserID:     ownerID,
		ExportedAt: now,
		Stats:      stats,
		Tasks:      make([]exportTask, 0, len(tasks)),
	}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, exportTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := exportKey(s.cfg.KeyPrefix, ownerID, now)
	location, err := s.storage.PutObject(ctx, bytes.NewReader(body), storage.PutOptions{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	url, err := s.storage.GetObjectURL(ctx, s.cfg.Bucket, key, s.cfg.PresignTTL)
	if err != nil {
		return nil, err
	}

	s.cfg.Logger.WithFields(logrus.Fields{
		"user_id":  ownerID,
		"location": location,
		"tasks":    len(tasks),
	}).Info("tasks exported")

	return &ExportResult{
		Location:  location,
		URL:       url,
		TaskCount: len(tasks),
		ExpiresAt: now.Add(s.cfg.PresignTTL),
	}, nil
}

func exportKey(prefix, ownerID string, at time.Time) string {
	name := at.Format("20060102T150405.000000000Z") + ".json"
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return path.Join(ownerID, name)
	}
	return path.Join(prefix, ownerID, name)
}
