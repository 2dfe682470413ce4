package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	sc "github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ExportURLValidity is how long a presigned export link stays usable.
const ExportURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	timeNow = time.Now
)

// ExportResult points at a stored export.
type ExportResult struct {
	ID        string
	Key       string
	URL       string
	NoteCount int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// exportBundle is the JSON document written to object storage. Notes stay
// encrypted exactly as the client stored them.
type exportBundle struct {
	Version    int          `json:"version"`
	UserID     string       `json:"userId"`
	ExportedAt time.Time    `json:"exportedAt"`
	Notes      []exportNote `json:"notes"`
}

type exportNote struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExportService writes notes exports to S3-compatible storage and hands out
// presigned download links.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewExportService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// ExportStorageKey returns exports/<user>/<yyyy>/<mm>/<dd>/<uuid>.json for t.
func ExportStorageKey(userID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", userID, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *ExportService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *ExportService) presignGet(ctx context.Context, client *s3.Client, key string) (string, error) {
	bucket := s.config.S3Bucket
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportURLValidity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Export uploads all of the user's notes as one JSON document and returns
// its key with a presigned GET link.
func (s *ExportService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	notes, err := s.repomanager.Notes(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	now := timeNow()
	bundle := exportBundle{Version: 1, UserID: userID, ExportedAt: now.UTC(), Notes: make([]exportNote, 0, len(notes))}
	for _, n := range notes {
		bundle.Notes = append(bundle.Notes, exportNote{
			ID: n.ID, Title: n.Title, Content: n.Content, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt,
		})
	}
	body, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating s3 client: %w", err)
	}

	exportsRepo := s.repomanager.Exports(s.db)
	rec, err := exportsRepo.Create(ctx, &models.Export{
		UserID:     userID,
		StorageKey: ExportStorageKey(userID, now),
		NoteCount:  len(notes),
	})
	if err != nil {
		return nil, fmt.Errorf("error recording export: %w", err)
	}

	bucket := s.config.S3Bucket
	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &rec.StorageKey,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	if err := exportsRepo.MarkUploaded(ctx, rec.ID); err != nil {
		return nil, fmt.Errorf("error updating export: %w", err)
	}

	url, err := s.presignGet(ctx, client, rec.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	return &ExportResult{
		ID:        rec.ID,
		Key:       rec.StorageKey,
		URL:       url,
		NoteCount: rec.NoteCount,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: now.Add(ExportURLValidity),
	}, nil
}

// List returns the user's completed exports, newest first.
func (s *ExportService) List(ctx context.Context, userID string) ([]*models.Export, error) {
	items, err := s.repomanager.Exports(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing exports: %w", err)
	}
	return items, nil
}

// Link issues a fresh presigned URL for one of the user's completed exports.
func (s *ExportService) Link(ctx context.Context, userID, exportID string) (*ExportResult, error) {
	if _, err := uuid.Parse(exportID); err != nil {
		return nil, common.ErrorNotFound
	}

	rec, err := s.repomanager.Exports(s.db).GetByID(ctx, userID, exportID)
	if err != nil {
		return nil, fmt.Errorf("error getting export: %w", err)
	}
	if rec.Status != models.ExportStatusCompleted {
		return nil, common.ErrorNotFound
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating s3 client: %w", err)
	}
	url, err := s.presignGet(ctx, client, rec.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	return &ExportResult{
		ID:        rec.ID,
		Key:       rec.StorageKey,
		URL:       url,
		NoteCount: rec.NoteCount,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: timeNow().Add(ExportURLValidity),
	}, nil
}
