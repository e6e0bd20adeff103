package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ptdat/skillgate/config"
	"github.com/rs/zerolog/log"
)

// StorageProvider abstracts where candidate recordings are kept. The URL
// returned by Upload is what gets persisted on the attempt row.
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	URL(filename string) string
}

type localStorageProvider struct {
	cfg *config.Storage
}

func (p *localStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.cfg.UploadDir, filename)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.URL(filename), nil
}

func (p *localStorageProvider) URL(filename string) string {
	return "/" + p.cfg.UploadDir + "/" + filename
}

type minioStorageProvider struct {
	cfg    *config.Storage
	client *minio.Client
}

func newMinioStorageProvider(cfg *config.Storage) (*minioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorageProvider{cfg: cfg, client: client}, nil
}

func (p *minioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, p.cfg.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.URL(filename), nil
}

func (p *minioStorageProvider) URL(filename string) string {
	return "/" + p.cfg.MinioBucket + "/" + filename
}

// StorageService picks the provider from config, falling back to local disk
// when minio is misconfigured.
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	if cfg.Storage.Type == "minio" {
		p, err := newMinioStorageProvider(&cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize minio storage, falling back to local")
		} else {
			provider = p
		}
	}
	if provider == nil {
		provider = &localStorageProvider{cfg: &cfg.Storage}
	}
	return &StorageService{Provider: provider}
}

func (s *StorageService) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Upload(ctx, filename, reader, size, contentType)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename strips any path component and replaces characters that are
// not safe in a flat filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}

// AudioRecordingName builds <candidate>_<UTC timestamp><ext>, keeping the
// upload's extension and defaulting to .webm when it has none.
func AudioRecordingName(candidateID, originalName string, now time.Time) string {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".webm"
	}
	return fmt.Sprintf("%s_%s%s", SanitizeFilename(candidateID), now.UTC().Format("20060102150405"), ext)
}

// VideoRecordingName keeps the sanitized original name qualified by candidate
// and timestamp so repeat uploads never collide.
func VideoRecordingName(candidateID, originalName string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", SanitizeFilename(candidateID), now.UTC().Format("20060102150405"), SanitizeFilename(originalName))
}
