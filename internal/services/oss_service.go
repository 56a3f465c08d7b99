package services

import (
	"activityhub-backend/config"
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/store"
	"activityhub-backend/pkg/logger"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aliyun/alibaba-cloud-sdk-go/services/sts"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	verificationPrefix    = "verifications"
	verificationUploadTTL = 15 * time.Minute
)

type STSCredentials struct {
	AccessKeyId     string `json:"accessKeyId"`
	AccessKeySecret string `json:"accessKeySecret"`
	SecurityToken   string `json:"securityToken"`
	Expiration      string `json:"expiration"`
	Region          string `json:"region"`
	Bucket          string `json:"bucket"`
	Prefix          string `json:"prefix"`
}

type SignedUpload struct {
	ObjectKey string    `json:"object_key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DocumentStorage is the external store verification documents are uploaded to.
type DocumentStorage interface {
	// AssumeUploadRole issues temporary credentials limited to keys under prefix.
	AssumeUploadRole(ctx context.Context, prefix string) (*STSCredentials, error)
	// SignPutURL returns a URL that accepts a single PUT of objectKey until ttl elapses.
	SignPutURL(ctx context.Context, objectKey, contentType string, ttl time.Duration) (string, error)
}

var (
	storageMu sync.RWMutex
	storage   DocumentStorage
)

func SetDocumentStorage(s DocumentStorage) {
	storageMu.Lock()
	storage = s
	storageMu.Unlock()
}

func currentStorage() (DocumentStorage, error) {
	storageMu.RLock()
	defer storageMu.RUnlock()
	if storage == nil {
		return nil, newError(ErrNotImplemented, "StorageUnavailable", "document storage is not configured")
	}
	return storage, nil
}

func verificationKeyPrefix(userID string) string {
	return fmt.Sprintf("%s/%s/", verificationPrefix, userID)
}

// GetVerificationUploadToken returns STS credentials scoped to the user's verification prefix.
func GetVerificationUploadToken(ctx context.Context, userID string) (*STSCredentials, error) {
	s, err := currentStorage()
	if err != nil {
		return nil, err
	}
	if _, err := loadUser(database.DB.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	return s.AssumeUploadRole(ctx, verificationKeyPrefix(userID))
}

// SignVerificationUpload returns a presigned PUT URL for one verification document
// and marks the user's verification as pending.
func SignVerificationUpload(ctx context.Context, userID, filename, contentType string) (*SignedUpload, error) {
	s, err := currentStorage()
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf":
	default:
		return nil, validationError("verification documents must be jpg, png or pdf")
	}

	db := database.DB.WithContext(ctx)
	if _, err := loadUser(db, userID); err != nil {
		return nil, err
	}

	objectKey := verificationKeyPrefix(userID) + uuid.New().String() + ext
	url, err := s.SignPutURL(ctx, objectKey, contentType, verificationUploadTTL)
	if err != nil {
		return nil, fmt.Errorf("sign upload url: %w", err)
	}

	err = store.Retry(currentSettings().CASMaxRetries, func() error {
		user, err := loadUser(db, userID)
		if err != nil {
			return err
		}
		if user.Verification != models.VerificationNone {
			return nil
		}
		return store.CompareAndSwap(db, &models.User{}, userID, user.Version, map[string]interface{}{
			"verification": models.VerificationPending,
		})
	})
	if err != nil {
		return nil, err
	}
	invalidateUser(ctx, userID)
	logger.Named("verification").Info("upload url issued", zap.String("user_id", userID), zap.String("object_key", objectKey))

	return &SignedUpload{ObjectKey: objectKey, URL: url, ExpiresAt: now().Add(verificationUploadTTL)}, nil
}

// OSSStorage is DocumentStorage on Aliyun OSS with STS role assumption.
type OSSStorage struct {
	cfg *config.Config
}

func NewOSSStorage(cfg *config.Config) (*OSSStorage, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSBucketName == "" || cfg.OSSAccessKeyID == "" || cfg.OSSAccessKeySecret == "" {
		return nil, fmt.Errorf("oss storage requires endpoint, bucket and access keys")
	}
	return &OSSStorage{cfg: cfg}, nil
}

func (o *OSSStorage) uploadPolicy(prefix string) string {
	return fmt.Sprintf(`{"Version":"1","Statement":[{"Effect":"Allow","Action":["oss:PutObject"],"Resource":["acs:oss:*:*:%s/%s*"]}]}`,
		o.cfg.OSSBucketName, prefix)
}

func (o *OSSStorage) AssumeUploadRole(ctx context.Context, prefix string) (*STSCredentials, error) {
	// STS client requires region ID without "oss-" prefix (e.g., "cn-beijing" instead of "oss-cn-beijing")
	stsRegion := o.cfg.OSSRegion
	if after, ok := strings.CutPrefix(stsRegion, "oss-"); ok {
		stsRegion = after
	}

	client, err := sts.NewClientWithAccessKey(stsRegion, o.cfg.OSSAccessKeyID, o.cfg.OSSAccessKeySecret)
	if err != nil {
		return nil, err
	}

	request := sts.CreateAssumeRoleRequest()
	request.Scheme = "https"
	request.RoleArn = o.cfg.OSSRoleArn
	request.RoleSessionName = "activityhub-verification"
	request.DurationSeconds = "900"
	request.Policy = o.uploadPolicy(prefix)

	response, err := client.AssumeRole(request)
	if err != nil {
		return nil, err
	}

	return &STSCredentials{
		AccessKeyId:     response.Credentials.AccessKeyId,
		AccessKeySecret: response.Credentials.AccessKeySecret,
		SecurityToken:   response.Credentials.SecurityToken,
		Expiration:      response.Credentials.Expiration,
		Region:          o.cfg.OSSRegion,
		Bucket:          o.cfg.OSSBucketName,
		Prefix:          prefix,
	}, nil
}

func (o *OSSStorage) SignPutURL(ctx context.Context, objectKey, contentType string, ttl time.Duration) (string, error) {
	client, err := oss.New(
		o.cfg.OSSEndpoint,
		o.cfg.OSSAccessKeyID,
		o.cfg.OSSAccessKeySecret,
		oss.Timeout(10, 30),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create OSS client: %v", err)
	}

	bucket, err := client.Bucket(o.cfg.OSSBucketName)
	if err != nil {
		return "", fmt.Errorf("failed to get bucket: %v", err)
	}

	var options []oss.Option
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}
	return bucket.SignURL(objectKey, oss.HTTPPut, int64(ttl/time.Second), options...)
}
