// Package storage keeps member photos as binary objects in Redis.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tendant/gymdesk/pkg/domain"
)

// DefaultMaxPhotoBytes bounds an uploaded photo.
const DefaultMaxPhotoBytes = 2 << 20

var (
	ErrPhotoTooLarge        = errors.New("photo is too large")
	ErrUnsupportedPhotoType = errors.New("photo must be a JPEG, PNG, GIF or WebP image")
	ErrEmptyPhoto           = errors.New("photo is empty")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Photo is a stored image.
type Photo struct {
	ContentType string
	Data        []byte
}

// PhotoStore stores photos keyed by member.
type PhotoStore struct {
	client   *redis.Client
	maxBytes int
}

// NewPhotoStore connects to the Redis instance at url.
func NewPhotoStore(url string, maxBytes int) (*PhotoStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}
	return &PhotoStore{client: redis.NewClient(opt), maxBytes: maxBytes}, nil
}

// MaxBytes returns the largest accepted photo size.
func (s *PhotoStore) MaxBytes() int {
	return s.maxBytes
}

// Ping checks the connection.
func (s *PhotoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *PhotoStore) Close() error {
	return s.client.Close()
}

// Put stores data as the photo of memberID, replacing any previous one, and
// returns the detected content type.
func (s *PhotoStore) Put(ctx context.Context, memberID uuid.UUID, data []byte) (string, error) {
	contentType, err := DetectPhotoType(data, s.maxBytes)
	if err != nil {
		return "", err
	}
	err = s.client.HSet(ctx, photoKey(memberID),
		"content_type", contentType,
		"data", data,
	).Err()
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return contentType, nil
}

// Get retrieves the photo of memberID.
func (s *PhotoStore) Get(ctx context.Context, memberID uuid.UUID) (*Photo, error) {
	fields, err := s.client.HGetAll(ctx, photoKey(memberID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load photo: %w", err)
	}
	data, ok := fields["data"]
	if !ok {
		return nil, domain.ErrPhotoNotFound
	}
	return &Photo{ContentType: fields["content_type"], Data: []byte(data)}, nil
}

// Delete removes the photo of memberID. Missing photos are not an error.
func (s *PhotoStore) Delete(ctx context.Context, memberID uuid.UUID) error {
	return s.client.Del(ctx, photoKey(memberID)).Err()
}

// DetectPhotoType sniffs the image type of data and enforces the size limit.
func DetectPhotoType(data []byte, maxBytes int) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPhoto
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return "", ErrPhotoTooLarge
	}
	contentType := http.DetectContentType(data)
	if !allowedTypes[contentType] {
		return "", ErrUnsupportedPhotoType
	}
	return contentType, nil
}

func photoKey(memberID uuid.UUID) string {
	return "member-photo:" + memberID.String()
}
