package storage

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// AssetResolver turns the asset reference stored on a content item into a
// URL a player can fetch.
type AssetResolver interface {
	Resolve(ref string) string
}

// LocalAssets serves refs from the local uploads directory.
type LocalAssets struct {
	prefix string
}

// SpacesAssets serves refs from a DigitalOcean Spaces bucket, through the
// CDN when one is configured and through presigned URLs otherwise.
type SpacesAssets struct {
	client *s3.S3
	bucket string
	cdnURL string
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]presigned
	now   func() time.Time
}

type presigned struct {
	url     string
	expires time.Time
}

func NewLocalAssets(prefix string) *LocalAssets {
	if prefix == "" {
		prefix = "/uploads"
	}
	return &LocalAssets{prefix: "/" + strings.Trim(prefix, "/")}
}

func NewSpacesAssets(endpoint, region, bucket, cdnURL, accessKey, secretKey string, ttl time.Duration) (*SpacesAssets, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesAssets{
		client: s3.New(sess),
		bucket: bucket,
		cdnURL: strings.TrimSuffix(cdnURL, "/"),
		ttl:    ttl,
		cache:  make(map[string]presigned),
		now:    time.Now,
	}, nil
}

// absolute reports refs that are already fetchable as is.
func absolute(ref string) bool {
	if strings.HasPrefix(ref, "data:") {
		return true
	}
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// objectKey normalizes a stored ref to a bucket key under uploads/.
func objectKey(ref string) string {
	key := strings.TrimPrefix(path.Clean("/"+ref), "/")
	if !strings.HasPrefix(key, "uploads/") {
		key = "uploads/" + key
	}
	return key
}

func (l *LocalAssets) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || absolute(ref) {
		return ref
	}
	key := strings.TrimPrefix(objectKey(ref), "uploads/")
	return l.prefix + "/" + key
}

func (ss *SpacesAssets) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || absolute(ref) {
		return ref
	}
	key := objectKey(ref)
	if ss.cdnURL != "" {
		return ss.cdnURL + "/" + key
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	// reuse a signature until half its lifetime is gone so rendered keys
	// stay stable between polls
	if p, ok := ss.cache[key]; ok && now.Before(p.expires.Add(-ss.ttl/2)) {
		return p.url
	}
	req, _ := ss.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	signed, err := req.Presign(ss.ttl)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("[storage] failed to presign asset url")
		return ref
	}
	ss.cache[key] = presigned{url: signed, expires: now.Add(ss.ttl)}
	return signed
}
