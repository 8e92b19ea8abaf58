// File persistence for report/document uploads. Uses Aliyun OSS when the
// OSS_* env vars are set, otherwise the local UPLOAD_DIR on disk.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type SavedFile struct {
	Path string // public URL (OSS) or relative path under UPLOAD_DIR (local)
	Name string // original filename
	Size int64
}

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func ossConfigured() bool {
	return getEnv("OSS_ENDPOINT") != "" && getEnv("OSS_BUCKET") != "" &&
		getEnv("OSS_ACCESS_KEY_ID") != "" && getEnv("OSS_ACCESS_KEY_SECRET") != ""
}

// Save persists an uploaded file under the given directory (e.g.
// "reports/<memberID>") and returns where it landed.
func Save(ctx context.Context, dir string, fh *multipart.FileHeader) (*SavedFile, error) {
	if fh == nil || fh.Filename == "" {
		return nil, errors.New("no file supplied")
	}
	if ossConfigured() {
		return saveOSS(ctx, dir, fh)
	}
	return saveLocal(dir, fh)
}

// Delete removes a previously saved file. Best-effort: a missing file is
// not an error.
func Delete(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if ossConfigured() && strings.HasPrefix(path, "http") {
		return deleteOSS(ctx, path)
	}
	full := filepath.Join(uploadRoot(), filepath.FromSlash(path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

/* ===============================
   Local disk backend
=================================*/

func uploadRoot() string {
	if v := getEnv("UPLOAD_DIR"); v != "" {
		return v
	}
	return "uploads"
}

func saveLocal(dir string, fh *multipart.FileHeader) (*SavedFile, error) {
	rel := filepath.ToSlash(filepath.Join(dir, objectName(fh.Filename)))
	full := filepath.Join(uploadRoot(), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(full)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(full)
		return nil, err
	}
	return &SavedFile{Path: rel, Name: fh.Filename, Size: n}, nil
}

/* ===============================
   OSS backend
=================================*/

func newBucket() (*oss.Bucket, error) {
	client, err := oss.New(getEnv("OSS_ENDPOINT"), getEnv("OSS_ACCESS_KEY_ID"), getEnv("OSS_ACCESS_KEY_SECRET"))
	if err != nil {
		return nil, err
	}
	return client.Bucket(getEnv("OSS_BUCKET"))
}

func saveOSS(ctx context.Context, dir string, fh *multipart.FileHeader) (*SavedFile, error) {
	bucket, err := newBucket()
	if err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	key := strings.TrimPrefix(filepath.ToSlash(filepath.Join(dir, objectName(fh.Filename))), "/")
	opts := []oss.Option{oss.ContentDisposition(fmt.Sprintf("attachment; filename=%q", fh.Filename))}
	if err := bucket.PutObject(key, src, opts...); err != nil {
		return nil, err
	}
	return &SavedFile{Path: publicURL(key), Name: fh.Filename, Size: fh.Size}, nil
}

func deleteOSS(ctx context.Context, publicURL string) error {
	bucket, err := newBucket()
	if err != nil {
		return err
	}
	key, err := keyFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	if err := bucket.DeleteObject(key); err != nil {
		var svc oss.ServiceError
		if errors.As(err, &svc) && svc.StatusCode == 404 {
			return nil
		}
		return err
	}
	return nil
}

func publicURL(key string) string {
	if base := getEnv("OSS_PUBLIC_BASE_URL"); base != "" {
		return strings.TrimRight(base, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.%s/%s", getEnv("OSS_BUCKET"), getEnv("OSS_ENDPOINT"), key)
}

func keyFromPublicURL(u string) (string, error) {
	i := strings.Index(u, "://")
	if i < 0 {
		return "", errors.New("not a URL: " + u)
	}
	rest := u[i+3:]
	j := strings.Index(rest, "/")
	if j < 0 {
		return "", errors.New("no object key in URL: " + u)
	}
	return rest[j+1:], nil
}

/* ===============================
   Object naming
=================================*/

func objectName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", time.Now().UTC().Unix(), randHex(8), ext)
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
