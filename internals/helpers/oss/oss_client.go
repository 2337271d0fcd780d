// internals/helpers/oss/oss_client.go
package oss

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	aliyun "github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const maxUploadSize = int64(5 * 1024 * 1024)

// OSSService menyimpan koneksi bucket untuk penyimpanan thumbnail course.
type OSSService struct {
	Client     *aliyun.Client
	Bucket     *aliyun.Bucket
	Endpoint   string
	BucketName string
	PublicBase string
}

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

// NewOSSServiceFromEnv membuat service dari ENV (dipanggil sekali di controller ctor,
// hasilnya di-inject; business logic tidak baca ENV sendiri).
func NewOSSServiceFromEnv() (*OSSService, error) {
	endpoint := getEnv("ALI_OSS_ENDPOINT")
	ak := getEnv("ALI_OSS_ACCESS_KEY")
	sk := getEnv("ALI_OSS_SECRET_KEY")
	bucketName := getEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	client, err := aliyun.New(endpoint, ak, sk)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		PublicBase: getEnv("ALI_OSS_PUBLIC_BASE"),
	}, nil
}

/* =======================================================================
   Konversi gambar → WebP (resize keep-aspect, foto = lossy)
======================================================================= */

func toWebP(all []byte, maxW, maxH int, quality float32) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(all))
	if err != nil {
		// coba decoder webp (stdlib tidak punya)
		img, err = webp.Decode(bytes.NewReader(all))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
	}

	b := img.Bounds()
	if b.Dx() > maxW || b.Dy() > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return out.Bytes(), nil
}

/* =======================================================================
   Upload thumbnail course
======================================================================= */

// UploadCourseThumbnail konversi gambar ke webp lalu simpan di courses/<id>/.
// Return public URL untuk disimpan di kolom course_thumbnail_url.
func (s *OSSService) UploadCourseThumbnail(ctx context.Context, courseID uuid.UUID, fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxUploadSize {
		return "", fmt.Errorf("file terlalu besar (max %d bytes)", maxUploadSize)
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(f); err != nil {
		return "", err
	}

	webpData, err := toWebP(buf.Bytes(), 1600, 1600, 80)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("courses/%s/%d.webp", courseID, time.Now().UnixMilli())
	opts := []aliyun.Option{
		aliyun.ContentType("image/webp"),
		aliyun.WithContext(ctx),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(webpData), opts...); err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return s.publicURL(key), nil
}

// DeleteByPublicURL hapus objek berdasarkan URL publiknya (best-effort cleanup).
func (s *OSSService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	u, err := url.Parse(publicURL)
	if err != nil {
		return err
	}
	key := strings.TrimPrefix(path.Clean(u.Path), "/")
	if key == "" {
		return fmt.Errorf("empty object key from url %q", publicURL)
	}
	return s.Bucket.DeleteObject(key, aliyun.WithContext(ctx))
}

func (s *OSSService) publicURL(key string) string {
	if s.PublicBase != "" {
		return strings.TrimRight(s.PublicBase, "/") + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}
