package vault

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 is an in-memory bucket implementing s3API for single-part uploads.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
	at      time.Time
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{
		bucket:  bucket,
		objects: make(map[string][]byte),
		at:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(f.objects[k]))),
			LastModified: aws.Time(f.at),
		})
	}
	return out, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func TestS3Vault_RoundTrip(t *testing.T) {
	fake := newFakeS3("bucket")
	v := newS3Vault("s3", "bucket", "tubetracker/", fake)

	if err := v.PutSnapshot("snapshots/a.db", strings.NewReader("SQLite format 3"), 15); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}
	if _, ok := fake.objects["tubetracker/snapshots/a.db"]; !ok {
		t.Fatalf("object keys = %v, want tubetracker/snapshots/a.db", fake.objects)
	}

	var buf bytes.Buffer
	if err := v.GetSnapshot("snapshots/a.db", &buf); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if buf.String() != "SQLite format 3" {
		t.Errorf("GetSnapshot() = %q", buf.String())
	}
}

func TestS3Vault_SizeMismatch(t *testing.T) {
	v := newS3Vault("s3", "bucket", "", newFakeS3("bucket"))
	if err := v.PutSnapshot("snapshots/a.db", strings.NewReader("short"), 99); err == nil {
		t.Error("PutSnapshot() with wrong size should fail")
	}
}

func TestS3Vault_GetMissing(t *testing.T) {
	v := newS3Vault("s3", "bucket", "", newFakeS3("bucket"))
	err := v.GetSnapshot("snapshots/none.db", &bytes.Buffer{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSnapshot() error = %v, want ErrNotFound", err)
	}
}

func TestS3Vault_ListSnapshots(t *testing.T) {
	fake := newFakeS3("bucket")
	fake.objects["other/snapshots/x.db"] = []byte("zz")
	v := newS3Vault("s3", "bucket", "tt", fake)

	for _, name := range []string{"snapshots/2.db", "snapshots/1.db.age"} {
		if err := v.PutSnapshot(name, strings.NewReader("abcd"), 4); err != nil {
			t.Fatalf("PutSnapshot(%s) error = %v", name, err)
		}
	}

	snaps, err := v.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("ListSnapshots() = %+v, want 2 entries", snaps)
	}
	if snaps[0].Name != "snapshots/1.db.age" || snaps[1].Name != "snapshots/2.db" {
		t.Errorf("names = %q, %q", snaps[0].Name, snaps[1].Name)
	}
	if snaps[0].Size != 4 || !snaps[0].CreatedAt.Equal(fake.at) {
		t.Errorf("snaps[0] = %+v", snaps[0])
	}
}

func TestS3Vault_ValidateSetup(t *testing.T) {
	if err := newS3Vault("s3", "bucket", "", newFakeS3("bucket")).ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
	if err := newS3Vault("s3", "missing", "", newFakeS3("bucket")).ValidateSetup(); err == nil {
		t.Error("ValidateSetup() for missing bucket should fail")
	}
}
