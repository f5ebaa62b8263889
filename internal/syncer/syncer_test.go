// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
)

type fakeObject struct {
	body    []byte
	modTime time.Time
}

// fakeS3 is an in-memory bucket.
type fakeS3 struct {
	objects map[string]fakeObject
	puts    []string
	gets    []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]fakeObject{}}
}

func (f *fakeS3) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	prefix := awsv2.ToString(params.Prefix)
	out := &s3.ListObjectsV2Output{IsTruncated: awsv2.Bool(false)}
	for key, obj := range f.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		mt := obj.modTime
		out.Contents = append(out.Contents, types.Object{
			Key:          awsv2.String(key),
			Size:         awsv2.Int64(int64(len(obj.body))),
			LastModified: &mt,
		})
	}
	return out, nil
}

func (f *fakeS3) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	key := awsv2.ToString(params.Key)
	f.gets = append(f.gets, key)
	obj := f.objects[key]
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(obj.body)),
	}, nil
}

func (f *fakeS3) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	key := awsv2.ToString(params.Key)
	f.puts = append(f.puts, key)
	body, _ := io.ReadAll(params.Body)
	f.objects[key] = fakeObject{body: body, modTime: time.Now()}
	return &s3.PutObjectOutput{}, nil
}

func writeLocal(t *testing.T, dir, rel, content string, modTime time.Time) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	assert.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	assert.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	if !modTime.IsZero() {
		assert.NoError(t, os.Chtimes(p, modTime, modTime))
	}
}

func TestPush_UploadsMissingAndChanged(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)

	writeLocal(t, dir, "terms.csv", "big-o,markov", time.Time{})
	writeLocal(t, dir, "raw/corpus.txt", "stochastic process", time.Time{})
	writeLocal(t, dir, "unchanged.txt", "same", old)

	client := newFakeS3()
	client.objects["data/unchanged.txt"] = fakeObject{body: []byte("same"), modTime: time.Now()}

	s := &Syncer{Client: client, Bucket: "b", Prefix: "data", LocalDir: dir}
	sum, err := s.Push(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 2, sum.Transferred)
	assert.Equal(t, 1, sum.Skipped)
	assert.ElementsMatch(t, []string{"data/terms.csv", "data/raw/corpus.txt"}, client.puts)
	assert.Equal(t, []byte("big-o,markov"), client.objects["data/terms.csv"].body)
}

func TestPush_SizeDiffers(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)
	writeLocal(t, dir, "terms.csv", "longer content", old)

	client := newFakeS3()
	client.objects["data/terms.csv"] = fakeObject{body: []byte("short"), modTime: time.Now()}

	s := &Syncer{Client: client, Bucket: "b", Prefix: "data", LocalDir: dir}
	sum, err := s.Push(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 1, sum.Transferred)
	assert.Equal(t, "size differs", sum.Actions[0].Reason)
}

func TestPush_DryRunTransfersNothing(t *testing.T) {
	dir := t.TempDir()
	writeLocal(t, dir, "terms.csv", "content", time.Time{})

	client := newFakeS3()
	s := &Syncer{Client: client, Bucket: "b", Prefix: "data", LocalDir: dir, DryRun: true}
	sum, err := s.Push(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 1, sum.Transferred)
	assert.Len(t, sum.Actions, 1)
	assert.Empty(t, client.puts)
}

func TestPush_MissingLocalDirIsEmptySource(t *testing.T) {
	s := &Syncer{
		Client:   newFakeS3(),
		Bucket:   "b",
		Prefix:   "data",
		LocalDir: filepath.Join(t.TempDir(), "does-not-exist"),
	}
	sum, err := s.Push(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, sum.Transferred)
}

func TestPull_DownloadsMissingAndNewer(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)
	writeLocal(t, dir, "stale.txt", "old!", old)

	client := newFakeS3()
	client.objects["data/stale.txt"] = fakeObject{body: []byte("new!"), modTime: time.Now()}
	client.objects["data/raw/corpus.txt"] = fakeObject{body: []byte("markov"), modTime: old}

	s := &Syncer{Client: client, Bucket: "b", Prefix: "data", LocalDir: dir}
	sum, err := s.Pull(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 2, sum.Transferred)
	assert.ElementsMatch(t, []string{"data/stale.txt", "data/raw/corpus.txt"}, client.gets)

	got, err := os.ReadFile(filepath.Join(dir, "stale.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "new!", string(got))

	got, err = os.ReadFile(filepath.Join(dir, "raw", "corpus.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "markov", string(got))
}

func TestPull_SkipsUpToDate(t *testing.T) {
	dir := t.TempDir()
	writeLocal(t, dir, "same.txt", "same", time.Now())

	client := newFakeS3()
	client.objects["data/same.txt"] = fakeObject{body: []byte("same"), modTime: time.Now().Add(-time.Hour)}

	s := &Syncer{Client: client, Bucket: "b", Prefix: "data", LocalDir: dir}
	sum, err := s.Pull(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 0, sum.Transferred)
	assert.Equal(t, 1, sum.Skipped)
	assert.Empty(t, client.gets)
}

func TestSync_RoundTripIsStable(t *testing.T) {
	dir := t.TempDir()
	writeLocal(t, dir, "terms.csv", "big-o,markov", time.Now().Add(-time.Hour))

	client := newFakeS3()
	s := &Syncer{Client: client, Bucket: "b", Prefix: "data", LocalDir: dir}

	first, err := s.Push(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, first.Transferred)

	// The pull stamps the object's LastModified on the local file...
	_, err = s.Pull(context.Background())
	assert.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "terms.csv"))
	assert.NoError(t, err)
	assert.WithinDuration(t, client.objects["data/terms.csv"].modTime, info.ModTime(), time.Second)

	// ...so the next push has nothing left to transfer.
	again, err := s.Push(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, again.Transferred)
	assert.Equal(t, 1, again.Skipped)
}

func TestListRemote_IgnoresSiblingPrefixes(t *testing.T) {
	client := newFakeS3()
	client.objects["data/real.txt"] = fakeObject{body: []byte("x"), modTime: time.Now()}
	client.objects["database/other.txt"] = fakeObject{body: []byte("y"), modTime: time.Now()}

	s := &Syncer{Client: client, Bucket: "b", Prefix: "data", LocalDir: t.TempDir()}
	remote, err := s.listRemote(context.Background())
	assert.NoError(t, err)

	assert.Len(t, remote, 1)
	_, ok := remote["data/real.txt"]
	assert.True(t, ok)
	assert.Equal(t, "real.txt", s.rel("data/real.txt"))
}

func TestListRemote_SkipsDirectoryPlaceholders(t *testing.T) {
	client := newFakeS3()
	client.objects["data/"] = fakeObject{modTime: time.Now()}
	client.objects["data/real.txt"] = fakeObject{body: []byte("x"), modTime: time.Now()}

	s := &Syncer{Client: client, Bucket: "b", Prefix: "data", LocalDir: t.TempDir()}
	remote, err := s.listRemote(context.Background())
	assert.NoError(t, err)

	assert.Len(t, remote, 1)
	_, ok := remote["data/real.txt"]
	assert.True(t, ok)
}
