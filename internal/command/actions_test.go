// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"

	"github.com/statkit/dsctl/internal/execx"
	"github.com/statkit/dsctl/internal/identity"
	"github.com/statkit/dsctl/internal/syncer"
)

type fakeSTS struct {
	out *sts.GetCallerIdentityOutput
	err error
}

func (f *fakeSTS) GetCallerIdentity(
	ctx context.Context,
	params *sts.GetCallerIdentityInput,
	optFns ...func(*sts.Options),
) (*sts.GetCallerIdentityOutput, error) {
	return f.out, f.err
}

func swapSTS(api identity.STSAPI) (restore func()) {
	prev := stsFactory
	stsFactory = func(ctx context.Context, profile, region string) (identity.STSAPI, error) {
		return api, nil
	}
	return func() { stsFactory = prev }
}

func TestCheckAWSCredentials_Success(t *testing.T) {
	restore := swapSTS(&fakeSTS{out: &sts.GetCallerIdentityOutput{
		Account: awsv2.String("123456789012"),
		Arn:     awsv2.String("arn:aws:iam::123456789012:user/dev"),
	}})
	defer restore()

	fake := &fakeInvoker{}
	err := runApp(t, fake, "check-aws-credentials")
	assert.NoError(t, err)
	assert.Empty(t, fake.runs, "the credential check must not spawn processes")
}

func TestCheckAWSCredentials_FailureExitsOne(t *testing.T) {
	restore := swapSTS(&fakeSTS{err: errors.New("ExpiredToken")})
	defer restore()

	fake := &fakeInvoker{}
	err := runApp(t, fake, "check-aws-credentials")

	var ee *execx.ExitError
	assert.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.Code)
	assert.Empty(t, fake.runs)
}

func TestInstallAWSCLI_PresentSkipsInstall(t *testing.T) {
	fake := &fakeInvoker{lookPath: map[string]string{"aws": "/usr/bin/aws"}}
	err := runApp(t, fake, "install-aws-cli")
	assert.NoError(t, err)
	assert.Empty(t, fake.runs)
}

func TestInstallAWSCLI_AbsentInstallsOnce(t *testing.T) {
	prev := installerPlatform
	installerPlatform = "darwin"
	defer func() { installerPlatform = prev }()

	fake := &fakeInvoker{}
	err := runApp(t, fake, "install-aws-cli")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"brew", "install", "awscli"}}, fake.runs)
}

func TestInstallAWSCLI_UnsupportedPlatform(t *testing.T) {
	prev := installerPlatform
	installerPlatform = "windows"
	defer func() { installerPlatform = prev }()

	fake := &fakeInvoker{}
	err := runApp(t, fake, "install-aws-cli")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no AWS CLI installer")
	assert.Empty(t, fake.runs)
}

func TestClean_RemovesArtifactsAndIsIdempotent(t *testing.T) {
	root := t.TempDir()

	for _, d := range []string{"dist", ".pytest_cache", "htmlcov", "glossary/__pycache__", "glossary.egg-info"} {
		assert.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	assert.NoError(t, os.WriteFile(filepath.Join(root, ".coverage"), []byte("x"), 0o644))
	keep := filepath.Join(root, "glossary", "terms.py")
	assert.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	fake := &fakeInvoker{}
	err := runApp(t, fake, "clean", "--dir", root)
	assert.NoError(t, err)

	for _, gone := range []string{"dist", ".pytest_cache", "htmlcov", ".coverage", "glossary/__pycache__", "glossary.egg-info"} {
		_, statErr := os.Stat(filepath.Join(root, gone))
		assert.True(t, os.IsNotExist(statErr), "%s should be removed", gone)
	}
	_, statErr := os.Stat(keep)
	assert.NoError(t, statErr, "source files must survive clean")

	// A second run with nothing left is not an error.
	err = runApp(t, fake, "clean", "--dir", root)
	assert.NoError(t, err)
	assert.Empty(t, fake.runs, "clean is filesystem-only")
}

func TestCheckVenv(t *testing.T) {
	fake := &fakeInvoker{stdout: `{"path":"/venv","python_version":"3.11.4","valid":true}`}
	err := runApp(t, fake, "check-venv")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"poetry", "env", "info", "--json"}}, fake.captures)
}

type fakeS3 struct {
	puts []string
}

func (f *fakeS3) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	return &s3.ListObjectsV2Output{
		IsTruncated: awsv2.Bool(false),
		Contents:    []s3types.Object{},
	}, nil
}

func (f *fakeS3) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(nil))}, nil
}

func (f *fakeS3) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, awsv2.ToString(params.Key))
	return &s3.PutObjectOutput{}, nil
}

func TestSyncDataToS3_DryRun(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	assert.NoError(t, os.MkdirAll(dataDir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dataDir, "terms.csv"), []byte("big-o"), 0o644))
	assert.NoError(t, os.Chtimes(filepath.Join(dataDir, "terms.csv"), time.Now(), time.Now()))

	client := &fakeS3{}
	prev := s3Factory
	s3Factory = func(ctx context.Context, profile, region string) (syncer.S3API, error) {
		return client, nil
	}
	defer func() { s3Factory = prev }()

	fake := &fakeInvoker{}
	err := runApp(t, fake, "sync-data-to-s3", "--dry-run", "--dir", root)
	assert.NoError(t, err)
	assert.Empty(t, client.puts, "dry run must not upload")
	assert.Empty(t, fake.runs, "sync uses the SDK, not the aws binary")
}

func TestSyncDataToS3_Uploads(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	assert.NoError(t, os.MkdirAll(dataDir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dataDir, "terms.csv"), []byte("big-o"), 0o644))

	client := &fakeS3{}
	prev := s3Factory
	s3Factory = func(ctx context.Context, profile, region string) (syncer.S3API, error) {
		return client, nil
	}
	defer func() { s3Factory = prev }()

	fake := &fakeInvoker{}
	err := runApp(t, fake, "sync-data-to-s3", "--dir", root)
	assert.NoError(t, err)
	assert.Equal(t, []string{"data/terms.csv"}, client.puts)
}

func TestGenerate(t *testing.T) {
	corpus := filepath.Join(t.TempDir(), "corpus.txt")
	text := "the cat sat on the mat . the dog sat on the rug . the cat ran after the dog ."
	assert.NoError(t, os.WriteFile(corpus, []byte(text), 0o644))

	fake := &fakeInvoker{}
	err := runApp(t, fake, "generate", "--corpus", corpus, "--length", "12", "--seed", "7")
	assert.NoError(t, err)
	assert.Empty(t, fake.runs, "generation is in-process")
}

func TestGenerate_BadOrder(t *testing.T) {
	corpus := filepath.Join(t.TempDir(), "corpus.txt")
	assert.NoError(t, os.WriteFile(corpus, []byte("a b c d e"), 0o644))

	fake := &fakeInvoker{}
	err := runApp(t, fake, "generate", "--corpus", corpus, "--order", "9")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "n-gram order")
}
