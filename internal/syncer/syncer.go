// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package syncer mirrors the project data directory against an S3 prefix.
// Transfers follow `aws s3 sync` semantics: an object is copied when it is
// missing on the destination, differs in size, or the source is newer.
package syncer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client the syncer needs. Tests provide
// fakes.
type S3API interface {
	ListObjectsV2(
		ctx context.Context,
		params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
	GetObject(
		ctx context.Context,
		params *s3.GetObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.GetObjectOutput, error)
	PutObject(
		ctx context.Context,
		params *s3.PutObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
}

// Op names a planned transfer action.
type Op string

const (
	OpUpload   Op = "upload"
	OpDownload Op = "download"
)

// Action is one planned object transfer.
type Action struct {
	Op     Op     `json:"op" yaml:"op"`
	Key    string `json:"key" yaml:"key"`
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size" yaml:"size"`
	Reason string `json:"reason" yaml:"reason"`
}

// Summary aggregates a completed (or planned) sync run.
type Summary struct {
	Actions     []Action `json:"actions" yaml:"actions"`
	Transferred int      `json:"transferred" yaml:"transferred"`
	Bytes       int64    `json:"bytes" yaml:"bytes"`
	Skipped     int      `json:"skipped" yaml:"skipped"`
}

// Syncer ties a local directory to s3://Bucket/Prefix.
type Syncer struct {
	Client   S3API
	Bucket   string
	Prefix   string
	LocalDir string

	// DryRun plans without transferring.
	DryRun bool
}

type remoteObject struct {
	size    int64
	modTime time.Time
}

type localFile struct {
	rel     string
	size    int64
	modTime time.Time
}

// Push uploads local files that are missing, resized, or newer remotely.
func (s *Syncer) Push(ctx context.Context) (Summary, error) {
	var sum Summary

	remote, err := s.listRemote(ctx)
	if err != nil {
		return sum, err
	}

	locals, err := s.listLocal()
	if err != nil {
		return sum, err
	}

	for _, lf := range locals {
		key := s.key(lf.rel)
		ro, ok := remote[key]
		reason := ""
		switch {
		case !ok:
			reason = "missing remotely"
		case lf.size != ro.size:
			reason = "size differs"
		case lf.modTime.After(ro.modTime):
			reason = "local is newer"
		}
		if reason == "" {
			sum.Skipped++
			continue
		}

		act := Action{Op: OpUpload, Key: key, Path: filepath.Join(s.LocalDir, lf.rel), Size: lf.size, Reason: reason}
		sum.Actions = append(sum.Actions, act)

		if !s.DryRun {
			if err := s.upload(ctx, act); err != nil {
				return sum, err
			}
		}
		sum.Transferred++
		sum.Bytes += lf.size
	}

	return sum, nil
}

// Pull downloads remote objects that are missing, resized, or newer locally.
func (s *Syncer) Pull(ctx context.Context) (Summary, error) {
	var sum Summary

	remote, err := s.listRemote(ctx)
	if err != nil {
		return sum, err
	}

	locals, err := s.listLocal()
	if err != nil {
		return sum, err
	}
	localByKey := make(map[string]localFile, len(locals))
	for _, lf := range locals {
		localByKey[s.key(lf.rel)] = lf
	}

	for key, ro := range remote {
		lf, ok := localByKey[key]
		reason := ""
		switch {
		case !ok:
			reason = "missing locally"
		case lf.size != ro.size:
			reason = "size differs"
		case ro.modTime.After(lf.modTime):
			reason = "remote is newer"
		}
		if reason == "" {
			sum.Skipped++
			continue
		}

		dest := filepath.Join(s.LocalDir, filepath.FromSlash(s.rel(key)))
		act := Action{Op: OpDownload, Key: key, Path: dest, Size: ro.size, Reason: reason}
		sum.Actions = append(sum.Actions, act)

		if !s.DryRun {
			if err := s.download(ctx, act, ro.modTime); err != nil {
				return sum, err
			}
		}
		sum.Transferred++
		sum.Bytes += ro.size
	}

	return sum, nil
}

func (s *Syncer) key(rel string) string {
	return path.Join(s.Prefix, filepath.ToSlash(rel))
}

// listPrefix is the Prefix with a trailing slash, so "data" never matches
// sibling keys like "database/x".
func (s *Syncer) listPrefix() string {
	if s.Prefix == "" || strings.HasSuffix(s.Prefix, "/") {
		return s.Prefix
	}
	return s.Prefix + "/"
}

func (s *Syncer) rel(key string) string {
	return strings.TrimPrefix(key, s.listPrefix())
}

func (s *Syncer) listRemote(ctx context.Context) (map[string]remoteObject, error) {
	out := map[string]remoteObject{}

	var token *string
	for {
		page, err := s.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            awsv2.String(s.Bucket),
			Prefix:            awsv2.String(s.listPrefix()),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %w", s.Bucket, s.Prefix, err)
		}

		for _, obj := range page.Contents {
			key := awsv2.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				// Directory placeholder objects carry no data.
				continue
			}
			ro := remoteObject{size: awsv2.ToInt64(obj.Size)}
			if obj.LastModified != nil {
				ro.modTime = *obj.LastModified
			}
			out[key] = ro
		}

		if !awsv2.ToBool(page.IsTruncated) {
			break
		}
		token = page.NextContinuationToken
	}

	log.Debugf("remote objects under s3://%s/%s: %d", s.Bucket, s.Prefix, len(out))
	return out, nil
}

func (s *Syncer) listLocal() ([]localFile, error) {
	var out []localFile

	err := filepath.WalkDir(s.LocalDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// A data dir that doesn't exist yet is an empty source, not a
			// failure.
			if os.IsNotExist(err) && p == s.LocalDir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.LocalDir, p)
		if err != nil {
			return err
		}
		out = append(out, localFile{rel: rel, size: info.Size(), modTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.LocalDir, err)
	}

	log.Debugf("local files under %s: %d", s.LocalDir, len(out))
	return out, nil
}

func (s *Syncer) upload(ctx context.Context, act Action) error {
	f, err := os.Open(act.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", act.Path, err)
	}
	defer f.Close()

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(act.Key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", act.Key, err)
	}
	return nil
}

func (s *Syncer) download(ctx context.Context, act Action, modTime time.Time) error {
	obj, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(act.Key),
	})
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", act.Key, err)
	}
	defer obj.Body.Close()

	if err := os.MkdirAll(filepath.Dir(act.Path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(act.Path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, obj.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", act.Path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	// Stamp the object's LastModified on the file so the next push sees it
	// as up to date instead of "local is newer".
	if !modTime.IsZero() {
		if err := os.Chtimes(act.Path, modTime, modTime); err != nil {
			return err
		}
	}
	return nil
}
