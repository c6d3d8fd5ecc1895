// internal/runstate/runstate.go
//
// Persisted run state. One record exists per processing directory and maps
// chunk identifiers to completion status, so a restarted run can skip
// completed chunks instead of reprocessing them. Writes are atomic and
// durable (temp file + rename + directory sync): a crash mid-write never
// leaves a half-written record.
package runstate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const stateFileName = "run_state.json"

// Status of one chunk in the persisted record.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Record identifies the job a processing directory belongs to and tracks
// per-chunk completion. A record matches a run only when the source, scale
// and chunk duration all agree; anything else would mix chunks from
// different jobs.
type Record struct {
	Source       string            `json:"source"`
	Scale        int               `json:"scale"`
	ChunkSeconds int               `json:"chunk_seconds"`
	Chunks       map[string]Status `json:"chunks"`
}

// Matches reports whether the record belongs to the same job as want.
func (r Record) Matches(want Record) bool {
	return r.Source == want.Source &&
		r.Scale == want.Scale &&
		r.ChunkSeconds == want.ChunkSeconds
}

// Store persists a Record under a processing directory.
type Store struct {
	path string
	rec  Record
}

// Open loads the record stored under dir, creating a fresh one from want when
// none exists. The second return reports whether an existing record was
// found; the caller decides what a job mismatch means (prompt or force).
func Open(dir string, want Record) (*Store, bool, error) {
	s := &Store{path: filepath.Join(dir, stateFileName)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.rec = want
		if s.rec.Chunks == nil {
			s.rec.Chunks = make(map[string]Status)
		}
		if err := s.save(); err != nil {
			return nil, false, err
		}
		return s, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read run state: %v", err)
	}

	var rec Record
	if err := decodeStrict(data, &rec); err != nil {
		return nil, false, fmt.Errorf("invalid run state in %s: %v", s.path, err)
	}
	if rec.Chunks == nil {
		rec.Chunks = make(map[string]Status)
	}
	s.rec = rec
	return s, true, nil
}

// Discard removes any persisted record under dir, readable or not. A forced
// restart calls this before Open so a corrupt state file cannot wedge the one
// path meant to recover from it.
func Discard(dir string) error {
	err := os.Remove(filepath.Join(dir, stateFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("discard run state: %v", err)
	}
	return nil
}

// Record returns a copy of the current record.
func (s *Store) Record() Record {
	out := s.rec
	out.Chunks = make(map[string]Status, len(s.rec.Chunks))
	for id, st := range s.rec.Chunks {
		out.Chunks[id] = st
	}
	return out
}

// IsDone reports whether the chunk's segment was durably written in this or
// an earlier run.
func (s *Store) IsDone(chunkID string) bool {
	return s.rec.Chunks[chunkID] == StatusDone
}

// MarkDone records chunk completion. Callers must only invoke this after the
// chunk's segment file exists and is non-empty: the record is written after
// its durable artifact, never before.
func (s *Store) MarkDone(chunkID string) error {
	s.rec.Chunks[chunkID] = StatusDone
	return s.save()
}

// MarkFailed records a chunk-local stage failure for diagnosis. A failed
// chunk is redone on resume exactly like a pending one.
func (s *Store) MarkFailed(chunkID string) error {
	s.rec.Chunks[chunkID] = StatusFailed
	return s.save()
}

// Reset discards all completion state and replaces the record with fresh. It
// also deletes the given artifact directories: a restarted or replaced job
// must never see the previous job's frames, audio slices or segments, which
// share chunk identifiers and would be counted as its own.
func (s *Store) Reset(artifactDirs []string, fresh Record) error {
	for _, dir := range artifactDirs {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("delete stale artifacts: %v", err)
		}
	}
	s.rec = fresh
	if s.rec.Chunks == nil {
		s.rec.Chunks = make(map[string]Status)
	}
	return s.save()
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run state: %v", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write run state: %v", err)
	}
	return nil
}

func decodeStrict(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("trailing content after record")
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
