// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

import (
	"errors"
	"fmt"
)

// Drawer is the GPU binding layer a Batch submits through.
//
// UploadInstances replaces the instance buffer contents with data, which
// holds count records of InstanceStride bytes. DrawInstanced issues one
// indexed draw of the unit quad for instanceCount instances.
type Drawer interface {
	UploadInstances(data []byte, count uint32) error
	DrawInstanced(indexCount, instanceCount uint32) error
}

// BatchState reports whether a Batch reflects its store.
type BatchState uint8

const (
	// Stale means the batch has not been synced, or the store changed
	// after the last Sync.
	Stale BatchState = iota

	// Synced means the instance bytes match the store contents.
	Synced
)

// String returns the state name.
func (s BatchState) String() string {
	switch s {
	case Stale:
		return "Stale"
	case Synced:
		return "Synced"
	default:
		return fmt.Sprintf("BatchState(%d)", uint8(s))
	}
}

// Errors returned by Batch.Submit.
var (
	// ErrUpload wraps a drawer error from UploadInstances.
	ErrUpload = errors.New("sprites: instance upload failed")

	// ErrDraw wraps a drawer error from DrawInstanced.
	ErrDraw = errors.New("sprites: instanced draw failed")
)

// Batch mirrors a Store as GPU instance data and submits it as a single
// instanced draw.
//
// Every Sync re-serializes the whole store and marks the buffer dirty; the
// next Submit re-uploads it in full.
//
// Batch is not safe for concurrent use.
type Batch struct {
	drawer Drawer

	buf   []byte
	count uint32
	dirty bool

	store   *Store
	version uint64
}

// NewBatch creates a batch that submits through d. If d accepts a logger
// it receives the current package logger.
func NewBatch(d Drawer) *Batch {
	propagateLogger(d)
	return &Batch{drawer: d}
}

// Sync serializes every sprite of store in draw order, replacing the
// previous contents. The buffer allocation is reused across calls.
func (b *Batch) Sync(store *Store) {
	view := store.Snapshot()
	b.buf = view.AppendInstances(b.buf[:0])
	b.count = uint32(view.Len())
	b.dirty = true
	b.store = store
	b.version = store.Version()
}

// Submit uploads the instance bytes if they changed since the last upload,
// then issues exactly one instanced draw for the count captured at the last
// Sync. Sprites spawned after Sync are not drawn until the next Sync.
//
// A drawer error is returned wrapped in ErrUpload or ErrDraw. A failed
// upload leaves the buffer dirty and skips the draw.
func (b *Batch) Submit() error {
	if b.dirty {
		if err := b.drawer.UploadInstances(b.buf, b.count); err != nil {
			return fmt.Errorf("%w: %w", ErrUpload, err)
		}
		b.dirty = false
		Logger().Debug("sprites: instances uploaded",
			"count", b.count,
			"bytes", len(b.buf))
	}
	if err := b.drawer.DrawInstanced(QuadIndexCount, b.count); err != nil {
		return fmt.Errorf("%w: %w", ErrDraw, err)
	}
	return nil
}

// State reports whether the batch reflects its store.
func (b *Batch) State() BatchState {
	if b.store == nil || b.store.Version() != b.version {
		return Stale
	}
	return Synced
}

// Bytes returns the serialized instance data from the last Sync. The slice
// is reused by the next Sync.
func (b *Batch) Bytes() []byte {
	return b.buf
}

// InstanceCount returns the number of instances captured at the last Sync.
func (b *Batch) InstanceCount() uint32 {
	return b.count
}
