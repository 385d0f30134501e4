// Copyright 2025 Empire Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/empirelabs/chad/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Session records are stored as: message count, then (role, content) pairs,
// then the last-updated timestamp at microsecond precision.

// MarshalSession serializes a session record to bytes.
func MarshalSession(messages []core.Message, updatedAt time.Time) []byte {
	size := varint.Int.Size(len(messages))
	for _, msg := range messages {
		size += ord.String.Size(string(msg.Role))
		size += ord.String.Size(msg.Content)
	}
	size += raw.TimeUnixMicro.Size(updatedAt)

	buf := make([]byte, size)
	n := varint.Int.Marshal(len(messages), buf)
	for _, msg := range messages {
		n += ord.String.Marshal(string(msg.Role), buf[n:])
		n += ord.String.Marshal(msg.Content, buf[n:])
	}
	raw.TimeUnixMicro.Marshal(updatedAt, buf[n:])
	return buf
}

// UnmarshalSession deserializes a session record from bytes.
func UnmarshalSession(data []byte) ([]core.Message, time.Time, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if count < 0 {
		return nil, time.Time{}, fmt.Errorf("%w: negative message count", ErrSerializationFailed)
	}

	messages := make([]core.Message, 0, count)
	for i := 0; i < count; i++ {
		role, n1, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		n += n1

		content, n2, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		n += n2

		messages = append(messages, core.Message{Role: core.Role(role), Content: content})
	}

	updatedAt, _, err := raw.TimeUnixMicro.Unmarshal(data[n:])
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	return messages, updatedAt, nil
}

// MarshalChunk serializes a KnowledgeChunk to bytes.
func MarshalChunk(chunk *core.KnowledgeChunk) []byte {
	size := varint.Uint64.Size(uint64(chunk.Id))
	size += ord.String.Size(chunk.Text)
	size += ord.String.Size(chunk.Source)
	size += varint.Int.Size(len(chunk.Vector))
	for _, v := range chunk.Vector {
		size += raw.Float32.Size(v)
	}
	size += raw.TimeUnixMicro.Size(chunk.InsertedAt)

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(chunk.Id), buf)
	n += ord.String.Marshal(chunk.Text, buf[n:])
	n += ord.String.Marshal(chunk.Source, buf[n:])
	n += varint.Int.Marshal(len(chunk.Vector), buf[n:])
	for _, v := range chunk.Vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	raw.TimeUnixMicro.Marshal(chunk.InsertedAt, buf[n:])
	return buf
}

// UnmarshalChunk deserializes a KnowledgeChunk from bytes.
func UnmarshalChunk(data []byte) (*core.KnowledgeChunk, error) {
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	text, n1, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += n1

	source, n2, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += n2

	dim, n3, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += n3
	if dim < 0 {
		return nil, fmt.Errorf("%w: negative vector length", ErrSerializationFailed)
	}

	vector := make([]float32, 0, dim)
	for i := 0; i < dim; i++ {
		v, nf, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		n += nf
		vector = append(vector, v)
	}

	insertedAt, _, err := raw.TimeUnixMicro.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	return &core.KnowledgeChunk{
		Id:         core.ID(id),
		Text:       text,
		Source:     source,
		Vector:     vector,
		InsertedAt: insertedAt,
	}, nil
}
