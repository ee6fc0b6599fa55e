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

package bloomring

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedEnvelope is returned by Deserialize when its input is
// not valid base64 text (the envelope's outer layer).
var ErrMalformedEnvelope = errors.New("bloomring: malformed envelope")

// ErrDecompression is returned by Deserialize when the envelope's
// inner, deflate-compressed layer fails to decompress.
var ErrDecompression = errors.New("bloomring: decompression failed")

const headerSize = 8 * 4 // m, k, s0, s1, each u64 LE

// Serialize encodes f into a text envelope: a binary header
// (m|k|s0|s1, each little-endian u64) followed by f's raw bit bytes,
// deflated, then base64-encoded with no line breaks.
func (f *Filter) Serialize() (string, error) {
	var plain bytes.Buffer
	plain.Grow(headerSize + len(f.RawData()))

	var header [headerSize]byte
	binary.LittleEndian.PutUint64(header[0:8], f.BitCount())
	binary.LittleEndian.PutUint64(header[8:16], uint64(f.k))
	binary.LittleEndian.PutUint64(header[16:24], f.scheme.s0)
	binary.LittleEndian.PutUint64(header[24:32], f.scheme.s1)
	plain.Write(header[:])
	plain.Write(f.RawData())

	var compressed bytes.Buffer
	w, err := flate.NewWriter(&compressed, flate.BestSpeed)
	if err != nil {
		return "", fmt.Errorf("bloomring: compressing envelope: %w", err)
	}
	if _, err := w.Write(plain.Bytes()); err != nil {
		return "", fmt.Errorf("bloomring: compressing envelope: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("bloomring: compressing envelope: %w", err)
	}

	return base64.StdEncoding.EncodeToString(compressed.Bytes()), nil
}

// Deserialize reverses Serialize, reconstructing a Filter using the
// default hasher (HashBytes). Use DeserializeWithHasher to restore a
// filter constructed with a non-default Config.Hasher.
func Deserialize(envelope string) (*Filter, error) {
	return DeserializeWithHasher(envelope, nil)
}

// DeserializeWithHasher is Deserialize, but lets the caller supply the
// Hasher the original filter was constructed with. The hasher itself
// is not part of the wire format, so the caller must know it out of
// band.
func DeserializeWithHasher(envelope string, hasher Hasher) (*Filter, error) {
	compressed, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}

	if len(plain) < headerSize {
		return nil, fmt.Errorf("%w: envelope too short for header", ErrInvalidArgument)
	}

	m := binary.LittleEndian.Uint64(plain[0:8])
	k := binary.LittleEndian.Uint64(plain[8:16])
	s0 := binary.LittleEndian.Uint64(plain[16:24])
	s1 := binary.LittleEndian.Uint64(plain[24:32])
	data := plain[headerSize:]

	if m%2 != 1 {
		return nil, fmt.Errorf("%w: bit count %d is not odd", ErrInvalidArgument, m)
	}
	if k == 0 {
		return nil, fmt.Errorf("%w: hash count is zero", ErrInvalidArgument)
	}
	if uint64(len(data)) != byteSize(m) {
		return nil, fmt.Errorf("%w: expected %d bit bytes, got %d", ErrInvalidArgument, byteSize(m), len(data))
	}

	bits := &bitArray{data: append([]byte(nil), data...), nbits: m}
	return &Filter{
		bits:   bits,
		scheme: newHashScheme(m, s0, s1, hasher),
		k:      int(k),
	}, nil
}
