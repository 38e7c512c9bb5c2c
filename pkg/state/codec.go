package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	gametypes "github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/klauspost/compress/zstd"
)

// EncodeDocument serializes a room document as zstd-compressed JSON.
func EncodeDocument(doc *gametypes.RoomDocument) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal room document: %v", err)
	}

	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress room document: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}

// DecodeDocument is the inverse of EncodeDocument.
func DecodeDocument(data []byte) (*gametypes.RoomDocument, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()
	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed room document: %v", err)
	}

	doc := &gametypes.RoomDocument{}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room document: %v", err)
	}
	return doc, nil
}
