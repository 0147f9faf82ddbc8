package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/pawhaven/docindex/core"
)

// Key prefixes for different data types
const (
	documentPrefix       = "docrec"
	documentFolderPrefix = "docfol"
	documentIDSeq        = "docrecseq"
	chunkPrefix          = "docchk"
	chunkIDSeq           = "docchkseq"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeFolderKey generates a composite key for the folder index.
// Format: prefix:folderID:documentID, BigEndian so lexicographic
// iteration yields folder-grouped, ID-ordered keys.
func makeFolderKey(folderID, documentID core.ID) []byte {
	prefix := documentFolderPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(folderID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}

// makePartialFolderKey generates the iteration prefix for one folder.
func makePartialFolderKey(folderID core.ID) []byte {
	prefix := documentFolderPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(folderID))
	return buf
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:documentID:chunkIndex, BigEndian so iterating a
// document's chunk range visits chunks in ChunkIndex order.
func makeChunkKey(documentID core.ID, chunkIndex int) []byte {
	prefix := chunkPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makePartialChunkKey generates the iteration prefix for one document's chunks.
func makePartialChunkKey(documentID core.ID) []byte {
	prefix := chunkPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}
