package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/formgen/core"
)

// Key prefixes for different data types
const (
	formRecordPrefix     = "formrec"
	formOwnerPrefix      = "formownr"
	formIDSeq            = "formrecseq"
	submissionPrefix     = "subrec"
	submissionFormPrefix = "subform"
	submissionIDSeq      = "subrecseq"
	memoryRecordPrefix   = "memrec"
	memoryOwnerPrefix    = "memownr"
)

// idBytes serializes an ID for index values and composite key segments.
// BigEndian so lexicographic sort matches numeric order.
func idBytes(id core.ID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// idFromBytes deserializes an ID written by idBytes.
func idFromBytes(data []byte) (core.ID, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("invalid id encoding: %d bytes", len(data))
	}
	return core.ID(binary.BigEndian.Uint64(data)), nil
}

// makeFormKey generates a key for a form by ID.
func makeFormKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", formRecordPrefix, id))
}

// makeFormOwnerKey generates a composite key for the owner index.
// Format: prefix:owner:id
func makeFormOwnerKey(owner, id core.ID) []byte {
	prefix := []byte(formOwnerPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialFormOwnerKey generates a partial key for owner scans.
// Format: prefix:owner
func makePartialFormOwnerKey(owner core.ID) []byte {
	prefix := []byte(formOwnerPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	return buf
}

// makeSubmissionKey generates a key for a submission by ID.
func makeSubmissionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", submissionPrefix, id))
}

// makeSubmissionFormKey generates a composite key for the form index.
// Format: prefix:formID:submissionID
func makeSubmissionFormKey(form, id core.ID) []byte {
	prefix := []byte(submissionFormPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(form))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialSubmissionFormKey generates a partial key for form scans.
// Format: prefix:formID
func makePartialSubmissionFormKey(form core.ID) []byte {
	prefix := []byte(submissionFormPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(form))
	return buf
}

// makeMemoryKey generates a key for a memory record by ID.
func makeMemoryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", memoryRecordPrefix, id))
}

// makeMemoryOwnerKey generates a composite key for the memory owner index.
// Format: prefix:owner:id
func makeMemoryOwnerKey(owner, id core.ID) []byte {
	prefix := []byte(memoryOwnerPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialMemoryOwnerKey generates a partial key for memory owner scans.
// Format: prefix:owner
func makePartialMemoryOwnerKey(owner core.ID) []byte {
	prefix := []byte(memoryOwnerPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	return buf
}
