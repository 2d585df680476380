package util

import (
	"crypto/md5"
	"encoding/json"

	"github.com/google/uuid"
)

// HashUUID derives a stable UUID from the JSON form of value, so equal values
// always map to the same id. It returns "" when value cannot be marshalled.
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	sum := md5.Sum(raw)
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		return ""
	}
	return id.String()
}
