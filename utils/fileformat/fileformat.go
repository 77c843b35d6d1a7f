package fileformat

import (
	"path"
	"strings"

	"github.com/twinj/uuid"
)

// UniqueFormat builds a collision-free object key from an uploaded filename.
func UniqueFormat(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return uuid.NewV4().String() + ext
}
