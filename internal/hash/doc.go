// Package hash wraps CRC32-Castagnoli, the checksum used by the container
// file layout and by S3 uploads.
package hash
