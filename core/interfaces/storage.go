// ABOUTME: Storage interface for the rendered page
// ABOUTME: Each run replaces the single output file

package interfaces

// PageWriter replaces the file at path with data
type PageWriter interface {
	// Write must leave the previous content in place if it fails
	Write(path string, data []byte) error
}
