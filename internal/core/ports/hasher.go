package ports

// Hasher fingerprints files.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint returns a stable content hash of the file at path.
	Fingerprint(path string) (string, error)
}
