//go:build sqlite

package runstore

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}
