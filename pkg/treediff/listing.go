package treediff

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
)

// List walks root and returns the relative paths of all regular files,
// sorted by order.
func List(root string, order Order) (Listing, error) {
	listing := Listing{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("get relative path: %w", err)
		}

		listing = append(listing, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	Sort(listing, order)
	return listing, nil
}

func Sort(listing Listing, order Order) {
	slices.SortFunc(listing, order.Compare)
}
