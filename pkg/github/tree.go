package github

import "context"

// FindFile locates the first file named name anywhere in the repository
// tree and returns its path. The search is depth-first: entries are
// scanned in the order the API returned them, and a directory is fully
// explored before its later siblings. The first match anywhere wins.
//
// An explicit work stack stands in for call-stack recursion, so depth is
// bounded by the tree rather than the goroutine stack and a future depth
// cap costs one comparison. A listing that fails or comes back empty ends
// that branch only; the search backtracks instead of aborting.
func (c *Client) FindFile(ctx context.Context, fullName, name string) (string, bool) {
	root, err := c.ListDirectory(ctx, fullName, "")
	if err != nil {
		c.logger.Debug("root listing failed", "repo", fullName, "error", err)
		return "", false
	}

	// Entries are pushed in reverse so the stack pops them in listing
	// order, reproducing the recursion the contents API implies.
	stack := make([]TreeEntry, 0, len(root))
	push := func(entries []TreeEntry) {
		for i := len(entries) - 1; i >= 0; i-- {
			stack = append(stack, entries[i])
		}
	}
	push(root)

	for len(stack) > 0 {
		if ctx.Err() != nil {
			return "", false
		}
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch entry.Kind {
		case EntryFile:
			if entry.Name == name {
				return entry.Path, true
			}
		case EntryDir:
			children, err := c.ListDirectory(ctx, fullName, entry.Path)
			if err != nil {
				c.logger.Debug("listing failed, skipping branch",
					"repo", fullName, "path", entry.Path, "error", err)
				continue
			}
			push(children)
		}
	}
	return "", false
}
