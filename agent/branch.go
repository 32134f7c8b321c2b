package agent

import "context"

type branchKey struct{}

// buildBranchPath composes a hierarchical branch identifier. If parent is
// empty it returns child; otherwise it returns parent + "." + child. An empty
// child returns parent.
func buildBranchPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

// withBranchPath labels ctx with the branch path p.
func withBranchPath(ctx context.Context, p string) context.Context {
	return context.WithValue(ctx, branchKey{}, p)
}

// BranchPath returns the hierarchical label of the branch ctx belongs to, or
// "" on the root branch.
func BranchPath(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	p, _ := ctx.Value(branchKey{}).(string)
	return p
}
