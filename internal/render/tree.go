package render

import (
	"strconv"

	"github.com/xlab/treeprint"

	"github.com/roach88/regram/internal/gramquery"
)

// Tree returns an indented dump of q rooted at "GramQuery".
//
//	GramQuery
//	└── OR
//	    ├── AND
//	    │   ├── "bcd"
//	    │   └── "dat"
//	    └── ...
func Tree(q gramquery.Query) string {
	return TreeWithRoot("GramQuery", q)
}

// TreeWithRoot is Tree with a custom root label, used to label pipeline
// stages in explain output.
func TreeWithRoot(root string, q gramquery.Query) string {
	tree := treeprint.NewWithRoot(root)
	writeQueryTree(tree, q)
	return tree.String()
}

func writeQueryTree(tree treeprint.Tree, q gramquery.Query) {
	if gramquery.IsAny(q) {
		tree.AddNode("ANY")
		return
	}
	switch n := q.(type) {
	case gramquery.Leaf:
		tree.AddNode(strconv.Quote(n.Gram))
	case gramquery.And:
		branch := tree.AddMetaBranch(n.Len(), "AND")
		for _, child := range n.Children() {
			writeQueryTree(branch, child)
		}
	case gramquery.Or:
		branch := tree.AddMetaBranch(n.Len(), "OR")
		for _, child := range n.Children() {
			writeQueryTree(branch, child)
		}
	}
}
