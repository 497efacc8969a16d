// Package tree holds the domain model of treeindex: streams with canonical
// names, fragmentations and their buckets, immutable events, and the TREE
// vocabulary used to describe navigation between views.
//
// Fragmentation strategies form a closed set (Kind); each kind maps to one
// TREE relation type through Kind.RelationType.
package tree
