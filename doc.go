/*
Package sprout grows binary classification trees and small forests of
them from numeric datasets.

A tree is grown top-down: at every node the feature scoring best on the
configured splitting criterion, among the ones not yet used on the path
from the root, is chosen, and the rows of the node are split at the
threshold with the lowest weighted Gini impurity. Nodes stop splitting
at the maximum depth, when no feature is left or when no threshold
separates their rows.

Forests are grown by workers pulling one task per tree from a
queue.Queue and putting the grown trees in a tree.Store, so the same
code grows them in a single process or across several sharing a redis
backend.
*/
package sprout
