/*
Package feature defines the pieces a decision tree uses to look at its
input: samples that provide numeric values by feature name, the
threshold criteria that route samples down the branches of a tree and the
metadata telling features apart from the label in a table.
*/
package feature
