/*
Package queue defines the tasks to grow the trees of a forest and the
Queue workers pull them from.

New returns a Queue kept in the process memory; the redisq subpackage
provides one shared through redis.
*/
package queue
